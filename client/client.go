// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package client implements the read-request boundary to a single ledger
// network: request construction, the reply envelope, and the transport used
// to reach the network's nodes
package client

import (
	"context"
	"log/slog"
)

// ClientOptionFunc is a function that modifies Client config
type ClientOptionFunc func(*Client)

// WithLogger specifies the logger to use. If none is provided,
// slog.Default() is used
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client issues read requests to one ledger network through a Transport
type Client struct {
	transport Transport
	logger    *slog.Logger
}

// New returns a Client using the given transport
func New(transport Transport, options ...ClientOptionFunc) *Client {
	c := &Client{
		transport: transport,
	}
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// GetNym looks up the nym record for the given identifier. The dest must be
// a bare nym. A REQNACK/REJECT or empty record is returned as a reply, not
// an error; only transport failures error
func (c *Client) GetNym(
	ctx context.Context,
	submitterDID *string,
	dest string,
) (*Reply, error) {
	req := NewGetNymRequest(submitterDID, dest)
	c.logger.Debug(
		"submitting ledger read request",
		"component", "client",
		"type", req.Operation.Type,
		"dest", dest,
		"reqId", req.ReqID,
	)
	return c.transport.Submit(ctx, req)
}

// Close releases the underlying transport
func (c *Client) Close() error {
	return c.transport.Close()
}
