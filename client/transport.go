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

package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/btcsuite/go-socks/socks"
)

// Transport submits ledger read requests and returns the node's reply. It
// is the seam between resolution logic and the wire; implementations must be
// safe for concurrent use
type Transport interface {
	Submit(ctx context.Context, req *Request) (*Reply, error)
	Close() error
}

// DialFunc matches the signature of net.Dial and socks.Proxy.Dial
type DialFunc func(network string, addr string) (net.Conn, error)

// TCPTransportOptionFunc is a function that modifies TCPTransport config
type TCPTransportOptionFunc func(*TCPTransport)

// WithSocksProxy routes all connections through the given SOCKS5 proxy
// address
func WithSocksProxy(proxyAddr string) TCPTransportOptionFunc {
	return func(t *TCPTransport) {
		proxy := &socks.Proxy{Addr: proxyAddr}
		t.dial = proxy.Dial
	}
}

// WithDialFunc specifies a custom dial function
func WithDialFunc(dial DialFunc) TCPTransportOptionFunc {
	return func(t *TCPTransport) {
		t.dial = dial
	}
}

// TCPTransport submits requests to ledger nodes over newline-delimited JSON
// on TCP. Each request dials the next node address in rotation
type TCPTransport struct {
	addrs []string
	dial  DialFunc

	mu   sync.Mutex
	next int
}

// NewTCPTransport returns a TCPTransport for the given node addresses
func NewTCPTransport(
	addrs []string,
	options ...TCPTransportOptionFunc,
) (*TCPTransport, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no node addresses provided")
	}
	t := &TCPTransport{
		addrs: addrs,
		dial:  net.Dial,
	}
	for _, option := range options {
		option(t)
	}
	return t, nil
}

// Submit sends the request to a single node and decodes its reply. The
// context deadline, if any, bounds the whole round trip
func (t *TCPTransport) Submit(ctx context.Context, req *Request) (*Reply, error) {
	t.mu.Lock()
	addr := t.addrs[t.next%len(t.addrs)]
	t.next++
	t.mu.Unlock()
	conn, err := t.dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing ledger node %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
	}
	// Abort the connection if the context is cancelled mid-request
	stopWatch := make(chan struct{})
	defer close(stopWatch)
	go func() {
		select {
		case <-ctx.Done():
			conn.SetDeadline(time.Unix(1, 0))
		case <-stopWatch:
		}
	}()
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	reqBytes = append(reqBytes, '\n')
	if _, err := conn.Write(reqBytes); err != nil {
		return nil, fmt.Errorf("sending request to %s: %w", addr, err)
	}
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("reading reply from %s: %w", addr, err)
	}
	var reply Reply
	if err := json.Unmarshal(line, &reply); err != nil {
		return nil, fmt.Errorf("decoding reply from %s: %w", addr, err)
	}
	return &reply, nil
}

// Close releases the transport. TCPTransport holds no persistent
// connections, so this only exists to satisfy the Transport interface
func (t *TCPTransport) Close() error {
	return nil
}
