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
	"math/rand/v2"
	"time"
)

// Ledger read operation types
const (
	OpTypeGetNym = "105"
)

// ProtocolVersion is the ledger request protocol version in use
const ProtocolVersion = 2

// AnonymousReader is the identifier used as the request submitter when no
// submitter DID is provided
const AnonymousReader = "LibindyDid111111111111"

// Request is a ledger read request
type Request struct {
	ReqID           uint64    `json:"reqId"`
	Identifier      string    `json:"identifier"`
	Operation       Operation `json:"operation"`
	ProtocolVersion int       `json:"protocolVersion"`
}

// Operation is the operation payload of a ledger request
type Operation struct {
	Type string `json:"type"`
	Dest string `json:"dest"`
}

// NewGetNymRequest builds a GET_NYM read request for the given identifier.
// The dest must be a bare nym with no did: prefix. A nil submitter uses the
// anonymous reader identifier
func NewGetNymRequest(submitterDID *string, dest string) *Request {
	identifier := AnonymousReader
	if submitterDID != nil {
		identifier = *submitterDID
	}
	return &Request{
		ReqID:           newReqID(),
		Identifier:      identifier,
		Operation: Operation{
			Type: OpTypeGetNym,
			Dest: dest,
		},
		ProtocolVersion: ProtocolVersion,
	}
}

// newReqID generates a request ID in the same form the reference clients use:
// a timestamp with random low bits so concurrent requests don't collide
func newReqID() uint64 {
	return uint64(time.Now().UnixNano())<<8 | uint64(rand.Uint32()&0xff)
}
