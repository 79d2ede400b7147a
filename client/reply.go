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
	"encoding/json"
	"fmt"
)

// Reply envelope op values
const (
	OpReply   = "REPLY"
	OpReqNack = "REQNACK"
	OpReject  = "REJECT"
)

// Reply is a ledger node's response envelope to a read request
type Reply struct {
	Op     string  `json:"op"`
	Result *Result `json:"result,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// Result is the result body of a successful reply. Data is a nested JSON
// document transported as a string, or null when the requested record does
// not exist
type Result struct {
	Type         string          `json:"type"`
	Identifier   string          `json:"identifier,omitempty"`
	Dest         string          `json:"dest,omitempty"`
	Data         *string         `json:"data"`
	SeqNo        uint64          `json:"seqNo,omitempty"`
	TxnTime      uint64          `json:"txnTime,omitempty"`
	StateProof   *StateProofData `json:"state_proof,omitempty"`
	ReqSignature json.RawMessage `json:"reqSignature,omitempty"`
}

// StateProofData carries the state proof attached to a reply: the root hash
// the node claims was current, the proof nodes connecting the value to that
// root, and the pool's multi-signature over the root
type StateProofData struct {
	RootHash       string          `json:"root_hash"`
	ProofNodes     string          `json:"proof_nodes"`
	MultiSignature json.RawMessage `json:"multi_signature,omitempty"`
}

// NymData is the decoded data document of a GET_NYM reply
type NymData struct {
	Dest       string  `json:"dest"`
	Verkey     string  `json:"verkey"`
	Role       *string `json:"role"`
	Identifier string  `json:"identifier,omitempty"`
	SeqNo      uint64  `json:"seqNo,omitempty"`
	TxnTime    uint64  `json:"txnTime,omitempty"`
}

// NotFound reports whether the reply indicates the requested record does not
// exist on the ledger. A REQNACK or REJECT op, a missing result, or a null
// data document are all treated as not-found rather than errors
func (r *Reply) NotFound() bool {
	if r == nil || r.Op != OpReply {
		return true
	}
	return r.Result == nil || r.Result.Data == nil
}

// NymData decodes the nested data document of a GET_NYM reply
func (r *Reply) NymData() (*NymData, error) {
	if r.NotFound() {
		return nil, fmt.Errorf("reply has no data")
	}
	var nym NymData
	if err := json.Unmarshal([]byte(*r.Result.Data), &nym); err != nil {
		return nil, fmt.Errorf("decoding nym data: %w", err)
	}
	return &nym, nil
}
