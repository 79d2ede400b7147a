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

package pool

import "fmt"

// ConfigError indicates the pool's configuration cannot produce a usable
// connection, such as missing or unparseable genesis transactions. Open
// fails with this error before any network activity
type ConfigError struct {
	Pool   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("pool %s: invalid configuration: %s", e.Pool, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// OpenError indicates the underlying connection to the ledger network could
// not be established. Open does not retry; retries are the caller's
// responsibility
type OpenError struct {
	Pool string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("pool %s: open failed: %s", e.Pool, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// CloseError indicates the underlying connection could not be closed after
// exhausting the internal retries. The pool may be leaking its connection
type CloseError struct {
	Pool     string
	Attempts int
	Err      error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf(
		"pool %s: close failed after %d attempts: %s",
		e.Pool,
		e.Attempts,
		e.Err,
	)
}

func (e *CloseError) Unwrap() error {
	return e.Err
}
