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

package pool_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	test "github.com/blinklabs-io/govdr/internal/test"
	"github.com/blinklabs-io/govdr/pool"
	"go.uber.org/goleak"
)

func testPool(
	cfg pool.Config,
	factory *test.MockFactory,
) *pool.LedgerPool {
	if cfg.Name == "" {
		cfg.Name = "test-pool"
	}
	if cfg.GenesisTransactions == "" {
		cfg.GenesisTransactions = test.GenesisBlob(
			"192.0.2.1:9702",
			"192.0.2.2:9702",
		)
	}
	return pool.New(cfg, pool.WithTransportFactory(factory.New))
}

func TestOpenMissingGenesis(t *testing.T) {
	factory := &test.MockFactory{Transport: &test.MockTransport{}}
	p := pool.New(
		pool.Config{Name: "no-genesis"},
		pool.WithTransportFactory(factory.New),
	)
	err := p.Open()
	if err == nil {
		t.Fatalf("expected error opening pool with no genesis config")
	}
	var cfgErr *pool.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("did not get expected ConfigError, got %T: %s", err, err)
	}
	if factory.Opens() != 0 {
		t.Fatalf(
			"expected zero transport opens, got %d",
			factory.Opens(),
		)
	}
	if p.Opened() {
		t.Fatalf("expected pool to remain unopened")
	}
}

func TestOpenInvalidGenesis(t *testing.T) {
	factory := &test.MockFactory{Transport: &test.MockTransport{}}
	p := pool.New(
		pool.Config{
			Name:                "bad-genesis",
			GenesisTransactions: "{not json",
		},
		pool.WithTransportFactory(factory.New),
	)
	var cfgErr *pool.ConfigError
	if err := p.Open(); !errors.As(err, &cfgErr) {
		t.Fatalf("did not get expected ConfigError, got %v", err)
	}
}

func TestAcquireReleaseNoKeepalive(t *testing.T) {
	defer goleak.VerifyNone(t)
	factory := &test.MockFactory{Transport: &test.MockTransport{}}
	p := testPool(pool.Config{}, factory)
	for i := 0; i < 3; i++ {
		release, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatalf("unexpected error acquiring pool: %s", err)
		}
		if !p.Opened() {
			t.Fatalf("expected pool to be opened after Acquire")
		}
		if p.Handle() == nil {
			t.Fatalf("expected usable handle after Acquire")
		}
		release()
		if p.Opened() {
			t.Fatalf("expected pool to close synchronously with no keepalive")
		}
	}
	// Each cycle reopens the transport
	if factory.Opens() != 3 {
		t.Fatalf("expected 3 transport opens, got %d", factory.Opens())
	}
	if p.RefCount() != 0 {
		t.Fatalf("expected zero refcount, got %d", p.RefCount())
	}
}

func TestAcquireNested(t *testing.T) {
	defer goleak.VerifyNone(t)
	factory := &test.MockFactory{Transport: &test.MockTransport{}}
	p := testPool(pool.Config{}, factory)
	release1, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error acquiring pool: %s", err)
	}
	release2, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error acquiring pool: %s", err)
	}
	if p.RefCount() != 2 {
		t.Fatalf("expected refcount 2, got %d", p.RefCount())
	}
	release1()
	if !p.Opened() {
		t.Fatalf("expected pool to stay open with outstanding reference")
	}
	// A second invocation of the same release is a no-op
	release1()
	if p.RefCount() != 1 {
		t.Fatalf("expected refcount 1, got %d", p.RefCount())
	}
	release2()
	if p.Opened() {
		t.Fatalf("expected pool to close after final release")
	}
	if factory.Opens() != 1 {
		t.Fatalf("expected 1 transport open, got %d", factory.Opens())
	}
}

func TestKeepaliveDeferredClose(t *testing.T) {
	defer goleak.VerifyNone(t)
	factory := &test.MockFactory{Transport: &test.MockTransport{}}
	p := testPool(pool.Config{Keepalive: 50 * time.Millisecond}, factory)
	release, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error acquiring pool: %s", err)
	}
	release()
	if !p.Opened() {
		t.Fatalf("expected pool to stay open during keepalive window")
	}
	deadline := time.Now().Add(2 * time.Second)
	for p.Opened() {
		if time.Now().After(deadline) {
			t.Fatalf("pool did not close after keepalive expired")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestKeepaliveCancelReusesHandle(t *testing.T) {
	defer goleak.VerifyNone(t)
	factory := &test.MockFactory{Transport: &test.MockTransport{}}
	p := testPool(pool.Config{Keepalive: 10 * time.Second}, factory)
	release, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error acquiring pool: %s", err)
	}
	release()
	if !p.Opened() {
		t.Fatalf("expected pool to stay open during keepalive window")
	}
	// Re-acquire before the deferred close fires
	release2, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error re-acquiring pool: %s", err)
	}
	if factory.Opens() != 1 {
		t.Fatalf(
			"expected handle reuse with 1 transport open, got %d",
			factory.Opens(),
		)
	}
	release2()
	// Shut down the pending keepalive timer for goleak
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error closing pool: %s", err)
	}
	if p.Opened() {
		t.Fatalf("expected pool to be closed")
	}
}

func TestCloseRetriesThenBumpsRefCount(t *testing.T) {
	defer goleak.VerifyNone(t)
	transport := &test.MockTransport{}
	factory := &test.MockFactory{Transport: transport}
	p := testPool(pool.Config{}, factory)
	release, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error acquiring pool: %s", err)
	}
	transport.SetCloseErr(fmt.Errorf("connection stuck"))
	// Release drives the refcount to zero and attempts a synchronous
	// close, which fails and re-increments the count
	release()
	if transport.CloseCalls() != 3 {
		t.Fatalf(
			"expected 3 close attempts, got %d",
			transport.CloseCalls(),
		)
	}
	if !p.Opened() {
		t.Fatalf("expected pool to remain opened after failed close")
	}
	if p.RefCount() != 1 {
		t.Fatalf(
			"expected refcount 1 after failed close, got %d",
			p.RefCount(),
		)
	}
	// Once the transport recovers, an explicit Close succeeds
	transport.SetCloseErr(nil)
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error closing pool: %s", err)
	}
	if p.Opened() {
		t.Fatalf("expected pool to be closed")
	}
}

func TestExplicitCloseError(t *testing.T) {
	transport := &test.MockTransport{}
	factory := &test.MockFactory{Transport: transport}
	p := testPool(pool.Config{}, factory)
	if err := p.Open(); err != nil {
		t.Fatalf("unexpected error opening pool: %s", err)
	}
	transport.SetCloseErr(fmt.Errorf("connection stuck"))
	err := p.Close()
	var closeErr *pool.CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("did not get expected CloseError, got %v", err)
	}
	if closeErr.Attempts != 3 {
		t.Fatalf("expected 3 attempts reported, got %d", closeErr.Attempts)
	}
}

func TestAcquireCancelledContext(t *testing.T) {
	factory := &test.MockFactory{Transport: &test.MockTransport{}}
	p := testPool(pool.Config{}, factory)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Acquire(ctx); err == nil {
		t.Fatalf("expected error acquiring with cancelled context")
	}
	if factory.Opens() != 0 {
		t.Fatalf("expected zero transport opens, got %d", factory.Opens())
	}
}
