package main

// Notes:
// - poolAdapter: we test Acquire/Release/Size and the panic on a Runner that
//   did not come from the pool.

import (
	"context"
	"strings"
	"testing"

	docassist "github.com/alnah/go-docassist"
)

// wrongTypeRunner is a Runner that is NOT *docassist.Processor.
type wrongTypeRunner struct{}

func (wrongTypeRunner) Run(context.Context, docassist.Input, docassist.ProgressSink) (*docassist.Result, error) {
	return &docassist.Result{}, nil
}

// ---------------------------------------------------------------------------
// TestPoolAdapter - Pool adapter behavior
// ---------------------------------------------------------------------------

func TestPoolAdapter(t *testing.T) {
	t.Parallel()

	t.Run("acquire and release", func(t *testing.T) {
		t.Parallel()

		pool, err := docassist.NewProcessorPool(2)
		if err != nil {
			t.Fatalf("NewProcessorPool() error = %v", err)
		}
		defer func() { _ = pool.Close() }()

		adapter := &poolAdapter{pool: pool}
		if adapter.Size() != 2 {
			t.Errorf("Size() = %d, want 2", adapter.Size())
		}

		r := adapter.Acquire()
		if _, ok := r.(*docassist.Processor); !ok {
			t.Fatalf("Acquire() = %T, want *docassist.Processor", r)
		}
		adapter.Release(r)

		if again := adapter.Acquire(); again != r {
			t.Error("released processor should be reused")
		}
	})

	t.Run("release wrong type panics", func(t *testing.T) {
		t.Parallel()

		pool, err := docassist.NewProcessorPool(1)
		if err != nil {
			t.Fatalf("NewProcessorPool() error = %v", err)
		}
		adapter := &poolAdapter{pool: pool}

		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic for wrong type, got none")
			}
			msg, ok := r.(string)
			if !ok || !strings.Contains(msg, "unexpected type") {
				t.Errorf("panic = %v, want message containing 'unexpected type'", r)
			}
		}()

		adapter.Release(wrongTypeRunner{})
	})
}
