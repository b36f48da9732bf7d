package main

import (
	"fmt"

	docassist "github.com/alnah/go-docassist"
)

// poolAdapter exposes a docassist.ProcessorPool through the Pool interface.
type poolAdapter struct {
	pool *docassist.ProcessorPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// Acquire gets a processor from the pool. Blocks if all are in use.
func (a *poolAdapter) Acquire() Runner {
	return a.pool.Acquire()
}

// Release returns a processor to the pool.
// Panics if r was not acquired from a docassist pool (programmer error).
func (a *poolAdapter) Release(r Runner) {
	proc, ok := r.(*docassist.Processor)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", r))
	}
	a.pool.Release(proc)
}

// Size returns the pool capacity.
func (a *poolAdapter) Size() int {
	return a.pool.Size()
}
