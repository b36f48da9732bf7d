package docassist

import (
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent runs; each holds whole documents and
	// rendered pages in memory.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for MuPDF rendering and JPEG encoding.
	cpuDivisor = 2
)

// ProcessorPool hands out Processors for concurrent runs. Each Processor
// still runs one job at a time. Processors are created lazily on acquire.
type ProcessorPool struct {
	size    int
	proto   *Processor
	sem     chan *Processor
	mu      sync.Mutex
	created int
	closed  bool
}

// NewProcessorPool creates a pool with capacity for n Processors configured
// with opts. Option errors surface here rather than on Acquire.
func NewProcessorPool(n int, opts ...Option) (*ProcessorPool, error) {
	if n < 1 {
		n = 1
	}

	proto, err := NewProcessor(opts...)
	if err != nil {
		return nil, err
	}

	return &ProcessorPool{
		size:  n,
		proto: proto,
		sem:   make(chan *Processor, n),
	}, nil
}

// Acquire gets a processor from the pool, creating one if needed.
// Blocks if all processors are in use.
func (p *ProcessorPool) Acquire() *Processor {
	select {
	case proc := <-p.sem:
		return proc
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()
		return p.proto.clone()
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns a processor to the pool.
// The lock is released before sending to avoid deadlock when channel is full.
func (p *ProcessorPool) Release(proc *Processor) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- proc
}

// Close stops the pool. Processors already acquired may finish their run;
// releasing them afterwards is a no-op.
func (p *ProcessorPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return nil
}

// Size returns the pool capacity.
func (p *ProcessorPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware when the binary imports automaxprocs.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return max(MinPoolSize, min(n, MaxPoolSize))
}
