// FILE: lixenwraith/sinklog/processor.go
package log

import (
	"context"
	"sync"
)

// worker dispatches queued messages until the queue is closed and drained
func (p *Pool) worker(id int) {
	if p.cfg.OnWorkerStart != nil {
		p.cfg.OnWorkerStart(id)
	}
	if p.cfg.OnWorkerStop != nil {
		defer p.cfg.OnWorkerStop(id)
	}

	for {
		msg, err := p.q.Dequeue(context.Background())
		if err != nil {
			// Closed and empty
			return
		}

		switch msg.kind {
		case msgLog:
			msg.logger.dispatch(msg.rec)
			p.state.Processed.Add(1)
		case msgFlush:
			msg.barrier.arrive()
		}
	}
}

// flushBarrier gathers one marker per worker. Workers block at the barrier
// until all markers have arrived; the last one flushes the logger's sinks
// and releases the others.
type flushBarrier struct {
	logger  *Logger
	parties int

	mu      sync.Mutex
	arrived int
	aborted bool
	err     error
	done    chan struct{}
}

func newFlushBarrier(l *Logger, parties int) *flushBarrier {
	return &flushBarrier{
		logger:  l,
		parties: parties,
		done:    make(chan struct{}),
	}
}

// arrive is called by a worker holding a marker
func (b *flushBarrier) arrive() {
	b.mu.Lock()
	if b.aborted {
		b.mu.Unlock()
		return
	}
	b.arrived++
	if b.arrived < b.parties {
		b.mu.Unlock()
		<-b.done
		return
	}
	b.mu.Unlock()

	err := b.logger.flushSinks()

	b.mu.Lock()
	b.err = err
	close(b.done)
	b.mu.Unlock()
}

// abort releases workers waiting on a barrier whose markers could not all
// be posted. Markers still queued become no-ops.
func (b *flushBarrier) abort(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.aborted || b.arrived >= b.parties {
		return
	}
	b.aborted = true
	b.err = err
	close(b.done)
}
