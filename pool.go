// FILE: lixenwraith/sinklog/pool.go
package log

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/queue"
)

// PoolConfig holds the construction parameters of a Pool
type PoolConfig struct {
	// QueueSize is the fixed queue capacity, must be positive
	QueueSize int
	// Workers is the number of dispatching goroutines, must be positive
	Workers int
	// Policy decides what a full queue does with a new record
	Policy queue.OverflowPolicy
	// BlockTimeout bounds the wait of a Block enqueue, 0 waits indefinitely
	BlockTimeout time.Duration
	// OnWorkerStart and OnWorkerStop run on the worker goroutine
	OnWorkerStart func(id int)
	OnWorkerStop  func(id int)
}

// DefaultPoolConfig returns a single worker blocking pool configuration
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		QueueSize: DefaultQueueSize,
		Workers:   DefaultWorkers,
		Policy:    queue.Block,
	}
}

type msgKind uint8

const (
	msgLog msgKind = iota
	msgFlush
)

// poolMsg is one queue slot: a record for a logger or a flush marker
type poolMsg struct {
	kind    msgKind
	logger  *Logger
	rec     core.Record
	barrier *flushBarrier
}

// Pool is a bounded queue serviced by a fixed set of worker goroutines.
// A Pool may be shared by any number of async loggers.
type Pool struct {
	cfg   PoolConfig
	q     *queue.Queue[poolMsg]
	group errgroup.Group
	state State

	// flushMu keeps the markers of one barrier contiguous with respect to
	// other barriers
	flushMu      sync.Mutex
	shutdownOnce sync.Once
	done         chan struct{}
}

// NewPool validates cfg and starts the workers
func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.QueueSize <= 0 {
		return nil, core.Errorf(core.ErrInvalidConfig, "queue size must be positive: %d", cfg.QueueSize)
	}
	if cfg.Workers <= 0 {
		return nil, core.Errorf(core.ErrInvalidConfig, "worker count must be positive: %d", cfg.Workers)
	}
	if cfg.BlockTimeout < 0 {
		return nil, core.Errorf(core.ErrInvalidConfig, "block timeout cannot be negative: %v", cfg.BlockTimeout)
	}

	q, err := queue.New(cfg.QueueSize, cfg.Policy,
		queue.WithPinned(func(m poolMsg) bool { return m.kind == msgFlush }))
	if err != nil {
		return nil, err
	}

	p := &Pool{
		cfg:  cfg,
		q:    q,
		done: make(chan struct{}),
	}
	p.state.StartTime = time.Now()
	p.state.state.Store(int32(PoolRunning))

	for i := 0; i < cfg.Workers; i++ {
		id := i
		p.group.Go(func() error {
			p.worker(id)
			return nil
		})
	}
	return p, nil
}

// post enqueues a record under the pool's overflow policy
func (p *Pool) post(l *Logger, rec core.Record) error {
	ctx := context.Background()
	if p.cfg.BlockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.BlockTimeout)
		defer cancel()
	}

	err := p.q.Enqueue(ctx, poolMsg{kind: msgLog, logger: l, rec: rec})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrTimeout):
		p.state.BlockedTimeouts.Add(1)
	case errors.Is(err, core.ErrQueueClosed):
		p.state.EnqueueFailures.Add(1)
	}
	return core.Errorf(core.ErrDestination, "logger '%s': enqueue failed: %w", l.name, err)
}

// flush posts one marker per worker and waits for the barrier to complete.
// Every worker holds exactly one marker at the barrier, so every record
// enqueued before the first marker has been dispatched when it completes.
func (p *Pool) flush(ctx context.Context, l *Logger) error {
	b := newFlushBarrier(l, p.cfg.Workers)

	p.flushMu.Lock()
	for i := 0; i < p.cfg.Workers; i++ {
		if err := p.q.EnqueueWait(ctx, poolMsg{kind: msgFlush, logger: l, barrier: b}); err != nil {
			p.flushMu.Unlock()
			b.abort(err)
			if errors.Is(err, core.ErrQueueClosed) {
				return p.flushAfterShutdown(ctx, l)
			}
			return core.Errorf(core.ErrFlushFailed, "logger '%s': posting flush barrier: %w", l.name, err)
		}
	}
	p.flushMu.Unlock()

	select {
	case <-b.done:
		if b.err == nil {
			p.state.Flushes.Add(1)
		}
		return b.err
	case <-ctx.Done():
		return core.Errorf(core.ErrTimeout, "logger '%s': waiting for flush: %w", l.name, ctx.Err())
	}
}

// flushAfterShutdown waits for the workers to exit and flushes the sinks on
// the calling goroutine
func (p *Pool) flushAfterShutdown(ctx context.Context, l *Logger) error {
	select {
	case <-p.done:
		return l.flushSinks()
	case <-ctx.Done():
		return core.Errorf(core.ErrTimeout, "logger '%s': waiting for pool shutdown: %w", l.name, ctx.Err())
	}
}

// Shutdown stops accepting records, lets the workers drain the queue and
// waits for them to exit. It is idempotent; a ctx expiring first returns
// ErrTimeout while the workers keep draining.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() {
		p.state.state.Store(int32(PoolDraining))
		p.q.Close()
		go func() {
			_ = p.group.Wait()
			p.state.state.Store(int32(PoolStopped))
			close(p.done)
		}()
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return core.Errorf(core.ErrTimeout, "pool workers did not exit: %w", ctx.Err())
	}
}

// State returns the lifecycle stage
func (p *Pool) State() PoolState {
	return PoolState(p.state.state.Load())
}

// Config returns the construction parameters
func (p *Pool) Config() PoolConfig {
	return p.cfg
}

// Stats returns a snapshot of the pool counters
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		State:           p.State(),
		Workers:         p.cfg.Workers,
		Queued:          p.q.Len(),
		Capacity:        p.q.Cap(),
		Dropped:         p.q.Dropped(),
		Overrun:         p.q.Overrun(),
		Processed:       p.state.Processed.Load(),
		BlockedTimeouts: p.state.BlockedTimeouts.Load(),
		EnqueueFailures: p.state.EnqueueFailures.Load(),
		Flushes:         p.state.Flushes.Load(),
		Uptime:          time.Since(p.state.StartTime),
	}
}

// ResetCounters clears the dropped and overrun counters of the queue
func (p *Pool) ResetCounters() {
	p.q.ResetCounters()
}
