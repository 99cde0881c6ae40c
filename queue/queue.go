// Package queue provides a bounded, blocking multi-producer multi-consumer
// FIFO queue with a configurable overflow policy.
package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/sinklog/core"
)

// OverflowPolicy selects what Enqueue does when the queue is full
type OverflowPolicy int

const (
	// Block waits for a free slot
	Block OverflowPolicy = iota
	// DiscardNew drops the incoming item
	DiscardNew
	// DiscardOldest evicts the oldest evictable item to make room
	DiscardOldest
)

// String returns the configuration name of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case Block:
		return "block"
	case DiscardNew:
		return "discard_new"
	case DiscardOldest:
		return "discard_oldest"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name to an OverflowPolicy
func ParsePolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "block", "":
		return Block, nil
	case "discard_new", "drop_new", "drop_newest":
		return DiscardNew, nil
	case "discard_oldest", "drop_oldest", "overrun_oldest":
		return DiscardOldest, nil
	default:
		return Block, core.Errorf(core.ErrInvalidConfig, "unknown overflow policy '%s' (use block, discard_new, discard_oldest)", s)
	}
}

// Option configures a Queue
type Option[T any] func(*Queue[T])

// WithPinned marks items that DiscardOldest must never evict
func WithPinned[T any](pinned func(T) bool) Option[T] {
	return func(q *Queue[T]) {
		q.pinned = pinned
	}
}

// WithOnEvict registers a callback receiving each item evicted by DiscardOldest.
// The callback runs after the queue lock is released.
func WithOnEvict[T any](onEvict func(T)) Option[T] {
	return func(q *Queue[T]) {
		q.onEvict = onEvict
	}
}

// Queue is a fixed capacity ring buffer guarded by a single mutex.
// Occupancy never exceeds capacity and items leave in arrival order.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buf    []T
	head   int
	count  int
	closed bool

	policy  OverflowPolicy
	pinned  func(T) bool
	onEvict func(T)

	dropped atomic.Uint64
	overrun atomic.Uint64
}

// New creates a queue holding at most capacity items
func New[T any](capacity int, policy OverflowPolicy, opts ...Option[T]) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, core.Errorf(core.ErrInvalidConfig, "queue capacity must be positive: %d", capacity)
	}
	if policy < Block || policy > DiscardOldest {
		return nil, core.Errorf(core.ErrInvalidConfig, "unknown overflow policy: %d", int(policy))
	}
	q := &Queue[T]{
		buf:    make([]T, capacity),
		policy: policy,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Enqueue inserts item according to the queue's overflow policy.
// Under Block it waits until a slot frees, the queue closes or ctx ends.
func (q *Queue[T]) Enqueue(ctx context.Context, item T) error {
	switch q.policy {
	case DiscardNew:
		return q.pushOrDrop(item)
	case DiscardOldest:
		return q.pushEvicting(ctx, item)
	default:
		return q.push(ctx, item)
	}
}

// EnqueueTimeout is Enqueue bounded by a maximum wait
func (q *Queue[T]) EnqueueTimeout(item T, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return q.Enqueue(ctx, item)
}

// EnqueueWait inserts item waiting for space regardless of the overflow policy.
// It is used for control messages that must not be dropped.
func (q *Queue[T]) EnqueueWait(ctx context.Context, item T) error {
	return q.push(ctx, item)
}

// Dequeue removes the oldest item, waiting until one is available.
// After Close it keeps returning remaining items, then ErrQueueClosed.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	err := q.wait(ctx, q.notEmpty, func() bool { return q.count > 0 })
	if err != nil {
		if q.count > 0 {
			return q.take(), nil
		}
		return zero, err
	}
	return q.take(), nil
}

// TryDequeue removes the oldest item without waiting
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.count == 0 {
		return zero, false
	}
	return q.take(), true
}

// Close marks the queue closed and wakes every waiter. Idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Closed reports whether Close has been called
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the current occupancy
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the fixed capacity
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

// Policy returns the overflow policy
func (q *Queue[T]) Policy() OverflowPolicy {
	return q.policy
}

// Dropped returns the number of items discarded by DiscardNew
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}

// Overrun returns the number of items evicted by DiscardOldest
func (q *Queue[T]) Overrun() uint64 {
	return q.overrun.Load()
}

// ResetCounters zeroes the dropped and overrun counters
func (q *Queue[T]) ResetCounters() {
	q.dropped.Store(0)
	q.overrun.Store(0)
}

func (q *Queue[T]) push(ctx context.Context, item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.wait(ctx, q.notFull, q.hasSpace); err != nil {
		return err
	}
	q.put(item)
	return nil
}

func (q *Queue[T]) pushOrDrop(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return core.ErrQueueClosed
	}
	if !q.hasSpace() {
		q.dropped.Add(1)
		return nil
	}
	q.put(item)
	return nil
}

func (q *Queue[T]) pushEvicting(ctx context.Context, item T) error {
	q.mu.Lock()

	// Falls back to waiting only when every queued item is pinned
	err := q.wait(ctx, q.notFull, func() bool {
		return q.hasSpace() || q.oldestEvictable() >= 0
	})
	if err != nil {
		q.mu.Unlock()
		return err
	}

	var (
		evicted    T
		hasEvicted bool
	)
	if !q.hasSpace() {
		evicted = q.removeAt(q.oldestEvictable())
		hasEvicted = true
		q.overrun.Add(1)
	}
	q.put(item)
	q.mu.Unlock()

	if hasEvicted && q.onEvict != nil {
		q.onEvict(evicted)
	}
	return nil
}

// wait blocks on cond until ready holds, the queue closes or ctx ends.
// Must be called with mu held.
func (q *Queue[T]) wait(ctx context.Context, cond *sync.Cond, ready func() bool) error {
	var stop func() bool
	defer func() {
		if stop != nil {
			stop()
		}
	}()

	for {
		if q.closed {
			return core.ErrQueueClosed
		}
		if ready() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return core.Errorf(core.ErrTimeout, "queue wait: %w", err)
		}
		if stop == nil && ctx.Done() != nil {
			stop = context.AfterFunc(ctx, func() {
				q.mu.Lock()
				cond.Broadcast()
				q.mu.Unlock()
			})
		}
		cond.Wait()
	}
}

func (q *Queue[T]) hasSpace() bool {
	return q.count < len(q.buf)
}

func (q *Queue[T]) put(item T) {
	q.buf[(q.head+q.count)%len(q.buf)] = item
	q.count++
	q.notEmpty.Signal()
}

func (q *Queue[T]) take() T {
	var zero T
	item := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	q.notFull.Signal()
	return item
}

// oldestEvictable returns the offset from head of the oldest item that is
// not pinned, or -1.
func (q *Queue[T]) oldestEvictable() int {
	if q.pinned == nil {
		if q.count > 0 {
			return 0
		}
		return -1
	}
	for i := 0; i < q.count; i++ {
		if !q.pinned(q.buf[(q.head+i)%len(q.buf)]) {
			return i
		}
	}
	return -1
}

// removeAt removes the item at offset i from head, preserving the order of
// the remaining items.
func (q *Queue[T]) removeAt(i int) T {
	size := len(q.buf)
	item := q.buf[(q.head+i)%size]
	for j := i; j > 0; j-- {
		q.buf[(q.head+j)%size] = q.buf[(q.head+j-1)%size]
	}
	var zero T
	q.buf[q.head] = zero
	q.head = (q.head + 1) % size
	q.count--
	return item
}
