package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lixenwraith/sinklog/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func drain[T any](t *testing.T, q *Queue[T]) []T {
	t.Helper()
	var items []T
	for {
		item, ok := q.TryDequeue()
		if !ok {
			return items
		}
		items = append(items, item)
	}
}

func fill(t *testing.T, q *Queue[int], from, to int) {
	t.Helper()
	for i := from; i <= to; i++ {
		require.NoError(t, q.Enqueue(context.Background(), i))
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New[int](0, Block)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = New[int](4, OverflowPolicy(42))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	q, err := New[int](4, DiscardNew)
	require.NoError(t, err)
	assert.Equal(t, 4, q.Cap())
	assert.Equal(t, DiscardNew, q.Policy())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("discard_oldest")
	require.NoError(t, err)
	assert.Equal(t, DiscardOldest, p)

	p, err = ParsePolicy("drop_new")
	require.NoError(t, err)
	assert.Equal(t, DiscardNew, p)

	_, err = ParsePolicy("spill")
	assert.Error(t, err)
	assert.Equal(t, "block", Block.String())
}

// TestFIFO verifies a single producer's items come out in order
func TestFIFO(t *testing.T) {
	q, err := New[int](8, Block)
	require.NoError(t, err)

	for round := 0; round < 3; round++ {
		fill(t, q, 1, 6)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, drain(t, q))
	}
}

// TestDiscardNew verifies a full queue keeps its contents and counts the drop
func TestDiscardNew(t *testing.T) {
	q, err := New[int](4, DiscardNew)
	require.NoError(t, err)

	fill(t, q, 1, 4)
	require.NoError(t, q.Enqueue(context.Background(), 99))

	assert.Equal(t, uint64(1), q.Dropped())
	assert.Equal(t, []int{1, 2, 3, 4}, drain(t, q))

	q.ResetCounters()
	assert.Zero(t, q.Dropped())
}

// TestDiscardOldest verifies the oldest item is evicted to make room
func TestDiscardOldest(t *testing.T) {
	var evicted []int
	q, err := New[int](4, DiscardOldest, WithOnEvict(func(v int) {
		evicted = append(evicted, v)
	}))
	require.NoError(t, err)

	fill(t, q, 1, 4)
	require.NoError(t, q.Enqueue(context.Background(), 5))

	assert.Equal(t, uint64(1), q.Overrun())
	assert.Equal(t, []int{1}, evicted)
	assert.Equal(t, []int{2, 3, 4, 5}, drain(t, q))
}

// TestDiscardOldestSkipsPinned verifies pinned items survive eviction
func TestDiscardOldestSkipsPinned(t *testing.T) {
	q, err := New[int](4, DiscardOldest, WithPinned(func(v int) bool { return v < 0 }))
	require.NoError(t, err)

	fill(t, q, -1, -1)
	fill(t, q, 2, 4)
	require.NoError(t, q.Enqueue(context.Background(), 5))

	assert.Equal(t, []int{-1, 3, 4, 5}, drain(t, q))
}

// TestDiscardOldestAllPinnedBlocks verifies the fallback to waiting
func TestDiscardOldestAllPinnedBlocks(t *testing.T) {
	q, err := New[int](2, DiscardOldest, WithPinned(func(v int) bool { return v < 0 }))
	require.NoError(t, err)

	fill(t, q, -2, -1)
	err = q.EnqueueTimeout(7, 20*time.Millisecond)
	assert.ErrorIs(t, err, core.ErrTimeout)

	done := make(chan error, 1)
	go func() { done <- q.Enqueue(context.Background(), 7) }()

	v, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -2, v)
	require.NoError(t, <-done)
	assert.Equal(t, []int{-1, 7}, drain(t, q))
}

// TestBlockUnblocksOnDequeue verifies a blocked producer resumes when a slot frees
func TestBlockUnblocksOnDequeue(t *testing.T) {
	q, err := New[int](2, Block)
	require.NoError(t, err)
	fill(t, q, 1, 2)

	var entered atomic.Bool
	done := make(chan error, 1)
	go func() {
		entered.Store(true)
		done <- q.Enqueue(context.Background(), 3)
	}()

	require.Eventually(t, entered.Load, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("enqueue returned while queue was full")
	case <-time.After(20 * time.Millisecond):
	}

	v, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("producer still blocked after dequeue")
	}
	assert.Equal(t, []int{2, 3}, drain(t, q))
}

// TestBlockUnblocksOnClose verifies blocked producers fail with ErrQueueClosed
func TestBlockUnblocksOnClose(t *testing.T) {
	q, err := New[int](1, Block)
	require.NoError(t, err)
	fill(t, q, 1, 1)

	const producers = 3
	errs := make(chan error, producers)
	for i := 0; i < producers; i++ {
		go func(v int) { errs <- q.Enqueue(context.Background(), v) }(i + 10)
	}
	time.Sleep(20 * time.Millisecond)
	q.Close()
	q.Close()

	for i := 0; i < producers; i++ {
		select {
		case err := <-errs:
			assert.ErrorIs(t, err, core.ErrQueueClosed)
		case <-time.After(time.Second):
			t.Fatal("producer not released by close")
		}
	}
	assert.True(t, q.Closed())
}

// TestBlockTimeout verifies the bounded wait variant
func TestBlockTimeout(t *testing.T) {
	q, err := New[int](1, Block)
	require.NoError(t, err)
	fill(t, q, 1, 1)

	start := time.Now()
	err = q.EnqueueTimeout(2, 30*time.Millisecond)
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, 1, q.Len())
}

// TestEnqueueWaitIgnoresPolicy verifies control messages are never discarded
func TestEnqueueWaitIgnoresPolicy(t *testing.T) {
	q, err := New[int](1, DiscardNew)
	require.NoError(t, err)
	fill(t, q, 1, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = q.EnqueueWait(ctx, 2)
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.Zero(t, q.Dropped())
}

// TestDequeueDrainsAfterClose verifies remaining items are delivered before ErrQueueClosed
func TestDequeueDrainsAfterClose(t *testing.T) {
	q, err := New[int](4, Block)
	require.NoError(t, err)
	fill(t, q, 1, 3)
	q.Close()

	assert.ErrorIs(t, q.Enqueue(context.Background(), 4), core.ErrQueueClosed)

	for want := 1; want <= 3; want++ {
		v, err := q.Dequeue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	_, err = q.Dequeue(context.Background())
	assert.ErrorIs(t, err, core.ErrQueueClosed)
}

// TestDequeueContext verifies a waiting consumer honors cancellation
func TestDequeueContext(t *testing.T) {
	q, err := New[int](2, Block)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestConcurrentOccupancy verifies occupancy never exceeds capacity and no
// item is lost or duplicated under concurrent producers and consumers
func TestConcurrentOccupancy(t *testing.T) {
	const (
		capacity  = 8
		producers = 4
		perProd   = 250
		consumers = 3
	)
	q, err := New[int](capacity, Block)
	require.NoError(t, err)

	var (
		maxSeen atomic.Int64
		seenMu  sync.Mutex
		seen    = make(map[int]int)
		prodWG  sync.WaitGroup
		consWG  sync.WaitGroup
	)

	for c := 0; c < consumers; c++ {
		consWG.Add(1)
		go func() {
			defer consWG.Done()
			for {
				n := int64(q.Len())
				for {
					cur := maxSeen.Load()
					if n <= cur || maxSeen.CompareAndSwap(cur, n) {
						break
					}
				}
				v, err := q.Dequeue(context.Background())
				if err != nil {
					return
				}
				seenMu.Lock()
				seen[v]++
				seenMu.Unlock()
			}
		}()
	}

	for p := 0; p < producers; p++ {
		prodWG.Add(1)
		go func(p int) {
			defer prodWG.Done()
			for i := 0; i < perProd; i++ {
				assert.NoError(t, q.Enqueue(context.Background(), p*perProd+i))
			}
		}(p)
	}

	prodWG.Wait()
	q.Close()
	consWG.Wait()

	assert.LessOrEqual(t, maxSeen.Load(), int64(capacity))
	assert.Len(t, seen, producers*perProd)
	for v, n := range seen {
		assert.Equal(t, 1, n, "item %d delivered %d times", v, n)
	}
}

// TestSingleConsumerPerProducerOrder verifies per-producer FIFO with one consumer
func TestSingleConsumerPerProducerOrder(t *testing.T) {
	const producers, perProd = 3, 200
	q, err := New[[2]int](4, Block)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProd; i++ {
				assert.NoError(t, q.Enqueue(context.Background(), [2]int{p, i}))
			}
		}(p)
	}
	go func() {
		wg.Wait()
		q.Close()
	}()

	last := []int{-1, -1, -1}
	count := 0
	for {
		item, err := q.Dequeue(context.Background())
		if err != nil {
			break
		}
		assert.Greater(t, item[1], last[item[0]])
		last[item[0]] = item[1]
		count++
	}
	assert.Equal(t, producers*perProd, count)
}
