// FILE: lixenwraith/sinklog/state.go
package log

import (
	"sync/atomic"
	"time"
)

// PoolState is the lifecycle stage of a Pool
type PoolState int32

const (
	PoolStopped PoolState = iota
	PoolRunning
	PoolDraining
)

// String returns the state name
func (s PoolState) String() string {
	switch s {
	case PoolRunning:
		return "running"
	case PoolDraining:
		return "draining"
	default:
		return "stopped"
	}
}

// State encapsulates the runtime counters of a pool
type State struct {
	state           atomic.Int32
	StartTime       time.Time
	Processed       atomic.Uint64 // log messages dispatched by workers
	BlockedTimeouts atomic.Uint64 // enqueues that gave up after BlockTimeout
	EnqueueFailures atomic.Uint64 // enqueues rejected because the pool was closed
	Flushes         atomic.Uint64 // completed flush barriers

	// Totals at the last heartbeat
	reportedDropped atomic.Uint64
	reportedOverrun atomic.Uint64
}

// PoolStats is a point in time snapshot of a pool
type PoolStats struct {
	State           PoolState
	Workers         int
	Queued          int
	Capacity        int
	Dropped         uint64
	Overrun         uint64
	Processed       uint64
	BlockedTimeouts uint64
	EnqueueFailures uint64
	Flushes         uint64
	Uptime          time.Duration
}
