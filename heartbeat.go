// FILE: lixenwraith/sinklog/heartbeat.go
package log

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/formatter"
)

// StartHeartbeat writes pool and runtime statistics through target every
// interval. Heartbeats bypass target's level threshold; sinks still filter.
// A non-positive interval stops the heartbeat.
func (r *Registry) StartHeartbeat(interval time.Duration, target *Logger) error {
	if interval > 0 && target == nil {
		return core.Errorf(core.ErrInvalidConfig, "heartbeat requires a target logger")
	}

	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		return core.Errorf(core.ErrInvalidConfig, "registry is shut down")
	}
	old := r.heartbeat
	r.heartbeat = nil
	if interval > 0 {
		r.heartbeat = startPeriodic(interval, func() { r.handleHeartbeat(target) })
	}
	r.mu.Unlock()

	old.Stop()
	return nil
}

// handleHeartbeat processes a heartbeat timer tick
func (r *Registry) handleHeartbeat(target *Logger) {
	sequence := r.heartbeatSeq.Add(1)
	if p := r.Pool(); p != nil {
		logPoolHeartbeat(target, p, sequence)
	}
	logSysHeartbeat(target, sequence)
}

// logPoolHeartbeat logs worker pool statistics heartbeat
func logPoolHeartbeat(target *Logger, p *Pool, sequence uint64) {
	stats := p.Stats()

	droppedSinceLast := sinceLast(&p.state.reportedDropped, stats.Dropped)
	overrunSinceLast := sinceLast(&p.state.reportedOverrun, stats.Overrun)

	poolArgs := []any{
		"type", "pool",
		"sequence", sequence,
		"state", stats.State.String(),
		"uptime_hours", fmt.Sprintf("%.2f", stats.Uptime.Hours()),
		"workers", stats.Workers,
		"queued", stats.Queued,
		"capacity", stats.Capacity,
		"processed_logs", stats.Processed,
		"total_dropped_logs", stats.Dropped,
		"total_overrun_logs", stats.Overrun,
		"blocked_timeouts", stats.BlockedTimeouts,
	}

	// Add interval (since last pool heartbeat) losses if > 0
	if droppedSinceLast > 0 {
		poolArgs = append(poolArgs, "dropped_since_last", droppedSinceLast)
	}
	if overrunSinceLast > 0 {
		poolArgs = append(poolArgs, "overrun_since_last", overrunSinceLast)
	}

	writeHeartbeatRecord(target, poolArgs)
}

// sinceLast stores total as the last reported value and returns the growth.
// A counter reset in between reports the whole total.
func sinceLast(last *atomic.Uint64, total uint64) uint64 {
	prev := last.Swap(total)
	if total < prev {
		return total
	}
	return total - prev
}

// logSysHeartbeat logs system/runtime statistics heartbeat
func logSysHeartbeat(target *Logger, sequence uint64) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sysArgs := []any{
		"type", "sys",
		"sequence", sequence,
		"alloc_mb", fmt.Sprintf("%.2f", float64(memStats.Alloc)/(1000*1000)),
		"sys_mb", fmt.Sprintf("%.2f", float64(memStats.Sys)/(1000*1000)),
		"num_gc", memStats.NumGC,
		"num_goroutine", runtime.NumGoroutine(),
	}

	writeHeartbeatRecord(target, sysArgs)
}

// writeHeartbeatRecord submits an info record without the level check
func writeHeartbeatRecord(target *Logger, args []any) {
	rec := core.NewRecord(target.Name(), core.LevelInfo, formatter.Sprint(args...))
	target.submit(rec)
}
