// FILE: lixenwraith/sinklog/timer.go
package log

import (
	"sync"
	"time"
)

// periodicWorker runs fn on a ticker until stopped
type periodicWorker struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func startPeriodic(interval time.Duration, fn func()) *periodicWorker {
	if interval < minWaitTime {
		interval = minWaitTime
	}
	w := &periodicWorker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-w.stop:
				return
			}
		}
	}()
	return w
}

// Stop halts the ticker and waits for a running fn to return. Safe on nil.
func (w *periodicWorker) Stop() {
	if w == nil {
		return
	}
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}
