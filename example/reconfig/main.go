// FILE: lixenwraith/sinklog/example/reconfig/main.go
package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/formatter"
	"github.com/lixenwraith/sinklog/sink"
)

// Simulate rapid runtime reconfiguration while another goroutine logs
func main() {
	var count atomic.Int64

	registry := log.NewRegistry()
	ring, err := sink.NewRingbuffer(16)
	if err != nil {
		fmt.Printf("Ringbuffer error: %v\n", err)
		return
	}

	logger, err := log.NewBuilder().
		Registry(registry).
		Name("reconfig").
		Directory("./reconfig_logs").
		Async(true).
		Sink(ring).
		Build()
	if err != nil {
		fmt.Printf("Initial build error: %v\n", err)
		return
	}

	// Log something constantly
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			logger.Info("Test log", i)
			count.Add(1)
			time.Sleep(time.Millisecond)
		}
	}()

	// Trigger multiple reconfigurations rapidly
	formats := []string{formatter.FormatTxt, formatter.FormatJSON, formatter.FormatRaw}
	for i := 0; i < 10; i++ {
		logger.SetFormatter(formatter.New().Type(formats[i%len(formats)]))
		if i%2 == 0 {
			logger.SetLevel(log.LevelWarn)
		} else {
			logger.SetLevel(log.LevelInfo)
		}
		logger.SetFlushLevel(log.LevelInfo)
		// Minimal delay between reconfigurations
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)
	close(stop)
	<-done
	fmt.Printf("Total logs attempted: %d\n", count.Load())

	if err := logger.Flush(); err != nil {
		fmt.Printf("Flush error: %v\n", err)
	}
	fmt.Println("Last records:")
	for _, line := range ring.Last(5) {
		fmt.Print(line)
	}
	fmt.Println()

	// Gracefully shut down the registry and its pool
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := registry.Shutdown(ctx); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}
}
