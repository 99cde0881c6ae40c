// FILE: lixenwraith/sinklog/cmd/heartbeat/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/lixenwraith/sinklog"
)

func main() {
	registry := log.NewRegistry()

	// Heartbeat records go to their own logger so they can be filtered apart
	cfg, err := log.DefaultConfig().ApplyOverride(
		"name=heartbeat",
		"directory=./logs",
		"file_name=heartbeat",
		"file_mode=basic",
		"level=error", // Heartbeats bypass the level of their target
		"enable_console=true",
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build config: %v\n", err)
		os.Exit(1)
	}
	target, err := log.NewFromConfig(registry, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize heartbeat logger: %v\n", err)
		os.Exit(1)
	}

	appCfg, err := cfg.ApplyOverride("name=app", "file_name=app", "level=debug", "async=true", "enable_console=false")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build config: %v\n", err)
		os.Exit(1)
	}
	app, err := log.NewFromConfig(registry, appCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app logger: %v\n", err)
		os.Exit(1)
	}

	// Test cycle: disabled -> 1s -> 3s -> disabled
	intervals := []time.Duration{0, time.Second, 3 * time.Second, 0}

	for _, interval := range intervals {
		if err := registry.StartHeartbeat(interval, target); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start heartbeat: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n--- Testing heartbeat interval %v ---\n", interval)

		// Generate some logs to move the pool counters
		for j := 0; j < 10; j++ {
			app.Debug("Debug test log", "iteration", j)
			app.Info("Info test log", "iteration", j)
			app.Warn("Warning test log", "iteration", j)
			app.Error("Error test log", "iteration", j)
			time.Sleep(100 * time.Millisecond)
		}

		waitTime := 4 * time.Second
		fmt.Printf("Waiting %v for heartbeats to generate...\n", waitTime)
		time.Sleep(waitTime)
	}

	// Final shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := registry.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to shut down logger: %v\n", err)
	}

	fmt.Println("\nHeartbeat test program completed successfully")
	fmt.Println("Check logs directory for generated log files")
}
