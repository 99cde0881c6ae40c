// FILE: lixenwraith/sinklog/cmd/simple/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	log "github.com/lixenwraith/sinklog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[log]
  name = "simple"
  level = "debug"
  flush_level = "error"
  directory = "./simple_logs"
  format = "txt"
  extension = "log"
  file_mode = "daily"
  max_files = 7
  show_timestamp = true
  show_level = true
  flush_interval_ms = 100
  trace_depth = 0
  # Other settings use the defaults of log.DefaultConfig
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// --- Setup Config ---
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created dummy config file: %s\n", configFile)

	cfg, err := log.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// --- Initialize Logger ---
	logger, err := log.NewFromConfig(log.DefaultRegistry(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := log.SetDefault(logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set default logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger initialized.")

	// Level changes in the config file apply without a restart
	watcher, err := log.WatchLevels(log.DefaultRegistry(), configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to watch config: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Stop()

	// --- Logging ---
	log.Debug("This is a debug message.", "user_id", 123)
	log.Info("Application starting...")
	log.Warn("Potential issue detected.", "threshold", 0.95)
	log.Error("An error occurred!", "code", 500)

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("Goroutine started", "id", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			logger.InfoTrace(1, "Goroutine finished", "id", id) // Log with trace
		}(i)
	}

	wg.Wait()
	fmt.Println("Goroutines finished.")

	// Raise the level through the watched file, debug records are dropped afterwards
	raised := strings.Replace(tomlContent, `level = "debug"`, `level = "warn"`, 1)
	if err := os.WriteFile(configFile, []byte(raised), 0644); err == nil {
		time.Sleep(300 * time.Millisecond)
		fmt.Printf("Level after reload: %s\n", logger.Level())
		log.Debug("Dropped after reload.")
		log.Warn("Still logged after reload.")
	}

	// --- Shutdown Logger ---
	fmt.Println("Shutting down logger...")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := log.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in './simple_logs' and the config '%s'.\n", configFile)
}
