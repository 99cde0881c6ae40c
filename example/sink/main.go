// FILE: lixenwraith/sinklog/example/sink/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/formatter"
	"github.com/lixenwraith/sinklog/sink"
)

const logDirectory = "./temp_logs"

// main wires several sinks into one logger and shows how per-sink levels,
// formatters and file hooks interact.
func main() {
	// Ensure a clean state by removing the previous log directory.
	if err := os.RemoveAll(logDirectory); err != nil {
		fmt.Printf("Warning: could not remove old log directory: %v\n", err)
	}

	fmt.Println("--- Running Sink Showcase ---")
	fmt.Printf("! All file-based logs will be in the '%s' directory.\n\n", logDirectory)

	registry := log.NewRegistry()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := registry.Shutdown(ctx); err != nil {
			fmt.Printf("  WARNING: Shutdown error: %v\n", err)
		}
	}()

	// File hooks write a header into every newly opened file
	events := sink.FileEvents{
		AfterOpen: func(name string, f *os.File) {
			fmt.Fprintf(f, "# opened %s at %s\n", filepath.Base(name), time.Now().Format(time.RFC3339))
		},
		BeforeClose: func(name string, f *os.File) {
			fmt.Fprintf(f, "# closing %s\n", filepath.Base(name))
		},
	}

	// Everything goes to a daily file named by a strftime pattern
	daily, err := sink.NewDaily(filepath.Join(logDirectory, "app-%Y%m%d.log"), 0, 0,
		sink.WithFilenameFunc(sink.StrftimeFilename),
		sink.WithMaxFiles(7),
		sink.WithFileEvents(events),
	)
	if err != nil {
		fmt.Printf("Fatal: could not open daily sink: %v\n", err)
		os.Exit(1)
	}

	// Errors also go to a rotating JSON file
	errorsOnly, err := sink.NewRotating(filepath.Join(logDirectory, "errors.json"), 64*1024, 3,
		sink.WithLevel(core.LevelError),
		sink.WithFormatter(formatter.New().Type(formatter.FormatJSON)),
	)
	if err != nil {
		fmt.Printf("Fatal: could not open rotating sink: %v\n", err)
		os.Exit(1)
	}

	// Warnings and above are mirrored to stderr
	console := sink.NewStderr(sink.WithLevel(core.LevelWarn))

	// The last records stay in memory for a status page
	recent, err := sink.NewRingbuffer(5)
	if err != nil {
		fmt.Printf("Fatal: could not create ringbuffer: %v\n", err)
		os.Exit(1)
	}

	// A callback counts critical records
	var criticals int
	alert := sink.NewCallback(func(rec core.Record) error {
		criticals++
		return nil
	}, sink.WithLevel(core.LevelCritical))

	fanout := sink.NewDist([]sink.Sink{daily, errorsOnly, console})
	logger, err := registry.Create("showcase", []sink.Sink{fanout, recent, alert},
		log.WithLevel(log.LevelDebug),
		log.WithFlushLevel(log.LevelError),
	)
	if err != nil {
		fmt.Printf("Fatal: could not create logger: %v\n", err)
		os.Exit(1)
	}

	logger.Debug("starting", "phase", 1)
	logger.Info("listening", "addr", ":8080")
	logger.Warn("slow request", "ms", 1200)
	logger.Error("request failed", "status", 500)
	logger.Critical("database unreachable")

	// Dropping the console from the fan-out silences stderr
	fanout.Remove(console)
	logger.Warn("not on stderr any more")

	fmt.Println("\n[Recent records]")
	for _, line := range recent.Last(0) {
		fmt.Print(line)
	}
	fmt.Printf("\nCritical records seen: %d\n", criticals)

	fmt.Println("\n--- Sink Showcase Complete ---")
	fmt.Printf("Check the '%s' directory for log files.\n", logDirectory)
}
