// FILE: lixenwraith/sinklog/example/raw/main.go
package main

import (
	"fmt"
	"os"

	log "github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/formatter"
	"github.com/lixenwraith/sinklog/sanitizer"
	"github.com/lixenwraith/sinklog/sink"
)

// TestPayload defines a struct for testing complex type serialization.
type TestPayload struct {
	RequestID uint64
	User      string
	Metrics   map[string]float64
}

func main() {
	fmt.Println("--- Logger Raw Format Test ---")

	// --- 1. Define the records to be tested ---
	// Record 1: A byte slice with special characters (newline, tab, null).
	byteRecord := []byte("binary\ndata\twith\x00null")

	// Record 2: A struct containing a uint64, a string, and a map.
	structRecord := TestPayload{
		RequestID: 9223372036854775807, // A large uint64
		User:      "test_user",
		Metrics: map[string]float64{
			"latency_ms":  15.7,
			"cpu_percent": 88.2,
		},
	}

	// --- 2. Raw output keeps the bytes as they are ---
	fmt.Println("\n[1] Raw output with the passthrough sanitizer")
	rawLogger := log.NewLogger("raw", []sink.Sink{
		sink.NewStdout(sink.WithFormatter(formatter.New(sanitizer.ForPolicy(sanitizer.PolicyRaw)).Type(formatter.FormatRaw))),
	})
	rawLogger.Info("Byte Record ->", byteRecord)
	rawLogger.Info("\nStruct Record ->", structRecord)
	fmt.Println()

	// --- 3. Txt output escapes control characters ---
	fmt.Println("\n[2] Txt output with the txt sanitizer")
	txtLogger := log.NewLogger("txt", []sink.Sink{
		sink.NewStdout(sink.WithFormatter(formatter.New(sanitizer.ForPolicy(sanitizer.PolicyTxt)))),
	})
	txtLogger.Info("Byte Record ->", byteRecord)
	txtLogger.Info("Struct Record ->", structRecord)

	// --- 4. JSON output escapes for a valid document per line ---
	fmt.Println("\n[3] JSON output")
	jsonLogger := log.NewLogger("json", []sink.Sink{
		sink.NewStdout(sink.WithFormatter(formatter.New(sanitizer.ForPolicy(sanitizer.PolicyJSON)).Type(formatter.FormatJSON))),
	})
	jsonLogger.Info("Byte Record ->", byteRecord)
	jsonLogger.Info("Struct Record ->", structRecord)

	for _, l := range []*log.Logger{rawLogger, txtLogger, jsonLogger} {
		if err := l.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Flush error: %v\n", err)
		}
	}
	fmt.Println("\n--- Test Complete ---")
}
