// FILE: lixenwraith/sinklog/example/fasthttp/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	log "github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/compat"
)

func main() {
	// Create and configure logger
	logger, err := log.NewBuilder().
		Name("fasthttp").
		Directory("/var/log/fasthttp").
		LevelString("info").
		Format("txt").
		Async(true).
		QueueSize(2048).
		Build()
	if err != nil {
		panic(err)
	}
	defer log.Shutdown(context.Background())

	// Application code logs through log/slog
	slog.SetDefault(slog.New(compat.NewSlogHandler(logger)))

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(log.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	slog.Debug("request", "path", string(ctx.Path()), "method", string(ctx.Method()))
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) (log.Level, bool) {
	// Specific fasthttp message patterns first
	if strings.Contains(msg, "connection cannot be served") {
		return log.LevelWarn, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return log.LevelError, true
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
