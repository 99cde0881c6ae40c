// FILE: lixenwraith/sinklog/example/gnet/main.go
package main

import (
	"context"

	"github.com/panjf2000/gnet/v2"

	log "github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := log.NewBuilder().
		Name("gnet").
		Directory("/var/log/gnet").
		LevelString("debug").
		Format("json").
		Async(true).
		Build()
	if err != nil {
		panic(err)
	}
	defer log.Shutdown(context.Background())

	gnetAdapter := compat.NewGnetAdapter(logger)

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
