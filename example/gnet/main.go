// FILE: example/gnet/main.go
package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/daylog"
	"github.com/lixenwraith/daylog/compat"
)

// echoServer echoes every inbound buffer
type echoServer struct {
	gnet.BuiltinEventEngine
	logger *daylog.Logger
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	es.logger.Debug("echo", "remote", c.RemoteAddr().String(), "bytes", len(buf))
	_, _ = c.Write(buf)
	return gnet.None
}

func main() {
	logger := daylog.NewLogger()
	err := logger.ApplyOverride(
		"directory=./gnet_logs",
		"enable_file=true",
		"level=debug",
		"format=raw",
	)
	if err != nil {
		panic(err)
	}
	if err := logger.Open(); err != nil {
		panic(err)
	}
	defer logger.Close()

	gnetAdapter := compat.NewGnetAdapter(logger)

	err = gnet.Run(
		&echoServer{logger: logger},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.Error("gnet stopped", "err", err)
	}
}
