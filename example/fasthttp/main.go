// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/daylog"
	"github.com/lixenwraith/daylog/compat"
)

func main() {
	logger, err := daylog.NewBuilder().
		Directory("./fasthttp_logs").
		EnableFile(true).
		Name("http").
		RotationInterval(time.Hour).
		MaxFileAge(48 * time.Hour).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(daylog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	server := &fasthttp.Server{
		Handler: requestHandler(logger),
		Logger:  fasthttpAdapter,

		Name:         "daylog-example",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Error("server stopped", "err", err)
	}
}

func requestHandler(logger *daylog.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		ctx.SetContentType("text/plain")
		fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
		logger.Info("request served",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"took", time.Since(start),
		)
	}
}

func customLevelDetector(msg string) int64 {
	if strings.Contains(msg, "connection cannot be served") {
		return daylog.LevelWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return daylog.LevelError
	}
	return compat.DetectLogLevel(msg)
}
