// FILE: lixenwraith/daylog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/daylog"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps daylog.Logger to implement the fasthttp Logger interface
type FastHTTPAdapter struct {
	logger        *daylog.Logger
	defaultLevel  int64
	levelDetector func(string) int64 // Function to detect log level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *daylog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  daylog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when no level is detected
func WithDefaultLevel(level int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content
func WithLevelDetector(detector func(string) int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != daylog.LevelInfo {
			level = detected
		}
	}

	switch level {
	case daylog.LevelDebug:
		a.logger.Debug(msg, "source", "fasthttp")
	case daylog.LevelWarn:
		a.logger.Warn(msg, "source", "fasthttp")
	case daylog.LevelError:
		a.logger.Error(msg, "source", "fasthttp")
	default:
		a.logger.Info(msg, "source", "fasthttp")
	}
}

// DetectLogLevel guesses a level from message content, LevelInfo when nothing matches
func DetectLogLevel(msg string) int64 {
	msgLower := strings.ToLower(msg)

	switch {
	case containsAny(msgLower, "error", "failed", "fatal", "panic"):
		return daylog.LevelError
	case containsAny(msgLower, "warn", "deprecated"):
		return daylog.LevelWarn
	case containsAny(msgLower, "debug", "trace"):
		return daylog.LevelDebug
	default:
		return daylog.LevelInfo
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
