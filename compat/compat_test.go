// FILE: lixenwraith/daylog/compat/compat_test.go
package compat

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/daylog"
)

// createTestCompatBuilder opens a raw-format logger writing to a buffer
func createTestCompatBuilder(t *testing.T) (*Builder, *daylog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	appLogger, err := daylog.NewBuilder().
		Format(daylog.FormatRaw).
		LevelString("debug").
		Console(buf).
		Build()
	require.NoError(t, err)

	builder := NewBuilder().WithLogger(appLogger)
	return builder, appLogger, buf
}

// parseLines decodes every JSON line written to buf
func parseLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line: %s", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestCompatBuilder(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		builder, logger, _ := createTestCompatBuilder(t)
		defer logger.Close()

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Equal(t, logger, gnetAdapter.logger)

		got, err := builder.GetLogger()
		require.NoError(t, err)
		assert.Same(t, logger, got)
	})

	t.Run("with config", func(t *testing.T) {
		logCfg := daylog.DefaultConfig()
		logCfg.Directory = t.TempDir()
		logCfg.EnableFile = true
		logCfg.EnableConsole = false

		builder := NewBuilder().WithConfig(logCfg)
		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.NotNil(t, fasthttpAdapter)

		logger, err := builder.GetLogger()
		require.NoError(t, err)
		assert.Equal(t, daylog.StateOpen, logger.State())
		assert.NotEmpty(t, logger.CurrentFilePath())
		require.NoError(t, logger.Close())
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)
	})
}

func TestGnetAdapter(t *testing.T) {
	builder, logger, buf := createTestCompatBuilder(t)

	var fatalMsg string
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	expected := []struct{ level, msg string }{
		{"debug", "gnet debug id=1"},
		{"info", "gnet info id=2"},
		{"warn", "gnet warn id=3"},
		{"error", "gnet error id=4"},
		{"fatal", "gnet fatal id=5"},
	}

	entries := parseLines(t, buf)
	require.Len(t, entries, len(expected))
	for i, entry := range entries {
		assert.Equal(t, expected[i].level, entry["level"])
		assert.Equal(t, expected[i].msg, entry["msg"])
		fields := entry["fields"].(map[string]any)
		assert.Equal(t, "gnet", fields["source"])
	}

	assert.Equal(t, "gnet fatal id=5", fatalMsg)
	assert.Equal(t, daylog.StateClosed, logger.State(), "Fatalf closes the logger")
}

func TestGnetAdapterFatalClosesFile(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := daylog.NewBuilder().
		Directory(tmpDir).
		EnableFile(true).
		EnableConsole(false).
		Build()
	require.NoError(t, err)

	path := logger.CurrentFilePath()
	adapter := NewGnetAdapter(logger, WithFatalHandler(func(string) {}))
	adapter.Fatalf("shutting down: %s", "bind failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "FATAL: shutting down: bind failed")
	assert.True(t, strings.HasPrefix(lines[2], "--- Log file closed as of "))
}

func TestFastHTTPAdapter(t *testing.T) {
	builder, logger, buf := createTestCompatBuilder(t)
	defer logger.Close()

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	testMessages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
	}
	for _, msg := range testMessages {
		adapter.Printf("%s", msg)
	}

	expectedLevels := []string{"info", "debug", "warn", "error"}
	entries := parseLines(t, buf)
	require.Len(t, entries, 4)
	for i, entry := range entries {
		assert.Equal(t, expectedLevels[i], entry["level"])
		assert.Equal(t, testMessages[i], entry["msg"])
		fields := entry["fields"].(map[string]any)
		assert.Equal(t, "fasthttp", fields["source"])
	}
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	builder, logger, buf := createTestCompatBuilder(t)
	defer logger.Close()

	adapter, err := builder.BuildFastHTTP(
		WithDefaultLevel(daylog.LevelWarn),
		WithLevelDetector(func(string) int64 { return daylog.LevelInfo }),
	)
	require.NoError(t, err)

	adapter.Printf("an error that the detector ignores")

	entries := parseLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "warn", entries[0]["level"])
}

func TestDetectLogLevel(t *testing.T) {
	assert.Equal(t, daylog.LevelError, DetectLogLevel("Request FAILED"))
	assert.Equal(t, daylog.LevelError, DetectLogLevel("panic recovered"))
	assert.Equal(t, daylog.LevelWarn, DetectLogLevel("deprecated header"))
	assert.Equal(t, daylog.LevelDebug, DetectLogLevel("trace id 42"))
	assert.Equal(t, daylog.LevelInfo, DetectLogLevel("listening on :8080"))
}
