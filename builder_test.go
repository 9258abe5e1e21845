// FILE: lixenwraith/daylog/builder_test.go
package daylog

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("successful build returns configured logger", func(t *testing.T) {
		// Create a temporary directory for the test
		tmpDir := t.TempDir()

		// Use the builder to create a logger with custom settings
		logger, err := NewBuilder().
			Directory(tmpDir).
			LevelString("debug").
			Name("api").
			Format(FormatRaw).
			EnableFile(true).
			EnableConsole(false).
			ConsoleTarget("stderr").
			Extension("txt").
			RotationInterval(time.Hour).
			MaxFileAge(7 * 24 * time.Hour).
			UseZuluTime(false).
			InternalErrorsToStderr(false).
			Build()

		// Ensure the logger is cleaned up
		if logger != nil {
			defer logger.Close()
		}

		// Check for build errors
		require.NoError(t, err, "Builder.Build() should not return an error on valid config")
		require.NotNil(t, logger, "Builder.Build() should return a non-nil logger")
		assert.Equal(t, StateOpen, logger.State(), "Build opens the logger")

		// Retrieve the configuration from the logger to verify it was applied correctly
		cfg := logger.GetConfig()
		require.NotNil(t, cfg, "Logger.GetConfig() should return a non-nil config")

		// Assert that the configuration values match what was set
		assert.Equal(t, tmpDir, cfg.Directory)
		assert.Equal(t, LevelDebug, cfg.Level)
		assert.Equal(t, "api", cfg.Name)
		assert.Equal(t, FormatRaw, cfg.Format)
		assert.True(t, cfg.EnableFile)
		assert.False(t, cfg.EnableConsole)
		assert.Equal(t, "stderr", cfg.ConsoleTarget)
		assert.Equal(t, "txt", cfg.Extension)
		assert.Equal(t, int64(3600000), cfg.RotationIntervalMs)
		assert.Equal(t, int64(7*24*3600000), cfg.MaxFileAgeMs)
		assert.False(t, cfg.UseZuluTime)
		assert.False(t, cfg.InternalErrorsToStderr)

		assert.Equal(t, ".txt", filepath.Ext(logger.CurrentFilePath()))
	})

	t.Run("builder error accumulation", func(t *testing.T) {
		// Use an invalid level string to trigger an error within the builder
		logger, err := NewBuilder().
			LevelString("invalid-level-string").
			Directory("/some/dir"). // This should not be evaluated
			Build()

		// Assert that an error is returned and it's the one we expect
		require.Error(t, err, "Build should fail with an invalid level string")
		assert.Contains(t, err.Error(), "invalid level string", "Error message should indicate invalid level")

		// Assert that the logger is nil because the build failed
		assert.Nil(t, logger, "A nil logger should be returned on build error")
	})

	t.Run("apply config validation error", func(t *testing.T) {
		logger, err := NewBuilder().
			Format("yaml").
			Build()

		require.Error(t, err)
		assert.True(t, IsKind(err, KindConfig))
		assert.Nil(t, logger)
	})

	t.Run("open error", func(t *testing.T) {
		// A regular file where the directory should be
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		logger, err := NewBuilder().
			Directory(blocker).
			EnableFile(true).
			Build()

		require.Error(t, err, "Build should fail when the directory cannot be created")
		assert.Contains(t, err.Error(), "failed to create log directory", "Error message should indicate directory creation failure")
		assert.True(t, IsKind(err, KindDirectoryCreation))
		assert.Nil(t, logger, "A nil logger should be returned on open error")
	})

	t.Run("non-positive max age keeps files forever", func(t *testing.T) {
		logger, err := NewBuilder().MaxFileAge(0).Build()
		require.NoError(t, err)
		defer logger.Close()
		assert.Equal(t, int64(-1), logger.GetConfig().MaxFileAgeMs)
	})
}

func TestBuilderCollaborators(t *testing.T) {
	var console bytes.Buffer
	var mu sync.Mutex
	var handled []error

	logger, err := NewBuilder().
		Console(&console).
		ShowTimestamp(false).
		RotationCron("0 3 * * *").
		ErrorHandler(func(err error) {
			mu.Lock()
			handled = append(handled, err)
			mu.Unlock()
		}).
		Build()
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "0 3 * * *", logger.GetConfig().RotationCron)

	logger.Warn("to buffer")
	assert.Equal(t, "WARN: to buffer\n", console.String())

	logger.report(newStateError("reported"))
	mu.Lock()
	require.Len(t, handled, 1)
	assert.True(t, IsKind(handled[0], KindState))
	mu.Unlock()
}
