// FILE: lixenwraith/daylog/storage_test.go
package daylog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedStem(stem string) DateFunc {
	return func(t time.Time, layout string, zulu bool) string {
		if layout == DefaultFileNameFormat {
			return stem
		}
		return FormatDate(t, layout, zulu)
	}
}

func TestCreateTargetName(t *testing.T) {
	tmpDir := t.TempDir()
	logger := NewLogger()

	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	target, err := logger.createTarget(cfg, now)
	require.NoError(t, err)
	defer target.close()

	assert.Equal(t, filepath.Join(tmpDir, "2024-05-06T07-08-09.log"), target.path)
	info, err := os.Stat(target.path)
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "createTarget leaves sentinel writing to the caller")
}

func TestCreateTargetCollisionSuffix(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "fixed.log"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "fixed (1).log"), nil, 0644))

	logger, err := NewBuilder().
		Directory(tmpDir).
		EnableFile(true).
		EnableConsole(false).
		DateFormatter(fixedStem("fixed")).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "fixed (2).log", filepath.Base(logger.CurrentFilePath()))

	rotated, err := logger.rotate(time.Now())
	require.NoError(t, err)
	require.True(t, rotated)
	assert.Equal(t, "fixed (3).log", filepath.Base(logger.CurrentFilePath()))
	require.NoError(t, logger.Close())

	// Pre-existing files are left untouched
	data, err := os.ReadFile(filepath.Join(tmpDir, "fixed.log"))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestCreateTargetWithoutExtension(t *testing.T) {
	tmpDir := t.TempDir()
	logger := NewLogger()
	logger.SetDateFormatter(fixedStem("plain"))

	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.Extension = ""

	first, err := logger.createTarget(cfg, time.Now())
	require.NoError(t, err)
	defer first.close()
	second, err := logger.createTarget(cfg, time.Now())
	require.NoError(t, err)
	defer second.close()

	assert.Equal(t, "plain", filepath.Base(first.path))
	assert.Equal(t, "plain (1)", filepath.Base(second.path))
}

func TestCreateTargetMakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	logger := NewLogger()

	cfg := DefaultConfig()
	cfg.Directory = dir

	target, err := logger.createTarget(cfg, time.Now())
	require.NoError(t, err)
	defer target.close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, filepath.Dir(target.path))
}

func TestCreateTargetDirectoryErrors(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	tests := []struct {
		name string
		dir  string
	}{
		{"file in place of directory", blocker},
		{"file as parent component", filepath.Join(blocker, "sub")},
	}

	logger := NewLogger()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Directory = tt.dir

			_, err := logger.createTarget(cfg, time.Now())
			require.Error(t, err)

			var logErr *LogError
			require.True(t, errors.As(err, &logErr))
			assert.Equal(t, KindDirectoryCreation, logErr.Kind)
			assert.Equal(t, DirExists, logErr.DirCause)
			assert.Equal(t, tt.dir, logErr.Path)
		})
	}
}

func TestCreateTargetPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	tmpDir := t.TempDir()
	locked := filepath.Join(tmpDir, "locked")
	require.NoError(t, os.Mkdir(locked, 0500))
	t.Cleanup(func() { _ = os.Chmod(locked, 0700) })

	cfg := DefaultConfig()
	cfg.Directory = filepath.Join(locked, "logs")

	_, err := NewLogger().createTarget(cfg, time.Now())
	var logErr *LogError
	require.True(t, errors.As(err, &logErr))
	assert.Equal(t, KindDirectoryCreation, logErr.Kind)
	assert.Equal(t, DirPermission, logErr.DirCause)
}

func TestRetireWritesClosedSentinel(t *testing.T) {
	tmpDir := t.TempDir()
	logger := NewLogger()
	cfg := DefaultConfig()
	cfg.Directory = tmpDir

	target, err := logger.createTarget(cfg, time.Now())
	require.NoError(t, err)
	require.NoError(t, target.writeLine("payload"))

	logger.retire(target, time.Now())
	logger.state.retired.Wait()

	lines := readLines(t, target.path)
	require.Len(t, lines, 2)
	assert.Equal(t, "payload", lines[0])
	assert.True(t, isClosedSentinel(lines[1]))

	// The retired handle is closed
	assert.Error(t, target.writeLine("late"))
}

func TestSentinelFormat(t *testing.T) {
	logger := NewLogger()
	now := time.Date(2024, 5, 6, 7, 8, 9, 10_000_000, time.UTC)

	assert.Equal(t, "--- Log file created at 2024-05-06 07:08:09.010 +00:00 ---", logger.sentinel(createdSentinelFormat, now))
	assert.Equal(t, "--- Log file closed as of 2024-05-06 07:08:09.010 +00:00 ---", logger.sentinel(closedSentinelFormat, now))
	assert.True(t, strings.HasPrefix(logger.sentinel(createdSentinelFormat, time.Now()), "--- Log file created at "))
}
