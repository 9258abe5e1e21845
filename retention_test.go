// FILE: lixenwraith/daylog/retention_test.go
package daylog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))
	return path
}

func TestPurgeExpired(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Close()
	require.NoError(t, logger.ApplyOverride("max_file_age_ms=86400000"))

	now := time.Now()
	oldStem := now.UTC().Add(-48 * time.Hour).Format(DefaultFileNameFormat)
	recentStem := now.UTC().Add(-2 * time.Hour).Format(DefaultFileNameFormat)

	expired := writeFile(t, tmpDir, oldStem+".log")
	expiredSuffix := writeFile(t, tmpDir, oldStem+" (3).log")
	recent := writeFile(t, tmpDir, recentStem+".log")
	otherExt := writeFile(t, tmpDir, oldStem+".txt")
	unparsable := writeFile(t, tmpDir, "notes.log")
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, oldStem+".log.d"), 0755))

	deleted, err := logger.purgeExpired(now)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	assert.NoFileExists(t, expired)
	assert.NoFileExists(t, expiredSuffix)
	assert.FileExists(t, recent)
	assert.FileExists(t, otherExt)
	assert.FileExists(t, unparsable)
	assert.FileExists(t, logger.CurrentFilePath())
	assert.Equal(t, uint64(2), logger.Stats().Deletions)
}

func TestPurgeNeverDeletesCurrentTarget(t *testing.T) {
	tmpDir := t.TempDir()
	oldStem := time.Now().UTC().Add(-48 * time.Hour).Format(DefaultFileNameFormat)

	logger, err := NewBuilder().
		Directory(tmpDir).
		EnableFile(true).
		EnableConsole(false).
		MaxFileAge(time.Hour).
		DateFormatter(fixedStem(oldStem)).
		Build()
	require.NoError(t, err)
	defer logger.Close()

	sibling := writeFile(t, tmpDir, oldStem+" (7).log")

	deleted, err := logger.purgeExpired(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.NoFileExists(t, sibling)
	assert.FileExists(t, logger.CurrentFilePath())
}

func TestPurgeSkippedForCustomFileNameFormat(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewBuilder().
		Directory(tmpDir).
		EnableFile(true).
		EnableConsole(false).
		FileNameFormat("20060102-150405").
		MaxFileAge(time.Hour).
		Build()
	require.NoError(t, err)
	defer logger.Close()

	old := writeFile(t, tmpDir, time.Now().UTC().Add(-48*time.Hour).Format("20060102-150405")+".log")

	deleted, err := logger.purgeExpired(time.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.FileExists(t, old)
}

func TestPurgeDisabledWithoutMaxAge(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Close()

	old := writeFile(t, tmpDir, time.Now().UTC().Add(-48*time.Hour).Format(DefaultFileNameFormat)+".log")

	deleted, err := logger.purgeExpired(time.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.FileExists(t, old)
}

func TestPurgeLocalTime(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("UTC+5", 5*60*60)
	defer func() { time.Local = saved }()

	tmpDir := t.TempDir()
	logger := NewLogger()
	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.UseZuluTime = false
	cfg.MaxFileAgeMs = (3 * time.Hour).Milliseconds()
	require.NoError(t, logger.ApplyConfig(cfg))

	now := time.Now()
	// Four hours old in local time; read as UTC it would lie in the future
	old := writeFile(t, tmpDir, now.In(time.Local).Add(-4*time.Hour).Format(DefaultFileNameFormat)+".log")

	deleted, err := logger.purgeExpired(now)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.NoFileExists(t, old)
}

func TestPurgeMissingDirectory(t *testing.T) {
	logger := NewLogger()
	cfg := DefaultConfig()
	cfg.Directory = filepath.Join(t.TempDir(), "absent")
	cfg.MaxFileAgeMs = 1000
	require.NoError(t, logger.ApplyConfig(cfg))

	_, err := logger.purgeExpired(time.Now())
	assert.True(t, IsKind(err, KindFileHandle))
}

func TestLogFileCount(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.log")
	writeFile(t, tmpDir, "b (1).log")
	writeFile(t, tmpDir, "c.txt")
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "d.log"), 0755))

	count, err := logFileCount(tmpDir, "log")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = logFileCount(filepath.Join(tmpDir, "missing"), "log")
	require.NoError(t, err)
	assert.Zero(t, count)
}
