// FILE: lixenwraith/daylog/retention.go
package daylog

import (
	"os"
	"path/filepath"
	"time"
)

// purgeExpired deletes log files in the configured directory whose name encodes a creation
// time older than max_file_age_ms. Only names produced by the default file name format are
// considered, and the current target is never touched. Individual deletion failures are
// reported and skipped; the returned count is the number of files removed.
func (l *Logger) purgeExpired(now time.Time) (int, error) {
	c := l.getConfig()
	if !c.purgeEnabled() {
		return 0, nil
	}

	dir, err := normalizeDirectory(c.Directory)
	if err != nil {
		return 0, newFileHandleError("failed to resolve log directory for retention", c.Directory, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, newFileHandleError("failed to read log directory for retention", dir, err)
	}

	loc := time.Local
	if c.UseZuluTime {
		loc = time.UTC
	}
	maxAge := time.Duration(c.MaxFileAgeMs) * time.Millisecond
	current := l.CurrentFilePath()

	var deletedCount int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem, ok := fileNameStem(entry.Name(), c.Extension)
		if !ok {
			continue
		}
		created, err := time.ParseInLocation(c.FileNameFormat, stem, loc)
		if err != nil {
			continue
		}
		if now.Sub(created) <= maxAge {
			continue
		}

		filePath := filepath.Join(dir, entry.Name())
		if filePath == current {
			continue
		}
		if err := os.Remove(filePath); err != nil {
			l.report(newFileHandleError("failed to remove expired log file", filePath, err))
			continue
		}
		deletedCount++
		l.state.TotalDeletions.Add(1)
	}

	return deletedCount, nil
}

// logFileCount counts files in dir carrying the log extension
func logFileCount(dir, ext string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return -1, newFileHandleError("failed to read log directory", dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := fileNameStem(entry.Name(), ext); ok {
			count++
		}
	}
	return count, nil
}
