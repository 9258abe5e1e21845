// FILE: lixenwraith/daylog/storage.go
package daylog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// writeTarget is an open, append-only log file exclusively owned by one Logger
type writeTarget struct {
	path string
	file *os.File
}

// writeLine appends line and a newline to the file
func (t *writeTarget) writeLine(line string) error {
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	if _, err := t.file.Write(buf); err != nil {
		return newFileHandleError("failed to write to log file", t.path, err)
	}
	return nil
}

// close syncs and closes the file
func (t *writeTarget) close() error {
	var finalErr error
	if err := t.file.Sync(); err != nil {
		finalErr = newFileHandleError("failed to sync log file", t.path, err)
	}
	if err := t.file.Close(); err != nil {
		finalErr = combineErrors(finalErr, newFileHandleError("failed to close log file", t.path, err))
	}
	return finalErr
}

// ensureDirectory creates dir and any missing parents
func ensureDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return newDirectoryCreationError(dir, &fs.PathError{Op: "mkdir", Path: dir, Err: fs.ErrExist})
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return newDirectoryCreationError(dir, err)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return newDirectoryCreationError(dir, err)
	}
	return nil
}

// logFileName returns the candidate name for a file created at now, with the n-th collision suffix
func logFileName(stem, ext string, n int) string {
	if n > 0 {
		stem = fmt.Sprintf("%s (%d)", stem, n)
	}
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// createTarget ensures the output directory and exclusively creates a new dated log file.
// A name already taken gets " (N)" appended, N counting up from 1.
func (l *Logger) createTarget(cfg *Config, now time.Time) (*writeTarget, error) {
	dir, err := normalizeDirectory(cfg.Directory)
	if err != nil {
		return nil, newDirectoryCreationError(cfg.Directory, err)
	}
	if err := ensureDirectory(dir); err != nil {
		return nil, err
	}

	stem := l.dateFunc()(now, cfg.FileNameFormat, cfg.UseZuluTime)

	for n := 0; n <= maxCollisionSuffix; n++ {
		path := filepath.Join(dir, logFileName(stem, cfg.Extension, n))
		if _, err := os.Lstat(path); err == nil {
			continue
		}

		// O_EXCL guards against a file appearing between the check and the open
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL|os.O_APPEND, filePerm)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return nil, newFileHandleError("failed to create log file", path, err)
		}
		return &writeTarget{path: path, file: file}, nil
	}

	return nil, newFileHandleError("no free log file name", filepath.Join(dir, stem), nil)
}

// sentinel renders a created/closed marker line for now
func (l *Logger) sentinel(format string, now time.Time) string {
	cfg := l.getConfig()
	return fmt.Sprintf(format, l.dateFunc()(now, sentinelTimeLayout, cfg.UseZuluTime))
}

// retire writes the closing sentinel to a target that is no longer current and closes it
// in the background; Close waits for all retired targets.
func (l *Logger) retire(t *writeTarget, now time.Time) {
	line := l.sentinel(closedSentinelFormat, now)
	l.state.retired.Add(1)
	go func() {
		defer l.state.retired.Done()
		if err := t.writeLine(line); err != nil {
			l.report(err)
		}
		if err := t.close(); err != nil {
			l.report(err)
		}
	}()
}
