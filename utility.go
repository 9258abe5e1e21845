// FILE: lixenwraith/daylog/utility.go
package daylog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "daylog: ") {
		format = "daylog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// Level converts level string to numeric constant.
func Level(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info", "log":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warn, error, fatal)", levelStr)
	}
}

// normalizeDirectory resolves dir to an absolute, cleaned path
func normalizeDirectory(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// fileNameStem strips the extension and any " (N)" collision suffix from a log file name
func fileNameStem(name, ext string) (string, bool) {
	suffix := "." + ext
	if ext == "" {
		suffix = ""
	}
	if !strings.HasSuffix(name, suffix) {
		return "", false
	}
	stem := name[:len(name)-len(suffix)]
	if strings.HasSuffix(stem, ")") {
		if open := strings.LastIndex(stem, " ("); open > 0 {
			n := stem[open+2 : len(stem)-1]
			if n != "" && strings.Trim(n, "0123456789") == "" {
				stem = stem[:open]
			}
		}
	}
	return stem, stem != ""
}
