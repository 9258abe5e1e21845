// FILE: lixenwraith/daylog/record.go
package daylog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lixenwraith/daylog/formatter"
)

// log is the single entry point for records
func (l *Logger) log(level int64, msg string, err error, kv []any) error {
	cfg := l.getConfig()
	if level < cfg.Level {
		return nil
	}

	entry := formatter.Entry{
		Time:    time.Now(),
		Level:   level,
		Name:    cfg.Name,
		Message: msg,
		Err:     err,
		Fields:  kv,
	}
	if entry.Err == nil {
		entry.Fields, entry.Err = extractErr(kv)
	}

	l.state.mu.Lock()
	defer l.state.mu.Unlock()

	lifecycle := l.state.lifecycle
	if lifecycle == StateOpening || lifecycle == StateClosing {
		l.state.DroppedLogs.Add(1)
		return newNotReadyError(lifecycle)
	}

	if !cfg.EnableConsole && !cfg.EnableFile {
		return nil
	}

	line := l.format(entry)

	if cfg.EnableConsole {
		l.writeConsole(line)
	}

	if !cfg.EnableFile {
		return nil
	}
	if lifecycle == StateClosed {
		return newNotReadyError(lifecycle)
	}

	if l.state.target == nil {
		l.state.pending = append(l.state.pending, line)
		return nil
	}
	if err := l.state.target.writeLine(line); err != nil {
		l.state.WriteErrors.Add(1)
		l.report(err)
		return err
	}
	l.state.TotalLogsWritten.Add(1)
	return nil
}

// extractErr pulls the first "err" field holding an error out of kv
func extractErr(kv []any) ([]any, error) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok || key != "err" {
			continue
		}
		err, ok := kv[i+1].(error)
		if !ok {
			continue
		}
		rest := make([]any, 0, len(kv)-2)
		rest = append(rest, kv[:i]...)
		rest = append(rest, kv[i+2:]...)
		return rest, err
	}
	return kv, nil
}

// writeConsole performs one synchronous write of line to the console sink
func (l *Logger) writeConsole(line string) {
	s, ok := l.state.ConsoleWriter.Load().(*sink)
	if !ok || s == nil || s.w == nil {
		return
	}
	if _, err := s.w.Write([]byte(line + "\n")); err != nil {
		l.state.WriteErrors.Add(1)
		l.internalLog("warning - console write failed: %v\n", err)
	}
}

// drainPending writes the pending buffer into the current target and clears it, mu must be held
func (l *Logger) drainPending() {
	t := l.state.target
	if t == nil || len(l.state.pending) == 0 {
		return
	}
	for _, line := range l.state.pending {
		if err := t.writeLine(line); err != nil {
			l.state.WriteErrors.Add(1)
			l.report(err)
			continue
		}
		l.state.TotalLogsWritten.Add(1)
	}
	l.state.pending = nil
}

// report delivers an error that has no caller to return to
func (l *Logger) report(err error) {
	if err == nil {
		return
	}
	if h, _ := l.errorHandler.Load().(ErrorHandler); h != nil {
		h(err)
		return
	}
	l.internalLog("error - %s\n", strings.TrimPrefix(err.Error(), "daylog: "))
}

// internalLog handles writing internal logger diagnostics to stderr, if enabled.
func (l *Logger) internalLog(format string, args ...any) {
	// Check if internal error reporting is enabled
	cfg := l.getConfig()
	if !cfg.InternalErrorsToStderr {
		return
	}

	// Ensure consistent "daylog: " prefix
	if !strings.HasPrefix(format, "daylog: ") {
		format = "daylog: " + format
	}

	fmt.Fprintf(os.Stderr, format, args...)
}
