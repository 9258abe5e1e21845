// FILE: lixenwraith/daylog/logger.go
package daylog

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/daylog/formatter"
)

// Logger is the core struct that encapsulates all logger functionality
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex

	// Collaborators, set before first use or through the Builder
	format        FormatFunc // called only with state.mu held, the built-in formatter reuses one buffer
	customFormat  bool
	date          atomic.Value // stores DateFunc
	errorHandler  atomic.Value // stores ErrorHandler
	customConsole atomic.Bool
}

// NewLogger creates a new Logger instance with default settings.
// The logger starts Closed; records reach the console only until Open is called.
func NewLogger() *Logger {
	l := &Logger{}

	cfg := DefaultConfig()
	l.currentConfig.Store(cfg)
	l.date.Store(DateFunc(FormatDate))
	l.errorHandler.Store(ErrorHandler(nil))

	l.state.reset()
	l.format = l.defaultFormat(cfg)
	l.setupConsole(cfg)

	return l
}

// ApplyConfig applies a validated configuration to the logger.
// When the logger is Open and a file-related setting changed, the current target is closed
// and a new one opened with the new settings.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return newConfigError("configuration cannot be nil", nil)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg.Clone())
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// SetFormatter replaces the formatter collaborator; nil restores the configured format
func (l *Logger) SetFormatter(fn FormatFunc) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	if fn == nil {
		l.customFormat = false
		l.format = l.defaultFormat(l.getConfig())
		return
	}
	l.customFormat = true
	l.format = fn
}

// SetDateFormatter replaces the date collaborator; nil restores FormatDate
func (l *Logger) SetDateFormatter(fn DateFunc) {
	if fn == nil {
		fn = FormatDate
	}
	l.date.Store(fn)

	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	if !l.customFormat {
		l.format = l.defaultFormat(l.getConfig())
	}
}

// SetErrorHandler installs the handler that receives reported errors; nil restores stderr reporting
func (l *Logger) SetErrorHandler(fn ErrorHandler) {
	l.errorHandler.Store(fn)
}

// SetConsole replaces the console sink; nil restores the configured console target
func (l *Logger) SetConsole(w io.Writer) {
	if w == nil {
		l.customConsole.Store(false)
		l.setupConsole(l.getConfig())
		return
	}
	l.customConsole.Store(true)
	l.state.ConsoleWriter.Store(&sink{w: w})
}

// Open moves the logger from Closed to Open, creating the first write target when file
// output is enabled and arming the rotation scheduler.
func (l *Logger) Open() error {
	l.state.mu.Lock()
	if err := l.state.openRejection(); err != nil {
		l.state.mu.Unlock()
		return err
	}
	if l.state.lifecycle == StateOpen {
		l.state.mu.Unlock()
		return nil
	}
	l.state.transition(StateClosed, StateOpening)
	cfg := l.getConfig()
	l.state.mu.Unlock()

	now := time.Now()
	var target *writeTarget
	if cfg.EnableFile {
		t, err := l.createTarget(cfg, now)
		if err != nil {
			l.state.mu.Lock()
			l.state.transition(StateOpening, StateClosed)
			l.state.mu.Unlock()
			return err
		}
		target = t
	}

	l.state.mu.Lock()
	defer l.state.mu.Unlock()

	if target != nil {
		if err := target.writeLine(l.sentinel(createdSentinelFormat, now)); err != nil {
			l.state.WriteErrors.Add(1)
			l.report(err)
		}
		l.state.target = target
		l.drainPending()

		sched, err := l.startScheduler(cfg)
		if err != nil {
			l.report(err)
		}
		l.state.scheduler = sched
	}

	l.state.transition(StateOpening, StateOpen)
	return nil
}

// Close flushes pending records into the current target, writes its closing sentinel and
// closes it. The logger can be opened again afterwards.
func (l *Logger) Close() error {
	l.state.mu.Lock()
	if err := l.state.closeRejection(); err != nil {
		l.state.mu.Unlock()
		return err
	}
	l.state.transition(StateOpen, StateClosing)
	sched := l.state.scheduler
	l.state.scheduler = nil
	l.state.mu.Unlock()

	// No rotation can start once Closing is set, so only in-flight ones are awaited
	if sched != nil {
		<-sched.Stop().Done()
	}
	l.state.rotations.Wait()

	l.state.mu.Lock()
	var finalErr error
	if t := l.state.target; t != nil {
		l.drainPending()
		if err := t.writeLine(l.sentinel(closedSentinelFormat, time.Now())); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
		if err := t.close(); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
		l.state.target = nil
	}
	l.state.pending = nil
	l.state.mu.Unlock()

	// Still Closing, so no rotation can retire another target while waiting
	l.state.retired.Wait()

	l.state.mu.Lock()
	l.state.transition(StateClosing, StateClosed)
	l.state.mu.Unlock()
	return finalErr
}

// Log writes a record at level with an optional error attached
func (l *Logger) Log(level int64, msg string, err error) {
	_ = l.log(level, msg, err, nil)
}

// TryLog is Log that returns a KindNotReady error when the record could not reach a
// log file because the logger is not open
func (l *Logger) TryLog(level int64, msg string, err error) error {
	return l.log(level, msg, err, nil)
}

// Debug logs a message at debug level with alternating key/value fields
func (l *Logger) Debug(msg string, kv ...any) {
	_ = l.log(LevelDebug, msg, nil, kv)
}

// Info logs a message at info level with alternating key/value fields
func (l *Logger) Info(msg string, kv ...any) {
	_ = l.log(LevelInfo, msg, nil, kv)
}

// Warn logs a message at warning level with alternating key/value fields
func (l *Logger) Warn(msg string, kv ...any) {
	_ = l.log(LevelWarn, msg, nil, kv)
}

// Error logs a message at error level with alternating key/value fields.
// A value under the key "err" that is an error is attached as the record's error.
func (l *Logger) Error(msg string, kv ...any) {
	_ = l.log(LevelError, msg, nil, kv)
}

// Fatal logs a message at fatal level. It does not exit the process.
func (l *Logger) Fatal(msg string, kv ...any) {
	_ = l.log(LevelFatal, msg, nil, kv)
}

// State returns the current lifecycle state
func (l *Logger) State() LoggerState {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	return l.state.lifecycle
}

// CurrentFilePath returns the path of the current write target, or "" when none is current
func (l *Logger) CurrentFilePath() string {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	if l.state.target == nil {
		return ""
	}
	return l.state.target.path
}

// Directory returns the normalized absolute log directory
func (l *Logger) Directory() string {
	dir, err := normalizeDirectory(l.getConfig().Directory)
	if err != nil {
		return l.getConfig().Directory
	}
	return dir
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

func (l *Logger) dateFunc() DateFunc {
	return l.date.Load().(DateFunc)
}

// applyConfig is the internal implementation for applying configuration, assuming initMu is held
func (l *Logger) applyConfig(cfg *Config) error {
	oldCfg := l.getConfig()

	l.state.mu.Lock()
	lifecycle := l.state.lifecycle
	if lifecycle == StateOpening || lifecycle == StateClosing {
		l.state.mu.Unlock()
		return newStateError("cannot apply config while " + lifecycle.String())
	}
	l.currentConfig.Store(cfg)
	if !l.customFormat {
		l.format = l.defaultFormat(cfg)
	}
	l.state.mu.Unlock()

	l.setupConsole(cfg)

	if lifecycle != StateOpen || !cfg.fileSettingsChanged(oldCfg) {
		return nil
	}

	// Reopen so the write target and the scheduler follow the new settings
	if err := l.Close(); err != nil {
		l.report(err)
	}
	return l.Open()
}

// defaultFormat builds the formatter for cfg using the current date collaborator
func (l *Logger) defaultFormat(cfg *Config) FormatFunc {
	f := formatter.New().
		Type(cfg.Format).
		ShowTimestamp(cfg.ShowTimestamp).
		UseZuluTime(cfg.UseZuluTime).
		DateFunc(l.dateFunc())
	return f.Format
}

// setupConsole selects the console writer from cfg unless one was injected
func (l *Logger) setupConsole(cfg *Config) {
	if l.customConsole.Load() {
		return
	}
	var writer io.Writer = os.Stdout
	if cfg.ConsoleTarget == "stderr" {
		writer = os.Stderr
	}
	l.state.ConsoleWriter.Store(&sink{w: writer})
}
