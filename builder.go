// FILE: lixenwraith/daylog/builder.go
package daylog

import (
	"io"
	"time"
)

// Builder provides a fluent API for building loggers.
// It wraps a Config instance and the collaborators, and opens the logger on Build.
type Builder struct {
	cfg          *Config
	format       FormatFunc
	date         DateFunc
	errorHandler ErrorHandler
	console      io.Writer
	err          error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger with the specified configuration and opens it.
// Directory and file creation errors are returned here rather than reported later.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	// Collaborators first so the formatter built by ApplyConfig sees the date function
	if b.date != nil {
		logger.SetDateFormatter(b.date)
	}
	if b.format != nil {
		logger.SetFormatter(b.format)
	}
	if b.errorHandler != nil {
		logger.SetErrorHandler(b.errorHandler)
	}
	if b.console != nil {
		logger.SetConsole(b.console)
	}

	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	if err := logger.Open(); err != nil {
		return nil, err
	}

	return logger, nil
}

// Level sets the log level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// Name sets the name carried on every entry.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Format sets the output format.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// ShowTimestamp toggles the timestamp prefix of text formats.
func (b *Builder) ShowTimestamp(show bool) *Builder {
	b.cfg.ShowTimestamp = show
	return b
}

// Extension sets the log file extension, without the dot.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// FileNameFormat sets the Go time layout used for file names.
func (b *Builder) FileNameFormat(layout string) *Builder {
	b.cfg.FileNameFormat = layout
	return b
}

// EnableFile enables writing to dated log files.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.EnableFile = enable
	return b
}

// EnableConsole enables mirroring logs to the console.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget selects "stdout" or "stderr" for console output.
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// UseZuluTime selects UTC for file names, sentinels and rotation alignment.
func (b *Builder) UseZuluTime(zulu bool) *Builder {
	b.cfg.UseZuluTime = zulu
	return b
}

// RotationInterval sets the aligned rotation period.
func (b *Builder) RotationInterval(d time.Duration) *Builder {
	b.cfg.RotationIntervalMs = d.Milliseconds()
	return b
}

// RotationCron sets a standard cron expression that replaces the aligned interval.
func (b *Builder) RotationCron(spec string) *Builder {
	b.cfg.RotationCron = spec
	return b
}

// MaxFileAge sets how long rotated files are kept; zero or negative keeps them forever.
func (b *Builder) MaxFileAge(d time.Duration) *Builder {
	b.cfg.MaxFileAgeMs = d.Milliseconds()
	if d <= 0 {
		b.cfg.MaxFileAgeMs = -1
	}
	return b
}

// InternalErrorsToStderr toggles stderr reporting when no error handler is set.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Console injects the console sink.
func (b *Builder) Console(w io.Writer) *Builder {
	b.console = w
	return b
}

// Formatter injects the formatter collaborator.
func (b *Builder) Formatter(fn FormatFunc) *Builder {
	b.format = fn
	return b
}

// DateFormatter injects the date collaborator.
func (b *Builder) DateFormatter(fn DateFunc) *Builder {
	b.date = fn
	return b
}

// ErrorHandler injects the handler for reported errors.
func (b *Builder) ErrorHandler(fn ErrorHandler) *Builder {
	b.errorHandler = fn
	return b
}

// Example usage:
// logger, err := daylog.NewBuilder().
//
//	Directory("/var/log/app").
//	EnableFile(true).
//	LevelString("debug").
//	MaxFileAge(7 * 24 * time.Hour).
//	Build()
//
// if err == nil {
//
//	 defer logger.Close()
//	 logger.Info("Logger initialized successfully")
//
// }
