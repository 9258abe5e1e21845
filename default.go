// FILE: lixenwraith/daylog/default.go
package daylog

// Global instance for package-level functions
var defaultLogger = NewLogger()

// Default returns the package-level logger
func Default() *Logger {
	return defaultLogger
}

// ApplyConfig applies cfg to the default logger
func ApplyConfig(cfg *Config) error {
	return defaultLogger.ApplyConfig(cfg)
}

// ApplyOverride applies "key=value" overrides to the default logger
func ApplyOverride(overrides ...string) error {
	return defaultLogger.ApplyOverride(overrides...)
}

// Open opens the default logger
func Open() error {
	return defaultLogger.Open()
}

// Close closes the default logger
func Close() error {
	return defaultLogger.Close()
}

// Log writes a record at level to the default logger
func Log(level int64, msg string, err error) {
	defaultLogger.Log(level, msg, err)
}

// Debug logs a message at debug level
func Debug(msg string, kv ...any) {
	_ = defaultLogger.log(LevelDebug, msg, nil, kv)
}

// Info logs a message at info level
func Info(msg string, kv ...any) {
	_ = defaultLogger.log(LevelInfo, msg, nil, kv)
}

// Warn logs a message at warning level
func Warn(msg string, kv ...any) {
	_ = defaultLogger.log(LevelWarn, msg, nil, kv)
}

// Error logs a message at error level
func Error(msg string, kv ...any) {
	_ = defaultLogger.log(LevelError, msg, nil, kv)
}

// Fatal logs a message at fatal level without exiting
func Fatal(msg string, kv ...any) {
	_ = defaultLogger.log(LevelFatal, msg, nil, kv)
}
