// FILE: lixenwraith/daylog/config.go
package daylog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
	"github.com/robfig/cron/v3"
)

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Level         int64  `toml:"level"`
	Name          string `toml:"name"`   // Added to every entry, may be empty
	Format        string `toml:"format"` // "standard", "standard-full-date", or "raw"
	ShowTimestamp bool   `toml:"show_timestamp"`

	// File output
	EnableFile     bool   `toml:"enable_file"`
	Directory      string `toml:"directory"`
	FileNameFormat string `toml:"file_name_format"` // Go time layout for file names
	Extension      string `toml:"extension"`
	UseZuluTime    bool   `toml:"use_zulu_time"` // UTC for names, sentinels and rotation alignment

	// Rotation and retention
	RotationIntervalMs int64  `toml:"rotation_interval_ms"` // Aligned rotation period
	RotationCron       string `toml:"rotation_cron"`        // Overrides the aligned interval when set
	MaxFileAgeMs       int64  `toml:"max_file_age_ms"`      // <=0 keeps files forever

	// Console output
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Level:         LevelInfo,
	Name:          "",
	Format:        FormatStandard,
	ShowTimestamp: true,

	// File output
	EnableFile:     false,
	Directory:      "./logs/",
	FileNameFormat: DefaultFileNameFormat,
	Extension:      "log",
	UseZuluTime:    true,

	// Rotation and retention
	RotationIntervalMs: DefaultRotationInterval.Milliseconds(),
	RotationCron:       "",
	MaxFileAgeMs:       -1,

	// Console output
	EnableConsole: true,
	ConsoleTarget: "stdout",

	// Internal error handling
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config.
// Keys live under the [log] table; a missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, newConfigError("failed to register config struct", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, newConfigError(fmt.Sprintf("failed to load config from %s", path), err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, newConfigError("failed to extract config values", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	// Apply overrides using reflection
	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, newConfigError("failed to apply overrides", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	switch c.Format {
	case FormatStandard, FormatStandardFullDate, FormatRaw:
	default:
		return newConfigError(fmt.Sprintf("invalid format: '%s' (use standard, standard-full-date, or raw)", c.Format), nil)
	}

	if strings.HasPrefix(c.Extension, ".") {
		return newConfigError(fmt.Sprintf("extension should not start with dot: %s", c.Extension), nil)
	}

	if strings.TrimSpace(c.FileNameFormat) == "" {
		return newConfigError("file_name_format cannot be empty", nil)
	}

	if strings.ContainsAny(c.FileNameFormat, `/\`) {
		return newConfigError(fmt.Sprintf("file_name_format cannot contain path separators: %s", c.FileNameFormat), nil)
	}

	if c.EnableFile && strings.TrimSpace(c.Directory) == "" {
		return newConfigError("directory cannot be empty when file output is enabled", nil)
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return newConfigError(fmt.Sprintf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget), nil)
	}

	if c.RotationIntervalMs <= 0 {
		return newConfigError(fmt.Sprintf("rotation_interval_ms must be positive: %d", c.RotationIntervalMs), nil)
	}

	if c.RotationCron != "" {
		if _, err := cron.ParseStandard(c.RotationCron); err != nil {
			return newConfigError(fmt.Sprintf("invalid rotation_cron '%s'", c.RotationCron), err)
		}
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// fileSettingsChanged reports whether switching from old to c requires a new write target
func (c *Config) fileSettingsChanged(old *Config) bool {
	return old.EnableFile != c.EnableFile ||
		old.Directory != c.Directory ||
		old.FileNameFormat != c.FileNameFormat ||
		old.Extension != c.Extension ||
		old.UseZuluTime != c.UseZuluTime ||
		old.RotationIntervalMs != c.RotationIntervalMs ||
		old.RotationCron != c.RotationCron
}

// purgeEnabled reports whether retention purging applies to this configuration
func (c *Config) purgeEnabled() bool {
	return c.MaxFileAgeMs > 0 && c.FileNameFormat == DefaultFileNameFormat
}
