// FILE: lixenwraith/sinklog/config.go
package log

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/formatter"
	"github.com/lixenwraith/sinklog/queue"
	"github.com/lixenwraith/sinklog/sanitizer"
)

// File modes
const (
	FileModeNone       = "none"
	FileModeBasic      = "basic"
	FileModeRotating   = "rotating"
	FileModeDaily      = "daily"
	FileModeHourly     = "hourly"
	FileModeLumberjack = "lumberjack"
)

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Name       string `toml:"name"`
	Level      string `toml:"level"`
	FlushLevel string `toml:"flush_level"` // Records at or above flush the sinks, "off" disables

	// Formatting
	Format          string `toml:"format"` // "txt", "raw", or "json"
	TimestampFormat string `toml:"timestamp_format"`
	ShowTimestamp   bool   `toml:"show_timestamp"`
	ShowLevel       bool   `toml:"show_level"`
	ShowLogger      bool   `toml:"show_logger"`
	Sanitization    string `toml:"sanitization"` // Sanitizer policy, empty selects one matching the format

	// Async dispatch
	Async          bool   `toml:"async"`
	QueueSize      int64  `toml:"queue_size"`
	Workers        int64  `toml:"workers"`
	OverflowPolicy string `toml:"overflow_policy"`  // "block", "discard_new", or "discard_oldest"
	BlockTimeoutMs int64  `toml:"block_timeout_ms"` // 0 blocks indefinitely

	// File output
	FileMode       string `toml:"file_mode"` // none, basic, rotating, daily, hourly, lumberjack
	Directory      string `toml:"directory"`
	FileName       string `toml:"file_name"`
	Extension      string `toml:"extension"`
	Truncate       bool   `toml:"truncate"`
	MaxSizeKB      int64  `toml:"max_size_kb"`     // Rotating and lumberjack size limit
	MaxFiles       int64  `toml:"max_files"`       // Kept backups or bucket files, 0 keeps all
	RotationHour   int64  `toml:"rotation_hour"`   // Daily rotation time
	RotationMinute int64  `toml:"rotation_minute"` // Daily rotation time
	RotateOnOpen   bool   `toml:"rotate_on_open"`
	MaxAgeDays     int64  `toml:"max_age_days"` // Lumberjack only
	Compress       bool   `toml:"compress"`     // Lumberjack only

	// Console output
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"

	// Timers
	FlushIntervalMs    int64 `toml:"flush_interval_ms"`    // Periodic flush of all loggers, 0 disables
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"` // Pool statistics heartbeat, 0 disables

	// Call site
	TraceDepth int64 `toml:"trace_depth"` // Default trace depth (0-10)
	Caller     bool  `toml:"caller"`

	// Sinks skip their mutex, for a single dispatching goroutine only
	SingleThreaded bool `toml:"single_threaded"`

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Name:       "log",
	Level:      "info",
	FlushLevel: "off",

	// Formatting
	Format:          "txt",
	TimestampFormat: time.RFC3339Nano,
	ShowTimestamp:   true,
	ShowLevel:       true,
	ShowLogger:      true,
	Sanitization:    "",

	// Async dispatch
	Async:          false,
	QueueSize:      DefaultQueueSize,
	Workers:        DefaultWorkers,
	OverflowPolicy: "block",
	BlockTimeoutMs: 0,

	// File output
	FileMode:       FileModeRotating,
	Directory:      "./logs",
	FileName:       "log",
	Extension:      "log",
	Truncate:       false,
	MaxSizeKB:      10 * 1024,
	MaxFiles:       5,
	RotationHour:   0,
	RotationMinute: 0,
	RotateOnOpen:   false,
	MaxAgeDays:     0,
	Compress:       false,

	// Console output
	EnableConsole: false,
	ConsoleTarget: "stdout",

	// Timers
	FlushIntervalMs:    0,
	HeartbeatIntervalS: 0,

	// Call site
	TraceDepth: 0,
	Caller:     false,

	SingleThreaded: false,

	// Internal error handling
	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	// Validate the loaded configuration
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
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	// Validate the configuration
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
		fieldValue := v.Field(i)

		// Get the toml tag to determine the config key
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		key := prefix + tomlTag

		// Get value from loader
		val, found := loader.Get(key)
		if !found {
			continue // Use default value
		}

		// Set the field value with type conversion
		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	// Create a map of field names to field values for efficient lookup
	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag != "" {
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
			// TOML decoders may surface integers as floats
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
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
	// String validations
	if strings.TrimSpace(c.Name) == "" {
		return invalidConfig("log name cannot be empty")
	}

	if _, err := core.ParseLevel(c.Level); err != nil {
		return invalidConfig("invalid level '%s': %v", c.Level, err)
	}

	if _, err := core.ParseLevel(c.FlushLevel); err != nil {
		return invalidConfig("invalid flush_level '%s': %v", c.FlushLevel, err)
	}

	if err := formatter.Validate(c.Format); err != nil {
		return err
	}

	switch sanitizer.PolicyPreset(c.Sanitization) {
	case "", sanitizer.PolicyRaw, sanitizer.PolicyJSON, sanitizer.PolicyTxt, sanitizer.PolicyOneLine, sanitizer.PolicyTerminal:
	default:
		return invalidConfig("invalid sanitization: '%s' (use raw, json, txt, oneline, or terminal)", c.Sanitization)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return invalidConfig("timestamp_format cannot be empty")
	}

	if _, err := queue.ParsePolicy(c.OverflowPolicy); err != nil {
		return invalidConfig("invalid overflow_policy '%s': %v", c.OverflowPolicy, err)
	}

	switch c.FileMode {
	case FileModeNone, FileModeBasic, FileModeRotating, FileModeDaily, FileModeHourly, FileModeLumberjack:
	default:
		return invalidConfig("invalid file_mode: '%s' (use none, basic, rotating, daily, hourly, or lumberjack)", c.FileMode)
	}

	if c.FileMode != FileModeNone && strings.TrimSpace(c.FileName) == "" {
		return invalidConfig("file_name cannot be empty when file output is enabled")
	}

	if strings.HasPrefix(c.Extension, ".") {
		return invalidConfig("extension should not start with dot: %s", c.Extension)
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return invalidConfig("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	// Numeric validations
	if c.QueueSize <= 0 {
		return invalidConfig("queue_size must be positive: %d", c.QueueSize)
	}

	if c.Workers <= 0 {
		return invalidConfig("workers must be positive: %d", c.Workers)
	}

	if c.BlockTimeoutMs < 0 || c.FlushIntervalMs < 0 || c.HeartbeatIntervalS < 0 {
		return invalidConfig("interval settings cannot be negative")
	}

	if c.MaxSizeKB < 0 || c.MaxFiles < 0 || c.MaxAgeDays < 0 {
		return invalidConfig("size and retention limits cannot be negative")
	}

	if c.TraceDepth < 0 || c.TraceDepth > core.MaxTraceDepth {
		return invalidConfig("trace_depth must be between 0 and %d: %d", core.MaxTraceDepth, c.TraceDepth)
	}

	// Cross-field validations
	if c.FileMode == FileModeRotating && c.MaxSizeKB == 0 {
		return invalidConfig("max_size_kb must be positive for rotating file mode")
	}

	if c.FileMode == FileModeDaily && (c.RotationHour < 0 || c.RotationHour > 23 || c.RotationMinute < 0 || c.RotationMinute > 59) {
		return invalidConfig("invalid rotation time %d:%d", c.RotationHour, c.RotationMinute)
	}

	if c.SingleThreaded && c.Async && c.Workers > 1 {
		return invalidConfig("single_threaded requires a single worker, got %d", c.Workers)
	}

	return nil
}

// invalidConfig returns an ErrInvalidConfig error
func invalidConfig(format string, args ...any) error {
	return core.Errorf(core.ErrInvalidConfig, format, args...)
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
