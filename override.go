// FILE: lixenwraith/sinklog/override.go
package log

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lixenwraith/sinklog/core"
)

// ApplyOverride returns a copy of the configuration with string key-value
// overrides applied and validated. Each override should be in the format
// "key=value". The receiver is left unchanged.
//
// Example:
//
//	cfg, err := log.DefaultConfig().ApplyOverride(
//	    "directory=/var/log/app",
//	    "level=debug",
//	    "file_mode=daily",
//	)
func (c *Config) ApplyOverride(overrides ...string) (*Config, error) {
	cfg := c.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, combineConfigErrors(errors)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	for i, err := range errors {
		errMsg := err.Error()
		// Remove "log: " prefix from individual errors to avoid duplication
		errMsg = strings.TrimPrefix(errMsg, "log: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmtErrorf("%w: multiple configuration errors:%s", core.ErrInvalidConfig, sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Levels accept names or numeric values
	case "level":
		if _, err := core.ParseLevel(value); err != nil {
			return invalidConfig("invalid level value '%s': %w", value, err)
		}
		cfg.Level = value
	case "flush_level":
		if _, err := core.ParseLevel(value); err != nil {
			return invalidConfig("invalid flush_level value '%s': %w", value, err)
		}
		cfg.FlushLevel = value
	case "name":
		cfg.Name = value
	case "format":
		cfg.Format = value
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "sanitization":
		cfg.Sanitization = value
	case "overflow_policy":
		cfg.OverflowPolicy = value
	case "file_mode":
		cfg.FileMode = value
	case "directory":
		cfg.Directory = value
	case "file_name":
		cfg.FileName = value
	case "extension":
		cfg.Extension = value
	case "console_target":
		cfg.ConsoleTarget = value
	case "show_timestamp":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for show_timestamp '%s': %w", value, err)
		}
		cfg.ShowTimestamp = boolVal
	case "show_level":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for show_level '%s': %w", value, err)
		}
		cfg.ShowLevel = boolVal
	case "show_logger":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for show_logger '%s': %w", value, err)
		}
		cfg.ShowLogger = boolVal
	case "async":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for async '%s': %w", value, err)
		}
		cfg.Async = boolVal
	case "truncate":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for truncate '%s': %w", value, err)
		}
		cfg.Truncate = boolVal
	case "rotate_on_open":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for rotate_on_open '%s': %w", value, err)
		}
		cfg.RotateOnOpen = boolVal
	case "compress":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for compress '%s': %w", value, err)
		}
		cfg.Compress = boolVal
	case "enable_console":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for enable_console '%s': %w", value, err)
		}
		cfg.EnableConsole = boolVal
	case "caller":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for caller '%s': %w", value, err)
		}
		cfg.Caller = boolVal
	case "single_threaded":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for single_threaded '%s': %w", value, err)
		}
		cfg.SingleThreaded = boolVal
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return invalidConfig("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal
	case "queue_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for queue_size '%s': %w", value, err)
		}
		cfg.QueueSize = intVal
	case "workers":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for workers '%s': %w", value, err)
		}
		cfg.Workers = intVal
	case "block_timeout_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for block_timeout_ms '%s': %w", value, err)
		}
		cfg.BlockTimeoutMs = intVal
	case "max_size_kb":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for max_size_kb '%s': %w", value, err)
		}
		cfg.MaxSizeKB = intVal
	case "max_files":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for max_files '%s': %w", value, err)
		}
		cfg.MaxFiles = intVal
	case "rotation_hour":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for rotation_hour '%s': %w", value, err)
		}
		cfg.RotationHour = intVal
	case "rotation_minute":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for rotation_minute '%s': %w", value, err)
		}
		cfg.RotationMinute = intVal
	case "max_age_days":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for max_age_days '%s': %w", value, err)
		}
		cfg.MaxAgeDays = intVal
	case "flush_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for flush_interval_ms '%s': %w", value, err)
		}
		cfg.FlushIntervalMs = intVal
	case "heartbeat_interval_s":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for heartbeat_interval_s '%s': %w", value, err)
		}
		cfg.HeartbeatIntervalS = intVal
	case "trace_depth":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidConfig("invalid integer value for trace_depth '%s': %w", value, err)
		}
		cfg.TraceDepth = intVal

	default:
		return invalidConfig("unknown configuration key '%s'", key)
	}

	return nil
}
