// FILE: lixenwraith/sinklog/config_test.go
package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/queue"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "off", cfg.FlushLevel)
	assert.Equal(t, "log", cfg.Name)
	assert.Equal(t, "./logs", cfg.Directory)
	assert.Equal(t, "txt", cfg.Format)
	assert.Equal(t, "log", cfg.Extension)
	assert.Equal(t, FileModeRotating, cfg.FileMode)
	assert.True(t, cfg.ShowTimestamp)
	assert.True(t, cfg.ShowLevel)
	assert.Equal(t, time.RFC3339Nano, cfg.TimestampFormat)
	assert.Equal(t, int64(DefaultQueueSize), cfg.QueueSize)
	assert.NoError(t, cfg.Validate())

	// Callers get independent copies
	cfg.Name = "changed"
	assert.Equal(t, "log", DefaultConfig().Name)
}

func TestConfigClone(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.Level = "debug"
	cfg1.Directory = "/custom/path"

	cfg2 := cfg1.Clone()

	// Verify deep copy
	assert.Equal(t, cfg1.Level, cfg2.Level)
	assert.Equal(t, cfg1.Directory, cfg2.Directory)

	// Modify original
	cfg1.Level = "error"

	// Verify clone unchanged
	assert.Equal(t, "debug", cfg2.Level)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{
			name:      "valid config",
			modify:    func(c *Config) {},
			wantError: "",
		},
		{
			name:      "empty name",
			modify:    func(c *Config) { c.Name = "" },
			wantError: "log name cannot be empty",
		},
		{
			name:      "invalid level",
			modify:    func(c *Config) { c.Level = "loud" },
			wantError: "invalid level",
		},
		{
			name:      "invalid flush level",
			modify:    func(c *Config) { c.FlushLevel = "sometimes" },
			wantError: "invalid flush_level",
		},
		{
			name:      "invalid format",
			modify:    func(c *Config) { c.Format = "invalid" },
			wantError: "invalid format",
		},
		{
			name:      "invalid sanitization",
			modify:    func(c *Config) { c.Sanitization = "bleach" },
			wantError: "invalid sanitization",
		},
		{
			name:      "extension with dot",
			modify:    func(c *Config) { c.Extension = ".log" },
			wantError: "extension should not start with dot",
		},
		{
			name:      "invalid overflow policy",
			modify:    func(c *Config) { c.OverflowPolicy = "explode" },
			wantError: "invalid overflow_policy",
		},
		{
			name:      "invalid file mode",
			modify:    func(c *Config) { c.FileMode = "weekly" },
			wantError: "invalid file_mode",
		},
		{
			name:      "empty file name",
			modify:    func(c *Config) { c.FileName = " " },
			wantError: "file_name cannot be empty",
		},
		{
			name: "empty file name without file output",
			modify: func(c *Config) {
				c.FileMode = FileModeNone
				c.FileName = ""
			},
			wantError: "",
		},
		{
			name:      "invalid console target",
			modify:    func(c *Config) { c.ConsoleTarget = "invalid" },
			wantError: "invalid console_target",
		},
		{
			name:      "zero queue size",
			modify:    func(c *Config) { c.QueueSize = 0 },
			wantError: "queue_size must be positive",
		},
		{
			name:      "zero workers",
			modify:    func(c *Config) { c.Workers = 0 },
			wantError: "workers must be positive",
		},
		{
			name:      "negative interval",
			modify:    func(c *Config) { c.FlushIntervalMs = -1 },
			wantError: "interval settings cannot be negative",
		},
		{
			name:      "negative retention",
			modify:    func(c *Config) { c.MaxFiles = -1 },
			wantError: "cannot be negative",
		},
		{
			name:      "invalid trace depth",
			modify:    func(c *Config) { c.TraceDepth = 11 },
			wantError: "trace_depth must be between 0 and 10",
		},
		{
			name:      "rotating without size",
			modify:    func(c *Config) { c.MaxSizeKB = 0 },
			wantError: "max_size_kb must be positive",
		},
		{
			name: "invalid rotation time",
			modify: func(c *Config) {
				c.FileMode = FileModeDaily
				c.RotationHour = 24
			},
			wantError: "invalid rotation time",
		},
		{
			name: "single threaded with several workers",
			modify: func(c *Config) {
				c.SingleThreaded = true
				c.Async = true
				c.Workers = 2
			},
			wantError: "single_threaded requires a single worker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, core.ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.wantError)
			}
		})
	}
}

func TestNewConfigFromDefaults(t *testing.T) {
	cfg, err := NewConfigFromDefaults(map[string]any{
		"level":       "debug",
		"queue_size":  512,
		"async":       true,
		"max_files":   int64(3),
		"file_mode":   FileModeDaily,
		"max_size_kb": float64(64),
	})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, int64(512), cfg.QueueSize)
	assert.True(t, cfg.Async)
	assert.Equal(t, int64(3), cfg.MaxFiles)
	assert.Equal(t, int64(64), cfg.MaxSizeKB)

	_, err = NewConfigFromDefaults(map[string]any{"colour": "blue"})
	assert.ErrorContains(t, err, "unknown config key: colour")

	_, err = NewConfigFromDefaults(map[string]any{"async": "yes"})
	assert.ErrorContains(t, err, "expected bool")

	_, err = NewConfigFromDefaults(map[string]any{"workers": 1.5})
	assert.ErrorContains(t, err, "expected integer")

	_, err = NewConfigFromDefaults(map[string]any{"workers": 0})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestNewConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.toml")
	content := `
[log]
name = "from_file"
level = "warn"
format = "json"
async = true
workers = 2
overflow_policy = "discard_oldest"
file_mode = "hourly"
directory = "/var/log/app"
max_files = 24
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.Name)
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Async)
	assert.Equal(t, int64(2), cfg.Workers)
	assert.Equal(t, FileModeHourly, cfg.FileMode)
	assert.Equal(t, "/var/log/app", cfg.Directory)
	assert.Equal(t, int64(24), cfg.MaxFiles)

	// Untouched keys keep their defaults
	assert.Equal(t, "log", cfg.Extension)
	assert.Equal(t, int64(DefaultQueueSize), cfg.QueueSize)

	pc := cfg.PoolConfig()
	assert.Equal(t, 2, pc.Workers)
	assert.Equal(t, queue.DiscardOldest, pc.Policy)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[log]\nformat = \"xml\"\n"), 0644))
	_, err = NewConfigFromFile(bad)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directory = "/tmp/logs"
	cfg.FileName = "app"
	assert.Equal(t, filepath.Join("/tmp/logs", "app.log"), cfg.FilePath())

	cfg.Extension = ""
	assert.Equal(t, filepath.Join("/tmp/logs", "app"), cfg.FilePath())

	cfg.Level = "debug"
	cfg.FlushLevel = "error"
	cfg.TraceDepth = 3
	l := NewLogger("opts", nil, cfg.LoggerOptions()...)
	assert.Equal(t, LevelDebug, l.Level())
	assert.Equal(t, LevelError, l.FlushLevel())
	assert.Equal(t, 3, l.depth())

	cfg.BlockTimeoutMs = 250
	pc := cfg.PoolConfig()
	assert.Equal(t, 250*time.Millisecond, pc.BlockTimeout)
	assert.Equal(t, queue.Block, pc.Policy)

	cfg.Format = "json"
	assert.Equal(t, "json", cfg.NewFormatter().Kind())
}
