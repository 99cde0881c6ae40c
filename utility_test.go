// FILE: lixenwraith/sinklog/utility_test.go
package log

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/sinklog/core"
)

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("test error: %s", "details")
	assert.Equal(t, "log: test error: details", err.Error())

	// Already prefixed
	err = fmtErrorf("log: existing prefix")
	assert.Equal(t, "log: existing prefix", err.Error())
}

func TestApplyOverride(t *testing.T) {
	base := DefaultConfig()

	cfg, err := base.ApplyOverride(
		"level=debug",
		"flush_level=error",
		"file_mode=daily",
		"rotation_hour=3",
		"async=true",
		"workers=4",
		"overflow_policy=discard_new",
		"enable_console=true",
		"console_target=stderr",
		"trace_depth=2",
	)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "error", cfg.FlushLevel)
	assert.Equal(t, FileModeDaily, cfg.FileMode)
	assert.Equal(t, int64(3), cfg.RotationHour)
	assert.True(t, cfg.Async)
	assert.Equal(t, int64(4), cfg.Workers)
	assert.Equal(t, "discard_new", cfg.OverflowPolicy)
	assert.True(t, cfg.EnableConsole)
	assert.Equal(t, "stderr", cfg.ConsoleTarget)
	assert.Equal(t, int64(2), cfg.TraceDepth)

	// The receiver is unchanged
	assert.Equal(t, "info", base.Level)
	assert.False(t, base.Async)
}

func TestApplyOverrideErrors(t *testing.T) {
	base := DefaultConfig()

	_, err := base.ApplyOverride("colour=blue")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "unknown configuration key 'colour'")

	_, err = base.ApplyOverride("level=loud")
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = base.ApplyOverride("workers=many")
	assert.ErrorContains(t, err, "invalid integer value for workers")

	// Values parse but the result does not validate
	_, err = base.ApplyOverride("workers=0")
	assert.ErrorContains(t, err, "workers must be positive")

	_, err = base.ApplyOverride("async=maybe", "noequals", "max_files=-")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "log: "))
	assert.Contains(t, msg, "multiple configuration errors")
	assert.Contains(t, msg, "1. ")
	assert.Contains(t, msg, "3. ")
	assert.Equal(t, 1, strings.Count(msg, "log: "))
}
