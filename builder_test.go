// FILE: lixenwraith/sinklog/builder_test.go
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
	"github.com/lixenwraith/sinklog/sink"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("successful build returns configured logger", func(t *testing.T) {
		tmpDir := t.TempDir()
		r := newTestRegistry(t)

		logger, err := NewBuilder().
			Registry(r).
			Name("built").
			Directory(tmpDir).
			LevelString("debug").
			FlushLevel(LevelError).
			Format("json").
			MaxSizeMB(10).
			MaxFiles(2).
			Build()
		require.NoError(t, err, "Builder.Build() should not return an error on valid config")
		require.NotNil(t, logger)

		assert.Equal(t, "built", logger.Name())
		assert.Equal(t, LevelDebug, logger.Level())
		assert.Equal(t, LevelError, logger.FlushLevel())
		assert.False(t, logger.IsAsync())
		require.Len(t, logger.Sinks(), 1)
		assert.IsType(t, &sink.Rotating{}, logger.Sinks()[0])

		got, ok := r.Get("built")
		require.True(t, ok)
		assert.Same(t, logger, got)

		logger.Debug("debug message")
		require.NoError(t, logger.Flush())
		assert.Equal(t, 1, countFileLines(t, filepath.Join(tmpDir, "log.log")))
	})

	t.Run("builder error accumulation", func(t *testing.T) {
		logger, err := NewBuilder().
			LevelString("invalid-level-string").
			Directory("/some/dir").
			Build()

		require.Error(t, err, "Build should fail with an invalid level string")
		assert.Contains(t, err.Error(), "invalid level string")
		assert.Nil(t, logger)
	})

	t.Run("override error is kept", func(t *testing.T) {
		b := NewBuilder().Override("workers=0").Name("never")
		_, err := b.Config()
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
		_, err = b.Build()
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	})

	t.Run("invalid config fails before creating sinks", func(t *testing.T) {
		tmpDir := t.TempDir()
		_, err := NewBuilder().
			Registry(newTestRegistry(t)).
			Directory(tmpDir).
			Format("xml").
			Build()
		assert.ErrorIs(t, err, core.ErrInvalidConfig)

		entries, err := os.ReadDir(tmpDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("duplicate name closes the new sinks", func(t *testing.T) {
		r := newTestRegistry(t)
		b := NewBuilder().Registry(r).Directory(t.TempDir()).FileMode(FileModeBasic)
		_, err := b.Build()
		require.NoError(t, err)
		_, err = b.Build()
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	})
}

// TestBuilderFileModes verifies each file mode opens the matching sink
func TestBuilderFileModes(t *testing.T) {
	tests := []struct {
		mode     string
		wantType sink.Sink
		path     func(base string) string
	}{
		{FileModeBasic, &sink.BasicFile{}, func(base string) string { return base }},
		{FileModeRotating, &sink.Rotating{}, func(base string) string { return base }},
		{FileModeDaily, &sink.Daily{}, func(base string) string { return sink.DailyFilename(base, time.Now()) }},
		{FileModeHourly, &sink.Daily{}, func(base string) string { return sink.HourlyFilename(base, time.Now()) }},
		{FileModeLumberjack, &sink.Lumberjack{}, func(base string) string { return base }},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			dir := t.TempDir()
			l, err := NewBuilder().
				Registry(newTestRegistry(t)).
				Name(tt.mode).
				Directory(dir).
				FileName("app").
				FileMode(tt.mode).
				Build()
			require.NoError(t, err)
			require.Len(t, l.Sinks(), 1)
			assert.IsType(t, tt.wantType, l.Sinks()[0])

			for i := 0; i < 3; i++ {
				l.Info("record", i)
			}
			require.NoError(t, l.Flush())
			// Hourly files may roll over between open and check
			if tt.mode == FileModeHourly {
				return
			}
			assert.Equal(t, 3, countFileLines(t, tt.path(filepath.Join(dir, "app.log"))))
		})
	}
}

func TestBuilderConsoleOnly(t *testing.T) {
	rec, extra := newRecorder()
	l, err := NewBuilder().
		Registry(newTestRegistry(t)).
		FileMode(FileModeNone).
		FileName("").
		EnableConsole(true).
		Override("console_target=stderr", "level=warn").
		Sink(extra).
		Build()
	require.NoError(t, err)
	require.Len(t, l.Sinks(), 2)
	assert.IsType(t, &sink.Writer{}, l.Sinks()[0])

	l.Info("filtered")
	l.Warn("kept")
	assert.Equal(t, []string{"kept"}, rec.messages())
}

func TestBuilderAsync(t *testing.T) {
	r := newTestRegistry(t)
	dir := t.TempDir()

	l, err := NewBuilder().
		Registry(r).
		Name("async").
		Directory(dir).
		FileMode(FileModeBasic).
		Async(true).
		QueueSize(64).
		Workers(2).
		OverflowPolicy(queue.DiscardOldest).
		Build()
	require.NoError(t, err)
	require.True(t, l.IsAsync())
	require.NotNil(t, r.Pool())
	assert.Same(t, r.Pool(), l.Pool())

	cfg := r.Pool().Config()
	assert.Equal(t, 64, cfg.QueueSize)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, queue.DiscardOldest, cfg.Policy)

	for i := 0; i < 10; i++ {
		l.Info("async record", i)
	}
	require.NoError(t, l.Flush())
	assert.Equal(t, 10, countFileLines(t, filepath.Join(dir, "log.log")))

	// A second async logger shares the existing pool
	other, err := NewBuilder().Registry(r).Name("other").FileMode(FileModeNone).Async(true).Workers(4).Build()
	require.NoError(t, err)
	assert.Same(t, r.Pool(), other.Pool())
}

func TestBuilderConfig(t *testing.T) {
	cfg, err := NewBuilder().
		Name("cfg").
		Level(LevelWarn).
		Format("raw").
		Extension("txt").
		MaxSizeKB(64).
		FlushIntervalMs(100).
		HeartbeatIntervalS(5).
		Config()
	require.NoError(t, err)
	assert.Equal(t, "cfg", cfg.Name)
	assert.Equal(t, "WARN", cfg.Level)
	assert.Equal(t, "raw", cfg.Format)
	assert.Equal(t, "txt", cfg.Extension)
	assert.Equal(t, int64(64), cfg.MaxSizeKB)
	assert.Equal(t, int64(100), cfg.FlushIntervalMs)
	assert.Equal(t, int64(5), cfg.HeartbeatIntervalS)

	from, err := NewBuilder().FromConfig(cfg).Override("name=copied").Config()
	require.NoError(t, err)
	assert.Equal(t, "copied", from.Name)
	assert.Equal(t, "cfg", cfg.Name)
}
