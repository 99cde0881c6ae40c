// FILE: lixenwraith/sinklog/watch_test.go
package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/sink"
)

func writeConfigFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestWatchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.toml")
	writeConfigFile(t, path, "[log]\nlevel = \"info\"\n")

	type result struct {
		cfg *Config
		err error
	}
	results := make(chan result, 8)
	w, err := WatchConfig(path, func(cfg *Config, err error) {
		results <- result{cfg, err}
	}, WithWatchDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer func() { assert.NoError(t, w.Stop()) }()

	// Unrelated files in the directory are ignored
	writeConfigFile(t, filepath.Join(filepath.Dir(path), "other.toml"), "x = 1\n")

	writeConfigFile(t, path, "[log]\nlevel = \"debug\"\nflush_level = \"error\"\n")
	select {
	case res := <-results:
		require.NoError(t, res.err)
		assert.Equal(t, "debug", res.cfg.Level)
		assert.Equal(t, "error", res.cfg.FlushLevel)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after config change")
	}

	writeConfigFile(t, path, "[log]\nlevel = \"loud\"\n")
	deadline := time.After(2 * time.Second)
	for {
		select {
		case res := <-results:
			if res.err == nil {
				// Late event from the previous write
				continue
			}
			assert.ErrorIs(t, res.err, core.ErrInvalidConfig)
			assert.Nil(t, res.cfg)
			return
		case <-deadline:
			t.Fatal("no reload after invalid config change")
		}
	}
}

func TestWatchConfigErrors(t *testing.T) {
	_, err := WatchConfig(filepath.Join(t.TempDir(), "a.toml"), nil)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = WatchConfig(filepath.Join(t.TempDir(), "missing", "a.toml"), func(*Config, error) {})
	assert.Error(t, err)
}

func TestWatchLevels(t *testing.T) {
	r := newTestRegistry(t)
	_, s := newRecorder()
	l, err := r.Create("watched", []sink.Sink{s})
	require.NoError(t, err)
	require.Equal(t, core.LevelInfo, l.Level())

	path := filepath.Join(t.TempDir(), "app.toml")
	writeConfigFile(t, path, "[log]\nlevel = \"info\"\n")

	w, err := WatchLevels(r, path, WithWatchDebounce(20*time.Millisecond))
	require.NoError(t, err)

	writeConfigFile(t, path, "[log]\nlevel = \"warn\"\nflush_level = \"critical\"\n")
	assert.Eventually(t, func() bool {
		return l.Level() == core.LevelWarn && l.FlushLevel() == core.LevelCritical
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())
	// Stop is idempotent
	assert.NoError(t, w.Stop())
}
