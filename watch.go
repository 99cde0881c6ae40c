// FILE: lixenwraith/sinklog/watch.go
package log

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lixenwraith/sinklog/core"
)

// defaultWatchDebounce collapses the burst of events an editor save produces
const defaultWatchDebounce = 100 * time.Millisecond

// ReloadFunc receives the reloaded configuration, or the error that prevented
// the reload
type ReloadFunc func(cfg *Config, err error)

// ConfigWatcher reloads a TOML configuration file whenever it changes
type ConfigWatcher struct {
	path     string
	onReload ReloadFunc
	debounce time.Duration
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	done     chan struct{}
	stopOnce sync.Once
}

// WatchOption configures a ConfigWatcher
type WatchOption func(*ConfigWatcher)

// WithWatchDebounce sets the quiet period before a change triggers a reload
func WithWatchDebounce(d time.Duration) WatchOption {
	return func(w *ConfigWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WatchConfig starts watching the configuration file at path. The directory
// is watched rather than the file so that editors replacing the file by
// rename are still observed. onReload runs on a timer goroutine.
func WatchConfig(path string, onReload ReloadFunc, opts ...WatchOption) (*ConfigWatcher, error) {
	if onReload == nil {
		return nil, core.Errorf(core.ErrInvalidConfig, "watch callback cannot be nil")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmtErrorf("failed to create config watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		return nil, errors.Join(fmtErrorf("failed to watch directory %s: %w", dir, err), fsw.Close())
	}

	w := &ConfigWatcher{
		path:     path,
		onReload: onReload,
		debounce: defaultWatchDebounce,
		watcher:  fsw,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.run()
	return w, nil
}

// WatchLevels reloads path on change and applies the level and flush level
// of the new configuration to every logger of r. Invalid files are reported
// through the registry default logger's error handler when one is set.
func WatchLevels(r *Registry, path string, opts ...WatchOption) (*ConfigWatcher, error) {
	return WatchConfig(path, func(cfg *Config, err error) {
		if err != nil {
			if l := r.Default(); l != nil {
				l.handleError(err)
			} else {
				internalLog("config reload failed: %v\n", err)
			}
			return
		}
		level, _ := core.ParseLevel(cfg.Level)
		flushLevel, _ := core.ParseLevel(cfg.FlushLevel)
		r.SetDefaultLevel(level)
		r.SetFlushLevel(flushLevel)
	}, opts...)
}

func (w *ConfigWatcher) run() {
	defer close(w.done)
	name := filepath.Base(w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onReload(nil, fmtErrorf("config watch error: %w", err))
		}
	}
}

// schedule restarts the debounce timer
func (w *ConfigWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *ConfigWatcher) reload() {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	cfg, err := NewConfigFromFile(w.path)
	w.onReload(cfg, err)
}

// Stop ends the watch and waits for the event loop to exit. A reload that
// already started may still complete.
func (w *ConfigWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		err = w.watcher.Close()
		<-w.done
	})
	return err
}
