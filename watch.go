// FILE: lixenwraith/daylog/watch.go
package daylog

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultWatchDebounce collapses editor save bursts into one reload
const defaultWatchDebounce = 100 * time.Millisecond

// ConfigWatcher reloads a TOML config file into a Logger whenever the file changes
type ConfigWatcher struct {
	logger   *Logger
	path     string
	load     func(path string) (*Config, error)
	watcher  *fsnotify.Watcher
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	timer  *time.Timer
	wg     sync.WaitGroup

	onReload func(cfg *Config, err error)
}

// WatchOption customizes a ConfigWatcher
type WatchOption func(*ConfigWatcher)

// WithDebounce sets the quiet period after the last change before reloading
func WithDebounce(d time.Duration) WatchOption {
	return func(w *ConfigWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReloadCallback is called after every reload attempt
func WithReloadCallback(fn func(cfg *Config, err error)) WatchOption {
	return func(w *ConfigWatcher) {
		w.onReload = fn
	}
}

// withLoader replaces NewConfigFromFile
func withLoader(fn func(path string) (*Config, error)) WatchOption {
	return func(w *ConfigWatcher) {
		w.load = fn
	}
}

// WatchConfig starts watching path and applies every successfully loaded config to l.
// The directory is watched rather than the file, so editors that replace the file on
// save are followed. Reload failures are reported and leave the running config intact.
func (l *Logger) WatchConfig(path string, opts ...WatchOption) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, newConfigError("failed to resolve config path", err)
	}

	w := &ConfigWatcher{
		logger:   l,
		path:     abs,
		load:     NewConfigFromFile,
		debounce: defaultWatchDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, newConfigError("failed to create watcher", err)
	}
	dir := filepath.Dir(abs)
	if err := fsWatcher.Add(dir); err != nil {
		closeErr := fsWatcher.Close()
		return nil, combineErrors(newConfigError("failed to watch directory "+dir, err), closeErr)
	}
	w.watcher = fsWatcher
	w.ctx, w.cancel = context.WithCancel(context.Background())

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Stop ends watching and waits for any reload in progress
func (w *ConfigWatcher) Stop() error {
	w.mu.Lock()
	if w.ctx.Err() != nil {
		w.mu.Unlock()
		return nil
	}
	w.cancel()
	if w.timer != nil && w.timer.Stop() {
		// The pending reload will never run
		w.wg.Done()
	}
	w.timer = nil
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *ConfigWatcher) run() {
	defer w.wg.Done()
	filename := filepath.Base(w.path)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.report(newConfigError("config watch error", err))
		}
	}
}

// schedule (re)arms the debounce timer
func (w *ConfigWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ctx.Err() != nil {
		return
	}
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		if w.ctx.Err() != nil {
			return
		}
		w.reload()
	})
}

func (w *ConfigWatcher) reload() {
	cfg, err := w.load(w.path)
	if err == nil {
		err = w.logger.ApplyConfig(cfg)
	}
	if err != nil {
		w.logger.report(err)
	}
	if w.onReload != nil {
		w.onReload(cfg, err)
	}
}
