package defaults

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchOption configures a Watcher.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logger   *zap.Logger
	debounce time.Duration
	onReload func(Static)
}

// WithLogger sets the logger used for reload diagnostics.
func WithLogger(logger *zap.Logger) WatchOption {
	return func(cfg *watchConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithDebounce sets how long the watcher waits for a burst of file events to
// settle before reloading.
func WithDebounce(d time.Duration) WatchOption {
	return func(cfg *watchConfig) {
		if d > 0 {
			cfg.debounce = d
		}
	}
}

// WithReloadHook registers fn to run after every successful reload.
func WithReloadHook(fn func(Static)) WatchOption {
	return func(cfg *watchConfig) {
		cfg.onReload = fn
	}
}

// Watcher is a Provider backed by a file that is reloaded when it changes.
// A reload that fails keeps the previous snapshot.
type Watcher struct {
	path    string
	cfg     watchConfig
	current atomic.Pointer[Static]
	fs      *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// Watch loads path and keeps the snapshot in sync with the file until ctx is
// done or Close is called.
func Watch(ctx context.Context, path string, opts ...WatchOption) (*Watcher, error) {
	cfg := watchConfig{
		logger:   zap.NewNop(),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("defaults: resolve %q: %w", path, err)
	}
	initial, err := LoadFile(abs)
	if err != nil {
		return nil, err
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("defaults: create watcher: %w", err)
	}
	// Editors often replace files by rename, watch the directory instead.
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("defaults: watch %q: %w", abs, err)
	}

	w := &Watcher{
		path:    abs,
		cfg:     cfg,
		fs:      fs,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	w.current.Store(&initial)

	if ctx == nil {
		ctx = context.Background()
	}
	go w.loop(ctx)

	cfg.logger.Info("watching defaults file", zap.String("path", abs))
	return w, nil
}

// Defaults returns a copy of the latest snapshot.
func (w *Watcher) Defaults() map[string]any {
	if w == nil {
		return nil
	}
	snapshot := w.current.Load()
	if snapshot == nil {
		return nil
	}
	return snapshot.Defaults()
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		<-w.stopped
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.schedule()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.cfg.logger.Warn("defaults watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.debounce, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.stop:
		return
	default:
	}
	next, err := loadReplacement(w.path)
	if err != nil {
		w.cfg.logger.Warn("defaults reload failed, keeping previous snapshot",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}
	w.current.Store(&next)
	w.cfg.logger.Info("defaults reloaded",
		zap.String("path", w.path),
		zap.Int("keys", len(next)),
	)
	if w.cfg.onReload != nil {
		w.cfg.onReload(next.Defaults())
	}
}

// loadReplacement is LoadFile for reloads: an empty file is a failed reload
// rather than empty defaults.
func loadReplacement(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("defaults: read %q: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyFile, path)
	}
	values, err := Parse(data, DetectFormat(path, data))
	if err != nil {
		return nil, fmt.Errorf("defaults: load %q: %w", path, err)
	}
	return values, nil
}
