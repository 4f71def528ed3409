package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/booksearch/throttle"
)

const defaultSettleDelay = 250 * time.Millisecond

// ErrLoaderRequired is returned when a watcher is created without a loader.
var ErrLoaderRequired = errors.New("loader required")

// Watcher reloads an index file whenever it changes on disk.
type Watcher struct {
	loader      *Loader
	path        string
	settleDelay time.Duration
	onReady     func()
	logger      *slog.Logger

	watcher *fsnotify.Watcher
	reload  *throttle.Throttle[context.Context]
	wg      sync.WaitGroup
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher) error

// WithWatchLogger sets a custom logger.
// Default is slog.Default().
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// WithSettleDelay sets how long the watcher waits after the first change
// event before reloading. Events inside the window are folded into one reload.
func WithSettleDelay(d time.Duration) WatchOption {
	return func(w *Watcher) error {
		if d < 0 {
			return throttle.ErrInvalidWait
		}
		w.settleDelay = d
		return nil
	}
}

// WithOnReady registers a callback run after each successful reload.
func WithOnReady(fn func()) WatchOption {
	return func(w *Watcher) error {
		w.onReady = fn
		return nil
	}
}

// NewWatcher creates a watcher for the index file at path.
func NewWatcher(loader *Loader, path string, opts ...WatchOption) (*Watcher, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if path == "" {
		return nil, ErrIndexPathRequired
	}

	w := &Watcher{
		loader:      loader,
		path:        filepath.Clean(path),
		settleDelay: defaultSettleDelay,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	reload, err := throttle.New(w.reloadIndex, w.settleDelay,
		throttle.WithLogger[context.Context](w.logger))
	if err != nil {
		return nil, err
	}
	w.reload = reload

	return w, nil
}

// Start begins watching. The directory holding the index file is watched so
// that editors replacing the file by rename are still observed.
// Watching stops when ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	w.watcher = fsw

	w.wg.Add(1)
	go w.run(ctx)

	w.logger.Info("watching index file", "path", w.path)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("index file changed", "op", event.Op.String())
			w.reload.Call(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("index watcher error", "err", err)
		}
	}
}

func (w *Watcher) reloadIndex(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := w.loader.Load(ctx, w.path); err != nil {
		w.logger.Error("error reloading index", "path", w.path, "err", err)
		return
	}
	if w.onReady != nil {
		w.onReady()
	}
}

// Close stops watching and cancels any pending reload.
func (w *Watcher) Close() error {
	w.reload.Stop()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
