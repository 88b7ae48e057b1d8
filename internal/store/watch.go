package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"showcase-cli/internal/model"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher reloads a local catalog whenever its file changes. Successful reloads
// are passed to OnReload; failed reloads are logged and the current catalog is kept.
type Watcher struct {
	Loader   Loader
	OnReload func(model.Catalog)
	Debounce time.Duration

	watcher *fsnotify.Watcher
	path    string
	doneCh  chan struct{}
	once    sync.Once
}

// NewWatcher watches the directory containing the loader's local source, so that
// editors which save by rename are still observed.
func NewWatcher(l Loader, onReload func(model.Catalog)) (*Watcher, error) {
	path, ok := l.LocalPath()
	if !ok {
		return nil, fmt.Errorf("watch: %s is not a local file", l.Source)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch: %w", err)
	}
	return &Watcher{
		Loader:   l,
		OnReload: onReload,
		Debounce: defaultDebounce,
		watcher:  fw,
		path:     abs,
		doneCh:   make(chan struct{}),
	}, nil
}

// Run blocks until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.doneCh)
	log := w.Loader.logger()
	log.Debug("watching catalog", zap.String("path", w.path))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce())
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce())
			}
			timerCh = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("catalog watcher error", zap.Error(err))
		case <-timerCh:
			timerCh = nil
			w.reload(ctx)
		}
	}
}

// Close stops the watcher; a running Run returns once the event channels close.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() { err = w.watcher.Close() })
	return err
}

// Done is closed when Run returns.
func (w *Watcher) Done() <-chan struct{} { return w.doneCh }

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return abs == w.path
}

func (w *Watcher) reload(ctx context.Context) {
	log := w.Loader.logger()
	c, err := w.Loader.Fetch(ctx)
	if err != nil {
		log.Warn("catalog reload failed; keeping current catalog", zap.String("source", w.Loader.Source), zap.Error(err))
		return
	}
	log.Info("catalog reloaded", zap.String("source", w.Loader.Source), zap.Int("projects", len(c.Projects)))
	if w.OnReload != nil {
		w.OnReload(c)
	}
}

func (w *Watcher) debounce() time.Duration {
	if w.Debounce <= 0 {
		return defaultDebounce
	}
	return w.Debounce
}
