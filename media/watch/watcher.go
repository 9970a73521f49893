package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/leeforge/photoconv/logging"
	"github.com/leeforge/photoconv/media/processor"
)

// DefaultDebounce is how long the folder has to stay quiet before a run.
const DefaultDebounce = 500 * time.Millisecond

// Watcher triggers a callback when supported images in a folder change.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   logging.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching dir. Sub directories are not watched.
func NewWatcher(dir string, debounce time.Duration, logger logging.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		debounce: debounce,
		logger:   logger,
		watcher:  fsWatcher,
	}, nil
}

// Run blocks until ctx is done, calling onChange once per burst of events.
// onChange runs on the calling goroutine, so runs never overlap; events that
// arrive during a run schedule the next one.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	defer w.watcher.Close()

	w.logger.Info("Watching folder", zap.String("dir", w.dir))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("change detected", zap.String("file", filepath.Base(event.Name)), zap.Stringer("op", event.Op))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("watcher error")

		case <-fire:
			fire = nil
			onChange(ctx)
		}
	}
}

// Close stops watching without waiting for Run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// relevant filters out chmod-only events, hidden or temporary files and
// unsupported extensions.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false
	}
	return processor.IsSupported(name)
}
