package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay groups the burst of events a single save produces
const debounceDelay = 200 * time.Millisecond

// fileWatcher reports changes to one file.
//
// The parent directory is watched rather than the file itself so that
// editors which replace the file on save are still noticed.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	changes chan struct{}
	logger  *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// watchFile starts watching path until ctx is done or Close is called.
func watchFile(ctx context.Context, path string, logger *slog.Logger) (*fileWatcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &fileWatcher{
		watcher: watcher,
		path:    abs,
		changes: make(chan struct{}, 1),
		logger:  logger,
		done:    make(chan struct{}),
	}
	go w.loop(ctx)
	return w, nil
}

// Changes delivers one value per debounced burst of changes. Pending
// notifications are coalesced.
func (w *fileWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher.
func (w *fileWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

// loop handles file system events.
func (w *fileWatcher) loop(ctx context.Context) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.notify)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", slog.String("path", w.path), slog.Any("error", err))
		}
	}
}

func (w *fileWatcher) notify() {
	w.logger.Debug("file changed", slog.String("path", w.path))
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
