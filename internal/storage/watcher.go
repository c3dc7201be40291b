package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/goldstar/internal/apperr"
)

const watchDebounce = 100 * time.Millisecond

// ChangeCallback receives the new contents of a record edited outside this process.
type ChangeCallback func(data []byte)

// Watch observes the FS root and calls cb whenever the file for key is
// replaced by another writer. Writes made through f itself are ignored.
// It blocks until ctx is cancelled.
//
// The root directory is watched rather than the file because atomic
// renames replace the inode and would drop a file-level watch.
func Watch(ctx context.Context, f *FS, key string, logger *slog.Logger, cb ChangeCallback) error {
	target, err := f.Path(key)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(f.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", target))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(watchDebounce)
			debounceCh = debounce.C
		} else {
			debounce.Reset(watchDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			data, loadErr := f.Load(key)
			if loadErr != nil {
				if !errors.Is(loadErr, apperr.ErrNotFound) {
					logger.Warn("watcher: read failed", slog.String("error", loadErr.Error()))
				}
				continue
			}
			if f.ownWrite(key, data) {
				continue
			}
			logger.Debug("watcher: external change", slog.String("path", target))
			if cb != nil {
				cb(data)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
