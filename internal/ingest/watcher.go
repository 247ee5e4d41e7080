package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long the export must stay quiet before a re-sync.
const debounce = 200 * time.Millisecond

// Watch calls run each time the file at path is created, written or
// replaced, until ctx is cancelled. Bursts of events within the debounce
// window trigger a single run. Run errors are logged, not returned.
func Watch(ctx context.Context, path string, logger *slog.Logger, run func(context.Context) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: editors and exporters often replace the file by
	// rename, which drops a watch on the file itself.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			logger.Info("watcher: export changed, syncing", slog.String("path", abs))
			if err := run(ctx); err != nil {
				logger.Error("watcher: sync failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				logger.Debug("watcher: event", slog.String("op", ev.Op.String()))
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

// SyncAndWatch calls run once, then watches path like Watch. A failed
// first run is logged and the watch still starts.
func SyncAndWatch(ctx context.Context, path string, logger *slog.Logger, run func(context.Context) error) error {
	if err := run(ctx); err != nil {
		logger.Error("initial sync failed", slog.String("error", err.Error()))
	}
	if ctx.Err() != nil {
		return nil
	}
	return Watch(ctx, path, logger, run)
}
