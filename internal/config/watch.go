package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadDebounce coalesces the burst of events an editor save produces.
const ReloadDebounce = 250 * time.Millisecond

// Watch reloads the file at path whenever it changes and passes each valid
// document to onChange. Invalid documents are logged and dropped so the
// caller keeps its current config. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	target = filepath.Clean(target)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer watcher.Close()

	// Editors replace the file on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	return watchLoop(ctx, watcher.Events, watcher.Errors, target, ReloadDebounce, func() {
		cfg, err := Load(target)
		if err != nil {
			slog.Warn("config change rejected", slog.String("path", target), slog.Any("error", err))
			return
		}
		slog.Info("config reloaded", slog.String("path", target), slog.Int("actions", len(cfg.Actions)))
		onChange(cfg)
	})
}

func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, target string, debounce time.Duration, reload func()) error {
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
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timerCh
				}
				timer.Reset(debounce)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			reload()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			slog.Warn("config watcher error", slog.Any("error", err))
		}
	}
}
