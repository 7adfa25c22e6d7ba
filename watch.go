package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/df07/go-frustum-survey/pkg/core"
)

// watchDebounce groups the burst of events editors emit for one save
const watchDebounce = 200 * time.Millisecond

// watchScene runs fn once, then again after every change to path, until ctx
// is done. Errors from fn are logged and do not stop watching. The parent
// directory is watched since editors often save by replacing the file.
func watchScene(ctx context.Context, path string, logger core.Logger, fn func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}

	if err := fn(ctx); err != nil {
		logger.Printf("survey failed: %v", err)
	}
	logger.Printf("watching %s for changes", target)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("watch error: %v", err)
		case <-pending:
			pending = nil
			logger.Printf("%s changed, re-running", target)
			if err := fn(ctx); err != nil {
				logger.Printf("survey failed: %v", err)
			}
		}
	}
}
