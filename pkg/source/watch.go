package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 200 * time.Millisecond

// Watch reloads path whenever it changes and passes each successfully
// loaded graph to fn. Load errors are logged and the previous graph stays
// in use. Watch blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file so that editors
// which save by rename keep being noticed.
func Watch(ctx context.Context, path string, opts Options, logger *log.Logger, fn func(*Loaded)) error {
	if logger == nil {
		logger = log.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(reloadDelay)
	timer.Stop()

	logger.Info("Watching graph file", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(reloadDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error", "err", err)

		case <-timer.C:
			loaded, err := Load(ctx, abs, opts)
			if err != nil {
				logger.Error("Reload failed, keeping previous graph", "path", abs, "err", err)
				continue
			}
			logger.Info("Graph reloaded", "path", abs, "nodes", len(loaded.Graph.Nodes), "edges", len(loaded.Graph.Edges))
			fn(loaded)
		}
	}
}
