package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/repotasks/repo-tasks/internal/storage/filesystem"
	"github.com/repotasks/repo-tasks/internal/types"
)

const watchDebounce = 500 * time.Millisecond

// watchTasks redisplays the list whenever a task file in one of the
// filtered status directories changes, until ctx is cancelled.
func watchTasks(ctx context.Context, w *workspace, filter listFilter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }() // Best effort cleanup

	root := filepath.Join(w.TasksDir, filesystem.TasksDirName)
	for _, status := range filter.Statuses {
		dir := filepath.Join(root, string(status))
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	redraw := func() {
		tasks, err := listTasks(ctx, w, filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error refreshing tasks: %v\n", err)
			return
		}
		// Clear screen and home the cursor.
		fmt.Fprint(stdout, "\033[H\033[2J")
		displayTaskList(tasks, filter, w.Config.Priorities)
		fmt.Fprintf(os.Stderr, "\nWatching for changes... (Press Ctrl+C to exit)\n")
	}
	redraw()

	// Timer events are delivered here so every redraw happens on this goroutine.
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(os.Stderr, "\nStopped watching.\n")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isTaskEvent(event) {
				debounce = time.After(watchDebounce)
			}
		case <-debounce:
			debounce = nil
			redraw()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}

// isTaskEvent ignores temp files written during atomic saves.
func isTaskEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, types.FileExt) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
