package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the window within which a burst of filesystem
// events collapses into a single change notification.
const DefaultDebounce = 50 * time.Millisecond

// Watch monitors the document at path and calls onChange once per
// detected change, debounced. It runs until ctx is cancelled.
//
// The watch is placed on the parent directory rather than the file
// itself: editors commonly save atomically via rename, which replaces
// the inode and would silently detach a file-level watch. Events are
// filtered down to the watched name.
//
// Watcher errors are logged and the loop keeps running so future
// changes are still observed.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	slog.Info("watch: watching for changes", "path", target)

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
			// Write and Create cover in-place edits; Rename and Remove
			// show up when an atomic save swaps the file in.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			pending = time.After(debounce)

		case <-pending:
			pending = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch: watcher error", "err", err)
		}
	}
}
