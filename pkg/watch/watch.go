// Package watch re-runs work when a file changes on disk.
//
// Editors often save by writing a temporary file and renaming it over the
// original, which removes the watched inode. [File] therefore watches the
// parent directory and filters events by name, so it keeps working across
// such saves. Bursts of events are collapsed with a debounce timer.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when File is given a non-positive debounce.
const DefaultDebounce = 200 * time.Millisecond

// ErrorFunc receives watcher errors that do not stop the watch.
type ErrorFunc func(error)

// File calls fn every time path is written, created or renamed into place,
// at most once per debounce window. It blocks until ctx is done and then
// returns ctx.Err(). An error from fn is passed to onErr (if non-nil) and the
// watch continues.
func File(ctx context.Context, path string, debounce time.Duration, fn func(context.Context) error, onErr ErrorFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	report := func(err error) {
		if err != nil && onErr != nil {
			onErr(err)
		}
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !relevant(event.Op) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			report(err)

		case <-timer.C:
			report(fn(ctx))
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
