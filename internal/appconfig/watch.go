package appconfig

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reports external modifications of the backing file until the
// context is cancelled. Each write or create event for the file invokes
// onChange from the watcher goroutine; callers that want the store
// updated post a Reload onto the main loop from there.
//
// The parent directory is watched rather than the file itself so that
// editors which replace the file (rename-over-write) keep being seen.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			log.Printf("Error closing config watcher: %v", closeErr)
		}
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Printf("Error closing config watcher: %v", err)
			}
		}()

		target := filepath.Clean(s.path)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Config watcher error: %v", err)
			}
		}
	}()

	return nil
}
