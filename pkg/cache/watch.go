package cache

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch drops cached playable entries whose files disappear from the
// Video or Audio directories. It returns once the watch is established;
// watching stops when ctx is done.
func (c *Cache) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cache: failed to create watcher: %w", err)
	}
	for _, dir := range []string{c.layout.VideoDir(), c.layout.AudioDir()} {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return fmt.Errorf("cache: failed to watch %s: %w", dir, err)
		}
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				c.handleFSEvent(event)
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				c.log.Warn("cache watcher error", "err", err)
			}
		}
	}()
	return nil
}

// handleFSEvent forgets entries for removed or renamed files.
func (c *Cache) handleFSEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if isTempName(filepath.Base(event.Name)) {
		return
	}
	path := event.Name
	c.dispatcher.Dispatch(func() {
		if c.forgetPath(path) {
			c.log.Info("persisted media removed externally", "path", path)
		}
	})
}
