package scanner

import (
	"os"
	"path/filepath"

	"github.com/burrowscan/burrow/pkg/burrow/types"
)

// worker loops: pop a directory, expand it, account for it. Pop parks the
// goroutine while the queue is empty; it returns ok=false once the queue
// has been closed, either by termination detection or by Stop.
func (c *Controller) worker(sess *scanSession, id int) {
	c.logger.Debug("worker started", "scan_id", sess.id, "worker", id)

	for {
		dir, ok := sess.queue.Pop()
		if !ok {
			c.logger.Debug("worker exiting", "scan_id", sess.id, "worker", id)
			return
		}
		if sess.stopped() {
			return
		}

		c.expandDirectory(sess, dir)

		// The synchronized completion check: this directory is done, and
		// any subdirectories it produced were counted before being
		// enqueued. Zero means no queued and no in-progress work remains
		// anywhere in the pool.
		if sess.inFlight.Add(-1) == 0 {
			sess.queue.Close()
		}
	}
}

// expandDirectory lists one directory and records every entry. Listing
// failures are absorbed: recorded, counted as skipped, never fatal.
func (c *Controller) expandDirectory(sess *scanSession, dir string) {
	c.tracker.Touch(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		c.addError(dir, err)
		if dir == sess.root {
			sess.rootErr.Store(err.Error())
		}
		return
	}

	for _, entry := range entries {
		if sess.stopped() {
			return
		}

		fullPath := filepath.Join(dir, entry.Name())
		if c.isExcluded(fullPath) {
			continue
		}

		// IsDir reflects the entry's own type: a symlink to a directory
		// is recorded as a plain entry and never followed, so traversal
		// cannot cycle.
		stats := types.FileStats{
			Path:        fullPath,
			Parent:      dir,
			IsDirectory: entry.IsDir(),
		}

		// Best-effort metadata: a failed stat leaves zero timestamps and
		// size 0, it does not skip the entry.
		if info, err := entry.Info(); err == nil {
			if !stats.IsDirectory {
				stats.Size = info.Size()
			}
			stats.ModifiedAt = info.ModTime()
			stats.CreatedAt = getCreateTime(info)
		}

		c.store.Insert(stats)
		c.tracker.Touch(fullPath)

		if stats.IsDirectory {
			c.tracker.AddDirectory()
			// Count before enqueuing so inFlight can never observe a
			// false zero between the push and the pop.
			sess.inFlight.Add(1)
			sess.queue.Push(fullPath)
		} else {
			c.tracker.AddFile(stats.Size)
		}

		if c.opts.EmitEntries {
			entryCopy := stats
			// Guaranteed delivery, but a stop request must still be able
			// to free a worker parked on a full channel.
			select {
			case c.emitter.ch <- Event{Type: EventEntryDiscovered, ScanID: sess.id, Entry: &entryCopy}:
			case <-sess.stop:
				return
			}
		}
	}

	// One progress event per directory batch, further throttled by the
	// emitter interval.
	snap := c.tracker.Snapshot()
	c.emitter.sendProgress(Event{
		Type: EventProgressUpdated, ScanID: sess.id, Progress: &snap,
	})
}

// isExcluded checks if a path matches any exclusion pattern, either as a
// prefix (for excluded directories) or as a glob against the base name or
// the full path.
func (c *Controller) isExcluded(path string) bool {
	for _, pattern := range c.opts.Exclude {
		if pattern == "" {
			continue
		}

		if path == pattern {
			return true
		}
		if len(path) > len(pattern) && path[:len(pattern)+1] == pattern+string(filepath.Separator) {
			return true
		}

		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}
