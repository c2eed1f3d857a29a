// Package progress maintains the atomic running totals of an active scan.
//
// CurrentPath is a single shared last-touched slot rather than one slot per
// worker, so under concurrency it can appear to jump between directories.
// That is an accepted approximation: the field exists for display, not for
// correctness.
package progress

import (
	"sync/atomic"

	"github.com/burrowscan/burrow/pkg/burrow/types"
)

// Tracker aggregates scan counters with atomic operations only; it holds no
// lock and is safe to read from any goroutine at any time.
type Tracker struct {
	files    atomic.Int64
	dirs     atomic.Int64
	bytes    atomic.Int64
	skipped  atomic.Int64
	lastPath atomic.Value
	scanning atomic.Bool
}

// New returns a zeroed tracker.
func New() *Tracker {
	t := &Tracker{}
	t.lastPath.Store("")
	return t
}

// AddFile records one discovered file of the given size.
func (t *Tracker) AddFile(size int64) {
	t.files.Add(1)
	t.bytes.Add(size)
}

// AddDirectory records one discovered directory.
func (t *Tracker) AddDirectory() {
	t.dirs.Add(1)
}

// AddSkipped records one entry or directory that could not be read.
func (t *Tracker) AddSkipped() {
	t.skipped.Add(1)
}

// Touch updates the best-effort last-touched path.
func (t *Tracker) Touch(path string) {
	t.lastPath.Store(path)
}

// SetScanning flips the scanning flag.
func (t *Tracker) SetScanning(v bool) {
	t.scanning.Store(v)
}

// IsScanning reports whether a walk is active.
func (t *Tracker) IsScanning() bool {
	return t.scanning.Load()
}

// Snapshot returns an immutable progress value. Counters are read
// independently, so a snapshot taken mid-scan is eventually consistent
// rather than atomic across fields.
func (t *Tracker) Snapshot() types.ScanProgress {
	current, _ := t.lastPath.Load().(string)
	return types.ScanProgress{
		TotalFiles:       t.files.Load(),
		TotalDirectories: t.dirs.Load(),
		TotalSizeSoFar:   t.bytes.Load(),
		SkippedEntries:   t.skipped.Load(),
		CurrentPath:      current,
		IsScanning:       t.scanning.Load(),
	}
}

// Reset zeroes every counter and clears the last-touched path.
func (t *Tracker) Reset() {
	t.files.Store(0)
	t.dirs.Store(0)
	t.bytes.Store(0)
	t.skipped.Store(0)
	t.lastPath.Store("")
	t.scanning.Store(false)
}
