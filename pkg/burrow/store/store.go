// Package store implements the concurrent mapping from canonical path to
// FileStats that serves as the single source of truth for discovered
// entries. It is backed by a sharded concurrent map so that mid-scan
// queries never serialize the worker pool behind one global lock.
package store

import (
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/burrowscan/burrow/pkg/burrow/types"
)

// Store is a concurrency-safe path -> FileStats mapping. Records are
// treated as immutable once inserted; only ApplySizes rewrites directory
// sizes, after all workers have stopped.
type Store struct {
	entries cmap.ConcurrentMap[string, types.FileStats]
}

// New returns an empty store.
func New() *Store {
	return &Store{entries: cmap.New[types.FileStats]()}
}

// Insert records an entry, replacing any previous record for the path.
func (s *Store) Insert(stats types.FileStats) {
	s.entries.Set(stats.Path, stats)
}

// Get returns the entry for path, if present.
func (s *Store) Get(path string) (types.FileStats, bool) {
	return s.entries.Get(path)
}

// Len returns the number of recorded entries.
func (s *Store) Len() int {
	return s.entries.Count()
}

// Snapshot returns an immutable copy of all entries. Shards are copied one
// at a time, so a snapshot taken mid-scan is well-formed but may straddle
// concurrent inserts.
func (s *Store) Snapshot() map[string]types.FileStats {
	return s.entries.Items()
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.entries.Clear()
}

// ApplySizes rewrites the size of the named entries. Only directory
// entries already present are touched; anything else in the map is
// ignored. This is the rollup pass write-back, and the controller runs it
// only while no workers are active.
func (s *Store) ApplySizes(sizes map[string]int64) {
	for path, size := range sizes {
		if stats, ok := s.entries.Get(path); ok && stats.IsDirectory {
			stats.Size = size
			s.entries.Set(path, stats)
		}
	}
}
