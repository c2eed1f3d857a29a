package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowscan/burrow/pkg/burrow/types"
)

func TestStore_InsertAndGet(t *testing.T) {
	s := New()

	stats := types.FileStats{Path: "/root/file.txt", Size: 42, Parent: "/root"}
	s.Insert(stats)

	got, ok := s.Get("/root/file.txt")
	require.True(t, ok)
	assert.Equal(t, stats, got)

	_, ok = s.Get("/root/missing")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStore_InsertReplacesExisting(t *testing.T) {
	s := New()
	s.Insert(types.FileStats{Path: "/a", Size: 1})
	s.Insert(types.FileStats{Path: "/a", Size: 2})

	got, ok := s.Get("/a")
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Size)
	assert.Equal(t, 1, s.Len())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := New()
	s.Insert(types.FileStats{Path: "/a", Size: 1})

	snap := s.Snapshot()
	snap["/a"] = types.FileStats{Path: "/a", Size: 999}
	snap["/b"] = types.FileStats{Path: "/b"}

	got, ok := s.Get("/a")
	require.True(t, ok)
	assert.Equal(t, int64(1), got.Size, "mutating a snapshot must not touch the store")
	assert.Equal(t, 1, s.Len())
}

func TestStore_Clear(t *testing.T) {
	s := New()
	s.Insert(types.FileStats{Path: "/a"})
	s.Insert(types.FileStats{Path: "/b"})

	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("/a")
	assert.False(t, ok)
}

func TestStore_ApplySizesOnlyTouchesDirectories(t *testing.T) {
	s := New()
	s.Insert(types.FileStats{Path: "/dir", IsDirectory: true})
	s.Insert(types.FileStats{Path: "/dir/file", Size: 10})

	s.ApplySizes(map[string]int64{
		"/dir":      10,
		"/dir/file": 999, // files must be ignored
		"/absent":   5,   // unknown paths must be ignored
	})

	dir, ok := s.Get("/dir")
	require.True(t, ok)
	assert.Equal(t, int64(10), dir.Size)

	file, ok := s.Get("/dir/file")
	require.True(t, ok)
	assert.Equal(t, int64(10), file.Size)

	_, ok = s.Get("/absent")
	assert.False(t, ok)
}

// TestStore_ConcurrentReadersAndWriters verifies snapshots taken while
// writers are active are always well-formed.
func TestStore_ConcurrentReadersAndWriters(t *testing.T) {
	s := New()

	const writers = 4
	const perWriter = 500

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				path := fmt.Sprintf("/w%d/f%d", w, i)
				s.Insert(types.FileStats{Path: path, Size: int64(i), Parent: fmt.Sprintf("/w%d", w)})
			}
		}(w)
	}

	stop := make(chan struct{})
	var readers sync.WaitGroup
	for r := 0; r < 2; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for path, stats := range s.Snapshot() {
					// Every record visible mid-write is complete.
					assert.Equal(t, path, stats.Path)
				}
			}
		}()
	}

	wg.Wait()
	close(stop)
	readers.Wait()

	assert.Equal(t, writers*perWriter, s.Len())
}
