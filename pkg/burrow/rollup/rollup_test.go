package rollup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowscan/burrow/pkg/burrow/types"
)

// snapshot builds the tree from the acceptance scenario:
// root/{a.txt=10, sub/{b.txt=20}}.
func scenarioSnapshot() map[string]types.FileStats {
	return map[string]types.FileStats{
		"/root":           {Path: "/root", IsDirectory: true},
		"/root/a.txt":     {Path: "/root/a.txt", Size: 10, Parent: "/root"},
		"/root/sub":       {Path: "/root/sub", IsDirectory: true, Parent: "/root"},
		"/root/sub/b.txt": {Path: "/root/sub/b.txt", Size: 20, Parent: "/root/sub"},
	}
}

func TestRun_AggregatesBottomUp(t *testing.T) {
	res := Run(scenarioSnapshot())

	assert.Equal(t, int64(20), res.Sizes["/root/sub"])
	assert.Equal(t, int64(30), res.Sizes["/root"])
	assert.Empty(t, res.Orphans)
}

func TestRun_Idempotent(t *testing.T) {
	snap := scenarioSnapshot()

	first := Run(snap)
	second := Run(snap)
	assert.Equal(t, first.Sizes, second.Sizes)

	// Applying the first result's directory sizes to the snapshot and
	// re-running must still produce identical aggregates: directory
	// sizes are recomputed from files, never accumulated.
	for path, size := range first.Sizes {
		stats := snap[path]
		stats.Size = size
		snap[path] = stats
	}
	third := Run(snap)
	assert.Equal(t, first.Sizes, third.Sizes)
}

func TestRun_LeafDirectoryIsZero(t *testing.T) {
	snap := map[string]types.FileStats{
		"/root":       {Path: "/root", IsDirectory: true},
		"/root/empty": {Path: "/root/empty", IsDirectory: true, Parent: "/root"},
	}
	res := Run(snap)

	assert.Equal(t, int64(0), res.Sizes["/root/empty"])
	assert.Equal(t, int64(0), res.Sizes["/root"])
}

func TestRun_DirectorySizesCountNestedFilesOnce(t *testing.T) {
	snap := map[string]types.FileStats{
		"/r":         {Path: "/r", IsDirectory: true},
		"/r/f1":      {Path: "/r/f1", Size: 5, Parent: "/r"},
		"/r/d1":      {Path: "/r/d1", IsDirectory: true, Parent: "/r"},
		"/r/d1/f2":   {Path: "/r/d1/f2", Size: 7, Parent: "/r/d1"},
		"/r/d1/d2":   {Path: "/r/d1/d2", IsDirectory: true, Parent: "/r/d1"},
		"/r/d1/d2/f": {Path: "/r/d1/d2/f", Size: 11, Parent: "/r/d1/d2"},
	}
	res := Run(snap)

	assert.Equal(t, int64(11), res.Sizes["/r/d1/d2"])
	assert.Equal(t, int64(18), res.Sizes["/r/d1"])
	assert.Equal(t, int64(23), res.Sizes["/r"])
}

// TestRun_FilesystemRootOrdersBeforeChildren pins the ordering for a scan
// rooted at "/": "/" and "/a" contain the same number of separators, so a
// naive separator count would let the root be summed before its child
// directories are finalized.
func TestRun_FilesystemRootOrdersBeforeChildren(t *testing.T) {
	snap := map[string]types.FileStats{
		"/":    {Path: "/", IsDirectory: true},
		"/a":   {Path: "/a", IsDirectory: true, Parent: "/"},
		"/a/f": {Path: "/a/f", Size: 5, Parent: "/a"},
		"/b":   {Path: "/b", Size: 2, Parent: "/"},
	}

	for i := 0; i < 200; i++ {
		res := Run(snap)
		require.Equal(t, int64(5), res.Sizes["/a"])
		require.Equal(t, int64(7), res.Sizes["/"])
	}
}

func TestRun_OrphanSkippedNotFatal(t *testing.T) {
	snap := scenarioSnapshot()
	snap["/elsewhere/ghost.txt"] = types.FileStats{
		Path: "/elsewhere/ghost.txt", Size: 99, Parent: "/elsewhere",
	}

	res := Run(snap)

	require.Len(t, res.Orphans, 1)
	assert.Equal(t, "/elsewhere/ghost.txt", res.Orphans[0])
	// The orphan contributes to nothing.
	assert.Equal(t, int64(30), res.Sizes["/root"])
}

// TestRun_DeepChainNoRecursion builds a pathologically deep directory
// chain; the pass must handle it without growing the call stack.
func TestRun_DeepChainNoRecursion(t *testing.T) {
	const depth = 5000

	snap := make(map[string]types.FileStats, depth+1)
	parent := ""
	path := ""
	for i := 0; i < depth; i++ {
		path = fmt.Sprintf("%s/d", path)
		snap[path] = types.FileStats{Path: path, IsDirectory: true, Parent: parent}
		parent = path
	}
	leafFile := path + "/f"
	snap[leafFile] = types.FileStats{Path: leafFile, Size: 1, Parent: path}

	res := Run(snap)

	assert.Equal(t, int64(1), res.Sizes["/d"], "size must propagate to the top")
	assert.Equal(t, int64(1), res.Sizes[path], "deepest directory holds the file")
}
