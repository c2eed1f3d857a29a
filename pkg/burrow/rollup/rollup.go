// Package rollup implements the bottom-up directory-size aggregation pass
// that runs over a stats snapshot after a walk has finished. It is a pure
// computation: callers apply the returned sizes to the store themselves.
package rollup

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/burrowscan/burrow/pkg/burrow/logging"
	"github.com/burrowscan/burrow/pkg/burrow/types"
)

// Result holds the outcome of one rollup pass.
type Result struct {
	// Sizes maps every directory path in the snapshot to its aggregate
	// size: the sum of its direct children, files as discovered and
	// subdirectories post-rollup. Leaf directories map to 0.
	Sizes map[string]int64

	// Orphans lists entries whose parent was absent from the snapshot.
	// They are skipped, never fatal.
	Orphans []string
}

// Run aggregates directory sizes bottom-up from parent links.
//
// Directories are processed strictly deepest-first using an indexed child
// list and a sorted worklist instead of recursion, so arbitrarily deep
// trees cannot exhaust the goroutine stack. Because every size is
// recomputed from the snapshot's file sizes, re-running the pass on an
// unchanged snapshot reproduces identical results.
func Run(snapshot map[string]types.FileStats) Result {
	logger := logging.Get("rollup")

	children := make(map[string][]string)
	var dirs []string
	var orphans []string

	for path, stats := range snapshot {
		if stats.IsDirectory {
			dirs = append(dirs, path)
		}
		if stats.Parent == "" {
			continue
		}
		if _, ok := snapshot[stats.Parent]; !ok {
			logger.Warn("orphan record, parent missing from snapshot",
				"path", path, "parent", stats.Parent)
			orphans = append(orphans, path)
			continue
		}
		children[stats.Parent] = append(children[stats.Parent], path)
	}

	// Deepest directories first, so a directory's aggregate is computed
	// only after all of its descendants are finalized.
	sort.Slice(dirs, func(i, j int) bool {
		return depth(dirs[i]) > depth(dirs[j])
	})

	sizes := make(map[string]int64, len(dirs))
	for _, dir := range dirs {
		var total int64
		for _, child := range children[dir] {
			stats := snapshot[child]
			if stats.IsDirectory {
				total += sizes[child]
			} else {
				total += stats.Size
			}
		}
		sizes[dir] = total
	}

	return Result{Sizes: sizes, Orphans: orphans}
}

// depth orders canonical absolute paths parent-before-child by separator
// count. The filesystem root ends in a separator that no child repeats
// ("/" vs "/a"), so it is trimmed first; otherwise the root would tie with
// its direct children and could be summed before them.
func depth(path string) int {
	sep := string(filepath.Separator)
	return strings.Count(strings.TrimSuffix(path, sep), sep)
}
