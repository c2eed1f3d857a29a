// Package types provides the core data types for the burrow scanning engine:
// per-entry file statistics, progress snapshots, scan summaries, and the
// lifecycle error taxonomy shared by the engine and its consumers.
package types

import (
	"errors"
	"time"
)

// Lifecycle errors surfaced synchronously to callers. Entry-level and
// directory-level failures during a walk are absorbed and counted instead.
var (
	// ErrInvalidPath indicates the scan root does not exist or is not a
	// directory.
	ErrInvalidPath = errors.New("path does not exist or is not a directory")

	// ErrAlreadyScanning indicates a conflicting start or clear while a
	// scan is active.
	ErrAlreadyScanning = errors.New("a scan is already in progress")
)

// FileStats describes one entry discovered during a walk. Records are
// immutable once inserted, except for the Size of directories, which the
// rollup pass rewrites after the walk has ended.
type FileStats struct {
	// Path is the canonical absolute path; unique key in the stats store.
	Path string `json:"path"`

	// Size is the byte size. For files it is the metadata size at
	// discovery time. For directories it is 0 until the rollup pass runs,
	// after which it is the aggregate of all descendants.
	Size int64 `json:"size"`

	// IsDirectory reports whether the entry is a directory.
	IsDirectory bool `json:"is_directory"`

	// Parent is the path of the containing directory. Empty only for the
	// scan root.
	Parent string `json:"parent,omitempty"`

	// ModifiedAt is the last modification time. Zero when metadata was
	// unavailable or unreadable.
	ModifiedAt time.Time `json:"modified_at,omitzero"`

	// CreatedAt is the creation (birth) time where the platform exposes
	// one. Zero when unavailable.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// HumanSize returns the entry size formatted with binary (IEC) units.
func (f *FileStats) HumanSize() string {
	return FormatSize(f.Size)
}

// ScanProgress is a point-in-time snapshot of an active or finished scan.
// Counters are eventually consistent and safe to read mid-scan.
type ScanProgress struct {
	// TotalFiles is the number of file entries discovered so far.
	TotalFiles int64 `json:"total_files"`

	// TotalDirectories is the number of directory entries discovered so
	// far. The scan root itself is not counted.
	TotalDirectories int64 `json:"total_directories"`

	// TotalSizeSoFar is the sum of file sizes observed so far, pre-rollup.
	TotalSizeSoFar int64 `json:"total_size_so_far"`

	// SkippedEntries counts directories and entries that could not be
	// read and were skipped.
	SkippedEntries int64 `json:"skipped_entries,omitempty"`

	// CurrentPath is the last path touched by any worker. It is a single
	// shared slot, so it may jump between workers; best-effort only.
	CurrentPath string `json:"current_path"`

	// IsScanning reports whether a walk is active.
	IsScanning bool `json:"is_scanning"`
}

// ScanError pairs a path with the error that was absorbed there. Such
// errors reduce what a scan records but never abort it.
type ScanError struct {
	// Path is the file or directory where the error occurred.
	Path string `json:"path"`

	// Error is the message describing what went wrong.
	Error string `json:"error"`
}

// ScanSummary is produced once a scan reaches a terminal state.
type ScanSummary struct {
	// ScanID identifies the scan session the summary belongs to.
	ScanID string `json:"scan_id"`

	// Root is the resolved absolute path that was scanned.
	Root string `json:"root"`

	// TotalFiles is the final file count.
	TotalFiles int64 `json:"total_files"`

	// TotalDirectories is the final directory count, excluding the root.
	TotalDirectories int64 `json:"total_directories"`

	// TotalSize is the sum of all recorded file sizes.
	TotalSize int64 `json:"total_size"`

	// SkippedEntries counts entries skipped due to read failures.
	SkippedEntries int64 `json:"skipped_entries,omitempty"`

	// Errors holds the absorbed per-path errors, for diagnostics.
	Errors []ScanError `json:"errors,omitempty"`

	// Elapsed is the wall-clock duration of the walk.
	Elapsed time.Duration `json:"elapsed"`
}
