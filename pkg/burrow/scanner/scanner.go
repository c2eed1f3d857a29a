package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/burrowscan/burrow/pkg/burrow/logging"
	"github.com/burrowscan/burrow/pkg/burrow/progress"
	"github.com/burrowscan/burrow/pkg/burrow/queue"
	"github.com/burrowscan/burrow/pkg/burrow/rollup"
	"github.com/burrowscan/burrow/pkg/burrow/store"
	"github.com/burrowscan/burrow/pkg/burrow/types"
)

// State is the controller lifecycle state.
type State int32

// Lifecycle states. Idle -> Scanning on Start, Scanning -> Completed on
// termination detection, Scanning -> Stopped on Stop, and Completed or
// Stopped -> Idle on Clear or the next Start.
const (
	StateIdle State = iota
	StateScanning
	StateCompleted
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// scanSession holds the per-scan coordination state. A fresh session per
// Start keeps workers from a stopped scan, still draining within the stop
// grace period, from touching the next scan's queue or counters.
type scanSession struct {
	id        string
	root      string
	startedAt time.Time

	queue *queue.PathQueue

	// inFlight counts directories enqueued but not yet fully processed,
	// seeded with 1 for the root. A worker finishing a directory while
	// others still hold work can never drive it to zero, so reaching
	// zero is exactly the "queue empty and every worker idle" condition.
	inFlight atomic.Int64

	done chan struct{}

	// rootErr records a listing failure on the scan root itself.
	rootErr atomic.Value

	// stop is closed on Stop: the cooperative cancellation signal,
	// observed by workers at directory-iteration boundaries and inside
	// blocking event sends.
	stop chan struct{}
}

// stopped reports whether cancellation has been requested.
func (s *scanSession) stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

// EntryDetails is a FileStats record together with its direct children,
// sorted by size descending.
type EntryDetails struct {
	types.FileStats
	Children []types.FileStats
}

// Controller owns the path queue, stats store, progress tracker, and
// worker pool, and exposes the scan lifecycle. Create one per independent
// scanner; there is no ambient singleton.
type Controller struct {
	opts    Options
	logger  *logging.Logger
	store   *store.Store
	tracker *progress.Tracker
	emitter *emitter

	mu    sync.Mutex
	state State
	sess  *scanSession

	errorsMu sync.Mutex
	errors   []types.ScanError
}

// New creates a Controller with the given options.
func New(opts Options) *Controller {
	_ = opts.Validate()
	return &Controller{
		opts:    opts,
		logger:  logging.Get("scanner"),
		store:   store.New(),
		tracker: progress.New(),
		emitter: newEmitter(opts.EventBuffer, opts.ProgressInterval),
	}
}

// Events returns the engine event channel. The channel is owned by the
// controller and stays open across scans; observers distinguish scans by
// the ScanID carried on every event.
func (c *Controller) Events() <-chan Event {
	return c.emitter.ch
}

// Start begins scanning the subtree rooted at path. It returns
// ErrInvalidPath if path does not exist or is not a directory, and
// ErrAlreadyScanning if a scan is active. Previous results are reset.
func (c *Controller) Start(path string) error {
	root, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %s", types.ErrInvalidPath, path)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", types.ErrInvalidPath, path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateScanning {
		return types.ErrAlreadyScanning
	}

	c.store.Clear()
	c.tracker.Reset()
	c.errorsMu.Lock()
	c.errors = nil
	c.errorsMu.Unlock()

	sess := &scanSession{
		id:        uuid.NewString(),
		root:      root,
		startedAt: time.Now(),
		queue:     queue.New(),
		done:      make(chan struct{}),
		stop:      make(chan struct{}),
	}
	c.sess = sess

	// The root is the only entry with no parent.
	c.store.Insert(types.FileStats{
		Path:        root,
		IsDirectory: true,
		ModifiedAt:  info.ModTime(),
		CreatedAt:   getCreateTime(info),
	})

	sess.inFlight.Store(1)
	sess.queue.Push(root)

	c.tracker.SetScanning(true)
	c.tracker.Touch(root)
	c.state = StateScanning

	var wg sync.WaitGroup
	for i := 0; i < c.opts.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.worker(sess, id)
		}(i)
	}
	go func() {
		wg.Wait()
		close(sess.done)
		c.finalize(sess)
	}()

	c.logger.Info("scan started",
		"scan_id", sess.id, "root", root, "workers", c.opts.Workers)
	return nil
}

// Stop requests cooperative cancellation, drains the queue, and joins the
// workers with a bounded wait. A listing already in progress runs to its
// next checkpoint. Stop on a non-scanning controller is an acknowledged
// no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.state != StateScanning {
		c.mu.Unlock()
		return nil
	}
	c.state = StateStopped
	sess := c.sess
	c.mu.Unlock()

	close(sess.stop)
	sess.queue.Close()

	select {
	case <-sess.done:
	case <-time.After(c.opts.StopTimeout):
		c.logger.Warn("timed out waiting for workers to exit",
			"scan_id", sess.id, "timeout", c.opts.StopTimeout)
	}

	c.tracker.SetScanning(false)
	snap := c.tracker.Snapshot()
	c.emitter.sendProgressForce(Event{
		Type: EventProgressUpdated, ScanID: sess.id, Progress: &snap,
	})
	c.emitter.send(Event{Type: EventScanStopped, ScanID: sess.id})

	c.logger.Info("scan stopped", "scan_id", sess.id,
		"files", snap.TotalFiles, "directories", snap.TotalDirectories)
	return nil
}

// finalize runs when every worker has exited. If Stop already claimed the
// terminal transition it does nothing; otherwise it declares the walk
// Completed, rolls up directory sizes, and emits the terminal events.
func (c *Controller) finalize(sess *scanSession) {
	c.mu.Lock()
	if c.state != StateScanning || c.sess != sess {
		c.mu.Unlock()
		return
	}
	c.state = StateCompleted

	// Rolled up under the lifecycle lock: a Start racing in would otherwise
	// let the write-back land on the next scan's entries.
	res := rollup.Run(c.store.Snapshot())
	c.store.ApplySizes(res.Sizes)
	c.mu.Unlock()

	c.tracker.SetScanning(false)

	snap := c.tracker.Snapshot()
	c.emitter.sendProgressForce(Event{
		Type: EventProgressUpdated, ScanID: sess.id, Progress: &snap,
	})

	if msg, ok := sess.rootErr.Load().(string); ok && msg != "" {
		c.emitter.send(Event{Type: EventScanFailed, ScanID: sess.id, Err: msg})
	}

	summary := c.buildSummary(sess, snap)
	message := fmt.Sprintf("scanned %d files and %d directories (%s) in %s",
		summary.TotalFiles, summary.TotalDirectories,
		types.FormatSize(summary.TotalSize),
		summary.Elapsed.Round(time.Millisecond))
	if summary.SkippedEntries > 0 {
		message += fmt.Sprintf(", %d entries skipped", summary.SkippedEntries)
	}
	c.emitter.send(Event{
		Type: EventScanCompleted, ScanID: sess.id,
		Summary: summary, Message: message,
	})

	c.logger.Info("scan completed", "scan_id", sess.id,
		"files", summary.TotalFiles, "directories", summary.TotalDirectories,
		"size", summary.TotalSize, "skipped", summary.SkippedEntries,
		"orphans", len(res.Orphans), "elapsed", summary.Elapsed)
}

func (c *Controller) buildSummary(sess *scanSession, snap types.ScanProgress) *types.ScanSummary {
	c.errorsMu.Lock()
	errs := append([]types.ScanError(nil), c.errors...)
	c.errorsMu.Unlock()

	return &types.ScanSummary{
		ScanID:           sess.id,
		Root:             sess.root,
		TotalFiles:       snap.TotalFiles,
		TotalDirectories: snap.TotalDirectories,
		TotalSize:        snap.TotalSizeSoFar,
		SkippedEntries:   snap.SkippedEntries,
		Errors:           errs,
		Elapsed:          time.Since(sess.startedAt),
	}
}

// Clear empties the store and resets progress. It returns
// ErrAlreadyScanning while a scan is active.
func (c *Controller) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateScanning {
		return types.ErrAlreadyScanning
	}

	c.store.Clear()
	c.tracker.Reset()
	c.errorsMu.Lock()
	c.errors = nil
	c.errorsMu.Unlock()
	c.state = StateIdle
	return nil
}

// UpdateDirectorySizes runs the rollup pass on demand over the current
// store snapshot. It returns ErrAlreadyScanning while a scan is active.
// The lifecycle lock is held across the write-back so a concurrent Start
// cannot interleave worker inserts with the size rewrite.
func (c *Controller) UpdateDirectorySizes() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateScanning {
		return types.ErrAlreadyScanning
	}

	res := rollup.Run(c.store.Snapshot())
	c.store.ApplySizes(res.Sizes)
	return nil
}

// Stats returns the recorded entry for path, if any. Safe at any time; the
// record may be partial mid-scan only in the sense of not yet rolled up.
func (c *Controller) Stats(path string) (types.FileStats, bool) {
	return c.store.Get(path)
}

// AllStats returns an immutable snapshot of every recorded entry. Safe to
// call mid-scan; the snapshot may be incomplete but never corrupted.
func (c *Controller) AllStats() map[string]types.FileStats {
	return c.store.Snapshot()
}

// Details returns the entry for path together with its direct children,
// sorted by size descending.
func (c *Controller) Details(path string) (*EntryDetails, bool) {
	stats, ok := c.store.Get(path)
	if !ok {
		return nil, false
	}

	details := &EntryDetails{FileStats: stats}
	for _, entry := range c.store.Snapshot() {
		if entry.Parent == path {
			details.Children = append(details.Children, entry)
		}
	}
	sort.Slice(details.Children, func(i, j int) bool {
		a, b := details.Children[i], details.Children[j]
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		return a.Path < b.Path
	})
	return details, true
}

// Progress returns the current progress snapshot.
func (c *Controller) Progress() types.ScanProgress {
	return c.tracker.Snapshot()
}

// Errors returns a copy of the per-path errors absorbed so far.
func (c *Controller) Errors() []types.ScanError {
	c.errorsMu.Lock()
	defer c.errorsMu.Unlock()
	return append([]types.ScanError(nil), c.errors...)
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsScanning reports whether a walk is active.
func (c *Controller) IsScanning() bool {
	return c.tracker.IsScanning()
}

// addError records an absorbed per-path failure.
func (c *Controller) addError(path string, err error) {
	c.tracker.AddSkipped()
	c.errorsMu.Lock()
	c.errors = append(c.errors, types.ScanError{Path: path, Error: err.Error()})
	c.errorsMu.Unlock()
	c.logger.Warn("skipping unreadable entry", "path", path, "error", err)
}
