package scanner

import (
	"sync/atomic"
	"time"

	"github.com/burrowscan/burrow/pkg/burrow/types"
)

// EventType identifies the kind of engine event.
type EventType int

// Event types pushed to the observer.
const (
	EventEntryDiscovered EventType = iota
	EventProgressUpdated
	EventScanCompleted
	EventScanStopped
	EventScanFailed
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventEntryDiscovered:
		return "entry_discovered"
	case EventProgressUpdated:
		return "progress_updated"
	case EventScanCompleted:
		return "scan_completed"
	case EventScanStopped:
		return "scan_stopped"
	case EventScanFailed:
		return "scan_failed"
	default:
		return "unknown"
	}
}

// Event is one typed message from the engine to its observer. Exactly one
// of the payload fields is set, matching Type.
type Event struct {
	Type   EventType
	ScanID string

	// Entry is set for EntryDiscovered.
	Entry *types.FileStats

	// Progress is set for ProgressUpdated.
	Progress *types.ScanProgress

	// Summary and Message are set for ScanCompleted.
	Summary *types.ScanSummary
	Message string

	// Err is set for ScanFailed.
	Err string
}

// emitter delivers events over one bounded channel with a two-tier
// backpressure policy: progress snapshots may be superseded and dropped
// under load, while discovery and terminal events are never dropped.
type emitter struct {
	ch           chan Event
	interval     time.Duration
	lastProgress atomic.Int64
}

func newEmitter(buffer int, interval time.Duration) *emitter {
	return &emitter{
		ch:       make(chan Event, buffer),
		interval: interval,
	}
}

// send delivers an event with a blocking send. Used for discovery and
// terminal events, which must reach the observer.
func (e *emitter) send(ev Event) {
	e.ch <- ev
}

// sendProgress delivers a progress snapshot, throttled to the configured
// interval and dropped outright when the channel is full; the next
// snapshot supersedes it.
func (e *emitter) sendProgress(ev Event) {
	now := time.Now().UnixMilli()
	last := e.lastProgress.Load()
	if now-last < e.interval.Milliseconds() {
		return
	}
	if !e.lastProgress.CompareAndSwap(last, now) {
		return // Another goroutine got there first.
	}

	select {
	case e.ch <- ev:
	default:
	}
}

// sendProgressForce bypasses the throttle but still never blocks; terminal
// snapshots follow as guaranteed terminal events anyway.
func (e *emitter) sendProgressForce(ev Event) {
	e.lastProgress.Store(time.Now().UnixMilli())
	select {
	case e.ch <- ev:
	default:
	}
}
