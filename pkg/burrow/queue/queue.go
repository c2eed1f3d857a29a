// Package queue implements the unbounded thread-safe FIFO of directory
// paths awaiting expansion. It is unbounded so that workers enqueuing newly
// discovered subdirectories can never deadlock against their own pool, and
// Pop parks the caller until work arrives or the queue is closed.
package queue

import "sync"

// PathQueue is a FIFO of directory paths shared by the scan workers.
// The zero value is not usable; call New.
type PathQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []string
	head   int
	closed bool
}

// New returns an empty open queue.
func New() *PathQueue {
	q := &PathQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a path. Pushing to a closed queue is a no-op, which covers
// the window where a worker finishes a listing just as the scan is stopped.
func (q *PathQueue) Push(path string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, path)
	q.cond.Signal()
}

// Pop removes and returns the oldest path, blocking while the queue is
// empty. It returns ok=false once the queue is closed and drained of
// nothing more to hand out.
func (q *PathQueue) Pop() (path string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head >= len(q.items) && !q.closed {
		q.cond.Wait()
	}
	if q.head >= len(q.items) {
		return "", false
	}
	path = q.items[q.head]
	q.head++
	q.maybeCompact()
	return path, true
}

// TryPop removes and returns the oldest path without blocking.
func (q *PathQueue) TryPop() (path string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head >= len(q.items) {
		return "", false
	}
	path = q.items[q.head]
	q.head++
	q.maybeCompact()
	return path, true
}

// Len returns the number of queued paths.
func (q *PathQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Empty reports whether no paths are queued.
func (q *PathQueue) Empty() bool {
	return q.Len() == 0
}

// Close wakes every parked worker and makes all subsequent Pops return
// ok=false. Pending items are discarded.
func (q *PathQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
	q.head = 0
	q.cond.Broadcast()
}

// Reset empties the queue and reopens it for the next scan.
func (q *PathQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.head = 0
	q.closed = false
}

// maybeCompact drops the consumed prefix once it dominates the backing
// slice, keeping memory bounded on long scans. Caller holds mu.
func (q *PathQueue) maybeCompact() {
	if q.head > 1024 && q.head*2 >= len(q.items) {
		q.items = append([]string(nil), q.items[q.head:]...)
		q.head = 0
	}
}
