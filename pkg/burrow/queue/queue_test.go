package queue

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := New()
	q.Push("a")
	q.Push("b")
	q.Push("c")

	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := q.TryPop()
	assert.False(t, ok)
	assert.True(t, q.Empty())
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := New()

	got := make(chan string, 1)
	go func() {
		path, ok := q.Pop()
		if ok {
			got <- path
		}
	}()

	// Give the popper time to park.
	time.Sleep(20 * time.Millisecond)
	q.Push("/data")

	select {
	case path := <-got:
		assert.Equal(t, "/data", path)
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake after Push")
	}
}

func TestQueue_CloseWakesParkedWaiters(t *testing.T) {
	q := New()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := q.Pop()
			assert.False(t, ok)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not wake parked waiters")
	}
}

func TestQueue_PushAfterCloseIsNoop(t *testing.T) {
	q := New()
	q.Close()
	q.Push("/ignored")

	assert.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestQueue_ResetReopens(t *testing.T) {
	q := New()
	q.Close()
	q.Reset()

	q.Push("/again")
	path, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, "/again", path)
}

// TestQueue_ConcurrentNoLostOrDuplicated hammers the queue from multiple
// producers and consumers and verifies every pushed item is popped exactly
// once.
func TestQueue_ConcurrentNoLostOrDuplicated(t *testing.T) {
	const producers = 4
	const perProducer = 1000

	q := New()

	const total = producers * perProducer

	for p := 0; p < producers; p++ {
		go func(p int) {
			for i := 0; i < perProducer; i++ {
				q.Push(fmt.Sprintf("p%d-%d", p, i))
			}
		}(p)
	}

	var mu sync.Mutex
	seen := make(map[string]int)
	popped := 0

	var poppers sync.WaitGroup
	for w := 0; w < 4; w++ {
		poppers.Add(1)
		go func() {
			defer poppers.Done()
			for {
				path, ok := q.Pop()
				if !ok {
					return
				}
				mu.Lock()
				seen[path]++
				popped++
				last := popped == total
				mu.Unlock()
				if last {
					// Everything accounted for; release parked peers.
					q.Close()
				}
			}
		}()
	}
	poppers.Wait()

	require.Len(t, seen, total)
	for path, count := range seen {
		assert.Equal(t, 1, count, "duplicated item %s", path)
	}
}
