// Package timer provides the scheduled-callback model used by every
// time-driven flow in the engine: capability checks, chat typing delays,
// plan-generation ramps and countdown ticks.
//
// Callbacks scheduled on one Scheduler never run concurrently with each
// other and fire in (due time, schedule order). Flows own a Group so that
// tearing the flow down cancels every callback it still has pending.
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// Handle is a pending callback.
type Handle interface {
	// Stop prevents the callback from running. It reports whether the
	// callback was still pending.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Handle
}

type event struct {
	due   time.Time
	seq   uint64
	fn    func()
	index int
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	ev := x.(*event)
	ev.index = len(*h)
	*h = append(*h, ev)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*h = old[:n-1]
	return ev
}

// queue is the ordered event store shared by Manual and Loop.
type queue struct {
	mu    sync.Mutex
	seq   uint64
	items eventHeap
}

func (q *queue) push(due time.Time, fn func()) *queueHandle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	ev := &event{due: due, seq: q.seq, fn: fn}
	heap.Push(&q.items, ev)
	return &queueHandle{q: q, ev: ev}
}

// popDue removes and returns the earliest event due at or before now.
func (q *queue) popDue(now time.Time) *event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 || q.items[0].due.After(now) {
		return nil
	}
	return heap.Pop(&q.items).(*event)
}

func (q *queue) next() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return time.Time{}, false
	}
	return q.items[0].due, true
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

type queueHandle struct {
	q  *queue
	ev *event
}

func (h *queueHandle) Stop() bool {
	h.q.mu.Lock()
	defer h.q.mu.Unlock()
	if h.ev.index < 0 {
		return false
	}
	heap.Remove(&h.q.items, h.ev.index)
	return true
}

type stoppedHandle struct{}

func (stoppedHandle) Stop() bool { return false }
