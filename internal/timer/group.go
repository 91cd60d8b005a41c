package timer

import (
	"sync"
	"time"
)

// Group schedules callbacks on behalf of one owner. Stop cancels every
// callback the group still has pending, and once stopped the group drops
// anything scheduled later, so no stale callback can reach its owner.
type Group struct {
	sched   Scheduler
	mu      sync.Mutex
	live    map[*groupHandle]struct{}
	stopped bool
}

// NewGroup returns a Group scheduling on s.
func NewGroup(s Scheduler) *Group {
	return &Group{sched: s, live: make(map[*groupHandle]struct{})}
}

func (g *Group) Now() time.Time { return g.sched.Now() }

func (g *Group) After(d time.Duration, fn func()) Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return stoppedHandle{}
	}
	gh := &groupHandle{g: g}
	gh.inner = g.sched.After(d, func() {
		g.mu.Lock()
		_, live := g.live[gh]
		delete(g.live, gh)
		stopped := g.stopped
		g.mu.Unlock()
		if !live || stopped {
			return
		}
		fn()
	})
	g.live[gh] = struct{}{}
	return gh
}

// Stop cancels all pending callbacks. It is safe to call more than once.
func (g *Group) Stop() {
	g.mu.Lock()
	handles := make([]*groupHandle, 0, len(g.live))
	for h := range g.live {
		handles = append(handles, h)
	}
	g.live = make(map[*groupHandle]struct{})
	g.stopped = true
	g.mu.Unlock()

	for _, h := range handles {
		h.inner.Stop()
	}
}

// Stopped reports whether Stop has been called.
func (g *Group) Stopped() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopped
}

// Pending returns the number of callbacks still scheduled by the group.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}

type groupHandle struct {
	g     *Group
	inner Handle
}

func (h *groupHandle) Stop() bool {
	h.g.mu.Lock()
	_, live := h.g.live[h]
	delete(h.g.live, h)
	h.g.mu.Unlock()
	if !live {
		return false
	}
	return h.inner.Stop()
}
