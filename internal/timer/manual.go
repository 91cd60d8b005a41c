package timer

import (
	"sync"
	"time"
)

// maxRunAllEvents bounds RunAll so a callback that keeps rescheduling
// itself (a countdown ticker) cannot spin forever.
const maxRunAllEvents = 10000

// Manual is a Scheduler driven by an explicit virtual clock. Nothing runs
// until Advance or RunAll is called, which makes time-driven flows
// deterministic in tests and in non-interactive commands.
type Manual struct {
	mu  sync.Mutex
	now time.Time
	q   queue
}

// NewManual returns a Manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	return m.q.push(m.Now().Add(d), fn)
}

// Advance moves the clock forward by d, running every callback that
// becomes due in order. Callbacks scheduled while advancing run too when
// they fall inside the window. It returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	target := m.Now().Add(d)
	fired := 0
	for {
		ev := m.q.popDue(target)
		if ev == nil {
			break
		}
		m.mu.Lock()
		if ev.due.After(m.now) {
			m.now = ev.due
		}
		m.mu.Unlock()
		ev.fn()
		fired++
	}
	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
	return fired
}

// RunAll advances the clock until no callbacks are pending.
func (m *Manual) RunAll() int {
	fired := 0
	for fired < maxRunAllEvents {
		due, ok := m.q.next()
		if !ok {
			return fired
		}
		fired += m.Advance(due.Sub(m.Now()))
	}
	return fired
}

// Pending returns the number of scheduled callbacks.
func (m *Manual) Pending() int {
	return m.q.len()
}
