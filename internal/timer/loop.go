package timer

import (
	"sync"
	"time"
)

// Loop is a real-time Scheduler. A single dispatcher goroutine runs due
// callbacks one at a time, so callbacks never race each other.
type Loop struct {
	q    queue
	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewLoop starts a dispatcher. Call Close to stop it.
func NewLoop() *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) After(d time.Duration, fn func()) Handle {
	select {
	case <-l.stop:
		return stoppedHandle{}
	default:
	}
	h := l.q.push(time.Now().Add(d), fn)
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return h
}

// Do runs fn on the dispatcher goroutine and waits for it to return.
// It must not be called from inside a callback.
func (l *Loop) Do(fn func()) {
	ran := make(chan struct{})
	l.After(0, func() {
		defer close(ran)
		fn()
	})
	select {
	case <-ran:
	case <-l.done:
	}
}

// Close stops the dispatcher. Pending callbacks are dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		var timerC <-chan time.Time
		var t *time.Timer
		if due, ok := l.q.next(); ok {
			t = time.NewTimer(time.Until(due))
			timerC = t.C
		}

		select {
		case <-l.stop:
			if t != nil {
				t.Stop()
			}
			return
		case <-l.wake:
			if t != nil {
				t.Stop()
			}
		case <-timerC:
			for ev := l.q.popDue(time.Now()); ev != nil; ev = l.q.popDue(time.Now()) {
				ev.fn()
			}
		}
	}
}
