// Package countdown derives the time remaining until a deadline and keeps it
// fresh with a once-per-second tick.
package countdown

import (
	"fmt"
	"time"

	"github.com/alexanderramin/meridian/internal/timer"
)

// Countdown is the remaining time split into display units.
type Countdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Expired bool
}

// Remaining computes the countdown from now to deadline. Past deadlines
// clamp to zero and report Expired.
func Remaining(now, deadline time.Time) Countdown {
	d := deadline.Sub(now)
	if d <= 0 {
		return Countdown{Expired: true}
	}
	total := int64(d / time.Second)
	return Countdown{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

// Label renders the countdown as "3d 04h 12m 09s".
func (c Countdown) Label() string {
	if c.Expired {
		return "due now"
	}
	return fmt.Sprintf("%dd %02dh %02dm %02ds", c.Days, c.Hours, c.Minutes, c.Seconds)
}

// Ticker recomputes a countdown every second and hands it to a callback.
type Ticker struct {
	group    *timer.Group
	deadline time.Time
	onTick   func(Countdown)
}

// Start emits the current countdown immediately and then once per second
// until the deadline passes or Stop is called.
func Start(s timer.Scheduler, deadline time.Time, onTick func(Countdown)) *Ticker {
	t := &Ticker{group: timer.NewGroup(s), deadline: deadline, onTick: onTick}
	t.tick()
	return t
}

func (t *Ticker) tick() {
	c := Remaining(t.group.Now(), t.deadline)
	t.onTick(c)
	if c.Expired {
		t.group.Stop()
		return
	}
	t.group.After(time.Second, t.tick)
}

// Stop cancels the pending tick.
func (t *Ticker) Stop() {
	t.group.Stop()
}
