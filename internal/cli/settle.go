package cli

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/meridian/internal/timer"
)

const (
	defaultSettleTimeout = 30 * time.Second
	settlePoll           = 25 * time.Millisecond
)

var errNotSettled = errors.New("timed out waiting for scheduled work")

// settle lets scheduled callbacks run until done reports true. A manual
// clock is drained at once; a real-time scheduler is polled.
func (a *App) settle(ctx context.Context, done func() bool) error {
	if m, ok := a.Scheduler.(*timer.Manual); ok {
		m.RunAll()
		if !done() {
			return errNotSettled
		}
		return nil
	}

	timeout := a.SettleTimeout
	if timeout <= 0 {
		timeout = defaultSettleTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(settlePoll)
	defer ticker.Stop()
	for !done() {
		select {
		case <-ctx.Done():
			return errNotSettled
		case <-ticker.C:
		}
	}
	return nil
}
