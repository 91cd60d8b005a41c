package app

import (
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
)

type SlotView struct {
	domain.Slot
	CenterName  string
	ProgramName string
	Booked      bool
}

// Bookable reports whether the book action applies.
func (v SlotView) Bookable() bool {
	return !v.Booked && v.RemainingSeats > 0
}

type BookingView struct {
	BookingID string
	BookedAt  time.Time
	Slot      SlotView
}

// CalendarDay groups the slots that fall on one date across all centers.
type CalendarDay struct {
	Date      string
	Slots     []SlotView
	Clickable bool
}
