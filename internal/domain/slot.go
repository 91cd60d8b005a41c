package domain

import (
	"fmt"
	"sort"
	"time"
)

// Slot is a bookable session of an assessment center.
type Slot struct {
	ID                      string
	CenterID                string
	ProgramID               string
	Date                    string // literal date label, YYYY-MM-DD
	StartTime               string
	EndTime                 string
	TimezoneLabel           string
	TotalSeats              int
	RemainingSeats          int
	CancellationAllowed     bool
	CancellationCutoffLabel string
}

// Booking is the participant's hold on a slot.
type Booking struct {
	ID       string
	SlotID   string
	BookedAt time.Time
}

// BookedSeats is the number of seats currently held.
func (s *Slot) BookedSeats() int {
	return s.TotalSeats - s.RemainingSeats
}

// TimeLabel renders "09:00-12:00 CET".
func (s *Slot) TimeLabel() string {
	label := fmt.Sprintf("%s-%s", s.StartTime, s.EndTime)
	if s.TimezoneLabel != "" {
		label += " " + s.TimezoneLabel
	}
	return label
}

// Book takes a seat. held reports whether the participant already holds
// this slot. A full slot reports SlotFull even to its holder.
func (s *Slot) Book(held bool) error {
	if s.RemainingSeats <= 0 {
		return ruleErr(CodeSlotFull, "slot %s on %s has no seats left", s.ID, s.Date)
	}
	if held {
		return ruleErr(CodeAlreadyBooked, "slot %s on %s is already booked", s.ID, s.Date)
	}
	s.RemainingSeats--
	return nil
}

// Cancel releases the participant's seat. The cancellation cutoff label is
// advisory and is not checked here.
func (s *Slot) Cancel(held bool) error {
	if !s.CancellationAllowed {
		return ruleErr(CodeNotCancellable, "slot %s on %s does not allow cancellation", s.ID, s.Date)
	}
	if !held {
		return ruleErr(CodeNotBooked, "slot %s on %s is not booked", s.ID, s.Date)
	}
	if s.RemainingSeats >= s.TotalSeats {
		return NewInvalidInput("slot %s has no booked seats to release", s.ID)
	}
	s.RemainingSeats++
	return nil
}

// CalendarDay is one date in a calendar view.
type CalendarDay struct {
	Date  string
	Slots []Slot
}

// Clickable reports whether the day has anything to open.
func (d CalendarDay) Clickable() bool {
	return len(d.Slots) > 0
}

// GroupByDate groups slots by their literal date string, dates ascending,
// slots within a day by start time.
func GroupByDate(slots []Slot) []CalendarDay {
	byDate := make(map[string][]Slot)
	for _, s := range slots {
		byDate[s.Date] = append(byDate[s.Date], s)
	}
	days := make([]CalendarDay, 0, len(byDate))
	for date, ss := range byDate {
		sort.SliceStable(ss, func(i, j int) bool { return ss[i].StartTime < ss[j].StartTime })
		days = append(days, CalendarDay{Date: date, Slots: ss})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
