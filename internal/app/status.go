package app

import "time"

type StatusRequest struct {
	Now          *time.Time
	ProgramScope []string
	// DueSoon is how close a deadline must be to raise a warning.
	DueSoon time.Duration
}

func NewStatusRequest() StatusRequest {
	return StatusRequest{DueSoon: 7 * 24 * time.Hour}
}

type StatusSummary struct {
	GeneratedAt      time.Time
	ProgramsTotal    int
	ProgramsComplete int
	ItemsCompleted   int
	ItemsTotal       int
	Bookings         int
}

// StatusResponse is the one-screen dashboard: programs, bookings and the
// current plan. Plan is nil until the wizard has generated one.
type StatusResponse struct {
	Participant string
	Summary     StatusSummary
	Programs    []ProgramSummary
	Bookings    []BookingView
	Plan        *PlanSnapshot
	Warnings    []string
}
