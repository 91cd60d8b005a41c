package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/domain"
	"golang.org/x/sync/errgroup"
)

type statusService struct {
	programs    ProgramService
	scheduling  SchedulingService
	plans       PlanService
	participant string
	now         Clock
}

func NewStatusService(
	programs ProgramService,
	scheduling SchedulingService,
	plans PlanService,
	participant string,
	now Clock,
) StatusService {
	return &statusService{
		programs:    programs,
		scheduling:  scheduling,
		plans:       plans,
		participant: participant,
		now:         clockOrSystem(now),
	}
}

func (s *statusService) GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error) {
	now := s.now()
	if req.Now != nil {
		now = *req.Now
	}

	var (
		programs []app.ProgramSummary
		bookings []app.BookingView
		plan     *app.PlanSnapshot
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if programs, err = s.programs.List(gCtx); err != nil {
			return fmt.Errorf("loading programs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if bookings, err = s.scheduling.ListBookings(gCtx); err != nil {
			return fmt.Errorf("loading bookings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		plan, err = s.plans.Current(gCtx)
		if errors.Is(err, domain.ErrNoPlan) {
			plan, err = nil, nil
		}
		if err != nil {
			return fmt.Errorf("loading plan: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(req.ProgramScope) > 0 {
		programs = slices.DeleteFunc(programs, func(p app.ProgramSummary) bool {
			return !slices.Contains(req.ProgramScope, p.ID)
		})
	}

	resp := &app.StatusResponse{
		Participant: s.participant,
		Programs:    programs,
		Bookings:    bookings,
		Plan:        plan,
		Summary:     buildStatusSummary(programs, bookings, now),
	}
	resp.Warnings = statusWarnings(programs, plan, req.DueSoon, now)
	return resp, nil
}

func buildStatusSummary(programs []app.ProgramSummary, bookings []app.BookingView, now time.Time) app.StatusSummary {
	sum := app.StatusSummary{
		GeneratedAt:   now,
		ProgramsTotal: len(programs),
		Bookings:      len(bookings),
	}
	for _, p := range programs {
		if p.Status == domain.ProgramComplete {
			sum.ProgramsComplete++
		}
		sum.ItemsCompleted += p.Completed
		sum.ItemsTotal += p.Total
	}
	return sum
}

func statusWarnings(programs []app.ProgramSummary, plan *app.PlanSnapshot, dueSoon time.Duration, now time.Time) []string {
	var out []string
	for _, p := range programs {
		if p.Status == domain.ProgramComplete {
			continue
		}
		switch {
		case p.Countdown.Expired:
			out = append(out, fmt.Sprintf("%s is past its due date", p.Name))
		case dueSoon > 0 && p.DueDate.Sub(now) <= dueSoon:
			out = append(out, fmt.Sprintf("%s is due in %s", p.Name, p.Countdown.Label()))
		}
		if !p.InstructionsAcknowledged {
			out = append(out, fmt.Sprintf("%s: watch the intro video and acknowledge the instructions to start", p.Name))
		}
	}
	switch {
	case plan == nil:
		out = append(out, "No development plan yet: run the IDP wizard")
	case plan.Plan.Status == domain.PlanUnderReview:
		out = append(out, "Your development plan is waiting for manager approval")
	}
	return out
}
