package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/meridian/internal/catalog"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/repository"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock
	}
	return c
}

// observe reports a finished use case. Call it deferred with a pointer to
// the named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err *error) {
	var e error
	if err != nil {
		e = *err
	}
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   e == nil,
		Err:       e,
		Code:      ruleCode(e),
		Fields:    fields,
	})
}

// loadProgram builds the program graph from the catalog and overlays the
// stored progress.
func loadProgram(ctx context.Context, cat *catalog.Catalog, progress repository.ProgressRepo, programID string) (*domain.Program, error) {
	p, err := cat.Program(programID)
	if err != nil {
		return nil, err
	}
	states, err := progress.ListStates(ctx, programID)
	if err != nil {
		return nil, err
	}
	p.ApplyState(states)
	return p, nil
}

// consentOrNew returns the stored consent, or a fresh one when none exists.
func consentOrNew(ctx context.Context, repo repository.ConsentRepo, programID string) (*domain.ConsentState, error) {
	c, err := repo.Get(ctx, programID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.ConsentState{ProgramID: programID}, nil
	}
	return c, err
}
