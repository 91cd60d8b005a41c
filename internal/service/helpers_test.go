package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/meridian/internal/catalog"
	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/alexanderramin/meridian/internal/timer"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

const (
	leadership   = "leadership-2026"
	centerID     = "leadership-center"
	slotAM       = "lc-2026-11-03-am"
	slotPM       = "lc-2026-11-03-pm"
	slotNoCancel = "lc-2026-11-10-am"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last(name string) (UseCaseEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Name == name {
			return r.events[i], true
		}
	}
	return UseCaseEvent{}, false
}

type harness struct {
	db         *sql.DB
	cat        *catalog.Catalog
	uow        db.UnitOfWork
	clock      *timer.Manual
	observer   *recordingObserver
	programs   ProgramService
	prechecks  PreCheckService
	scheduling SchedulingService
	plans      PlanService
	wizards    WizardService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	cat, err := catalog.Default()
	require.NoError(t, err)

	h := &harness{
		db:       database,
		cat:      cat,
		uow:      testutil.NewTestUoW(database),
		clock:    timer.NewManual(testNow),
		observer: &recordingObserver{},
	}
	progress := repository.NewSQLiteProgressRepo(database)
	consent := repository.NewSQLiteConsentRepo(database)

	h.programs = NewProgramService(cat, progress, consent, h.uow, fixedClock, h.observer)
	h.prechecks = NewPreCheckService(cat, progress, consent, h.programs, h.clock, 100*time.Millisecond, h.observer)
	h.scheduling = NewSchedulingService(cat,
		repository.NewSQLiteSlotRepo(database), repository.NewSQLiteBookingRepo(database),
		h.uow, fixedClock, h.observer)
	h.plans = NewPlanService(cat, repository.NewSQLitePlanRepo(database), h.uow, fixedClock, h.observer)
	h.wizards = NewWizardService(cat, h.plans, h.clock, WizardOptions{
		TypingDelay:  200 * time.Millisecond,
		RampStep:     100 * time.Millisecond,
		GapThreshold: 1.0,
		PlanStart:    testNow,
	}, fixedClock, h.observer)
	return h
}

// finish enters a non-proctored item and completes it.
func (h *harness) finish(t *testing.T, programID, itemID string) {
	t.Helper()
	ctx := context.Background()
	_, err := h.programs.Enter(ctx, programID, itemID)
	require.NoError(t, err)
	_, err = h.programs.Complete(ctx, programID, itemID)
	require.NoError(t, err)
}

// acknowledge passes the instruction gate for the program.
func (h *harness) acknowledge(t *testing.T, programID string) {
	t.Helper()
	ctx := context.Background()
	_, err := h.programs.WatchVideo(ctx, programID)
	require.NoError(t, err)
	_, err = h.programs.AcknowledgeInstructions(ctx, programID)
	require.NoError(t, err)
}
