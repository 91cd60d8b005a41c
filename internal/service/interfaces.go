package service

import (
	"context"
	"time"

	"github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/idp"
	"github.com/alexanderramin/meridian/internal/proctor"
)

type ProgramService interface {
	List(ctx context.Context) ([]app.ProgramSummary, error)
	Detail(ctx context.Context, programID string) (*app.ProgramDetail, error)
	WatchVideo(ctx context.Context, programID string) (*domain.ConsentState, error)
	AcknowledgeInstructions(ctx context.Context, programID string) (*domain.ConsentState, error)
	// Enter opens an item that needs no pre-check, or any item in review mode.
	Enter(ctx context.Context, programID, itemID string) (*app.EnterResult, error)
	// LaunchItem opens an item after its pre-check passed.
	LaunchItem(ctx context.Context, programID, itemID string) (*app.EnterResult, error)
	Complete(ctx context.Context, programID, itemID string) (*app.ProgramSummary, error)
	SetProgress(ctx context.Context, programID, itemID string, pct int) error
	Reset(ctx context.Context, programID string) error
}

type PreCheckService interface {
	Start(ctx context.Context, programID, itemID string, overrides ...ProbeOverride) (*proctor.Session, error)
	Get(id string) (*proctor.Session, error)
	Snapshot(id string) (*app.PreCheckSnapshot, error)
	Cancel(id string) error
	Active() []*proctor.Session
}

type SchedulingService interface {
	SeedSlots(ctx context.Context) (int, error)
	ListSlots(ctx context.Context, centerID string) ([]app.SlotView, error)
	Calendar(ctx context.Context, month string) ([]app.CalendarDay, error)
	Book(ctx context.Context, slotID string) (*app.BookingView, error)
	Cancel(ctx context.Context, slotID string) error
	ListBookings(ctx context.Context) ([]app.BookingView, error)
}

type PlanService interface {
	Current(ctx context.Context) (*app.PlanSnapshot, error)
	Get(ctx context.Context, id string) (*app.PlanSnapshot, error)
	List(ctx context.Context) ([]*domain.DevelopmentPlan, error)
	Save(ctx context.Context, p *domain.DevelopmentPlan) error
	ResetCurrentToDraft(ctx context.Context) error

	AddSkill(ctx context.Context, in SkillInput) (*app.PlanSnapshot, error)
	RemoveSkill(ctx context.Context, idx int) (*app.PlanSnapshot, error)
	TogglePrivate(ctx context.Context, idx int) (bool, error)

	AddCatalogTip(ctx context.Context, skillIdx int, templateID string) (*domain.Tip, error)
	AddCustomTip(ctx context.Context, skillIdx int, in TipInput) (*domain.Tip, error)
	RemoveTip(ctx context.Context, skillIdx int, tipID string) error
	SetCompletion(ctx context.Context, tipID string, pct float64) (int, error)
	SetTipDates(ctx context.Context, tipID string, start, end time.Time) error

	AddComment(ctx context.Context, key domain.ThreadKey, author domain.Author, text string) (*domain.Comment, error)
	Thread(ctx context.Context, key domain.ThreadKey) ([]domain.Comment, error)

	Submit(ctx context.Context) (*domain.ManagerView, error)
	Approve(ctx context.Context) error
}

type WizardService interface {
	// NewWizard returns a wizard whose generated plans are stored as the
	// current plan.
	NewWizard(ctx context.Context) *idp.Wizard
	Generator() idp.Generator
}

type StatusService interface {
	GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error)
}
