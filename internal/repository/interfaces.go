package repository

import (
	"context"

	"github.com/alexanderramin/meridian/internal/domain"
)

// SlotFilter narrows List. Zero fields match everything.
type SlotFilter struct {
	CenterID string
	FromDate string // YYYY-MM-DD, inclusive
	ToDate   string // YYYY-MM-DD, inclusive
}

// BookingRecord is a booking joined with its slot.
type BookingRecord struct {
	Booking domain.Booking
	Slot    domain.Slot
}

type ProgressRepo interface {
	ListStates(ctx context.Context, programID string) ([]domain.ItemState, error)
	UpsertStates(ctx context.Context, programID string, states []domain.ItemState) error
	Reset(ctx context.Context, programID string) error
}

type ConsentRepo interface {
	Get(ctx context.Context, programID string) (*domain.ConsentState, error)
	Upsert(ctx context.Context, c *domain.ConsentState) error
}

type SlotRepo interface {
	// SeedMissing inserts slots that do not exist yet and leaves existing
	// rows untouched. It returns how many were inserted.
	SeedMissing(ctx context.Context, slots []domain.Slot) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
	List(ctx context.Context, f SlotFilter) ([]domain.Slot, error)
	UpdateSeats(ctx context.Context, id string, remaining int) error
}

type BookingRepo interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetBySlot(ctx context.Context, slotID string) (*domain.Booking, error)
	Delete(ctx context.Context, slotID string) error
	List(ctx context.Context) ([]BookingRecord, error)
	HeldSlotIDs(ctx context.Context) (map[string]bool, error)
}

type PlanRepo interface {
	// Save writes the plan header, skills and tips, replacing what was
	// stored. Comments are append-only and go through CommentRepo.
	Save(ctx context.Context, p *domain.DevelopmentPlan) error
	GetByID(ctx context.Context, id string) (*domain.DevelopmentPlan, error)
	Latest(ctx context.Context) (*domain.DevelopmentPlan, error)
	List(ctx context.Context) ([]*domain.DevelopmentPlan, error)
}

type CommentRepo interface {
	Append(ctx context.Context, planID string, c *domain.Comment) error
	ListByPlan(ctx context.Context, planID string) ([]domain.Comment, error)
}
