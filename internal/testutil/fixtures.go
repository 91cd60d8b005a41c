package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/google/uuid"
)

var testIDCounter atomic.Int64

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%03d", prefix, testIDCounter.Add(1))
}

// Slot options
type SlotOption func(*domain.Slot)

func WithSeats(total, remaining int) SlotOption {
	return func(s *domain.Slot) {
		s.TotalSeats = total
		s.RemainingSeats = remaining
	}
}

func WithSlotDate(date, start, end string) SlotOption {
	return func(s *domain.Slot) {
		s.Date = date
		s.StartTime = start
		s.EndTime = end
	}
}

func WithCenter(centerID string) SlotOption {
	return func(s *domain.Slot) {
		s.CenterID = centerID
	}
}

func NotCancellable() SlotOption {
	return func(s *domain.Slot) {
		s.CancellationAllowed = false
		s.CancellationCutoffLabel = ""
	}
}

func NewTestSlot(id string, opts ...SlotOption) domain.Slot {
	if id == "" {
		id = nextID("slot")
	}
	s := domain.Slot{
		ID:                      id,
		CenterID:                "test-center",
		ProgramID:               "test-program",
		Date:                    "2026-11-03",
		StartTime:               "09:00",
		EndTime:                 "12:00",
		TimezoneLabel:           "CET",
		TotalSeats:              4,
		RemainingSeats:          4,
		CancellationAllowed:     true,
		CancellationCutoffLabel: "48h before start",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Tip options
type TipOption func(*domain.Tip)

func WithCategory(c domain.TipCategory) TipOption {
	return func(t *domain.Tip) {
		t.Category = c
	}
}

func WithCompletion(pct int) TipOption {
	return func(t *domain.Tip) {
		t.CompletionPct = pct
	}
}

func WithDates(start, end time.Time) TipOption {
	return func(t *domain.Tip) {
		t.StartDate = start
		t.EndDate = end
	}
}

func FromLibrary() TipOption {
	return func(t *domain.Tip) {
		t.Source = domain.SourceLibrary
	}
}

func NewTestTip(title string, opts ...TipOption) domain.Tip {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	t := domain.Tip{
		ID:              uuid.New().String(),
		Category:        domain.CategoryExperience,
		Title:           title,
		Description:     title + " description",
		Source:          domain.SourceAI,
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, 56),
		SuccessCriteria: "Done when " + title,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// NewTestSkill builds a behavioral skill holding the given tips.
func NewTestSkill(name string, tips ...domain.Tip) domain.Skill {
	return domain.Skill{
		Name:        name,
		Description: name + " gap",
		Type:        domain.SkillBehavioral,
		GapScore:    1.5,
		Tips:        tips,
	}
}

// NewTestPlan builds a draft plan with two skills: "Delegation" with an
// experience and a social tip, and "Data literacy" (technical) with a
// course tip.
func NewTestPlan() *domain.DevelopmentPlan {
	now := time.Now().UTC().Truncate(time.Second)
	delegation := NewTestSkill("Delegation",
		NewTestTip("Lead a project"),
		NewTestTip("Find a mentor", WithCategory(domain.CategorySocial), FromLibrary()),
	)
	data := NewTestSkill("Data literacy", NewTestTip("SQL course", WithCategory(domain.CategoryCourse)))
	data.Type = domain.SkillTechnical
	return domain.NewPlan(uuid.New().String(), []domain.Skill{delegation, data}, now)
}
