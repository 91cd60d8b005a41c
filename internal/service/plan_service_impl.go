package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/catalog"
	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/idp"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/google/uuid"
)

type planService struct {
	catalog  *catalog.Catalog
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	now      Clock
	observer UseCaseObserver
}

func NewPlanService(
	cat *catalog.Catalog,
	plans repository.PlanRepo,
	uow db.UnitOfWork,
	now Clock,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		catalog:  cat,
		plans:    plans,
		uow:      uow,
		now:      clockOrSystem(now),
		observer: combineObservers(observers),
	}
}

func latestPlan(ctx context.Context, plans repository.PlanRepo) (*domain.DevelopmentPlan, error) {
	p, err := plans.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewNoPlan("no development plan yet; run the IDP wizard first")
	}
	return p, err
}

// Current returns the most recently generated plan.
func (s *planService) Current(ctx context.Context) (*app.PlanSnapshot, error) {
	p, err := latestPlan(ctx, s.plans)
	if err != nil {
		return nil, err
	}
	return app.NewPlanSnapshot(p), nil
}

func (s *planService) Get(ctx context.Context, id string) (*app.PlanSnapshot, error) {
	p, err := s.plans.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewNoPlan("no development plan %q", id)
	}
	if err != nil {
		return nil, err
	}
	return app.NewPlanSnapshot(p), nil
}

func (s *planService) List(ctx context.Context) ([]*domain.DevelopmentPlan, error) {
	return s.plans.List(ctx)
}

func (s *planService) Save(ctx context.Context, p *domain.DevelopmentPlan) (err error) {
	defer observe(ctx, s.observer, "save-plan", time.Now().UTC(), map[string]any{"plan": p.ID, "skills": len(p.Skills)}, &err)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLitePlanRepo(tx).Save(ctx, p)
	})
}

// ResetCurrentToDraft returns the current plan to draft. Having no plan is
// not an error.
func (s *planService) ResetCurrentToDraft(ctx context.Context) (err error) {
	defer observe(ctx, s.observer, "reset-plan", time.Now().UTC(), nil, &err)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		p, err := latestPlan(ctx, plans)
		if err != nil {
			return err
		}
		if p.Status == domain.PlanDraft {
			return nil
		}
		p.ResetToDraft(s.now())
		return plans.Save(ctx, p)
	})
	if errors.Is(err, domain.ErrNoPlan) {
		return nil
	}
	return err
}

// mutate applies fn to the current plan and stores the result in one
// transaction. A rejected fn leaves the stored plan untouched.
func (s *planService) mutate(ctx context.Context, fn func(p *domain.DevelopmentPlan, now time.Time) error) (*domain.DevelopmentPlan, error) {
	var out *domain.DevelopmentPlan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		p, err := latestPlan(ctx, plans)
		if err != nil {
			return err
		}
		if err := fn(p, s.now()); err != nil {
			return err
		}
		if err := plans.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (s *planService) AddSkill(ctx context.Context, in SkillInput) (snap *app.PlanSnapshot, err error) {
	defer observe(ctx, s.observer, "add-skill", time.Now().UTC(), map[string]any{"skill": in.Name}, &err)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	p, err := s.mutate(ctx, func(p *domain.DevelopmentPlan, now time.Time) error {
		return p.AddSkill(in.toSkill(), now)
	})
	if err != nil {
		return nil, err
	}
	return app.NewPlanSnapshot(p), nil
}

func (s *planService) RemoveSkill(ctx context.Context, idx int) (snap *app.PlanSnapshot, err error) {
	defer observe(ctx, s.observer, "remove-skill", time.Now().UTC(), map[string]any{"index": idx}, &err)
	p, err := s.mutate(ctx, func(p *domain.DevelopmentPlan, now time.Time) error {
		return p.RemoveSkill(idx, now)
	})
	if err != nil {
		return nil, err
	}
	return app.NewPlanSnapshot(p), nil
}

func (s *planService) TogglePrivate(ctx context.Context, idx int) (private bool, err error) {
	defer observe(ctx, s.observer, "toggle-private", time.Now().UTC(), map[string]any{"index": idx}, &err)
	_, err = s.mutate(ctx, func(p *domain.DevelopmentPlan, now time.Time) error {
		var err error
		private, err = p.TogglePrivate(idx, now)
		return err
	})
	return private, err
}

// AddCatalogTip instantiates an AI suggestion or library template under the
// skill, starting today.
func (s *planService) AddCatalogTip(ctx context.Context, skillIdx int, templateID string) (tip *domain.Tip, err error) {
	defer observe(ctx, s.observer, "add-tip", time.Now().UTC(), map[string]any{"index": skillIdx, "template": templateID}, &err)
	tmpl, err := s.catalog.Template(templateID)
	if err != nil {
		return nil, err
	}
	_, err = s.mutate(ctx, func(p *domain.DevelopmentPlan, now time.Time) error {
		if skillIdx < 0 || skillIdx >= len(p.Skills) {
			return domain.NewUnknownItem("no skill at index %d (plan has %d)", skillIdx, len(p.Skills))
		}
		if p.Status == domain.PlanDraft && !tmpl.Matches(p.Skills[skillIdx].Name) {
			return domain.NewInvalidInput("%q is written for %s, not %s", tmpl.Title, tmpl.Skill, p.Skills[skillIdx].Name)
		}
		start := today(now)
		t := tmpl.NewTip(uuid.NewString(), start, start.Add(idp.TipLength(tmpl.Category)))
		if err := p.AddTip(skillIdx, t, now); err != nil {
			return err
		}
		tip = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tip, nil
}

func (s *planService) AddCustomTip(ctx context.Context, skillIdx int, in TipInput) (tip *domain.Tip, err error) {
	defer observe(ctx, s.observer, "add-custom-tip", time.Now().UTC(), map[string]any{"index": skillIdx, "title": in.Title}, &err)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	_, err = s.mutate(ctx, func(p *domain.DevelopmentPlan, now time.Time) error {
		cat := domain.TipCategory(in.Category)
		start, end := in.dates(today(now), idp.TipLength(cat))
		t := domain.Tip{
			ID:              uuid.NewString(),
			Category:        cat,
			Title:           in.Title,
			Description:     in.Description,
			Source:          domain.SourceLibrary,
			StartDate:       start,
			EndDate:         end,
			SuccessCriteria: in.SuccessCriteria,
		}
		if err := p.AddTip(skillIdx, t, now); err != nil {
			return err
		}
		tip = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tip, nil
}

func (s *planService) RemoveTip(ctx context.Context, skillIdx int, tipID string) (err error) {
	defer observe(ctx, s.observer, "remove-tip", time.Now().UTC(), map[string]any{"index": skillIdx, "tip": tipID}, &err)
	_, err = s.mutate(ctx, func(p *domain.DevelopmentPlan, now time.Time) error {
		return p.RemoveTip(skillIdx, tipID, now)
	})
	return err
}

// SetCompletion stores the completion snapped to the nearest quarter and
// returns the stored value.
func (s *planService) SetCompletion(ctx context.Context, tipID string, pct float64) (stored int, err error) {
	defer observe(ctx, s.observer, "set-completion", time.Now().UTC(), map[string]any{"tip": tipID, "pct": pct}, &err)
	_, err = s.mutate(ctx, func(p *domain.DevelopmentPlan, now time.Time) error {
		var err error
		stored, err = p.SetCompletion(tipID, pct, now)
		return err
	})
	return stored, err
}

func (s *planService) SetTipDates(ctx context.Context, tipID string, start, end time.Time) (err error) {
	defer observe(ctx, s.observer, "set-tip-dates", time.Now().UTC(), map[string]any{"tip": tipID}, &err)
	_, err = s.mutate(ctx, func(p *domain.DevelopmentPlan, now time.Time) error {
		return p.SetTipDates(tipID, start, end, now)
	})
	return err
}

// AddComment appends to a thread of the current plan in any status.
func (s *planService) AddComment(ctx context.Context, key domain.ThreadKey, author domain.Author, text string) (c *domain.Comment, err error) {
	defer observe(ctx, s.observer, "add-comment", time.Now().UTC(), map[string]any{"thread": key.String(), "author": string(author)}, &err)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := latestPlan(ctx, repository.NewSQLitePlanRepo(tx))
		if err != nil {
			return err
		}
		added, err := p.AddComment(key, author, text, s.now())
		if err != nil {
			return err
		}
		added.ID = uuid.NewString()
		if err := repository.NewSQLiteCommentRepo(tx).Append(ctx, p.ID, &added); err != nil {
			return err
		}
		c = &added
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *planService) Thread(ctx context.Context, key domain.ThreadKey) ([]domain.Comment, error) {
	p, err := latestPlan(ctx, s.plans)
	if err != nil {
		return nil, err
	}
	return p.Thread(key), nil
}

// Submit sends the draft to the manager and returns what the manager sees.
func (s *planService) Submit(ctx context.Context) (view *domain.ManagerView, err error) {
	defer observe(ctx, s.observer, "submit-plan", time.Now().UTC(), nil, &err)
	_, err = s.mutate(ctx, func(p *domain.DevelopmentPlan, now time.Time) error {
		v, err := p.Submit(now)
		if err != nil {
			return err
		}
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *planService) Approve(ctx context.Context) (err error) {
	defer observe(ctx, s.observer, "approve-plan", time.Now().UTC(), nil, &err)
	_, err = s.mutate(ctx, func(p *domain.DevelopmentPlan, now time.Time) error {
		return p.Approve(now)
	})
	return err
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
