package service

import (
	"context"
	"time"

	"github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/catalog"
	"github.com/alexanderramin/meridian/internal/countdown"
	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/repository"
)

type programService struct {
	catalog  *catalog.Catalog
	progress repository.ProgressRepo
	consent  repository.ConsentRepo
	uow      db.UnitOfWork
	now      Clock
	observer UseCaseObserver
}

func NewProgramService(
	cat *catalog.Catalog,
	progress repository.ProgressRepo,
	consent repository.ConsentRepo,
	uow db.UnitOfWork,
	now Clock,
	observers ...UseCaseObserver,
) ProgramService {
	return &programService{
		catalog:  cat,
		progress: progress,
		consent:  consent,
		uow:      uow,
		now:      clockOrSystem(now),
		observer: combineObservers(observers),
	}
}

func (s *programService) List(ctx context.Context) ([]app.ProgramSummary, error) {
	now := s.now()
	out := make([]app.ProgramSummary, 0, len(s.catalog.Programs))
	for _, id := range s.catalog.ProgramIDs() {
		p, err := loadProgram(ctx, s.catalog, s.progress, id)
		if err != nil {
			return nil, err
		}
		c, err := consentOrNew(ctx, s.consent, id)
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(p, c.InstructionsAcknowledged, now))
	}
	return out, nil
}

func (s *programService) Detail(ctx context.Context, programID string) (*app.ProgramDetail, error) {
	p, err := loadProgram(ctx, s.catalog, s.progress, programID)
	if err != nil {
		return nil, err
	}
	c, err := consentOrNew(ctx, s.consent, programID)
	if err != nil {
		return nil, err
	}
	video, err := s.catalog.IntroVideo(programID)
	if err != nil {
		return nil, err
	}
	d := &app.ProgramDetail{
		ProgramSummary: summarize(p, c.InstructionsAcknowledged, s.now()),
		IntroVideo:     video,
		Consent:        *c,
		Sequential:     itemViews(p.SequentialExercises, app.GroupSequential),
		Open:           itemViews(p.OpenExercises, app.GroupOpen),
	}
	for _, center := range p.Centers {
		d.Centers = append(d.Centers, app.ItemView{
			ID:            center.ID,
			Name:          center.Name,
			DurationLabel: center.DurationLabel,
			Kind:          domain.KindCenter,
			Group:         app.GroupCenter,
			Status:        center.Status(),
			Proctored:     center.Proctored,
			Phases:        phaseViews(center.Activities),
		})
	}
	return d, nil
}

func (s *programService) WatchVideo(ctx context.Context, programID string) (c *domain.ConsentState, err error) {
	defer observe(ctx, s.observer, "watch-video", time.Now().UTC(), map[string]any{"program": programID}, &err)
	return s.updateConsent(ctx, programID, func(c *domain.ConsentState, now time.Time) (bool, error) {
		return c.WatchVideo(now), nil
	})
}

func (s *programService) AcknowledgeInstructions(ctx context.Context, programID string) (c *domain.ConsentState, err error) {
	defer observe(ctx, s.observer, "acknowledge-instructions", time.Now().UTC(), map[string]any{"program": programID}, &err)
	return s.updateConsent(ctx, programID, func(c *domain.ConsentState, now time.Time) (bool, error) {
		return c.AcknowledgeInstructions(now)
	})
}

func (s *programService) updateConsent(ctx context.Context, programID string, fn func(*domain.ConsentState, time.Time) (bool, error)) (*domain.ConsentState, error) {
	if _, err := s.catalog.Program(programID); err != nil {
		return nil, err
	}
	var out *domain.ConsentState
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteConsentRepo(tx)
		c, err := consentOrNew(ctx, repo, programID)
		if err != nil {
			return err
		}
		changed, err := fn(c, s.now())
		if err != nil {
			return err
		}
		if changed {
			if err := repo.Upsert(ctx, c); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	return out, err
}

func (s *programService) Enter(ctx context.Context, programID, itemID string) (res *app.EnterResult, err error) {
	defer observe(ctx, s.observer, "enter-item", time.Now().UTC(), map[string]any{"program": programID, "item": itemID}, &err)
	return s.enter(ctx, programID, itemID, false)
}

func (s *programService) LaunchItem(ctx context.Context, programID, itemID string) (res *app.EnterResult, err error) {
	defer observe(ctx, s.observer, "launch-item", time.Now().UTC(), map[string]any{"program": programID, "item": itemID}, &err)
	return s.enter(ctx, programID, itemID, true)
}

func (s *programService) enter(ctx context.Context, programID, itemID string, preChecked bool) (*app.EnterResult, error) {
	var res *app.EnterResult
	err := s.withProgram(ctx, programID, func(p *domain.Program) error {
		ref, err := p.CheckEnterable(itemID)
		if err != nil {
			return err
		}
		review := ref.Item == nil || ref.Item.Status == domain.ItemComplete
		if !preChecked && !review && needsPreCheck(ref) {
			return domain.NewInvalidStep("%q is proctored; run the pre-check first", itemName(ref))
		}
		if ref, err = p.EnterItem(itemID); err != nil {
			return err
		}
		res = &app.EnterResult{ProgramID: programID, ItemID: itemID, Kind: ref.Kind, Review: review}
		if ref.Item != nil {
			res.EnteredID = ref.Item.ID
			res.Status = ref.Item.Status
		} else {
			res.EnteredID = ref.Center.ID
			res.Status = ref.Center.Status()
		}
		return nil
	})
	return res, err
}

func (s *programService) Complete(ctx context.Context, programID, itemID string) (sum *app.ProgramSummary, err error) {
	defer observe(ctx, s.observer, "complete-item", time.Now().UTC(), map[string]any{"program": programID, "item": itemID}, &err)
	err = s.withProgram(ctx, programID, func(p *domain.Program) error {
		if err := p.CompleteItem(itemID); err != nil {
			return err
		}
		// withProgram already checked the instruction gate.
		out := summarize(p, true, s.now())
		sum = &out
		return nil
	})
	return sum, err
}

func (s *programService) SetProgress(ctx context.Context, programID, itemID string, pct int) (err error) {
	defer observe(ctx, s.observer, "set-progress", time.Now().UTC(), map[string]any{"program": programID, "item": itemID, "pct": pct}, &err)
	return s.withProgram(ctx, programID, func(p *domain.Program) error {
		return p.SetProgress(itemID, pct)
	})
}

func (s *programService) Reset(ctx context.Context, programID string) (err error) {
	defer observe(ctx, s.observer, "reset-progress", time.Now().UTC(), map[string]any{"program": programID}, &err)
	if _, err := s.catalog.Program(programID); err != nil {
		return err
	}
	return s.progress.Reset(ctx, programID)
}

// withProgram runs fn against the stored program inside a transaction and
// persists the item states it leaves behind. The instruction gate is
// checked before the graph.
func (s *programService) withProgram(ctx context.Context, programID string, fn func(*domain.Program) error) error {
	if _, err := s.catalog.Program(programID); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		c, err := consentOrNew(ctx, repository.NewSQLiteConsentRepo(tx), programID)
		if err != nil {
			return err
		}
		if err := c.RequireAcknowledged(); err != nil {
			return err
		}

		progress := repository.NewSQLiteProgressRepo(tx)
		p, err := loadProgram(ctx, s.catalog, progress, programID)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		return progress.UpsertStates(ctx, programID, p.States())
	})
}

func needsPreCheck(ref domain.ItemRef) bool {
	if ref.Center != nil && ref.Center.Proctored {
		return true
	}
	return ref.Item != nil && ref.Item.Proctored
}

func itemName(ref domain.ItemRef) string {
	switch {
	case ref.Center != nil && ref.Item != nil:
		return ref.Center.Name + ": " + ref.Item.Name
	case ref.Center != nil:
		return ref.Center.Name
	default:
		return ref.Item.Name
	}
}

func summarize(p *domain.Program, acknowledged bool, now time.Time) app.ProgramSummary {
	completed, total := p.ItemCounts()
	return app.ProgramSummary{
		ID:                       p.ID,
		Name:                     p.Name,
		Description:              p.Description,
		Status:                   p.Status(),
		CompletionPct:            p.CompletionPct(),
		Completed:                completed,
		Total:                    total,
		DueDate:                  p.DueDate,
		Countdown:                countdown.Remaining(now, p.DueDate),
		InstructionsAcknowledged: acknowledged,
	}
}

func itemViews(items []domain.Exercise, group app.ItemGroup) []app.ItemView {
	out := make([]app.ItemView, 0, len(items))
	for _, e := range items {
		out = append(out, exerciseView(e, domain.KindExercise, group))
	}
	return out
}

func phaseViews(items []domain.Exercise) []app.ItemView {
	out := make([]app.ItemView, 0, len(items))
	for _, e := range items {
		out = append(out, exerciseView(e, domain.KindPhase, app.GroupCenter))
	}
	return out
}

func exerciseView(e domain.Exercise, kind domain.ItemKind, group app.ItemGroup) app.ItemView {
	return app.ItemView{
		ID:            e.ID,
		Name:          e.Name,
		DurationLabel: e.DurationLabel,
		Kind:          kind,
		Group:         group,
		Status:        e.Status,
		ProgressPct:   e.ProgressPct,
		Proctored:     e.Proctored,
		HasReport:     e.HasReport,
	}
}
