package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/meridian/internal/catalog"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/idp"
	"github.com/alexanderramin/meridian/internal/timer"
)

// WizardOptions tune the wizard's pacing and the generator.
type WizardOptions struct {
	TypingDelay  time.Duration
	RampStep     time.Duration
	GapThreshold float64
	PlanStart    time.Time
}

type wizardService struct {
	catalog  *catalog.Catalog
	plans    PlanService
	sched    timer.Scheduler
	opts     WizardOptions
	now      Clock
	observer UseCaseObserver
}

func NewWizardService(
	cat *catalog.Catalog,
	plans PlanService,
	sched timer.Scheduler,
	opts WizardOptions,
	now Clock,
	observers ...UseCaseObserver,
) WizardService {
	return &wizardService{
		catalog:  cat,
		plans:    plans,
		sched:    sched,
		opts:     opts,
		now:      clockOrSystem(now),
		observer: combineObservers(observers),
	}
}

func (s *wizardService) Generator() idp.Generator {
	return idp.Generator{
		Gaps:        s.catalog.Gaps(),
		Suggestions: s.catalog.Suggestions(),
		Threshold:   s.opts.GapThreshold,
		Start:       s.opts.PlanStart,
		Now:         s.now,
	}
}

// NewWizard wires a wizard run to plan storage: entering Generating resets
// the stored plan to draft, and the generated plan is saved before the
// wizard shows it. A failed reset keeps the wizard at Summary and a failed
// save sends it back there.
func (s *wizardService) NewWizard(ctx context.Context) *idp.Wizard {
	ctx = context.WithoutCancel(ctx)
	gen := s.Generator()
	cfg := idp.Config{
		Questions:   s.catalog.ChatQuestions(),
		TypingDelay: s.opts.TypingDelay,
		RampStep:    s.opts.RampStep,
	}
	hooks := idp.Hooks{
		GenerationStarted: func() error {
			if err := s.plans.ResetCurrentToDraft(ctx); err != nil {
				return fmt.Errorf("resetting previous plan: %w", err)
			}
			return nil
		},
		Generate: func(in idp.Input) (plan *domain.DevelopmentPlan, err error) {
			fields := map[string]any{"answers": len(in.Answers), "uploads": len(in.Uploads)}
			defer observe(ctx, s.observer, "generate-plan", time.Now().UTC(), fields, &err)
			plan, err = gen.Generate(in)
			if err != nil {
				return nil, err
			}
			fields["plan"] = plan.ID
			fields["skills"] = len(plan.Skills)
			if err := s.plans.Save(ctx, plan); err != nil {
				return nil, err
			}
			return plan, nil
		},
	}
	return idp.NewWizard(cfg, s.sched, hooks)
}
