package domain

import (
	"math"
	"time"
)

// Exercise is a single assessable item. Center phases share the shape.
type Exercise struct {
	ID            string
	Name          string
	DurationLabel string
	Status        ItemStatus
	Proctored     bool
	ProgressPct   int
	HasReport     bool
}

// Center is a multi-phase assessment center. Its phases form a
// sequential chain of their own.
type Center struct {
	ID            string
	Name          string
	DurationLabel string
	Proctored     bool
	Activities    []Exercise
}

// Status is derived from the center's phases.
func (c *Center) Status() ItemStatus {
	if len(c.Activities) == 0 {
		return ItemAvailable
	}
	complete := 0
	started := false
	for _, a := range c.Activities {
		switch a.Status {
		case ItemComplete:
			complete++
			started = true
		case ItemInProgress:
			started = true
		}
	}
	switch {
	case complete == len(c.Activities):
		return ItemComplete
	case started:
		return ItemInProgress
	default:
		return ItemAvailable
	}
}

// CurrentPhase returns the first phase that is not complete, or nil when
// every phase is done.
func (c *Center) CurrentPhase() *Exercise {
	for i := range c.Activities {
		if c.Activities[i].Status != ItemComplete {
			return &c.Activities[i]
		}
	}
	return nil
}

type Program struct {
	ID                  string
	Name                string
	Description         string
	DueDate             time.Time
	Centers             []Center
	SequentialExercises []Exercise
	OpenExercises       []Exercise
}

// ItemRef locates an item inside a program.
type ItemRef struct {
	Item   *Exercise
	Kind   ItemKind
	Center *Center // set for phases and centers
	chain  []Exercise
}

// ItemState is the mutable part of an item, as persisted.
type ItemState struct {
	ItemID      string
	Status      ItemStatus
	ProgressPct int
}

// Normalize recomputes availability for the sequential chain, the open
// set and every center's phases.
func (p *Program) Normalize() {
	applyAvailability(p.SequentialExercises)
	normalizeOpen(p.OpenExercises)
	for i := range p.Centers {
		applyAvailability(p.Centers[i].Activities)
	}
}

// ApplyState overlays persisted item states onto the configured program
// and renormalizes. Unknown item IDs are ignored.
func (p *Program) ApplyState(states []ItemState) {
	byID := make(map[string]ItemState, len(states))
	for _, s := range states {
		byID[s.ItemID] = s
	}
	p.eachItem(func(e *Exercise) {
		if s, ok := byID[e.ID]; ok && s.Status.Valid() {
			e.Status = s.Status
			e.ProgressPct = s.ProgressPct
		}
	})
	p.Normalize()
}

// States returns the current state of every item.
func (p *Program) States() []ItemState {
	var out []ItemState
	p.eachItem(func(e *Exercise) {
		out = append(out, ItemState{ItemID: e.ID, Status: e.Status, ProgressPct: e.ProgressPct})
	})
	return out
}

func (p *Program) eachItem(fn func(*Exercise)) {
	for i := range p.SequentialExercises {
		fn(&p.SequentialExercises[i])
	}
	for i := range p.OpenExercises {
		fn(&p.OpenExercises[i])
	}
	for c := range p.Centers {
		for i := range p.Centers[c].Activities {
			fn(&p.Centers[c].Activities[i])
		}
	}
}

// Find locates an exercise, center or phase by ID.
func (p *Program) Find(id string) (ItemRef, error) {
	for i := range p.SequentialExercises {
		if p.SequentialExercises[i].ID == id {
			return ItemRef{Item: &p.SequentialExercises[i], Kind: KindExercise, chain: p.SequentialExercises}, nil
		}
	}
	for i := range p.OpenExercises {
		if p.OpenExercises[i].ID == id {
			return ItemRef{Item: &p.OpenExercises[i], Kind: KindExercise}, nil
		}
	}
	for c := range p.Centers {
		center := &p.Centers[c]
		if center.ID == id {
			return ItemRef{Kind: KindCenter, Center: center}, nil
		}
		for i := range center.Activities {
			if center.Activities[i].ID == id {
				return ItemRef{Item: &center.Activities[i], Kind: KindPhase, Center: center, chain: center.Activities}, nil
			}
		}
	}
	return ItemRef{}, NewUnknownItem("no item %q in program %q", id, p.ID)
}

// CheckEnterable validates the unlock rule for an item without changing it.
// For a center it returns the phase that would be entered.
func (p *Program) CheckEnterable(id string) (ItemRef, error) {
	ref, err := p.Find(id)
	if err != nil {
		return ItemRef{}, err
	}
	if ref.Kind == KindCenter {
		phase := ref.Center.CurrentPhase()
		if phase == nil {
			// Every phase complete: the center opens in review mode.
			return ref, nil
		}
		ref.Item = phase
	}
	if ref.Item.Status == ItemLocked {
		return ItemRef{}, ruleErr(CodeLockedItem, "%q is locked until earlier items are complete", ref.Item.Name)
	}
	return ref, nil
}

// EnterItem opens an item. Available items move to in_progress; complete
// items open in review mode without changing. Entering a center enters its
// current phase.
func (p *Program) EnterItem(id string) (ItemRef, error) {
	ref, err := p.CheckEnterable(id)
	if err != nil {
		return ItemRef{}, err
	}
	if ref.Item != nil && ref.Item.Status == ItemAvailable {
		ref.Item.Status = ItemInProgress
	}
	return ref, nil
}

// CompleteItem marks an in-progress exercise or phase complete and
// recomputes the chain it belongs to. Items must be entered (or launched
// after a pre-check) first. Completing a complete item is a no-op.
func (p *Program) CompleteItem(id string) error {
	ref, err := p.Find(id)
	if err != nil {
		return err
	}
	if ref.Kind == KindCenter {
		return NewInvalidInput("center %q completes through its phases", id)
	}
	switch ref.Item.Status {
	case ItemComplete:
		return nil
	case ItemLocked:
		return ruleErr(CodeLockedItem, "%q is locked and cannot be completed", ref.Item.Name)
	case ItemAvailable:
		return NewInvalidStep("%q has not been started; enter or launch it first", ref.Item.Name)
	}
	ref.Item.Status = ItemComplete
	ref.Item.ProgressPct = 100
	if ref.chain != nil {
		applyAvailability(ref.chain)
	}
	return nil
}

// SetProgress records partial progress on an in-progress item. Values are
// clamped to [0, 99]; reaching 100 happens only through CompleteItem.
func (p *Program) SetProgress(id string, pct int) error {
	ref, err := p.Find(id)
	if err != nil {
		return err
	}
	if ref.Kind == KindCenter {
		return NewInvalidInput("center %q tracks progress through its phases", id)
	}
	if ref.Item.Status != ItemInProgress {
		return NewInvalidInput("%q is %s; only in-progress items take progress", ref.Item.Name, ref.Item.Status)
	}
	ref.Item.ProgressPct = max(0, min(pct, 99))
	return nil
}

// ItemCounts returns completed and total items across the sequential
// chain, the open set and all center phases.
func (p *Program) ItemCounts() (completed, total int) {
	p.eachItem(func(e *Exercise) {
		total++
		if e.Status == ItemComplete {
			completed++
		}
	})
	return completed, total
}

// CompletionPct is round(100 * completed / total).
func (p *Program) CompletionPct() int {
	completed, total := p.ItemCounts()
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Status is derived from item statuses.
func (p *Program) Status() ProgramStatus {
	completed, total := p.ItemCounts()
	if total > 0 && completed == total {
		return ProgramComplete
	}
	started := completed > 0
	p.eachItem(func(e *Exercise) {
		if e.Status == ItemInProgress {
			started = true
		}
	})
	if started {
		return ProgramInProgress
	}
	return ProgramNotStarted
}

// Clone returns a deep copy, so callers can evaluate a change without
// touching the original.
func (p *Program) Clone() *Program {
	c := *p
	c.SequentialExercises = append([]Exercise(nil), p.SequentialExercises...)
	c.OpenExercises = append([]Exercise(nil), p.OpenExercises...)
	c.Centers = make([]Center, len(p.Centers))
	for i, center := range p.Centers {
		center.Activities = append([]Exercise(nil), center.Activities...)
		c.Centers[i] = center
	}
	return &c
}
