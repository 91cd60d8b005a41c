package service

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/catalog"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/proctor"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/timer"
	"github.com/google/uuid"
)

// ProbeOverride replaces the probe of one check in the battery.
type ProbeOverride struct {
	Check domain.CheckName
	Probe proctor.Probe
}

type preCheckService struct {
	catalog  *catalog.Catalog
	progress repository.ProgressRepo
	consent  repository.ConsentRepo
	programs ProgramService
	sched    timer.Scheduler
	stagger  time.Duration
	observer UseCaseObserver

	mu       sync.Mutex
	sessions map[string]*proctor.Session
	order    []string
}

func NewPreCheckService(
	cat *catalog.Catalog,
	progress repository.ProgressRepo,
	consent repository.ConsentRepo,
	programs ProgramService,
	sched timer.Scheduler,
	stagger time.Duration,
	observers ...UseCaseObserver,
) PreCheckService {
	return &preCheckService{
		catalog:  cat,
		progress: progress,
		consent:  consent,
		programs: programs,
		sched:    sched,
		stagger:  stagger,
		observer: combineObservers(observers),
		sessions: make(map[string]*proctor.Session),
	}
}

// Start opens a pre-check session for a proctored item. The instruction
// gate is checked first, then the unlock rule. A successful launch enters
// the item.
func (s *preCheckService) Start(ctx context.Context, programID, itemID string, overrides ...ProbeOverride) (sess *proctor.Session, err error) {
	fields := map[string]any{"program": programID, "item": itemID}
	defer observe(ctx, s.observer, "start-precheck", time.Now().UTC(), fields, &err)

	c, err := consentOrNew(ctx, s.consent, programID)
	if err != nil {
		return nil, err
	}
	if err := c.RequireAcknowledged(); err != nil {
		return nil, err
	}
	p, err := loadProgram(ctx, s.catalog, s.progress, programID)
	if err != nil {
		return nil, err
	}
	ref, err := p.CheckEnterable(itemID)
	if err != nil {
		return nil, err
	}
	if !needsPreCheck(ref) {
		return nil, domain.NewInvalidInput("%q does not need a pre-check; enter it directly", itemName(ref))
	}

	battery := proctor.DefaultBattery(s.stagger)
	for _, o := range overrides {
		battery = proctor.WithProbe(battery, o.Check, o.Probe)
	}
	target := proctor.Target{ProgramID: programID, ItemID: itemID, Kind: ref.Kind, Name: itemName(ref)}
	launchCtx := context.WithoutCancel(ctx)
	launch := func(t proctor.Target) error {
		_, err := s.programs.LaunchItem(launchCtx, t.ProgramID, t.ItemID)
		return err
	}

	sess = proctor.NewSession(uuid.NewString(), target, s.sched, battery, launch)
	fields["session"] = sess.ID()

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.order = append(s.order, sess.ID())
	s.mu.Unlock()
	return sess, nil
}

func (s *preCheckService) Get(id string) (*proctor.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.NewUnknownItem("no pre-check session %q", id)
	}
	return sess, nil
}

func (s *preCheckService) Snapshot(id string) (*app.PreCheckSnapshot, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	snap := &app.PreCheckSnapshot{Snapshot: sess.Snapshot()}
	if p, err := s.catalog.Program(sess.Target().ProgramID); err == nil {
		snap.ProgramName = p.Name
	}
	return snap, nil
}

// Cancel discards the session and forgets it.
func (s *preCheckService) Cancel(id string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	sess.Cancel()
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Active returns sessions that are not yet launched or discarded, oldest
// first.
func (s *preCheckService) Active() []*proctor.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*proctor.Session
	for _, id := range s.order {
		if sess, ok := s.sessions[id]; ok && !sess.State().Terminal() {
			out = append(out, sess)
		}
	}
	return out
}
