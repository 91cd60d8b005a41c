// Package proctor runs the pre-check protocol that gates entry into a
// proctored exercise: acknowledge the rules, pass the capability battery,
// then launch.
package proctor

import (
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timer"
)

type State string

const (
	StateInfo      State = "info"
	StateChecking  State = "checking"
	StateReady     State = "ready"
	StateLaunched  State = "launched"
	StateDiscarded State = "discarded"
)

// Terminal reports whether the session is finished.
func (s State) Terminal() bool {
	return s == StateLaunched || s == StateDiscarded
}

// Target is the item a session gates.
type Target struct {
	ProgramID string
	ItemID    string
	Kind      domain.ItemKind
	Name      string
}

// LaunchFunc hands the participant over to the external exercise runtime.
type LaunchFunc func(Target) error

// CheckStatus is the current result of one check.
type CheckStatus struct {
	Name   domain.CheckName
	Result domain.CheckResult
}

// Event records a check result in the order it arrived.
type Event struct {
	Check  domain.CheckName
	Result domain.CheckResult
	At     time.Time
}

type Snapshot struct {
	ID         string
	Target     Target
	State      State
	Checks     []CheckStatus
	Advisories []string
	Blocked    bool
	Events     []Event
}

var advisories = map[domain.CheckName]string{
	domain.CheckBrowser:  "Your browser is not fully supported; some exercise features may not display correctly.",
	domain.CheckInternet: "Your connection looks slow or unstable; keep this tab in focus to avoid interruptions.",
	domain.CheckCamera:   "Your camera signal is weak; make sure your face is well lit.",
	domain.CheckMic:      "Your microphone level is low; move closer or check the input device.",
	domain.CheckUpload:   "Uploads are slow; large answers may take longer to submit.",
}

// Session is one pass through the pre-check protocol for one target. All
// of its timers belong to a single group, so discarding the session stops
// every pending check.
type Session struct {
	mu      sync.Mutex
	id      string
	target  Target
	group   *timer.Group
	battery []Check
	launch  LaunchFunc
	state   State
	results map[domain.CheckName]domain.CheckResult
	events  []Event
}

func NewSession(id string, target Target, sched timer.Scheduler, battery []Check, launch LaunchFunc) *Session {
	s := &Session{
		id:      id,
		target:  target,
		group:   timer.NewGroup(sched),
		battery: battery,
		launch:  launch,
		state:   StateInfo,
		results: make(map[domain.CheckName]domain.CheckResult, len(battery)),
	}
	for _, c := range battery {
		s.results[c.Name] = domain.CheckPending
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Target() Target { return s.target }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Acknowledge accepts the proctoring rules and starts the battery.
func (s *Session) Acknowledge() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInfo {
		return domain.NewInvalidStep("pre-check %s: cannot acknowledge in %s", s.id, s.state)
	}
	s.state = StateChecking
	for _, c := range s.battery {
		s.results[c.Name] = domain.CheckRunning
	}
	s.runner().run(s.battery)
	if len(s.battery) == 0 {
		s.settleLocked()
	}
	return nil
}

// RetryFailed re-runs only the checks that failed.
func (s *Session) RetryFailed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateChecking || !s.blockedLocked() {
		return domain.NewInvalidStep("pre-check %s: nothing to retry in %s", s.id, s.state)
	}
	var failed []Check
	for _, c := range s.battery {
		if s.results[c.Name] == domain.CheckFail {
			s.results[c.Name] = domain.CheckRunning
			failed = append(failed, c)
		}
	}
	s.runner().run(failed)
	return nil
}

// Launch hands off to the exercise runtime. It is only permitted once every
// check has passed or warned. On success the session is finished.
func (s *Session) Launch() error {
	s.mu.Lock()
	if s.state != StateReady {
		state := s.state
		blocked := s.blockedLocked()
		s.mu.Unlock()
		if blocked {
			return domain.NewChecksFailed("pre-check %s: retry the failed checks before launching", s.id)
		}
		return domain.NewInvalidStep("pre-check %s: cannot launch in %s", s.id, state)
	}
	s.mu.Unlock()

	if s.launch != nil {
		if err := s.launch(s.target); err != nil {
			return fmt.Errorf("launching %s: %w", s.target.ItemID, err)
		}
	}

	s.mu.Lock()
	s.state = StateLaunched
	s.mu.Unlock()
	s.group.Stop()
	return nil
}

// Cancel discards the session from any state. Pending checks never report.
func (s *Session) Cancel() {
	s.mu.Lock()
	if !s.state.Terminal() {
		s.state = StateDiscarded
	}
	s.mu.Unlock()
	s.group.Stop()
}

// Blocked reports whether every check has finished and at least one failed.
func (s *Session) Blocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blockedLocked()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:      s.id,
		Target:  s.target,
		State:   s.state,
		Blocked: s.blockedLocked(),
		Events:  append([]Event(nil), s.events...),
	}
	for _, c := range s.battery {
		r := s.results[c.Name]
		snap.Checks = append(snap.Checks, CheckStatus{Name: c.Name, Result: r})
		if r == domain.CheckWarning {
			snap.Advisories = append(snap.Advisories, advisoryFor(c.Name))
		}
	}
	return snap
}

func advisoryFor(name domain.CheckName) string {
	if a, ok := advisories[name]; ok {
		return a
	}
	return fmt.Sprintf("The %s check reported a warning.", name)
}

func (s *Session) runner() *runner {
	return &runner{group: s.group, report: s.report}
}

func (s *Session) report(name domain.CheckName, result domain.CheckResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateChecking || s.results[name] != domain.CheckRunning {
		return
	}
	s.results[name] = result
	s.events = append(s.events, Event{Check: name, Result: result, At: s.group.Now()})
	s.settleLocked()
}

func (s *Session) settleLocked() {
	for _, r := range s.results {
		if !r.Terminal() || r == domain.CheckFail {
			return
		}
	}
	s.state = StateReady
}

func (s *Session) blockedLocked() bool {
	failed := false
	for _, r := range s.results {
		if !r.Terminal() {
			return false
		}
		if r == domain.CheckFail {
			failed = true
		}
	}
	return failed
}
