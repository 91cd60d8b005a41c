package proctor

import (
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timer"
)

// Probe performs one capability check and reports its outcome. It must
// return a terminal result.
type Probe func() domain.CheckResult

// Check is one entry of the capability battery.
type Check struct {
	Name  domain.CheckName
	Delay time.Duration
	Probe Probe
}

// Fixed returns a probe that always reports r.
func Fixed(r domain.CheckResult) Probe {
	return func() domain.CheckResult { return r }
}

// Sequence returns a probe that reports results in order and then repeats
// the last one. Useful for simulating a check that recovers on retry.
func Sequence(results ...domain.CheckResult) Probe {
	i := 0
	return func() domain.CheckResult {
		if len(results) == 0 {
			return domain.CheckPass
		}
		r := results[min(i, len(results)-1)]
		i++
		return r
	}
}

// DefaultBattery is the standard five-check battery. Each check resolves
// stagger later than the one before it; the network check reports a
// warning.
func DefaultBattery(stagger time.Duration) []Check {
	checks := make([]Check, 0, len(domain.AllChecks))
	for i, name := range domain.AllChecks {
		probe := Fixed(domain.CheckPass)
		if name == domain.CheckInternet {
			probe = Fixed(domain.CheckWarning)
		}
		checks = append(checks, Check{Name: name, Delay: stagger * time.Duration(i+1), Probe: probe})
	}
	return checks
}

// WithProbe returns a copy of the battery with one check's probe replaced.
func WithProbe(checks []Check, name domain.CheckName, p Probe) []Check {
	out := append([]Check(nil), checks...)
	for i := range out {
		if out[i].Name == name {
			out[i].Probe = p
		}
	}
	return out
}

// runner schedules checks on a timer group and reports each result
// through report. Results arrive in (delay, schedule order).
type runner struct {
	group  *timer.Group
	report func(domain.CheckName, domain.CheckResult)
}

func (r *runner) run(checks []Check) {
	for _, c := range checks {
		c := c
		r.group.After(c.Delay, func() {
			result := domain.CheckPass
			if c.Probe != nil {
				result = c.Probe()
			}
			if !result.Terminal() {
				result = domain.CheckFail
			}
			r.report(c.Name, result)
		})
	}
}
