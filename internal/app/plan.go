package app

import "github.com/alexanderramin/meridian/internal/domain"

type PlanSnapshot struct {
	Plan        *domain.DevelopmentPlan
	Stats       domain.PlanStats
	ManagerView domain.ManagerView
	Editable    bool
}

func NewPlanSnapshot(p *domain.DevelopmentPlan) *PlanSnapshot {
	return &PlanSnapshot{
		Plan:        p,
		Stats:       p.Stats(),
		ManagerView: p.ManagerView(),
		Editable:    p.Status == domain.PlanDraft,
	}
}
