package domain

import (
	"strings"
	"time"
)

// SkillGap is one row of the participant's assessment result: how far the
// measured level sits below the target.
type SkillGap struct {
	Skill       string
	Description string
	Type        SkillType
	Score       float64
}

// TipTemplate is a catalog entry a tip can be created from. An empty Skill
// means the template applies to any skill.
type TipTemplate struct {
	ID              string
	Skill           string
	Category        TipCategory
	Title           string
	Description     string
	SuccessCriteria string
	Source          TipSource
}

// Matches reports whether the template can be offered for skill.
func (t TipTemplate) Matches(skill string) bool {
	return t.Skill == "" || strings.EqualFold(t.Skill, skill)
}

// NewTip instantiates the template as a tip running from start to end.
func (t TipTemplate) NewTip(id string, start, end time.Time) Tip {
	return Tip{
		ID:              id,
		Category:        t.Category,
		Title:           t.Title,
		Description:     t.Description,
		Source:          t.Source,
		StartDate:       start,
		EndDate:         end,
		SuccessCriteria: t.SuccessCriteria,
	}
}
