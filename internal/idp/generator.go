package idp

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/google/uuid"
)

// Answer is one recorded chat answer.
type Answer struct {
	Index    int
	Question string
	Text     string
}

// Input is everything the wizard collected.
type Input struct {
	Answers []Answer
	Uploads []Upload
}

// Generator builds a draft plan from the skill-gap review and the chat
// answers. Output is templated from the suggestion catalog; nothing is
// computed remotely.
type Generator struct {
	Gaps        []domain.SkillGap
	Suggestions []domain.TipTemplate
	// Gaps scoring at or above Threshold become skills. When none do, the
	// single largest gap is used.
	Threshold float64
	Start     time.Time
	NewID     func() string
	Now       func() time.Time
}

// categoryKeywords maps phrases in a learning-preference answer to the
// bucket the participant favors.
var categoryKeywords = []struct {
	keyword  string
	category domain.TipCategory
}{
	{"project", domain.CategoryExperience},
	{"job", domain.CategoryExperience},
	{"mentor", domain.CategorySocial},
	{"feedback", domain.CategorySocial},
	{"coach", domain.CategorySocial},
	{"course", domain.CategoryCourse},
	{"read", domain.CategoryCourse},
}

// tipLength is how long a tip in each bucket runs.
var tipLength = map[domain.TipCategory]time.Duration{
	domain.CategoryExperience: 12 * 7 * 24 * time.Hour,
	domain.CategorySocial:     8 * 7 * 24 * time.Hour,
	domain.CategoryCourse:     4 * 7 * 24 * time.Hour,
}

const skillStagger = 14 * 24 * time.Hour

// TipLength is the default run time of a tip in the given bucket.
func TipLength(c domain.TipCategory) time.Duration {
	if d, ok := tipLength[c]; ok {
		return d
	}
	return tipLength[domain.CategorySocial]
}

func (g Generator) Generate(in Input) (*domain.DevelopmentPlan, error) {
	gaps := g.selectGaps()
	if len(gaps) == 0 {
		return nil, domain.NewInvalidInput("no skill gaps to build a plan from")
	}
	newID := g.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	start := g.Start
	if start.IsZero() {
		start = now
	}

	order := categoryOrder(preferredCategory(in.Answers))
	focus := focusAnswer(in.Answers)

	skills := make([]domain.Skill, 0, len(gaps))
	for i, gap := range gaps {
		skill := domain.Skill{
			Name:        gap.Skill,
			Description: gap.Description,
			Type:        gap.Type,
			GapScore:    gap.Score,
		}
		skillStart := start.Add(time.Duration(i) * skillStagger)
		for _, cat := range order {
			tmpl, ok := g.suggestionFor(gap.Skill, cat)
			if !ok {
				continue
			}
			tip := tmpl.NewTip(newID(), skillStart, skillStart.Add(tipLength[cat]))
			tip.Source = domain.SourceAI
			tip.InsightText = insight(gap, focus, len(in.Uploads))
			skill.Tips = append(skill.Tips, tip)
		}
		skills = append(skills, skill)
	}
	return domain.NewPlan(newID(), skills, now), nil
}

func (g Generator) selectGaps() []domain.SkillGap {
	sorted := append([]domain.SkillGap(nil), g.Gaps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	var out []domain.SkillGap
	for _, gap := range sorted {
		if gap.Score >= g.Threshold {
			out = append(out, gap)
		}
	}
	if len(out) == 0 && len(sorted) > 0 {
		out = sorted[:1]
	}
	return out
}

func (g Generator) suggestionFor(skill string, cat domain.TipCategory) (domain.TipTemplate, bool) {
	var generic *domain.TipTemplate
	for i, s := range g.Suggestions {
		if s.Category != cat || !s.Matches(skill) {
			continue
		}
		if s.Skill != "" {
			return s, true
		}
		if generic == nil {
			generic = &g.Suggestions[i]
		}
	}
	if generic != nil {
		return *generic, true
	}
	return domain.TipTemplate{}, false
}

func preferredCategory(answers []Answer) domain.TipCategory {
	for _, a := range answers {
		text := strings.ToLower(a.Text)
		for _, kw := range categoryKeywords {
			if strings.Contains(text, kw.keyword) {
				return kw.category
			}
		}
	}
	return ""
}

// categoryOrder puts the preferred bucket first, the rest in 70-20-10 order.
func categoryOrder(preferred domain.TipCategory) []domain.TipCategory {
	order := make([]domain.TipCategory, 0, len(domain.TipCategories))
	if preferred != "" {
		order = append(order, preferred)
	}
	for _, c := range domain.TipCategories {
		if c != preferred {
			order = append(order, c)
		}
	}
	return order
}

func focusAnswer(answers []Answer) string {
	for _, a := range answers {
		if strings.TrimSpace(a.Text) != "" {
			return a.Text
		}
	}
	return ""
}

func insight(gap domain.SkillGap, focus string, uploads int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s scored %.1f below target.", gap.Skill, gap.Score)
	if focus != "" {
		fmt.Fprintf(&b, " You told us: %q.", focus)
	}
	if uploads > 0 {
		fmt.Fprintf(&b, " Based on %d uploaded document(s).", uploads)
	}
	return b.String()
}
