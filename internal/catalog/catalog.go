// Package catalog loads the static content the engine runs on: programs
// with their exercises, centers and slots, the participant's skill gaps,
// the tip catalogs and the wizard chat script.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/idp"
)

type Catalog struct {
	Participant   Participant    `yaml:"participant"`
	Programs      []ProgramSpec  `yaml:"programs"`
	SkillGaps     []GapSpec      `yaml:"skill_gaps"`
	AISuggestions []TipSpec      `yaml:"ai_suggestions"`
	Library       []TipSpec      `yaml:"library"`
	Questions     []QuestionSpec `yaml:"questions"`
}

type Participant struct {
	Name    string `yaml:"name"`
	Role    string `yaml:"role"`
	Manager string `yaml:"manager"`
}

type ProgramSpec struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Due         string       `yaml:"due"`
	IntroVideo  string       `yaml:"intro_video"`
	Sequential  []ItemSpec   `yaml:"sequential"`
	Open        []ItemSpec   `yaml:"open"`
	Centers     []CenterSpec `yaml:"centers"`
}

type ItemSpec struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Duration  string `yaml:"duration"`
	Proctored bool   `yaml:"proctored"`
	HasReport bool   `yaml:"has_report"`
}

type CenterSpec struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Duration  string     `yaml:"duration"`
	Proctored bool       `yaml:"proctored"`
	Phases    []ItemSpec `yaml:"phases"`
	Slots     []SlotSpec `yaml:"slots"`
}

type SlotSpec struct {
	ID                  string `yaml:"id"`
	Date                string `yaml:"date"`
	Start               string `yaml:"start"`
	End                 string `yaml:"end"`
	Timezone            string `yaml:"timezone"`
	Seats               int    `yaml:"seats"`
	CancellationAllowed bool   `yaml:"cancellation_allowed"`
	CancellationCutoff  string `yaml:"cancellation_cutoff"`
}

type GapSpec struct {
	Skill       string  `yaml:"skill"`
	Description string  `yaml:"description"`
	Type        string  `yaml:"type"`
	Score       float64 `yaml:"score"`
}

type TipSpec struct {
	ID              string `yaml:"id"`
	Skill           string `yaml:"skill"`
	Category        string `yaml:"category"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	SuccessCriteria string `yaml:"success_criteria"`
}

type QuestionSpec struct {
	Prompt string   `yaml:"prompt"`
	Chips  []string `yaml:"chips"`
}

// ProgramIDs returns program IDs in catalog order.
func (c *Catalog) ProgramIDs() []string {
	ids := make([]string, 0, len(c.Programs))
	for _, p := range c.Programs {
		ids = append(ids, p.ID)
	}
	return ids
}

func (c *Catalog) programSpec(id string) (*ProgramSpec, error) {
	for i := range c.Programs {
		if c.Programs[i].ID == id {
			return &c.Programs[i], nil
		}
	}
	return nil, domain.NewUnknownItem("no program %q in catalog", id)
}

// IntroVideo returns the program's intro video URL.
func (c *Catalog) IntroVideo(programID string) (string, error) {
	spec, err := c.programSpec(programID)
	if err != nil {
		return "", err
	}
	return spec.IntroVideo, nil
}

// Program builds a fresh program graph with no progress applied.
func (c *Catalog) Program(id string) (*domain.Program, error) {
	spec, err := c.programSpec(id)
	if err != nil {
		return nil, err
	}
	p := &domain.Program{
		ID:                  spec.ID,
		Name:                spec.Name,
		Description:         spec.Description,
		SequentialExercises: toExercises(spec.Sequential),
		OpenExercises:       toExercises(spec.Open),
	}
	if spec.Due != "" {
		due, err := parseDue(spec.Due)
		if err != nil {
			return nil, fmt.Errorf("program %s: %w", spec.ID, err)
		}
		p.DueDate = due
	}
	for _, cs := range spec.Centers {
		p.Centers = append(p.Centers, domain.Center{
			ID:            cs.ID,
			Name:          cs.Name,
			DurationLabel: cs.Duration,
			Proctored:     cs.Proctored,
			Activities:    toExercises(cs.Phases),
		})
	}
	p.Normalize()
	return p, nil
}

func toExercises(items []ItemSpec) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(items))
	for _, it := range items {
		out = append(out, domain.Exercise{
			ID:            it.ID,
			Name:          it.Name,
			DurationLabel: it.Duration,
			Proctored:     it.Proctored,
			HasReport:     it.HasReport,
		})
	}
	return out
}

func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("due %q: expected RFC 3339 or YYYY-MM-DD", s)
	}
	// A bare date is due at the end of that day.
	return t.Add(24*time.Hour - time.Second), nil
}

// Slots returns every configured slot, with full capacity.
func (c *Catalog) Slots() []domain.Slot {
	var out []domain.Slot
	for _, p := range c.Programs {
		for _, center := range p.Centers {
			for _, s := range center.Slots {
				out = append(out, domain.Slot{
					ID:                      s.ID,
					CenterID:                center.ID,
					ProgramID:               p.ID,
					Date:                    s.Date,
					StartTime:               s.Start,
					EndTime:                 s.End,
					TimezoneLabel:           s.Timezone,
					TotalSeats:              s.Seats,
					RemainingSeats:          s.Seats,
					CancellationAllowed:     s.CancellationAllowed,
					CancellationCutoffLabel: s.CancellationCutoff,
				})
			}
		}
	}
	return out
}

// CenterName resolves a center ID to its display name and program.
func (c *Catalog) CenterName(centerID string) (center, program string, ok bool) {
	for _, p := range c.Programs {
		for _, cs := range p.Centers {
			if cs.ID == centerID {
				return cs.Name, p.Name, true
			}
		}
	}
	return "", "", false
}

func (c *Catalog) Gaps() []domain.SkillGap {
	out := make([]domain.SkillGap, 0, len(c.SkillGaps))
	for _, g := range c.SkillGaps {
		out = append(out, domain.SkillGap{
			Skill:       g.Skill,
			Description: g.Description,
			Type:        domain.SkillType(g.Type),
			Score:       g.Score,
		})
	}
	return out
}

// Suggestions returns the AI suggestion catalog.
func (c *Catalog) Suggestions() []domain.TipTemplate {
	return toTemplates(c.AISuggestions, domain.SourceAI)
}

// LibraryTips returns the curated library catalog.
func (c *Catalog) LibraryTips() []domain.TipTemplate {
	return toTemplates(c.Library, domain.SourceLibrary)
}

// Template finds a tip template by ID across both catalogs.
func (c *Catalog) Template(id string) (domain.TipTemplate, error) {
	for _, t := range append(c.Suggestions(), c.LibraryTips()...) {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.TipTemplate{}, domain.NewUnknownItem("no tip template %q", id)
}

func toTemplates(specs []TipSpec, source domain.TipSource) []domain.TipTemplate {
	out := make([]domain.TipTemplate, 0, len(specs))
	for _, s := range specs {
		out = append(out, domain.TipTemplate{
			ID:              s.ID,
			Skill:           s.Skill,
			Category:        domain.TipCategory(s.Category),
			Title:           s.Title,
			Description:     s.Description,
			SuccessCriteria: s.SuccessCriteria,
			Source:          source,
		})
	}
	return out
}

// ChatQuestions returns the wizard script, or nil to use the built-in one.
func (c *Catalog) ChatQuestions() []idp.Question {
	if len(c.Questions) == 0 {
		return nil
	}
	out := make([]idp.Question, 0, len(c.Questions))
	for _, q := range c.Questions {
		out = append(out, idp.Question{Prompt: q.Prompt, Chips: q.Chips})
	}
	return out
}

// validate checks what the schema cannot express: IDs unique across the
// whole catalog and gap skill types.
func (c *Catalog) validate() error {
	var problems []string
	seen := make(map[string]string)
	claim := func(id, where string) {
		if prev, ok := seen[id]; ok {
			problems = append(problems, fmt.Sprintf("id %q used by %s and %s", id, prev, where))
			return
		}
		seen[id] = where
	}
	for _, p := range c.Programs {
		claim(p.ID, "program "+p.ID)
		for _, it := range p.Sequential {
			claim(it.ID, "exercise in "+p.ID)
		}
		for _, it := range p.Open {
			claim(it.ID, "exercise in "+p.ID)
		}
		for _, cs := range p.Centers {
			claim(cs.ID, "center in "+p.ID)
			for _, ph := range cs.Phases {
				claim(ph.ID, "phase of "+cs.ID)
			}
			for _, s := range cs.Slots {
				claim(s.ID, "slot of "+cs.ID)
			}
		}
		if p.Due != "" {
			if _, err := parseDue(p.Due); err != nil {
				problems = append(problems, fmt.Sprintf("program %s: %v", p.ID, err))
			}
		}
	}
	for _, t := range c.AISuggestions {
		claim(t.ID, "ai suggestion")
	}
	for _, t := range c.Library {
		claim(t.ID, "library tip")
	}
	gapSeen := make(map[string]bool)
	for _, g := range c.SkillGaps {
		key := strings.ToLower(g.Skill)
		if gapSeen[key] {
			problems = append(problems, fmt.Sprintf("skill gap %q listed twice", g.Skill))
		}
		gapSeen[key] = true
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
