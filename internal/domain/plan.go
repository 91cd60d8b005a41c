package domain

import (
	"math"
	"strings"
	"time"
)

// Tip is a development action inside a skill.
type Tip struct {
	ID              string
	Category        TipCategory
	Title           string
	Description     string
	Source          TipSource
	StartDate       time.Time
	EndDate         time.Time
	SuccessCriteria string
	InsightText     string
	CompletionPct   int
}

type Skill struct {
	Name        string
	Description string
	Type        SkillType
	GapScore    float64
	Private     bool
	Tips        []Tip
}

// ThreadKey identifies a comment thread. A key with a TipID belongs to that
// tip, otherwise to the named skill.
type ThreadKey struct {
	Skill string
	TipID string
}

func (k ThreadKey) String() string {
	if k.TipID != "" {
		return "tip:" + k.TipID
	}
	return "skill:" + k.Skill
}

// ParseThreadKey is the inverse of ThreadKey.String.
func ParseThreadKey(s string) (ThreadKey, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return ThreadKey{}, NewInvalidInput("thread key %q must look like skill:<name> or tip:<id>", s)
	}
	switch kind {
	case "tip":
		return ThreadKey{TipID: id}, nil
	case "skill":
		return ThreadKey{Skill: id}, nil
	}
	return ThreadKey{}, NewInvalidInput("thread key %q must look like skill:<name> or tip:<id>", s)
}

type Comment struct {
	ID     string
	Thread ThreadKey
	Author Author
	Text   string
	At     time.Time
}

// DevelopmentPlan is the participant's IDP. Skill and tip content is
// editable only while the plan is a draft; comments are always appendable.
type DevelopmentPlan struct {
	ID          string
	Status      PlanStatus
	Skills      []Skill
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt *time.Time
	ApprovedAt  *time.Time
}

// ManagerView is the subset of a plan a reviewing manager sees.
type ManagerView struct {
	PlanID string
	Status PlanStatus
	Skills []Skill
}

type PlanStats struct {
	SkillsByType   map[SkillType]int
	TotalSkills    int
	TotalTips      int
	TotalComments  int
	CompletionPct  int
	TipsByCategory map[TipCategory]int
}

// CompletionSteps are the only values a tip's completion can hold.
var CompletionSteps = []int{0, 25, 50, 75, 100}

// SnapCompletion clamps x to [0, 100] and rounds it to the nearest step.
// Halfway values round up.
func SnapCompletion(x float64) int {
	if math.IsNaN(x) {
		return 0
	}
	x = math.Max(0, math.Min(100, x))
	return int(math.Floor(x/25+0.5)) * 25
}

func NewPlan(id string, skills []Skill, now time.Time) *DevelopmentPlan {
	p := &DevelopmentPlan{ID: id, Status: PlanDraft, CreatedAt: now, UpdatedAt: now}
	for _, s := range skills {
		p.Skills = append(p.Skills, cloneSkill(s))
	}
	return p
}

func (p *DevelopmentPlan) requireDraft(op string) error {
	if p.Status != PlanDraft {
		return ruleErr(CodePlanLocked, "cannot %s: plan is %s", op, p.Status)
	}
	return nil
}

func (p *DevelopmentPlan) skillAt(idx int) (*Skill, error) {
	if idx < 0 || idx >= len(p.Skills) {
		return nil, NewUnknownItem("no skill at index %d (plan has %d)", idx, len(p.Skills))
	}
	return &p.Skills[idx], nil
}

func (p *DevelopmentPlan) findTip(id string) (*Tip, *Skill) {
	for s := range p.Skills {
		for t := range p.Skills[s].Tips {
			if p.Skills[s].Tips[t].ID == id {
				return &p.Skills[s].Tips[t], &p.Skills[s]
			}
		}
	}
	return nil, nil
}

// SkillIndex returns the index of the named skill, or -1.
func (p *DevelopmentPlan) SkillIndex(name string) int {
	for i := range p.Skills {
		if strings.EqualFold(p.Skills[i].Name, name) {
			return i
		}
	}
	return -1
}

func (p *DevelopmentPlan) AddSkill(s Skill, now time.Time) error {
	if err := p.requireDraft("add skill"); err != nil {
		return err
	}
	if strings.TrimSpace(s.Name) == "" {
		return NewInvalidInput("skill name is required")
	}
	if _, err := ParseSkillType(string(s.Type)); err != nil {
		return NewInvalidInput("%v", err)
	}
	if p.SkillIndex(s.Name) >= 0 {
		return NewInvalidInput("skill %q is already in the plan", s.Name)
	}
	for _, t := range s.Tips {
		if existing, _ := p.findTip(t.ID); existing != nil {
			return NewInvalidInput("tip %q is already in the plan", t.ID)
		}
	}
	s = cloneSkill(s)
	for i := range s.Tips {
		s.Tips[i].CompletionPct = SnapCompletion(float64(s.Tips[i].CompletionPct))
	}
	p.Skills = append(p.Skills, s)
	p.UpdatedAt = now
	return nil
}

func (p *DevelopmentPlan) RemoveSkill(idx int, now time.Time) error {
	if err := p.requireDraft("remove skill"); err != nil {
		return err
	}
	if _, err := p.skillAt(idx); err != nil {
		return err
	}
	p.Skills = append(p.Skills[:idx:idx], p.Skills[idx+1:]...)
	p.UpdatedAt = now
	return nil
}

// TogglePrivate flips the skill's visibility and returns the new value.
func (p *DevelopmentPlan) TogglePrivate(idx int, now time.Time) (bool, error) {
	if err := p.requireDraft("change visibility"); err != nil {
		return false, err
	}
	s, err := p.skillAt(idx)
	if err != nil {
		return false, err
	}
	s.Private = !s.Private
	p.UpdatedAt = now
	return s.Private, nil
}

func (p *DevelopmentPlan) AddTip(skillIdx int, t Tip, now time.Time) error {
	if err := p.requireDraft("add tip"); err != nil {
		return err
	}
	s, err := p.skillAt(skillIdx)
	if err != nil {
		return err
	}
	if t.ID == "" {
		return NewInvalidInput("tip id is required")
	}
	if _, err := ParseTipCategory(string(t.Category)); err != nil {
		return NewInvalidInput("%v", err)
	}
	if existing, _ := p.findTip(t.ID); existing != nil {
		return NewInvalidInput("tip %q is already in the plan", t.ID)
	}
	if !t.StartDate.IsZero() && !t.EndDate.IsZero() && t.EndDate.Before(t.StartDate) {
		return NewInvalidInput("tip %q ends before it starts", t.ID)
	}
	t.CompletionPct = SnapCompletion(float64(t.CompletionPct))
	s.Tips = append(s.Tips, t)
	p.UpdatedAt = now
	return nil
}

func (p *DevelopmentPlan) RemoveTip(skillIdx int, tipID string, now time.Time) error {
	if err := p.requireDraft("remove tip"); err != nil {
		return err
	}
	s, err := p.skillAt(skillIdx)
	if err != nil {
		return err
	}
	for i := range s.Tips {
		if s.Tips[i].ID == tipID {
			s.Tips = append(s.Tips[:i:i], s.Tips[i+1:]...)
			p.UpdatedAt = now
			return nil
		}
	}
	return NewUnknownItem("skill %q has no tip %q", s.Name, tipID)
}

// SetCompletion stores the snapped completion and returns it.
func (p *DevelopmentPlan) SetCompletion(tipID string, pct float64, now time.Time) (int, error) {
	if err := p.requireDraft("set completion"); err != nil {
		return 0, err
	}
	t, _ := p.findTip(tipID)
	if t == nil {
		return 0, NewUnknownItem("no tip %q", tipID)
	}
	t.CompletionPct = SnapCompletion(pct)
	p.UpdatedAt = now
	return t.CompletionPct, nil
}

func (p *DevelopmentPlan) SetTipDates(tipID string, start, end time.Time, now time.Time) error {
	if err := p.requireDraft("edit dates"); err != nil {
		return err
	}
	t, _ := p.findTip(tipID)
	if t == nil {
		return NewUnknownItem("no tip %q", tipID)
	}
	if end.Before(start) {
		return NewInvalidInput("end date %s is before start date %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	t.StartDate = start
	t.EndDate = end
	p.UpdatedAt = now
	return nil
}

// AddComment appends to a thread. The thread must name a skill or tip
// currently in the plan.
func (p *DevelopmentPlan) AddComment(key ThreadKey, author Author, text string, now time.Time) (Comment, error) {
	if _, err := ParseAuthor(string(author)); err != nil {
		return Comment{}, NewInvalidInput("%v", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, NewInvalidInput("comment text is required")
	}
	switch {
	case key.TipID != "":
		t, s := p.findTip(key.TipID)
		if t == nil {
			return Comment{}, NewUnknownItem("no tip %q", key.TipID)
		}
		key.Skill = s.Name
	case key.Skill != "":
		idx := p.SkillIndex(key.Skill)
		if idx < 0 {
			return Comment{}, NewUnknownItem("no skill %q", key.Skill)
		}
		key.Skill = p.Skills[idx].Name
	default:
		return Comment{}, NewInvalidInput("comment needs a skill or tip")
	}
	c := Comment{Thread: key, Author: author, Text: text, At: now}
	p.Comments = append(p.Comments, c)
	return c, nil
}

// Thread returns a thread's comments in the order they were added. Skill
// names match case-insensitively, as in AddComment. Comments on a removed
// skill or tip are kept and still returned here, so re-adding the skill
// brings its thread back.
func (p *DevelopmentPlan) Thread(key ThreadKey) []Comment {
	var out []Comment
	for _, c := range p.Comments {
		if c.Thread.matches(key) {
			out = append(out, c)
		}
	}
	return out
}

func (k ThreadKey) matches(other ThreadKey) bool {
	if k.TipID != "" || other.TipID != "" {
		return k.TipID == other.TipID
	}
	return strings.EqualFold(k.Skill, other.Skill)
}

// live reports whether the thread's skill or tip is still in the plan.
func (p *DevelopmentPlan) live(key ThreadKey) bool {
	if key.TipID != "" {
		t, _ := p.findTip(key.TipID)
		return t != nil
	}
	return p.SkillIndex(key.Skill) >= 0
}

// Submit moves a draft to review and returns what the manager sees.
func (p *DevelopmentPlan) Submit(now time.Time) (ManagerView, error) {
	if p.Status != PlanDraft {
		return ManagerView{}, ruleErr(CodePlanLocked, "only a draft can be submitted; plan is %s", p.Status)
	}
	p.Status = PlanUnderReview
	p.SubmittedAt = &now
	p.UpdatedAt = now
	return p.ManagerView(), nil
}

func (p *DevelopmentPlan) Approve(now time.Time) error {
	if p.Status != PlanUnderReview {
		return NewInvalidStep("only a plan under review can be approved; plan is %s", p.Status)
	}
	p.Status = PlanApproved
	p.ApprovedAt = &now
	p.UpdatedAt = now
	return nil
}

// ResetToDraft returns a plan to draft ahead of regeneration.
func (p *DevelopmentPlan) ResetToDraft(now time.Time) {
	p.Status = PlanDraft
	p.SubmittedAt = nil
	p.ApprovedAt = nil
	p.UpdatedAt = now
}

// ManagerView excludes private skills.
func (p *DevelopmentPlan) ManagerView() ManagerView {
	v := ManagerView{PlanID: p.ID, Status: p.Status}
	for _, s := range p.Skills {
		if !s.Private {
			v.Skills = append(v.Skills, cloneSkill(s))
		}
	}
	return v
}

func (p *DevelopmentPlan) Stats() PlanStats {
	st := PlanStats{
		SkillsByType:   make(map[SkillType]int),
		TipsByCategory: make(map[TipCategory]int),
		TotalSkills:    len(p.Skills),
	}
	for _, c := range p.Comments {
		if p.live(c.Thread) {
			st.TotalComments++
		}
	}
	sum := 0
	for _, s := range p.Skills {
		st.SkillsByType[s.Type]++
		for _, t := range s.Tips {
			st.TotalTips++
			st.TipsByCategory[t.Category]++
			sum += t.CompletionPct
		}
	}
	if st.TotalTips > 0 {
		st.CompletionPct = int(math.Round(float64(sum) / float64(st.TotalTips)))
	}
	return st
}

func (p *DevelopmentPlan) Clone() *DevelopmentPlan {
	c := *p
	c.Skills = make([]Skill, len(p.Skills))
	for i, s := range p.Skills {
		c.Skills[i] = cloneSkill(s)
	}
	c.Comments = append([]Comment(nil), p.Comments...)
	return &c
}

func cloneSkill(s Skill) Skill {
	s.Tips = append([]Tip(nil), s.Tips...)
	return s
}
