package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planNow = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func newTestPlan() *DevelopmentPlan {
	return NewPlan("plan-1", []Skill{
		{Name: "Delegation", Type: SkillBehavioral, GapScore: 2.5, Tips: []Tip{
			{ID: "t1", Category: CategoryExperience, Title: "Lead a project", Source: SourceAI},
			{ID: "t2", Category: CategorySocial, Title: "Find a mentor", Source: SourceAI},
		}},
		{Name: "SQL", Type: SkillTechnical, GapScore: 1.2, Tips: []Tip{
			{ID: "t3", Category: CategoryCourse, Title: "Take a course", Source: SourceLibrary},
		}},
	}, planNow)
}

func TestSnapCompletion(t *testing.T) {
	cases := map[float64]int{
		0: 0, 12.4: 0, 12.5: 25, 30: 25, 37.5: 50, 60: 50, 63: 75, 88: 100, 100: 100, -5: 0, 140: 100,
	}
	for in, want := range cases {
		assert.Equal(t, want, SnapCompletion(in), "snap(%v)", in)
	}
}

func TestSnapCompletion_AlwaysAStep(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		got := SnapCompletion(rng.Float64() * 100)
		assert.Contains(t, CompletionSteps, got)
	}
}

func TestSetCompletion_Snaps(t *testing.T) {
	p := newTestPlan()
	got, err := p.SetCompletion("t1", 62, planNow)
	require.NoError(t, err)
	assert.Equal(t, 50, got)
	assert.Equal(t, 50, p.Skills[0].Tips[0].CompletionPct)

	_, err = p.SetCompletion("missing", 10, planNow)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestSkillOps(t *testing.T) {
	p := newTestPlan()
	require.NoError(t, p.AddSkill(Skill{Name: "Coaching", Type: SkillBehavioral}, planNow))
	assert.ErrorIs(t, p.AddSkill(Skill{Name: "coaching", Type: SkillBehavioral}, planNow), ErrInvalidInput)
	assert.ErrorIs(t, p.AddSkill(Skill{Name: "X", Type: "soft"}, planNow), ErrInvalidInput)

	private, err := p.TogglePrivate(2, planNow)
	require.NoError(t, err)
	assert.True(t, private)

	require.NoError(t, p.RemoveSkill(1, planNow))
	require.Len(t, p.Skills, 2)
	assert.Equal(t, "Coaching", p.Skills[1].Name)
	assert.ErrorIs(t, p.RemoveSkill(5, planNow), ErrUnknownItem)
}

func TestTipOps(t *testing.T) {
	p := newTestPlan()
	require.NoError(t, p.AddTip(1, Tip{ID: "t4", Category: CategoryExperience, CompletionPct: 30}, planNow))
	assert.Equal(t, 25, p.Skills[1].Tips[1].CompletionPct)
	assert.ErrorIs(t, p.AddTip(1, Tip{ID: "t1", Category: CategoryCourse}, planNow), ErrInvalidInput)
	assert.ErrorIs(t, p.AddTip(1, Tip{ID: "t9", Category: "other"}, planNow), ErrInvalidInput)

	require.NoError(t, p.RemoveTip(0, "t2", planNow))
	assert.Len(t, p.Skills[0].Tips, 1)
	assert.ErrorIs(t, p.RemoveTip(0, "t2", planNow), ErrUnknownItem)
}

func TestSetTipDates(t *testing.T) {
	p := newTestPlan()
	start := planNow
	end := planNow.AddDate(0, 1, 0)
	require.NoError(t, p.SetTipDates("t1", start, end, planNow))
	assert.Equal(t, end, p.Skills[0].Tips[0].EndDate)
	assert.ErrorIs(t, p.SetTipDates("t1", end, start, planNow), ErrInvalidInput)
}

func TestSubmit_ExcludesPrivate(t *testing.T) {
	p := newTestPlan()
	_, err := p.TogglePrivate(1, planNow)
	require.NoError(t, err)

	view, err := p.Submit(planNow)
	require.NoError(t, err)
	assert.Equal(t, PlanUnderReview, p.Status)
	require.Len(t, view.Skills, 1)
	assert.Equal(t, "Delegation", view.Skills[0].Name)
	assert.Len(t, p.Skills, 2)
	require.NotNil(t, p.SubmittedAt)
}

func TestSubmittedPlanIsImmutable(t *testing.T) {
	p := newTestPlan()
	_, err := p.Submit(planNow)
	require.NoError(t, err)
	before := p.Clone()

	assert.ErrorIs(t, p.AddSkill(Skill{Name: "New", Type: SkillTechnical}, planNow), ErrPlanLocked)
	assert.ErrorIs(t, p.RemoveSkill(0, planNow), ErrPlanLocked)
	_, err = p.TogglePrivate(0, planNow)
	assert.ErrorIs(t, err, ErrPlanLocked)
	assert.ErrorIs(t, p.AddTip(0, Tip{ID: "t9", Category: CategoryCourse}, planNow), ErrPlanLocked)
	assert.ErrorIs(t, p.RemoveTip(0, "t1", planNow), ErrPlanLocked)
	_, err = p.SetCompletion("t1", 100, planNow)
	assert.ErrorIs(t, err, ErrPlanLocked)
	assert.ErrorIs(t, p.SetTipDates("t1", planNow, planNow, planNow), ErrPlanLocked)
	_, err = p.Submit(planNow)
	assert.ErrorIs(t, err, ErrPlanLocked)

	assert.Equal(t, before.Skills, p.Skills)

	_, err = p.AddComment(ThreadKey{TipID: "t1"}, AuthorManager, "Looks good", planNow)
	require.NoError(t, err)
}

func TestApprove(t *testing.T) {
	p := newTestPlan()
	assert.ErrorIs(t, p.Approve(planNow), ErrInvalidStepTransition)
	_, err := p.Submit(planNow)
	require.NoError(t, err)
	require.NoError(t, p.Approve(planNow))
	assert.Equal(t, PlanApproved, p.Status)
	assert.ErrorIs(t, p.Approve(planNow), ErrInvalidStepTransition)

	_, err = p.AddComment(ThreadKey{Skill: "SQL"}, AuthorParticipant, "Thanks", planNow)
	require.NoError(t, err)
}

func TestComments(t *testing.T) {
	p := newTestPlan()
	_, err := p.AddComment(ThreadKey{TipID: "t1"}, AuthorParticipant, "first", planNow)
	require.NoError(t, err)
	_, err = p.AddComment(ThreadKey{TipID: "t1"}, AuthorManager, "second", planNow.Add(time.Minute))
	require.NoError(t, err)
	_, err = p.AddComment(ThreadKey{Skill: "delegation"}, AuthorParticipant, "on skill", planNow)
	require.NoError(t, err)

	thread := p.Thread(ThreadKey{TipID: "t1"})
	require.Len(t, thread, 2)
	assert.Equal(t, "first", thread[0].Text)
	assert.Equal(t, "Delegation", thread[0].Thread.Skill)
	assert.Len(t, p.Thread(ThreadKey{Skill: "Delegation"}), 1)

	_, err = p.AddComment(ThreadKey{TipID: "zz"}, AuthorParticipant, "x", planNow)
	assert.ErrorIs(t, err, ErrUnknownItem)
	_, err = p.AddComment(ThreadKey{Skill: "SQL"}, AuthorParticipant, "  ", planNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = p.AddComment(ThreadKey{Skill: "SQL"}, "boss", "hi", planNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestThread_MatchesSkillCaseInsensitively(t *testing.T) {
	p := newTestPlan()
	_, err := p.AddComment(ThreadKey{Skill: "SQL"}, AuthorManager, "try window functions", planNow)
	require.NoError(t, err)

	assert.Len(t, p.Thread(ThreadKey{Skill: "sql"}), 1)
	assert.Len(t, p.Thread(ThreadKey{Skill: "SQL"}), 1)
	assert.Empty(t, p.Thread(ThreadKey{Skill: "Delegation"}))
	assert.Empty(t, p.Thread(ThreadKey{TipID: "t3"}))
}

func TestStats_IgnoresThreadsOfRemovedSkills(t *testing.T) {
	p := newTestPlan()
	_, err := p.AddComment(ThreadKey{Skill: "SQL"}, AuthorParticipant, "on skill", planNow)
	require.NoError(t, err)
	_, err = p.AddComment(ThreadKey{TipID: "t3"}, AuthorManager, "on tip", planNow)
	require.NoError(t, err)
	_, err = p.AddComment(ThreadKey{TipID: "t1"}, AuthorManager, "keep", planNow)
	require.NoError(t, err)
	require.Equal(t, 3, p.Stats().TotalComments)

	require.NoError(t, p.RemoveSkill(p.SkillIndex("SQL"), planNow))
	assert.Equal(t, 1, p.Stats().TotalComments)
	assert.Len(t, p.Thread(ThreadKey{Skill: "SQL"}), 1, "history is kept")

	require.NoError(t, p.AddSkill(Skill{Name: "sql", Type: SkillTechnical}, planNow))
	assert.Equal(t, 2, p.Stats().TotalComments)
}

func TestParseThreadKey(t *testing.T) {
	k, err := ParseThreadKey("tip:t1")
	require.NoError(t, err)
	assert.Equal(t, ThreadKey{TipID: "t1"}, k)
	assert.Equal(t, "tip:t1", k.String())

	k, err = ParseThreadKey("skill:SQL")
	require.NoError(t, err)
	assert.Equal(t, "skill:SQL", k.String())

	_, err = ParseThreadKey("SQL")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStats(t *testing.T) {
	p := newTestPlan()
	_, err := p.SetCompletion("t1", 100, planNow)
	require.NoError(t, err)
	_, err = p.SetCompletion("t2", 50, planNow)
	require.NoError(t, err)
	_, err = p.AddComment(ThreadKey{Skill: "SQL"}, AuthorParticipant, "hi", planNow)
	require.NoError(t, err)

	st := p.Stats()
	assert.Equal(t, 2, st.TotalSkills)
	assert.Equal(t, 1, st.SkillsByType[SkillBehavioral])
	assert.Equal(t, 1, st.SkillsByType[SkillTechnical])
	assert.Equal(t, 3, st.TotalTips)
	assert.Equal(t, 1, st.TotalComments)
	assert.Equal(t, 50, st.CompletionPct)
	assert.Equal(t, 1, st.TipsByCategory[CategoryCourse])

	assert.Equal(t, 0, NewPlan("empty", nil, planNow).Stats().CompletionPct)
}

func TestResetToDraft(t *testing.T) {
	p := newTestPlan()
	_, err := p.Submit(planNow)
	require.NoError(t, err)
	p.ResetToDraft(planNow)
	assert.Equal(t, PlanDraft, p.Status)
	assert.Nil(t, p.SubmittedAt)
	require.NoError(t, p.RemoveSkill(0, planNow))
}
