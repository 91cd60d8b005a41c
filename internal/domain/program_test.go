package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgram() *Program {
	p := &Program{
		ID:   "leadership",
		Name: "Leadership Assessment",
		SequentialExercises: []Exercise{
			{ID: "inbox", Name: "Inbox"},
			{ID: "roleplay", Name: "Role Play", Proctored: true},
		},
		OpenExercises: []Exercise{
			{ID: "survey", Name: "Survey"},
		},
		Centers: []Center{{
			ID:   "center",
			Name: "Assessment Center",
			Activities: []Exercise{
				{ID: "phase-1", Name: "Briefing"},
				{ID: "phase-2", Name: "Case Study"},
			},
		}},
	}
	p.Normalize()
	return p
}

// finish enters an item and completes it, the way a launched exercise
// reports back.
func finish(t *testing.T, p *Program, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := p.EnterItem(id)
		require.NoError(t, err, "entering %s", id)
		require.NoError(t, p.CompleteItem(id), "completing %s", id)
	}
}

func TestNormalize_InitialStatuses(t *testing.T) {
	p := newTestProgram()
	assert.Equal(t, ItemAvailable, p.SequentialExercises[0].Status)
	assert.Equal(t, ItemLocked, p.SequentialExercises[1].Status)
	assert.Equal(t, ItemAvailable, p.OpenExercises[0].Status)
	assert.Equal(t, ItemAvailable, p.Centers[0].Activities[0].Status)
	assert.Equal(t, ItemLocked, p.Centers[0].Activities[1].Status)
	assert.Equal(t, ProgramNotStarted, p.Status())
}

func TestEnterItem_Locked(t *testing.T) {
	p := newTestProgram()
	_, err := p.EnterItem("roleplay")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLockedItem)
	assert.Equal(t, ItemLocked, p.SequentialExercises[1].Status)
}

func TestEnterItem_StartsAvailable(t *testing.T) {
	p := newTestProgram()
	ref, err := p.EnterItem("inbox")
	require.NoError(t, err)
	assert.Equal(t, ItemInProgress, ref.Item.Status)
	assert.Equal(t, ProgramInProgress, p.Status())
}

func TestEnterItem_CompleteOpensInReview(t *testing.T) {
	p := newTestProgram()
	finish(t, p, "inbox")
	ref, err := p.EnterItem("inbox")
	require.NoError(t, err)
	assert.Equal(t, ItemComplete, ref.Item.Status)
}

func TestEnterItem_CenterEntersCurrentPhase(t *testing.T) {
	p := newTestProgram()
	ref, err := p.EnterItem("center")
	require.NoError(t, err)
	assert.Equal(t, KindCenter, ref.Kind)
	assert.Equal(t, "phase-1", ref.Item.ID)
	assert.Equal(t, ItemInProgress, p.Centers[0].Status())
}

func TestCompleteItem_PhasesCompleteCenter(t *testing.T) {
	p := newTestProgram()
	finish(t, p, "phase-1")
	assert.Equal(t, ItemAvailable, p.Centers[0].Activities[1].Status)
	finish(t, p, "phase-2")
	assert.Equal(t, ItemComplete, p.Centers[0].Status())

	ref, err := p.EnterItem("center")
	require.NoError(t, err)
	assert.Nil(t, ref.Item)
}

func TestCompleteItem_CenterRejected(t *testing.T) {
	p := newTestProgram()
	err := p.CompleteItem("center")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompleteItem_RequiresEntry(t *testing.T) {
	p := newTestProgram()
	for _, id := range []string{"inbox", "survey", "phase-1"} {
		err := p.CompleteItem(id)
		assert.ErrorIs(t, err, ErrInvalidStepTransition, id)
	}
	assert.Equal(t, ItemAvailable, p.SequentialExercises[0].Status)
	assert.Equal(t, ItemAvailable, p.OpenExercises[0].Status)
	assert.Equal(t, ItemAvailable, p.Centers[0].Activities[0].Status)
	assert.Equal(t, 0, p.CompletionPct())

	finish(t, p, "inbox")
	// roleplay is proctored and now available: still not completable unstarted.
	assert.ErrorIs(t, p.CompleteItem("roleplay"), ErrInvalidStepTransition)
}

func TestCompleteItem_Unknown(t *testing.T) {
	p := newTestProgram()
	assert.ErrorIs(t, p.CompleteItem("nope"), ErrUnknownItem)
}

func TestCompleteItem_Idempotent(t *testing.T) {
	p := newTestProgram()
	finish(t, p, "survey")
	finish(t, p, "survey")
	assert.Equal(t, ItemComplete, p.OpenExercises[0].Status)
}

func TestSetProgress_Clamped(t *testing.T) {
	p := newTestProgram()
	_, err := p.EnterItem("survey")
	require.NoError(t, err)

	require.NoError(t, p.SetProgress("survey", 150))
	assert.Equal(t, 99, p.OpenExercises[0].ProgressPct)
	require.NoError(t, p.SetProgress("survey", -3))
	assert.Equal(t, 0, p.OpenExercises[0].ProgressPct)
}

func TestSetProgress_RequiresInProgress(t *testing.T) {
	p := newTestProgram()
	assert.ErrorIs(t, p.SetProgress("survey", 10), ErrInvalidInput)
}

func TestCompletionPct(t *testing.T) {
	p := newTestProgram()
	assert.Equal(t, 0, p.CompletionPct())
	finish(t, p, "inbox")
	finish(t, p, "survey")
	// 2 of 5 items
	assert.Equal(t, 40, p.CompletionPct())

	finish(t, p, "roleplay")
	finish(t, p, "phase-1")
	finish(t, p, "phase-2")
	assert.Equal(t, 100, p.CompletionPct())
	assert.Equal(t, ProgramComplete, p.Status())
}

func TestApplyState_RoundTrip(t *testing.T) {
	p := newTestProgram()
	finish(t, p, "inbox")
	_, err := p.EnterItem("roleplay")
	require.NoError(t, err)
	require.NoError(t, p.SetProgress("roleplay", 30))

	fresh := newTestProgram()
	fresh.ApplyState(p.States())
	assert.Equal(t, p.SequentialExercises, fresh.SequentialExercises)
}

func TestApplyState_InconsistentStateRenormalized(t *testing.T) {
	p := newTestProgram()
	p.ApplyState([]ItemState{
		{ItemID: "roleplay", Status: ItemComplete, ProgressPct: 100},
		{ItemID: "ghost", Status: ItemComplete},
	})
	assert.Equal(t, ItemAvailable, p.SequentialExercises[0].Status)
	assert.Equal(t, ItemLocked, p.SequentialExercises[1].Status)
}

func TestClone_Independent(t *testing.T) {
	p := newTestProgram()
	c := p.Clone()
	finish(t, c, "phase-1")
	assert.Equal(t, ItemAvailable, p.Centers[0].Activities[0].Status)
}
