package idp

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type recorder struct {
	started  int
	plans    []*domain.DevelopmentPlan
	inputs   []Input
	err      error
	startErr error
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		Generate: func(in Input) (*domain.DevelopmentPlan, error) {
			r.inputs = append(r.inputs, in)
			if r.err != nil {
				return nil, r.err
			}
			return domain.NewPlan("generated", []domain.Skill{{Name: "Delegation", Type: domain.SkillBehavioral}}, epoch), nil
		},
		GenerationStarted: func() error {
			r.started++
			return r.startErr
		},
		PlanReady:         func(p *domain.DevelopmentPlan) { r.plans = append(r.plans, p) },
	}
}

func newTestWizard(r *recorder) (*Wizard, *timer.Manual) {
	clock := timer.NewManual(epoch)
	cfg := Config{TypingDelay: 800 * time.Millisecond, RampStep: 500 * time.Millisecond}
	return NewWizard(cfg, clock, r.hooks()), clock
}

func toChat(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	require.Equal(t, StepChat, w.Step())
}

func TestWizard_ChatSeedsFirstQuestion(t *testing.T) {
	w, _ := newTestWizard(&recorder{})
	toChat(t, w)
	snap := w.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, SpeakerBot, snap.Messages[0].From)
	assert.Equal(t, DefaultQuestions[0].Prompt, snap.Messages[0].Text)
}

func TestWizard_TypingDelay(t *testing.T) {
	w, clock := newTestWizard(&recorder{})
	toChat(t, w)
	require.NoError(t, w.Answer("Leading people"))

	snap := w.Snapshot()
	assert.True(t, snap.Typing)
	assert.Len(t, snap.Messages, 2)
	assert.Equal(t, 1, snap.QuestionIndex)
	assert.ErrorIs(t, w.Answer("too soon"), domain.ErrInvalidStepTransition)

	clock.Advance(800 * time.Millisecond)
	snap = w.Snapshot()
	assert.False(t, snap.Typing)
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, DefaultQuestions[1].Prompt, snap.Messages[2].Text)
}

func TestWizard_SelectChip(t *testing.T) {
	w, clock := newTestWizard(&recorder{})
	toChat(t, w)
	require.NoError(t, w.SelectChip(1))
	clock.RunAll()
	snap := w.Snapshot()
	require.Len(t, snap.Answers, 1)
	assert.Equal(t, "Strategic thinking", snap.Answers[0].Text)
	assert.ErrorIs(t, w.SelectChip(9), domain.ErrInvalidInput)
}

func TestWizard_SummaryRequiresAnswer(t *testing.T) {
	w, _ := newTestWizard(&recorder{})
	toChat(t, w)
	assert.ErrorIs(t, w.Next(), domain.ErrInvalidStepTransition)
	assert.Equal(t, StepChat, w.Step())
}

func TestWizard_EarlySummaryDropsPendingReply(t *testing.T) {
	w, clock := newTestWizard(&recorder{})
	toChat(t, w)
	require.NoError(t, w.Answer("Technical depth"))
	require.NoError(t, w.Next())
	assert.Equal(t, StepSummary, w.Step())

	clock.RunAll()
	assert.Len(t, w.Snapshot().Messages, 2)
}

func TestWizard_BackAfterEarlySummaryAsksAgain(t *testing.T) {
	w, clock := newTestWizard(&recorder{})
	toChat(t, w)
	require.NoError(t, w.Answer("Technical depth"))
	require.NoError(t, w.Next())
	require.NoError(t, w.Back())
	clock.RunAll()

	snap := w.Snapshot()
	assert.Equal(t, StepChat, snap.Step)
	require.Len(t, snap.Messages, 3)
	last := snap.Messages[2]
	assert.Equal(t, SpeakerBot, last.From)
	assert.Equal(t, DefaultQuestions[1].Prompt, last.Text)

	require.NoError(t, w.Answer("Stakeholders"))
	answers := w.Snapshot().Answers
	require.Len(t, answers, 2)
	assert.Equal(t, 1, answers[1].Index)
	assert.Equal(t, "Stakeholders", answers[1].Text)
}

func TestWizard_BackAfterLastAnswerOffersUploads(t *testing.T) {
	w, clock := newTestWizard(&recorder{})
	toChat(t, w)
	for i := range DefaultQuestions {
		require.NoError(t, w.Answer("something"))
		if i < len(DefaultQuestions)-1 {
			clock.RunAll()
		}
	}
	require.NoError(t, w.Next())
	require.NoError(t, w.Back())
	clock.RunAll()

	snap := w.Snapshot()
	assert.True(t, snap.Uploading)
	assert.Equal(t, uploadPrompt, snap.Messages[len(snap.Messages)-1].Text)
	require.NoError(t, w.FinishUploads())
	assert.Equal(t, StepSummary, w.Step())
}

func TestWizard_SkipUploadsReachesSummary(t *testing.T) {
	w, clock := newTestWizard(&recorder{})
	toChat(t, w)
	for range DefaultQuestions {
		require.NoError(t, w.SelectChip(0))
		clock.RunAll()
	}
	snap := w.Snapshot()
	assert.True(t, snap.Uploading)
	assert.Equal(t, StepChat, snap.Step)
	assert.Equal(t, uploadPrompt, snap.Messages[len(snap.Messages)-1].Text)
	assert.ErrorIs(t, w.Answer("extra"), domain.ErrInvalidStepTransition)

	require.NoError(t, w.FinishUploads())
	assert.Equal(t, StepSummary, w.Step())
	assert.Empty(t, w.Snapshot().Uploads)
}

func TestWizard_UploadsOnlyAfterLastQuestion(t *testing.T) {
	w, clock := newTestWizard(&recorder{})
	toChat(t, w)
	assert.ErrorIs(t, w.AddUpload(Upload{Name: "cv.pdf"}), domain.ErrInvalidStepTransition)
	assert.ErrorIs(t, w.FinishUploads(), domain.ErrInvalidStepTransition)

	for range DefaultQuestions {
		require.NoError(t, w.Answer("something"))
		clock.RunAll()
	}
	require.NoError(t, w.AddUpload(Upload{Name: "review-2025.pdf", Size: 2048}))
	assert.ErrorIs(t, w.AddUpload(Upload{Name: " "}), domain.ErrInvalidInput)
	require.NoError(t, w.FinishUploads())
	assert.Len(t, w.Snapshot().Uploads, 1)
}

func TestWizard_GeneratesExactlyOnce(t *testing.T) {
	r := &recorder{}
	w, clock := newTestWizard(r)
	toChat(t, w)
	require.NoError(t, w.Answer("Leading people"))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	assert.Equal(t, StepGenerating, w.Step())
	assert.Equal(t, 1, r.started)
	assert.ErrorIs(t, w.Next(), domain.ErrInvalidStepTransition)

	var seen []int
	for i := 0; i < len(DefaultRamp)-1; i++ {
		clock.Advance(500 * time.Millisecond)
		seen = append(seen, w.Snapshot().Progress)
	}
	assert.Equal(t, DefaultRamp[:len(DefaultRamp)-1], seen)
	assert.Empty(t, r.plans)

	clock.RunAll()
	assert.Equal(t, StepPlan, w.Step())
	require.Len(t, r.plans, 1)
	require.Len(t, r.inputs, 1)
	assert.Equal(t, "Leading people", r.inputs[0].Answers[0].Text)
	assert.Equal(t, 100, w.Snapshot().Progress)

	clock.Advance(time.Minute)
	assert.Len(t, r.plans, 1)
}

func TestWizard_CancelDuringGenerating(t *testing.T) {
	r := &recorder{}
	w, clock := newTestWizard(r)
	toChat(t, w)
	require.NoError(t, w.Answer("Leading people"))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	clock.Advance(time.Second)

	w.Cancel()
	assert.Zero(t, clock.Pending())
	clock.Advance(time.Minute)

	assert.Empty(t, r.plans)
	snap := w.Snapshot()
	assert.Equal(t, StepIntro, snap.Step)
	assert.Zero(t, snap.Progress)
}

func TestWizard_CancelBeforeGeneratingKeepsPlan(t *testing.T) {
	r := &recorder{}
	w, clock := newTestWizard(r)
	toChat(t, w)
	require.NoError(t, w.Answer("Leading people"))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	clock.RunAll()
	first := w.Plan()
	require.NotNil(t, first)

	w.Cancel()
	toChat(t, w)
	require.NoError(t, w.Answer("Team lead"))
	w.Cancel()

	snap := w.Snapshot()
	assert.Empty(t, snap.Answers)
	assert.Empty(t, snap.Messages)
	assert.Same(t, first, w.Plan())
	assert.Equal(t, 1, r.started)
}

func TestWizard_GenerateErrorReturnsToSummary(t *testing.T) {
	r := &recorder{err: errors.New("catalog empty")}
	w, clock := newTestWizard(r)
	toChat(t, w)
	require.NoError(t, w.Answer("x"))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	clock.RunAll()

	snap := w.Snapshot()
	assert.Equal(t, StepSummary, snap.Step)
	require.Error(t, snap.Err)
	assert.Empty(t, r.plans)
}

func TestWizard_StartFailureStaysAtSummary(t *testing.T) {
	r := &recorder{startErr: errors.New("plan store unavailable")}
	w, clock := newTestWizard(r)
	toChat(t, w)
	require.NoError(t, w.Answer("x"))
	require.NoError(t, w.Next())

	err := w.Next()
	require.ErrorIs(t, err, r.startErr)
	clock.RunAll()

	snap := w.Snapshot()
	assert.Equal(t, StepSummary, snap.Step)
	assert.ErrorIs(t, snap.Err, r.startErr)
	assert.Zero(t, snap.Progress)
	assert.Empty(t, r.inputs)

	r.startErr = nil
	require.NoError(t, w.Next())
	assert.NoError(t, w.Snapshot().Err)
	clock.RunAll()
	assert.Equal(t, StepPlan, w.Step())
	assert.Equal(t, 2, r.started)
}

func TestWizard_Back(t *testing.T) {
	w, _ := newTestWizard(&recorder{})
	assert.ErrorIs(t, w.Back(), domain.ErrInvalidStepTransition)
	toChat(t, w)
	require.NoError(t, w.Back())
	assert.Equal(t, StepSkillGap, w.Step())
	require.NoError(t, w.Next())
	// returning to chat does not reseed the first question
	assert.Len(t, w.Snapshot().Messages, 1)
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "skill_gap", StepSkillGap.String())
	assert.Equal(t, "step(9)", Step(9).String())
}
