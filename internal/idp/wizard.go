// Package idp drives the individual development plan wizard: review the
// skill gaps, answer a short scripted chat, optionally attach documents,
// then generate a draft plan.
package idp

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timer"
)

type Step int

const (
	StepIntro Step = iota
	StepSkillGap
	StepChat
	StepSummary
	StepGenerating
	StepPlan
)

var stepNames = [...]string{"intro", "skill_gap", "chat", "summary", "generating", "plan"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

type Speaker string

const (
	SpeakerBot  Speaker = "bot"
	SpeakerUser Speaker = "user"
)

type Message struct {
	From Speaker
	Text string
	At   time.Time
}

// Question is one scripted chat prompt with its suggestion chips.
type Question struct {
	Prompt string
	Chips  []string
}

type Upload struct {
	Name string
	Size int64
}

// DefaultQuestions is the built-in chat script.
var DefaultQuestions = []Question{
	{Prompt: "Which area would you most like to grow in over the next year?", Chips: []string{"Leading people", "Strategic thinking", "Technical depth"}},
	{Prompt: "How much time can you set aside for development each week?", Chips: []string{"1 hour", "2-3 hours", "Half a day"}},
	{Prompt: "How do you prefer to learn?", Chips: []string{"On-the-job projects", "Mentoring and feedback", "Courses and reading"}},
	{Prompt: "Where do you see your career in two years?", Chips: []string{"Same role, more impact", "Team lead", "Specialist track"}},
}

// DefaultRamp is the generating progress ramp.
var DefaultRamp = []int{10, 30, 55, 80, 100}

const uploadPrompt = "Thanks! You can attach documents such as past reviews or a CV, or skip this step."

type Config struct {
	Questions   []Question
	TypingDelay time.Duration
	Ramp        []int
	RampStep    time.Duration
}

// Hooks connect the wizard to plan storage.
type Hooks struct {
	// Generate builds the plan once the ramp finishes.
	Generate func(Input) (*domain.DevelopmentPlan, error)
	// GenerationStarted runs before entering Generating. An error keeps
	// the wizard at Summary and is reported by Next and Snapshot.
	GenerationStarted func() error
	// PlanReady receives the generated plan exactly once per run.
	PlanReady func(*domain.DevelopmentPlan)
}

type Snapshot struct {
	Step          Step
	QuestionIndex int
	Questions     []Question
	Answers       []Answer
	Messages      []Message
	Typing        bool
	Uploading     bool
	Uploads       []Upload
	Progress      int
	Plan          *domain.DevelopmentPlan
	Err           error
}

// Wizard is single-use per run; Cancel resets it to Intro. Timers for the
// typing delay and the progress ramp belong to the current run and are
// stopped whenever the run is discarded.
type Wizard struct {
	mu    sync.Mutex
	cfg   Config
	sched timer.Scheduler
	hooks Hooks
	group *timer.Group

	step      Step
	qIndex    int
	answers   map[int]string
	messages  []Message
	typing    bool
	uploading bool
	uploads   []Upload
	progress  int
	generated bool
	plan      *domain.DevelopmentPlan
	err       error
}

func NewWizard(cfg Config, sched timer.Scheduler, hooks Hooks) *Wizard {
	if len(cfg.Questions) == 0 {
		cfg.Questions = DefaultQuestions
	}
	if len(cfg.Ramp) == 0 {
		cfg.Ramp = DefaultRamp
	}
	w := &Wizard{cfg: cfg, sched: sched, hooks: hooks}
	w.resetLocked()
	return w
}

func (w *Wizard) resetLocked() {
	if w.group != nil {
		w.group.Stop()
	}
	w.group = timer.NewGroup(w.sched)
	w.step = StepIntro
	w.qIndex = 0
	w.answers = make(map[int]string)
	w.messages = nil
	w.typing = false
	w.uploading = false
	w.uploads = nil
	w.progress = 0
	w.generated = false
	w.err = nil
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) invalid(format string, args ...any) error {
	return domain.NewInvalidStep("wizard at %s: %s", w.step, fmt.Sprintf(format, args...))
}

// Next advances one step. Generating advances on its own.
func (w *Wizard) Next() error {
	w.mu.Lock()
	switch w.step {
	case StepIntro:
		w.step = StepSkillGap
	case StepSkillGap:
		w.step = StepChat
		if len(w.messages) == 0 {
			w.botSayLocked(w.cfg.Questions[0].Prompt)
		}
	case StepChat:
		if len(w.answers) == 0 {
			err := w.invalid("answer at least one question first")
			w.mu.Unlock()
			return err
		}
		w.toSummaryLocked()
	case StepSummary:
		started := w.hooks.GenerationStarted
		w.mu.Unlock()
		var err error
		if started != nil {
			err = started()
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.step != StepSummary {
			// cancelled meanwhile
			return w.invalid("run was discarded")
		}
		if err != nil {
			w.err = err
			return err
		}
		w.step = StepGenerating
		w.progress = 0
		w.err = nil
		w.generated = false
		w.startRampLocked()
		return nil
	default:
		err := w.invalid("no manual transition")
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	return nil
}

// Back moves one step back from SkillGap, Chat or Summary.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepSkillGap:
		w.step = StepIntro
	case StepChat:
		if w.typing {
			return w.invalid("wait for the next question")
		}
		w.step = StepSkillGap
	case StepSummary:
		w.step = StepChat
		w.resumeChatLocked()
	default:
		return w.invalid("cannot go back")
	}
	return nil
}

// resumeChatLocked replays the bot turn that skipping to Summary dropped, so
// the participant always sees what the next answer is for.
func (w *Wizard) resumeChatLocked() {
	if w.uploading {
		return
	}
	if n := len(w.messages); n > 0 && w.messages[n-1].From == SpeakerBot {
		return
	}
	if w.qIndex < len(w.cfg.Questions) {
		w.botSayLocked(w.cfg.Questions[w.qIndex].Prompt)
		return
	}
	w.uploading = true
	w.botSayLocked(uploadPrompt)
}

// Answer records free text for the current question.
func (w *Wizard) Answer(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	text = strings.TrimSpace(text)
	switch {
	case w.step != StepChat:
		return w.invalid("not chatting")
	case w.uploading || w.qIndex >= len(w.cfg.Questions):
		return w.invalid("all questions are answered")
	case w.typing:
		return w.invalid("wait for the next question")
	case text == "":
		return domain.NewInvalidInput("answer text is required")
	}
	w.answers[w.qIndex] = text
	w.messages = append(w.messages, Message{From: SpeakerUser, Text: text, At: w.sched.Now()})
	w.qIndex++
	w.typing = true
	next := w.qIndex
	w.group.After(w.cfg.TypingDelay, func() { w.botReply(next) })
	return nil
}

// SelectChip answers the current question with one of its chips.
func (w *Wizard) SelectChip(i int) error {
	w.mu.Lock()
	if w.step != StepChat || w.qIndex >= len(w.cfg.Questions) {
		err := w.invalid("no question to answer")
		w.mu.Unlock()
		return err
	}
	chips := w.cfg.Questions[w.qIndex].Chips
	w.mu.Unlock()
	if i < 0 || i >= len(chips) {
		return domain.NewInvalidInput("no chip %d (question has %d)", i, len(chips))
	}
	return w.Answer(chips[i])
}

func (w *Wizard) botReply(next int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepChat || !w.typing {
		return
	}
	w.typing = false
	if next < len(w.cfg.Questions) {
		w.botSayLocked(w.cfg.Questions[next].Prompt)
		return
	}
	w.uploading = true
	w.botSayLocked(uploadPrompt)
}

func (w *Wizard) botSayLocked(text string) {
	w.messages = append(w.messages, Message{From: SpeakerBot, Text: text, At: w.sched.Now()})
}

// AddUpload attaches a document during the upload sub-step.
func (w *Wizard) AddUpload(u Upload) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepChat || !w.uploading {
		return w.invalid("uploads open after the last question")
	}
	if strings.TrimSpace(u.Name) == "" {
		return domain.NewInvalidInput("upload name is required")
	}
	w.uploads = append(w.uploads, u)
	return nil
}

// FinishUploads leaves the upload sub-step, with or without uploads, and
// moves to Summary.
func (w *Wizard) FinishUploads() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepChat || !w.uploading {
		return w.invalid("not in the upload step")
	}
	w.toSummaryLocked()
	return nil
}

func (w *Wizard) toSummaryLocked() {
	if w.typing {
		// Skipping ahead drops the pending bot reply.
		w.group.Stop()
		w.group = timer.NewGroup(w.sched)
		w.typing = false
	}
	w.step = StepSummary
}

func (w *Wizard) startRampLocked() {
	var elapsed time.Duration
	last := len(w.cfg.Ramp) - 1
	group := w.group
	for i, pct := range w.cfg.Ramp {
		elapsed += w.cfg.RampStep
		pct := pct
		final := i == last
		group.After(elapsed, func() { w.rampTick(group, pct, final) })
	}
}

func (w *Wizard) rampTick(group *timer.Group, pct int, final bool) {
	w.mu.Lock()
	if w.step != StepGenerating || w.group != group {
		w.mu.Unlock()
		return
	}
	if pct > w.progress {
		w.progress = pct
	}
	if !final || w.generated {
		w.mu.Unlock()
		return
	}
	w.generated = true
	in := w.inputLocked()
	generate := w.hooks.Generate
	w.mu.Unlock()

	var plan *domain.DevelopmentPlan
	var err error
	if generate != nil {
		plan, err = generate(in)
	}

	w.mu.Lock()
	if w.group != group {
		// cancelled while generating
		w.mu.Unlock()
		return
	}
	if err != nil {
		w.err = err
		w.step = StepSummary
		w.mu.Unlock()
		return
	}
	w.plan = plan
	w.progress = 100
	w.step = StepPlan
	ready := w.hooks.PlanReady
	w.mu.Unlock()
	if ready != nil && plan != nil {
		ready(plan)
	}
}

func (w *Wizard) inputLocked() Input {
	in := Input{Uploads: append([]Upload(nil), w.uploads...)}
	for i, q := range w.cfg.Questions {
		if a, ok := w.answers[i]; ok {
			in.Answers = append(in.Answers, Answer{Index: i, Question: q.Prompt, Text: a})
		}
	}
	return in
}

// Cancel discards the run: answers, uploads, chat history and any pending
// timers. A plan generated earlier is kept.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

// Plan returns the most recently generated plan, if any.
func (w *Wizard) Plan() *domain.DevelopmentPlan {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.plan
}

func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	in := w.inputLocked()
	return Snapshot{
		Step:          w.step,
		QuestionIndex: w.qIndex,
		Questions:     w.cfg.Questions,
		Answers:       in.Answers,
		Messages:      append([]Message(nil), w.messages...),
		Typing:        w.typing,
		Uploading:     w.uploading,
		Uploads:       in.Uploads,
		Progress:      w.progress,
		Plan:          w.plan,
		Err:           w.err,
	}
}
