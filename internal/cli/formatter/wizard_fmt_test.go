package formatter

import (
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/idp"
	"github.com/stretchr/testify/assert"
)

func TestFormatSkillGaps_MarksFocus(t *testing.T) {
	out := FormatSkillGaps([]domain.SkillGap{
		{Skill: "Delegation", Type: domain.SkillBehavioral, Score: 1.8},
		{Skill: "Negotiation", Type: domain.SkillBehavioral, Score: 0.4},
	}, 1.0)
	assert.Contains(t, out, "SKILL GAPS")
	assert.Contains(t, out, "1.8")
	assert.Contains(t, out, "▲ focus")
	assert.Contains(t, out, "below threshold")
}

func TestFormatWizardSummary(t *testing.T) {
	out := FormatWizardSummary(idp.Snapshot{
		Answers: []idp.Answer{{Question: "How do you prefer to learn?", Text: "Mentoring and feedback"}},
		Uploads: []idp.Upload{{Name: "cv.pdf", Size: 10}},
	})
	assert.Contains(t, out, "How do you prefer to learn?")
	assert.Contains(t, out, "Mentoring and feedback")
	assert.Contains(t, out, "cv.pdf")

	assert.NotContains(t, FormatWizardSummary(idp.Snapshot{}), "Attachments")
}

func TestFormatChat(t *testing.T) {
	out := FormatChat([]idp.Message{
		{From: idp.SpeakerBot, Text: "Which area?"},
		{From: idp.SpeakerUser, Text: "Leading people"},
	})
	assert.Contains(t, out, "◆ Which area?")
	assert.Contains(t, out, "› Leading people")
}
