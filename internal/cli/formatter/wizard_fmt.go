package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/idp"
)

// FormatSkillGaps renders the assessment result shown before the chat.
func FormatSkillGaps(gaps []domain.SkillGap, threshold float64) string {
	headers := []string{"SKILL", "TYPE", "GAP", ""}
	rows := make([][]string, 0, len(gaps))
	for _, g := range gaps {
		mark := Dim("below threshold")
		if g.Score >= threshold {
			mark = StyleYellow.Render("▲ focus")
		}
		rows = append(rows, []string{Bold(g.Skill), Dim(string(g.Type)), fmt.Sprintf("%.1f", g.Score), mark})
	}
	return RenderBox("Skill gaps", RenderTable(headers, rows))
}

// FormatChat renders the chat transcript.
func FormatChat(msgs []idp.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		if m.From == idp.SpeakerBot {
			b.WriteString(StylePurple.Render("◆ ") + m.Text + "\n")
		} else {
			b.WriteString(StyleBlue.Render("  › ") + StyleFg.Render(m.Text) + "\n")
		}
	}
	return b.String()
}

// FormatWizardSummary lists the answers and uploads that will feed the
// generator.
func FormatWizardSummary(snap idp.Snapshot) string {
	var b strings.Builder
	for _, a := range snap.Answers {
		b.WriteString(Dim(a.Question) + "\n  " + a.Text + "\n")
	}
	if len(snap.Uploads) > 0 {
		b.WriteString("\n" + Dim("Attachments:") + "\n")
		for _, u := range snap.Uploads {
			b.WriteString("  • " + u.Name + "\n")
		}
	}
	return RenderBox("Summary", strings.TrimRight(b.String(), "\n"))
}
