package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/proctor"
)

// FormatPreCheck renders the capability battery and any advisories.
func FormatPreCheck(s *app.PreCheckSnapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(s.Target.Name), Dim(s.ProgramName)))
	b.WriteString(Dim("session "+TruncID(s.ID)) + "  " + stateLabel(s.State, s.Blocked) + "\n\n")

	headers := []string{"CHECK", "RESULT"}
	rows := make([][]string, 0, len(s.Checks))
	for _, c := range s.Checks {
		rows = append(rows, []string{string(c.Name), CheckPill(c.Result)})
	}
	b.WriteString(RenderTable(headers, rows))

	if len(s.Advisories) > 0 {
		b.WriteString("\n")
		for _, a := range s.Advisories {
			b.WriteString(StyleYellow.Render("▲ ") + a + "\n")
		}
	}
	return RenderBox("Pre-check", strings.TrimRight(b.String(), "\n"))
}

func stateLabel(s proctor.State, blocked bool) string {
	switch {
	case blocked:
		return StyleRed.Render("blocked: retry the failed checks")
	case s == proctor.StateReady:
		return StyleGreen.Render("ready to launch")
	case s == proctor.StateLaunched:
		return StyleGreen.Render("launched")
	case s == proctor.StateDiscarded:
		return Dim("discarded")
	default:
		return StylePurple.Render(string(s))
	}
}
