package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/app"
)

const statusProgressBarWidth = 10

// FormatStatus renders the dashboard: programs, bookings, plan and
// anything that needs attention.
func FormatStatus(resp *app.StatusResponse) string {
	var b strings.Builder

	if resp.Participant != "" {
		b.WriteString(Bold(resp.Participant) + "\n\n")
	}

	headers := []string{"PROGRAM", "STATUS", "PROGRESS", "REMAINING"}
	rows := make([][]string, 0, len(resp.Programs))
	for _, p := range resp.Programs {
		rows = append(rows, []string{
			Bold(p.Name),
			ProgramStatusPill(p.Status),
			RenderProgress(p.CompletionPct, statusProgressBarWidth),
			CountdownStyled(p.Countdown),
		})
	}
	b.WriteString(RenderTable(headers, rows))

	sum := resp.Summary
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		StyleGreen.Render(fmt.Sprintf("%d/%d programs complete", sum.ProgramsComplete, sum.ProgramsTotal)),
		StyleBlue.Render(fmt.Sprintf("%d/%d items done", sum.ItemsCompleted, sum.ItemsTotal)),
		StylePurple.Render(fmt.Sprintf("%d booking(s)", sum.Bookings)),
	))

	for _, bk := range resp.Bookings {
		when := DateLabel(bk.Slot.Date)
		if d, err := time.Parse(time.DateOnly, bk.Slot.Date); err == nil && !sum.GeneratedAt.IsZero() {
			when += Dim(" (" + RelativeDateFrom(d, sum.GeneratedAt.Truncate(24*time.Hour)) + ")")
		}
		b.WriteString(Dim("  booked ") + fmt.Sprintf("%s %s %s\n", bk.Slot.CenterName, when, bk.Slot.TimeLabel()))
	}

	if resp.Plan != nil {
		b.WriteString(fmt.Sprintf("\nDevelopment plan  %s  %s\n",
			PlanStatusPill(resp.Plan.Plan.Status),
			RenderProgress(resp.Plan.Stats.CompletionPct, statusProgressBarWidth)))
	}

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(StyleYellow.Render("▲ ") + w + "\n")
		}
	}

	return RenderBox("Status", strings.TrimRight(b.String(), "\n"))
}
