package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/domain"
)

// FormatProgramList renders the program overview table.
func FormatProgramList(programs []app.ProgramSummary) string {
	if len(programs) == 0 {
		return RenderBox("Programs", Dim("No programs in the catalog."))
	}
	headers := []string{"ID", "PROGRAM", "STATUS", "PROGRESS", "DUE", "REMAINING"}
	rows := make([][]string, 0, len(programs))
	for _, p := range programs {
		rows = append(rows, []string{
			Dim(p.ID),
			Bold(p.Name),
			ProgramStatusPill(p.Status),
			RenderProgress(p.CompletionPct, 10) + Dim(fmt.Sprintf(" %d/%d", p.Completed, p.Total)),
			ShortDate(p.DueDate),
			CountdownStyled(p.Countdown),
		})
	}
	return RenderBox("Programs", RenderTable(headers, rows))
}

// FormatProgramDetail renders one program: gate state, then the three
// item groups with their computed availability.
func FormatProgramDetail(d *app.ProgramDetail) string {
	var b strings.Builder

	b.WriteString(Bold(d.Name) + "  " + ProgramStatusPill(d.Status) + "\n")
	if d.Description != "" {
		b.WriteString(Dim(d.Description) + "\n")
	}
	b.WriteString(fmt.Sprintf("\nDue %s  %s\n", ShortDate(d.DueDate), CountdownStyled(d.Countdown)))
	b.WriteString(RenderProgress(d.CompletionPct, 20) + "\n\n")

	b.WriteString(gateLine("Intro video watched", d.Consent.VideoWatched))
	b.WriteString(gateLine("Instructions acknowledged", d.Consent.InstructionsAcknowledged))

	writeGroup(&b, "Sequential exercises", d.Sequential)
	writeGroup(&b, "Open exercises", d.Open)
	writeGroup(&b, "Assessment centers", d.Centers)

	return RenderBox("Program", strings.TrimRight(b.String(), "\n"))
}

func gateLine(label string, done bool) string {
	if done {
		return StyleGreen.Render("✔ ") + label + "\n"
	}
	return StyleDim.Render("○ ") + Dim(label) + "\n"
}

func writeGroup(b *strings.Builder, title string, items []app.ItemView) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + Header(title) + "\n")
	headers := []string{"ID", "NAME", "DURATION", "STATUS", ""}
	var rows [][]string
	for _, it := range items {
		rows = append(rows, itemRow(it, ""))
		for _, ph := range it.Phases {
			rows = append(rows, itemRow(ph, "  └ "))
		}
	}
	b.WriteString(RenderTable(headers, rows))
}

func itemRow(it app.ItemView, indent string) []string {
	var notes []string
	if it.Proctored {
		label := "proctored"
		if it.Status.Enterable() {
			label += ", pre-check first"
		}
		notes = append(notes, StylePurple.Render(label))
	}
	if it.Status == domain.ItemInProgress && it.ProgressPct > 0 {
		notes = append(notes, Dim(fmt.Sprintf("%d%%", it.ProgressPct)))
	}
	if it.HasReport && it.Status == domain.ItemComplete {
		notes = append(notes, StyleBlue.Render("report"))
	}
	return []string{
		Dim(indent + it.ID),
		it.Name,
		Dim(it.DurationLabel),
		ItemStatusPill(it.Status),
		strings.Join(notes, " "),
	}
}

// FormatEnterResult is the hand-off line printed after opening an item.
func FormatEnterResult(r *app.EnterResult) string {
	target := r.ItemID
	if r.EnteredID != "" && r.EnteredID != r.ItemID {
		target = fmt.Sprintf("%s (%s)", r.ItemID, r.EnteredID)
	}
	if r.Review {
		return fmt.Sprintf("Opened %s in review mode.\n", target)
	}
	return fmt.Sprintf("Entered %s %s. Status: %s\n", r.Kind, target, ItemStatusPill(r.Status))
}
