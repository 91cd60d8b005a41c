package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ItemStatusPill renders an exercise, center or phase status.
func ItemStatusPill(s domain.ItemStatus) string {
	switch s {
	case domain.ItemLocked:
		return StyleDim.Render("✖ Locked")
	case domain.ItemAvailable:
		return StyleBlue.Render("○ Available")
	case domain.ItemInProgress:
		return StyleYellow.Render("● In progress")
	case domain.ItemComplete:
		return StyleGreen.Render("✔ Complete")
	default:
		return StyleDim.Render(string(s))
	}
}

func ProgramStatusPill(s domain.ProgramStatus) string {
	switch s {
	case domain.ProgramNotStarted:
		return StyleBlue.Render("○ Not started")
	case domain.ProgramInProgress:
		return StyleYellow.Render("● In progress")
	case domain.ProgramComplete:
		return StyleGreen.Render("✔ Complete")
	default:
		return StyleDim.Render(string(s))
	}
}

// CheckPill renders a capability check result.
func CheckPill(r domain.CheckResult) string {
	switch r {
	case domain.CheckPass:
		return StyleGreen.Render("✔ pass")
	case domain.CheckWarning:
		return StyleYellow.Render("▲ warning")
	case domain.CheckFail:
		return StyleRed.Render("✖ fail")
	case domain.CheckRunning:
		return StylePurple.Render("⠿ running")
	default:
		return StyleDim.Render("· pending")
	}
}

func PlanStatusPill(s domain.PlanStatus) string {
	switch s {
	case domain.PlanDraft:
		return StyleBlue.Render("✎ Draft")
	case domain.PlanUnderReview:
		return StyleYellow.Render("● Under review")
	case domain.PlanApproved:
		return StyleGreen.Render("✔ Approved")
	default:
		return StyleDim.Render(string(s))
	}
}

// CategoryBadge renders a tip bucket with its 70-20-10 weight.
func CategoryBadge(c domain.TipCategory) string {
	label := fmt.Sprintf("%s %d%%", c, c.Weight())
	switch c {
	case domain.CategoryExperience:
		return StylePurple.Render(label)
	case domain.CategorySocial:
		return StyleBlue.Render(label)
	default:
		return StyleYellow.Render(label)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
