package formatter

import (
	"github.com/alexanderramin/meridian/internal/domain"
)

// FormatTemplates lists catalog tips that can be added to a skill.
func FormatTemplates(skill string, templates []domain.TipTemplate) string {
	title := "Tip catalog"
	if skill != "" {
		title += " for " + skill
	}
	if len(templates) == 0 {
		return RenderBox(title, Dim("No catalog tips match."))
	}
	headers := []string{"ID", "TITLE", "CATEGORY", "SOURCE"}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			Dim(t.ID),
			Truncate(t.Title, 48),
			CategoryBadge(t.Category),
			Dim(string(t.Source)),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}
