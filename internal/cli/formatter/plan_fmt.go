package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/domain"
)

// FormatPlan renders the plan with numbered skills so that commands can
// address them by index.
func FormatPlan(s *app.PlanSnapshot) string {
	p := s.Plan
	var b strings.Builder
	b.WriteString(PlanStatusPill(p.Status) + "  " + Dim("plan "+TruncID(p.ID)) + "\n")
	b.WriteString(RenderProgress(s.Stats.CompletionPct, 20) + "\n")
	b.WriteString(formatStats(s.Stats) + "\n")

	for i, sk := range p.Skills {
		b.WriteString("\n")
		b.WriteString(skillHeading(i, sk) + "\n")
		if sk.Description != "" {
			b.WriteString("   " + Dim(sk.Description) + "\n")
		}
		for _, t := range sk.Tips {
			b.WriteString(tipLine(t))
		}
		if n := len(p.Thread(domain.ThreadKey{Skill: sk.Name})); n > 0 {
			b.WriteString(Dim(fmt.Sprintf("   %d comment(s)", n)) + "\n")
		}
	}
	if len(p.Skills) == 0 {
		b.WriteString("\n" + Dim("No skills yet.") + "\n")
	}
	return RenderBox("Development plan", strings.TrimRight(b.String(), "\n"))
}

func skillHeading(i int, sk domain.Skill) string {
	head := fmt.Sprintf("%d. %s", i, Bold(sk.Name))
	head += "  " + Dim(string(sk.Type))
	if sk.GapScore > 0 {
		head += Dim(fmt.Sprintf("  gap %.1f", sk.GapScore))
	}
	if sk.Private {
		head += "  " + StylePurple.Render("private")
	}
	return head
}

func tipLine(t domain.Tip) string {
	line := fmt.Sprintf("   %s %s  %s  %s\n",
		TruncID(t.ID),
		t.Title,
		CategoryBadge(t.Category),
		RenderProgress(t.CompletionPct, 8),
	)
	line += Dim(fmt.Sprintf("      %s → %s  %s", ShortDate(t.StartDate), ShortDate(t.EndDate), t.Source)) + "\n"
	if t.InsightText != "" {
		line += "      " + StyleBlue.Render(Truncate(t.InsightText, 90)) + "\n"
	}
	return line
}

func formatStats(st domain.PlanStats) string {
	var cats []string
	for _, c := range domain.TipCategories {
		cats = append(cats, fmt.Sprintf("%s %d", c, st.TipsByCategory[c]))
	}
	return Dim(fmt.Sprintf("%d skills (%d behavioral, %d technical)  %d tips [%s]  %d comments",
		st.TotalSkills,
		st.SkillsByType[domain.SkillBehavioral],
		st.SkillsByType[domain.SkillTechnical],
		st.TotalTips,
		strings.Join(cats, ", "),
		st.TotalComments,
	))
}

// FormatManagerView renders what the reviewing manager receives.
func FormatManagerView(v *domain.ManagerView) string {
	var b strings.Builder
	b.WriteString(PlanStatusPill(v.Status) + "\n")
	for _, sk := range v.Skills {
		b.WriteString(fmt.Sprintf("\n%s  %s\n", Bold(sk.Name), Dim(fmt.Sprintf("%d tips", len(sk.Tips)))))
		for _, t := range sk.Tips {
			b.WriteString(fmt.Sprintf("   • %s  %s\n", t.Title, CategoryBadge(t.Category)))
		}
	}
	if len(v.Skills) == 0 {
		b.WriteString("\n" + Dim("Every skill is private.") + "\n")
	}
	return RenderBox("Sent to manager", strings.TrimRight(b.String(), "\n"))
}

// FormatThread renders one comment thread oldest first.
func FormatThread(key domain.ThreadKey, comments []domain.Comment) string {
	title := "Comments on " + key.String()
	if len(comments) == 0 {
		return RenderBox(title, Dim("No comments yet."))
	}
	var b strings.Builder
	for _, c := range comments {
		author := StyleBlue.Render(string(c.Author))
		if c.Author == domain.AuthorManager {
			author = StylePurple.Render(string(c.Author))
		}
		b.WriteString(fmt.Sprintf("%s  %s\n%s\n\n", author, Dim(c.At.Format("Jan 2 15:04")), c.Text))
	}
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

// FormatPlanList renders stored plans newest first.
func FormatPlanList(plans []*domain.DevelopmentPlan) string {
	if len(plans) == 0 {
		return RenderBox("Plans", Dim("No plans yet. Run `meridian idp` to generate one."))
	}
	headers := []string{"ID", "STATUS", "SKILLS", "CREATED"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			TruncID(p.ID),
			PlanStatusPill(p.Status),
			fmt.Sprintf("%d", len(p.Skills)),
			p.CreatedAt.Format("Jan 2, 2006 15:04"),
		})
	}
	return RenderBox("Plans", RenderTable(headers, rows))
}
