package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	meridianapp "github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "View and edit your individual development plan",
	}

	cmd.AddCommand(
		newPlanShowCmd(app),
		newPlanListCmd(app),
		newPlanSkillCmd(app),
		newPlanTipCmd(app),
		newPlanCommentCmd(app),
		newPlanSubmitCmd(app),
		newPlanApproveCmd(app),
	)

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current plan with its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := showPlan(cmd.Context(), app, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(snap))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Show an older plan instead of the current one")
	return cmd
}

func showPlan(ctx context.Context, app *App, id string) (*meridianapp.PlanSnapshot, error) {
	if id == "" {
		return app.Plans.Current(ctx)
	}
	return app.Plans.Get(ctx, id)
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every generated plan, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanList(plans))
			return nil
		},
	}
}

// --- skills ---

func newPlanSkillCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Add, remove or hide skills (draft plans only)",
	}
	cmd.AddCommand(
		newPlanSkillAddCmd(app),
		newPlanSkillRemoveCmd(app),
		newPlanSkillPrivateCmd(app),
	)
	return cmd
}

func newPlanSkillAddCmd(app *App) *cobra.Command {
	var description string
	skillType := skillTypeFlag()

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a skill to the plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.SkillInput{
				Name:        strings.Join(args, " "),
				Description: description,
				Type:        skillType.String(),
			}
			snap, err := app.Plans.AddSkill(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added skill %d: %s\n", len(snap.Plan.Skills)-1, in.Name)
			return nil
		},
	}

	cmd.Flags().Var(skillType, "type", "Skill type")
	cmd.Flags().StringVar(&description, "description", "", "What the skill covers")
	return cmd
}

func newPlanSkillRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SKILL",
		Short: "Remove a skill and its tips (index or name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := currentPlan(cmd.Context(), app)
			if err != nil {
				return err
			}
			idx, err := resolveSkillIndex(p, args[0])
			if err != nil {
				return err
			}
			if _, err := app.Plans.RemoveSkill(cmd.Context(), idx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed skill %s.\n", args[0])
			return nil
		},
	}
}

func newPlanSkillPrivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "private SKILL",
		Short: "Toggle whether the manager sees a skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := currentPlan(cmd.Context(), app)
			if err != nil {
				return err
			}
			idx, err := resolveSkillIndex(p, args[0])
			if err != nil {
				return err
			}
			private, err := app.Plans.TogglePrivate(cmd.Context(), idx)
			if err != nil {
				return err
			}
			if private {
				fmt.Fprintf(cmd.OutOrStdout(), "Skill %s is now private.\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Skill %s is now visible to your manager.\n", args[0])
			}
			return nil
		},
	}
}

// --- tips ---

func newPlanTipCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tip",
		Short: "Manage development actions (draft plans only)",
	}
	cmd.AddCommand(
		newPlanTipCatalogCmd(app),
		newPlanTipAddCmd(app),
		newPlanTipRemoveCmd(app),
		newPlanTipCompleteCmd(app),
		newPlanTipDatesCmd(app),
	)
	return cmd
}

func newPlanTipCatalogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [SKILL]",
		Short: "List AI suggestions and library tips, optionally for one skill",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skill := ""
			if len(args) == 1 {
				skill = args[0]
			}
			var out []domain.TipTemplate
			for _, t := range append(app.Catalog.Suggestions(), app.Catalog.LibraryTips()...) {
				if skill == "" || t.Matches(skill) {
					out = append(out, t)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplates(skill, out))
			return nil
		},
	}
}

func newPlanTipAddCmd(app *App) *cobra.Command {
	var template, title, description, criteria, start, end string
	category := categoryFlag()

	cmd := &cobra.Command{
		Use:   "add SKILL",
		Short: "Add a catalog tip (--template) or a custom one (--title, --category)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := currentPlan(ctx, app)
			if err != nil {
				return err
			}
			idx, err := resolveSkillIndex(p, args[0])
			if err != nil {
				return err
			}

			var tip *domain.Tip
			switch {
			case template != "" && title != "":
				return fmt.Errorf("use either --template or --title, not both")
			case template != "":
				tip, err = app.Plans.AddCatalogTip(ctx, idx, template)
			default:
				tip, err = app.Plans.AddCustomTip(ctx, idx, service.TipInput{
					Title:           title,
					Category:        category.String(),
					Description:     description,
					SuccessCriteria: criteria,
					Start:           start,
					End:             end,
				})
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added tip %s: %s (%s → %s)\n",
				formatter.TruncID(tip.ID), tip.Title, formatter.ShortDate(tip.StartDate), formatter.ShortDate(tip.EndDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "Catalog tip ID (see plan tip catalog)")
	cmd.Flags().StringVar(&title, "title", "", "Title of a custom tip")
	cmd.Flags().Var(category, "category", "70-20-10 bucket of a custom tip")
	cmd.Flags().StringVar(&description, "description", "", "Custom tip description")
	cmd.Flags().StringVar(&criteria, "criteria", "", "How you will know it is done")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD, default from the category)")
	return cmd
}

func newPlanTipRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove TIP",
		Short: "Remove a tip (ID or unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := currentPlan(cmd.Context(), app)
			if err != nil {
				return err
			}
			id, err := resolveTipID(p, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.RemoveTip(cmd.Context(), skillOfTip(p, id), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed tip %s.\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newPlanTipCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete TIP PCT",
		Short: "Set a tip's completion (snapped to 0, 25, 50, 75 or 100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(strings.TrimSuffix(args[1], "%"), 64)
			if err != nil {
				return fmt.Errorf("invalid percentage %q", args[1])
			}
			p, err := currentPlan(cmd.Context(), app)
			if err != nil {
				return err
			}
			id, err := resolveTipID(p, args[0])
			if err != nil {
				return err
			}
			stored, err := app.Plans.SetCompletion(cmd.Context(), id, pct)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tip %s is %d%% complete.\n", formatter.TruncID(id), stored)
			return nil
		},
	}
}

func newPlanTipDatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dates TIP START END",
		Short: "Reschedule a tip (dates as YYYY-MM-DD)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse(time.DateOnly, args[1])
			if err != nil {
				return domain.NewInvalidInput("start date %q must be YYYY-MM-DD", args[1])
			}
			end, err := time.Parse(time.DateOnly, args[2])
			if err != nil {
				return domain.NewInvalidInput("end date %q must be YYYY-MM-DD", args[2])
			}
			p, err := currentPlan(cmd.Context(), app)
			if err != nil {
				return err
			}
			id, err := resolveTipID(p, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.SetTipDates(cmd.Context(), id, start, end); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tip %s now runs %s → %s.\n",
				formatter.TruncID(id), formatter.ShortDate(start), formatter.ShortDate(end))
			return nil
		},
	}
}

// --- comments ---

func newPlanCommentCmd(app *App) *cobra.Command {
	var skill, tip string
	author := authorFlag()

	cmd := &cobra.Command{
		Use:   "comment [TEXT...]",
		Short: "Add to or read a skill or tip comment thread",
		Long: `With TEXT, appends a comment to the thread named by --skill or --tip.
Without TEXT, prints the thread. Comments are accepted in every plan status.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := currentPlan(ctx, app)
			if err != nil {
				return err
			}
			key, err := resolveThreadKey(p, skill, tip)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				if _, err := app.Plans.AddComment(ctx, key, domain.Author(author.String()), strings.Join(args, " ")); err != nil {
					return err
				}
			}
			thread, err := app.Plans.Thread(ctx, key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatThread(key, thread))
			return nil
		},
	}

	cmd.Flags().StringVar(&skill, "skill", "", "Skill thread (index or name)")
	cmd.Flags().StringVar(&tip, "tip", "", "Tip thread (ID or unique prefix)")
	cmd.Flags().Var(author, "as", "Comment author")
	return cmd
}

// --- review ---

func newPlanSubmitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Send the draft to your manager; the plan becomes read-only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Plans.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatManagerView(view))
			return nil
		},
	}
}

func newPlanApproveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "approve",
		Short: "Approve the plan under review (manager action)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Plans.Approve(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Plan approved.")
			return nil
		},
	}
}
