package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/idp"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const (
	chipOther = -1
	chipDone  = -2
)

type summaryChoice int

const (
	summaryGenerate summaryChoice = iota
	summaryBack
	summaryCancel
)

func newIDPCmd(app *App) *cobra.Command {
	var answers, uploads []string

	cmd := &cobra.Command{
		Use:   "idp",
		Short: "Generate a new development plan from your skill gaps",
		Long: `Runs the development plan wizard: review the skill gaps, answer a short
chat, optionally attach documents, then generate a draft plan. The new
plan becomes the current one; the previous plan is reset to draft.

On a terminal the chat is interactive. Otherwise pass --answer once per
question, in order. An answer of the form "#N" picks the N-th suggestion
chip. --upload attaches a file once every question has an answer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			interactive := app.interactive() && len(answers) == 0

			if !interactive && len(answers) == 0 {
				return domain.NewInvalidInput("at least one --answer is required when not on a terminal")
			}

			w := app.Wizards.NewWizard(ctx)
			gen := app.Wizards.Generator()

			if err := w.Next(); err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatSkillGaps(gen.Gaps, gen.Threshold))
			if err := w.Next(); err != nil {
				return err
			}

			var err error
			if interactive {
				err = chatInteractive(ctx, app, w, out)
			} else {
				err = chatScripted(ctx, app, w, answers, uploads)
			}
			if err != nil {
				w.Cancel()
				return err
			}

			if !interactive {
				snap := w.Snapshot()
				fmt.Fprint(out, formatter.FormatChat(snap.Messages))
				fmt.Fprintln(out, formatter.FormatWizardSummary(snap))
			} else {
				proceed, err := reviewInteractive(ctx, app, w, out)
				if err != nil {
					w.Cancel()
					return err
				}
				if !proceed {
					w.Cancel()
					fmt.Fprintln(out, "Cancelled. Nothing was saved.")
					return nil
				}
			}

			if err := generatePlan(ctx, app, w, interactive, cmd.ErrOrStderr()); err != nil {
				return err
			}

			plan, err := app.Plans.Current(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatPlan(plan))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&answers, "answer", nil, `Chat answer, in question order ("#N" picks a chip)`)
	cmd.Flags().StringArrayVar(&uploads, "upload", nil, "File to attach (needs an answer for every question)")
	return cmd
}

// waitForBot lets the pending bot reply arrive.
func waitForBot(ctx context.Context, app *App, w *idp.Wizard) error {
	return app.settle(ctx, func() bool { return !w.Snapshot().Typing })
}

func answerOrChip(w *idp.Wizard, text string) error {
	if n, ok := strings.CutPrefix(text, "#"); ok {
		i, err := strconv.Atoi(n)
		if err != nil || i < 1 {
			return domain.NewInvalidInput("chip reference %q must be #1, #2, ...", text)
		}
		return w.SelectChip(i - 1)
	}
	return w.Answer(text)
}

func chatScripted(ctx context.Context, app *App, w *idp.Wizard, answers, uploads []string) error {
	for _, a := range answers {
		if err := answerOrChip(w, a); err != nil {
			return err
		}
		if err := waitForBot(ctx, app, w); err != nil {
			return err
		}
	}

	if !w.Snapshot().Uploading {
		if len(uploads) > 0 {
			return domain.NewInvalidInput("--upload needs an answer for all %d questions", len(w.Snapshot().Questions))
		}
		return w.Next()
	}
	for _, path := range uploads {
		u, err := uploadFromFile(path)
		if err != nil {
			return err
		}
		if err := w.AddUpload(u); err != nil {
			return err
		}
	}
	return w.FinishUploads()
}

func uploadFromFile(path string) (idp.Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return idp.Upload{}, fmt.Errorf("attaching %s: %w", path, err)
	}
	if info.IsDir() {
		return idp.Upload{}, domain.NewInvalidInput("%s is a directory", path)
	}
	return idp.Upload{Name: filepath.Base(path), Size: info.Size()}, nil
}

func chatInteractive(ctx context.Context, app *App, w *idp.Wizard, out io.Writer) error {
	for {
		snap := w.Snapshot()
		if snap.Uploading {
			return uploadInteractive(w)
		}
		if snap.QuestionIndex >= len(snap.Questions) {
			return w.Next()
		}
		q := snap.Questions[snap.QuestionIndex]

		options := make([]huh.Option[int], 0, len(q.Chips)+2)
		for i, chip := range q.Chips {
			options = append(options, huh.NewOption(chip, i))
		}
		options = append(options, huh.NewOption("Something else...", chipOther))
		if len(snap.Answers) > 0 {
			options = append(options, huh.NewOption("That's enough, continue", chipDone))
		}

		choice := 0
		if err := runForm(huh.NewSelect[int]().Title(q.Prompt).Options(options...).Value(&choice)); err != nil {
			return err
		}

		var err error
		switch choice {
		case chipDone:
			return w.Next()
		case chipOther:
			var text string
			if err := runForm(huh.NewInput().Title(q.Prompt).Value(&text).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("type an answer")
				}
				return nil
			})); err != nil {
				return err
			}
			err = w.Answer(text)
		default:
			err = w.SelectChip(choice)
		}
		if err != nil {
			return err
		}
		if err := waitForBot(ctx, app, w); err != nil {
			return err
		}
		fmt.Fprint(out, formatter.FormatChat(w.Snapshot().Messages[len(snap.Messages):]))
	}
}

func uploadInteractive(w *idp.Wizard) error {
	for {
		var path string
		if err := runForm(huh.NewInput().
			Title("Attach a document").
			Description("Path to a file, or leave blank to continue").
			Value(&path)); err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return w.FinishUploads()
		}
		u, err := uploadFromFile(path)
		if err != nil {
			return err
		}
		if err := w.AddUpload(u); err != nil {
			return err
		}
	}
}

// reviewInteractive shows the summary until the participant generates or
// cancels. Going back reopens the chat where it left off.
func reviewInteractive(ctx context.Context, app *App, w *idp.Wizard, out io.Writer) (bool, error) {
	for {
		fmt.Fprintln(out, formatter.FormatWizardSummary(w.Snapshot()))
		choice := summaryGenerate
		if err := runForm(huh.NewSelect[summaryChoice]().
			Title("Generate your development plan?").
			Options(
				huh.NewOption("Generate", summaryGenerate),
				huh.NewOption("Back to the chat", summaryBack),
				huh.NewOption("Cancel", summaryCancel),
			).
			Value(&choice)); err != nil {
			return false, err
		}
		switch choice {
		case summaryGenerate:
			return true, nil
		case summaryCancel:
			return false, nil
		}
		if err := w.Back(); err != nil {
			return false, err
		}
		if err := chatInteractive(ctx, app, w, out); err != nil {
			return false, err
		}
	}
}

// generatePlan starts generation and waits for the ramp to finish.
func generatePlan(ctx context.Context, app *App, w *idp.Wizard, interactive bool, status io.Writer) error {
	if err := w.Next(); err != nil {
		return err
	}
	if interactive {
		stop := formatter.StartSpinner(status, func() string {
			return fmt.Sprintf("Generating your plan %s", formatter.RenderProgress(w.Snapshot().Progress, 20))
		})
		defer stop()
	}

	err := app.settle(ctx, func() bool {
		s := w.Snapshot()
		return s.Step == idp.StepPlan || s.Err != nil
	})
	if err != nil {
		w.Cancel()
		return err
	}
	if snap := w.Snapshot(); snap.Err != nil {
		return fmt.Errorf("generating plan: %w", snap.Err)
	}
	return nil
}
