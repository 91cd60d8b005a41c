package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProgramCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "program",
		Aliases: []string{"programs", "p"},
		Short:   "Browse assessment programs and work through their exercises",
	}

	cmd.AddCommand(
		newProgramListCmd(app),
		newProgramShowCmd(app),
		newProgramWatchCmd(app),
		newProgramAckCmd(app),
		newProgramEnterCmd(app),
		newProgramCompleteCmd(app),
		newProgramProgressCmd(app),
		newProgramResetCmd(app),
	)

	return cmd
}

func newProgramListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List programs with progress and time remaining",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			programs, err := app.Programs.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProgramList(programs))
			return nil
		},
	}
}

func newProgramShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROGRAM",
		Short: "Show a program's exercises, centers and their availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Programs.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProgramDetail(d))
			return nil
		},
	}
}

func newProgramWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch PROGRAM",
		Short: "Mark the program's intro video as watched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Programs.WatchVideo(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Intro video for %s watched. Next: meridian program ack %s\n", args[0], args[0])
			return nil
		},
	}
}

func newProgramAckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ack PROGRAM",
		Short: "Acknowledge the program instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Programs.AcknowledgeInstructions(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Instructions for %s acknowledged. Exercises are open.\n", args[0])
			return nil
		},
	}
}

func newProgramEnterCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "enter PROGRAM ITEM",
		Short: "Open an exercise or center (proctored items go through precheck)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Programs.Enter(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEnterResult(res))
			return nil
		},
	}
}

func newProgramCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete PROGRAM ITEM",
		Short: "Record that an exercise or center phase was completed",
		Long: `Marks an item complete. The item must be in progress: entered with
"program enter", or launched by "precheck" when it is proctored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := app.Programs.Complete(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s. %s is %d%% done (%d/%d).\n",
				args[1], sum.Name, sum.CompletionPct, sum.Completed, sum.Total)
			return nil
		},
	}
}

func newProgramProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress PROGRAM ITEM PCT",
		Short: "Record partial progress on an item that is in progress",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid percentage %q: must be a whole number", args[2])
			}
			if err := app.Programs.SetProgress(cmd.Context(), args[0], args[1], pct); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Progress on %s recorded.\n", args[1])
			return nil
		},
	}
}

func newProgramResetCmd(app *App) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset PROGRAM",
		Short: "Forget all progress in a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				if !app.interactive() {
					return fmt.Errorf("reset discards every completion in %s; pass --confirm to proceed", args[0])
				}
				if !confirmIO(cmd.InOrStdin(), cmd.OutOrStdout(), "Discard every completion in "+args[0]+"?") {
					fmt.Fprintf(cmd.OutOrStdout(), "Left %s untouched.\n", args[0])
					return nil
				}
			}
			if err := app.Programs.Reset(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Progress in %s cleared.\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm discarding progress")
	return cmd
}
