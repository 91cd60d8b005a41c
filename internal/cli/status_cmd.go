package cli

import (
	"fmt"
	"time"

	meridianapp "github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var programID string
	var dueSoon int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show programs, bookings and plan in one overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := meridianapp.NewStatusRequest()
			if programID != "" {
				req.ProgramScope = []string{programID}
			}
			if cmd.Flags().Changed("due-soon") {
				req.DueSoon = time.Duration(dueSoon) * 24 * time.Hour
			}

			resp, err := app.Status.GetStatus(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatus(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "Limit to one program")
	cmd.Flags().IntVar(&dueSoon, "due-soon", 7, "Warn about programs due within this many days")
	return cmd
}
