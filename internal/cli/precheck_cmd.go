package cli

import (
	"fmt"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/proctor"
	"github.com/alexanderramin/meridian/internal/service"
	"github.com/spf13/cobra"
)

func newPreCheckCmd(app *App) *cobra.Command {
	var fail, flaky checkListFlag
	var retries int

	cmd := &cobra.Command{
		Use:   "precheck PROGRAM ITEM",
		Short: "Run the proctoring pre-check and launch a proctored item",
		Long: `Runs the capability battery (browser, internet, camera, mic, upload) for a
proctored exercise or center. When every check passes or warns the item is
launched. Failed checks block the launch; --retries re-runs only the failed
ones. --fail and --flaky simulate a broken or recovering device.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var overrides []service.ProbeOverride
			for _, name := range fail.names {
				overrides = append(overrides, service.ProbeOverride{Check: name, Probe: proctor.Fixed(domain.CheckFail)})
			}
			for _, name := range flaky.names {
				overrides = append(overrides, service.ProbeOverride{Check: name, Probe: proctor.Sequence(domain.CheckFail, domain.CheckPass)})
			}

			sess, err := app.PreChecks.Start(ctx, args[0], args[1], overrides...)
			if err != nil {
				return err
			}
			defer func() { _ = app.PreChecks.Cancel(sess.ID()) }()

			fmt.Fprintf(out, "Pre-check for %s. Rules acknowledged, running checks...\n", sess.Target().Name)
			if err := sess.Acknowledge(); err != nil {
				return err
			}

			settled := func() bool { return sess.State() == proctor.StateReady || sess.Blocked() }
			if err := app.settle(ctx, settled); err != nil {
				return err
			}
			for attempt := 0; sess.Blocked() && attempt < retries; attempt++ {
				fmt.Fprintf(out, "Retrying failed checks (%d/%d)...\n", attempt+1, retries)
				if err := sess.RetryFailed(); err != nil {
					return err
				}
				if err := app.settle(ctx, settled); err != nil {
					return err
				}
			}

			snap, err := app.PreChecks.Snapshot(sess.ID())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatPreCheck(snap))

			if err := sess.Launch(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Launched %s. Handing over to the exercise runtime.\n", sess.Target().Name)
			return nil
		},
	}

	cmd.Flags().Var(&fail, "fail", "Simulate a failing check (browser, internet, camera, mic, upload)")
	cmd.Flags().Var(&flaky, "flaky", "Simulate a check that fails once and then passes")
	cmd.Flags().IntVar(&retries, "retries", 0, "How many times to re-run failed checks")

	return cmd
}
