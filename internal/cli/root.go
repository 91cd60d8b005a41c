package cli

import (
	"time"

	"github.com/alexanderramin/meridian/internal/catalog"
	"github.com/alexanderramin/meridian/internal/service"
	"github.com/alexanderramin/meridian/internal/timer"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Programs   service.ProgramService
	PreChecks  service.PreCheckService
	Scheduling service.SchedulingService
	Plans      service.PlanService
	Wizards    service.WizardService
	Status     service.StatusService

	Catalog   *catalog.Catalog
	Scheduler timer.Scheduler

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// SettleTimeout bounds how long a command waits for scheduled work on
	// a real-time scheduler.
	SettleTimeout time.Duration
}

// NewRootCmd creates the top-level "meridian" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "meridian",
		Short:         "Assessment programs, center bookings and development plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProgramCmd(app),
		newPreCheckCmd(app),
		newSlotCmd(app),
		newPlanCmd(app),
		newIDPCmd(app),
		newCountdownCmd(app),
		newStatusCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
