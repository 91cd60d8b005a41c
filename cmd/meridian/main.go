package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/meridian/internal/catalog"
	"github.com/alexanderramin/meridian/internal/cli"
	"github.com/alexanderramin/meridian/internal/config"
	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/service"
	"github.com/alexanderramin/meridian/internal/timer"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(config.Options{})
	if err != nil {
		return err
	}

	cat, err := catalog.Load(ctx, cfg.CatalogPath)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	progressRepo := repository.NewSQLiteProgressRepo(database)
	consentRepo := repository.NewSQLiteConsentRepo(database)
	slotRepo := repository.NewSQLiteSlotRepo(database)
	bookingRepo := repository.NewSQLiteBookingRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	loop := timer.NewLoop()
	defer loop.Close()

	participant := cfg.ParticipantName
	if participant == "" {
		participant = cat.Participant.Name
	}

	// Wire services
	programSvc := service.NewProgramService(cat, progressRepo, consentRepo, uow, service.SystemClock, observers...)
	schedulingSvc := service.NewSchedulingService(cat, slotRepo, bookingRepo, uow, service.SystemClock, observers...)
	planSvc := service.NewPlanService(cat, planRepo, uow, service.SystemClock, observers...)
	wizardSvc := service.NewWizardService(cat, planSvc, loop, service.WizardOptions{
		TypingDelay:  cfg.TypingDelay,
		RampStep:     cfg.RampStep,
		GapThreshold: cfg.GapThreshold,
		PlanStart:    cfg.PlanStartDate(service.SystemClock()),
	}, service.SystemClock, observers...)

	if _, err := schedulingSvc.SeedSlots(ctx); err != nil {
		return fmt.Errorf("seeding slots: %w", err)
	}

	app := &cli.App{
		Programs:   programSvc,
		PreChecks:  service.NewPreCheckService(cat, progressRepo, consentRepo, programSvc, loop, cfg.CheckStagger, observers...),
		Scheduling: schedulingSvc,
		Plans:      planSvc,
		Wizards:    wizardSvc,
		Status:     service.NewStatusService(programSvc, schedulingSvc, planSvc, participant, service.SystemClock),
		Catalog:    cat,
		Scheduler:  loop,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
