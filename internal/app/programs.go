package app

import (
	"time"

	"github.com/alexanderramin/meridian/internal/countdown"
	"github.com/alexanderramin/meridian/internal/domain"
)

// ProgramSummary is one row of the program list.
type ProgramSummary struct {
	ID                       string
	Name                     string
	Description              string
	Status                   domain.ProgramStatus
	CompletionPct            int
	Completed                int
	Total                    int
	DueDate                  time.Time
	Countdown                countdown.Countdown
	InstructionsAcknowledged bool
}

type ItemGroup string

const (
	GroupSequential ItemGroup = "sequential"
	GroupOpen       ItemGroup = "open"
	GroupCenter     ItemGroup = "center"
)

// ItemView is an exercise, center or phase with its computed availability.
// Centers carry their phases.
type ItemView struct {
	ID            string
	Name          string
	DurationLabel string
	Kind          domain.ItemKind
	Group         ItemGroup
	Status        domain.ItemStatus
	ProgressPct   int
	Proctored     bool
	HasReport     bool
	Phases        []ItemView
}

type ProgramDetail struct {
	ProgramSummary
	IntroVideo string
	Consent    domain.ConsentState
	Sequential []ItemView
	Open       []ItemView
	Centers    []ItemView
}

// EnterResult describes what opening an item did. Entering a center opens
// its current phase, reported in EnteredID.
type EnterResult struct {
	ProgramID string
	ItemID    string
	EnteredID string
	Kind      domain.ItemKind
	Status    domain.ItemStatus
	Review    bool
}
