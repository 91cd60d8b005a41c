package app

import "github.com/alexanderramin/meridian/internal/proctor"

type PreCheckSnapshot struct {
	proctor.Snapshot
	ProgramName string
}
