package dto

import (
	"time"

	progressiondto "shadowgate/internal/modules/progression/dto"
)

type EnterInput struct {
	// GateRef is a 1-based catalog index or a gate ID.
	GateRef string
	// Force replaces a dungeon that is already active.
	Force bool
}

type ActiveOutput struct {
	GateID       string
	GateName     string
	Rank         string
	SourcePath   string
	Command      string
	XPReward     int
	WorkspaceDir string
	EnteredAt    time.Time
}

type GradeOutput struct {
	Active   ActiveOutput
	ExitCode int
	Output   string
	TimedOut bool
	Passed   bool
	Reason   string
	Duration time.Duration
	Progress progressiondto.OutcomeOutput
}
