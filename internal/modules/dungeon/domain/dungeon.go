package domain

import (
	"fmt"
	"time"
)

// NoCommandOutput is the result text of a configuration gate that declares
// nothing to run.
const NoCommandOutput = "no command configured for this gate"

// GradingResult is what one grading run produced. A process that could not
// pass is data here, never an error.
type GradingResult struct {
	ExitCode int
	Output   string
	TimedOut bool
	Duration time.Duration
}

// Passed is true only for a clean exit 0 inside the deadline.
func (r GradingResult) Passed() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

func (r GradingResult) Reason() string {
	switch {
	case r.TimedOut:
		return "timed out"
	case r.Passed():
		return "passed"
	default:
		return fmt.Sprintf("exit status %d", r.ExitCode)
	}
}

// ActiveDungeon is the gate currently staged in the workspace.
type ActiveDungeon struct {
	GateID     string    `json:"gate_id"`
	GateName   string    `json:"gate_name"`
	Rank       string    `json:"rank"`
	SourcePath string    `json:"source_path,omitempty"`
	Command    string    `json:"command,omitempty"`
	XPReward   int       `json:"xp_reward"`
	EnteredAt  time.Time `json:"entered_at"`
}

// UsesWorkspace reports whether the gate is graded from a staged copy
// rather than by running its configured command.
func (a ActiveDungeon) UsesWorkspace() bool {
	return a.SourcePath != ""
}
