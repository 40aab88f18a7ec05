package dto

type GateOutput struct {
	Index            int
	ID               string
	Name             string
	Rank             string
	ExamLevel        string
	SourcePath       string
	HasGradingScript bool
	HasSubject       bool
	Command          string
	XPReward         int
	Runnable         bool
}

// Status is the short readiness label shown next to a gate.
func (g GateOutput) Status() string {
	if g.Runnable {
		return "Ready"
	}
	if g.SourcePath == "" {
		return "No command"
	}
	return "Missing tester"
}
