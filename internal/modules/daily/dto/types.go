package dto

type QuestOutput struct {
	Number    int
	Name      string
	Completed bool
}

type StateOutput struct {
	Date        string
	Quests      []QuestOutput
	AllComplete bool
}

type PenaltyOutput struct {
	Ran      bool
	Missing  bool
	ExitCode int
	Output   string
	TimedOut bool
	Failure  string
}

type BeginOutput struct {
	State       StateOutput
	RolledOver  bool
	PenaltyOwed bool
	Penalty     PenaltyOutput
}

type ToggleInput struct {
	// Number is the 1-based position of the quest in the checklist.
	Number int
}
