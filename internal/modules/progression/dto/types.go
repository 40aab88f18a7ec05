package dto

import "time"

type PlayerOutput struct {
	Name        string
	Level       int
	Experience  int
	NextLevelXP int
	Currency    int
	Fatigue     int
	Rank        string
	STR         int
	INT         int
	WIS         int
	VIT         int
}

type OutcomeInput struct {
	GateID   string
	Passed   bool
	XPReward int
}

type OutcomeOutput struct {
	XPGained       int
	CurrencyGained int
	FatigueBefore  int
	FatigueAfter   int
	LeveledUp      bool
	RankedUp       bool
	Player         PlayerOutput
}

type LogActivityInput struct {
	Activity string
	Minutes  int
	Grade    string
}

type ActivityOutput struct {
	ID        string
	Activity  string
	Minutes   int
	Grade     string
	XPGained  int
	STR       int
	INT       int
	WIS       int
	VIT       int
	CreatedAt time.Time
}

type LogActivityOutput struct {
	Activity  ActivityOutput
	LeveledUp bool
	RankedUp  bool
	Player    PlayerOutput
}
