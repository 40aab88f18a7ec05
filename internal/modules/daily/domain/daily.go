package domain

import (
	"fmt"

	apperrors "shadowgate/internal/platform/errors"
)

// DefaultQuests is the checklist handed out every new day unless the
// settings provide another one.
var DefaultQuests = []string{"100 push-ups", "100 sit-ups", "100 squats", "10km run"}

type Quest struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// State is one day's checklist. An empty Date means no day has been
// started yet.
type State struct {
	Date   string  `json:"date"`
	Quests []Quest `json:"quests"`
}

func EmptyState() State {
	return State{Date: "", Quests: []Quest{}}
}

func NewState(date string, names []string) State {
	quests := make([]Quest, 0, len(names))
	for _, name := range names {
		quests = append(quests, Quest{Name: name})
	}
	return State{Date: date, Quests: quests}
}

func (s State) Started() bool {
	return s.Date != ""
}

// AllComplete is true for an empty checklist.
func (s State) AllComplete() bool {
	for _, q := range s.Quests {
		if !q.Completed {
			return false
		}
	}
	return true
}

// RolloverDecision describes what beginning a session on today must do.
type RolloverDecision struct {
	Rollover   bool
	RunPenalty bool
}

// Decide compares the stored day with today. A stale checklist is replaced;
// the penalty is owed only when a started day was left incomplete.
func Decide(stored State, today string) RolloverDecision {
	if stored.Date == today {
		return RolloverDecision{}
	}
	return RolloverDecision{
		Rollover:   true,
		RunPenalty: stored.Started() && !stored.AllComplete(),
	}
}

// SetCompleted returns a copy of s with quest i marked.
func (s State) SetCompleted(i int, completed bool) (State, error) {
	if i < 0 || i >= len(s.Quests) {
		return State{}, fmt.Errorf("%w: quest #%d (checklist has %d)", apperrors.ErrInvalidInput, i+1, len(s.Quests))
	}
	quests := make([]Quest, len(s.Quests))
	copy(quests, s.Quests)
	quests[i].Completed = completed
	return State{Date: s.Date, Quests: quests}, nil
}

// PenaltyOutcome records what happened when the penalty was owed.
type PenaltyOutcome struct {
	Ran      bool
	Missing  bool
	ExitCode int
	Output   string
	TimedOut bool
	// Failure is set when the command could not be started.
	Failure string
}
