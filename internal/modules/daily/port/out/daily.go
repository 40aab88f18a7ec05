package out

import (
	"context"

	"shadowgate/internal/modules/daily/domain"
)

// QuestStore persists the daily checklist. Load returns the empty state
// when nothing was saved yet.
type QuestStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
}

// PenaltyRunner enforces a missed day. A missing penalty command is
// reported in the outcome, not as an error.
type PenaltyRunner interface {
	Run(ctx context.Context) (domain.PenaltyOutcome, error)
}
