package out

import (
	"context"

	"shadowgate/internal/modules/progression/domain"
)

// PlayerStore loads and saves the single player document. Load returns the
// default player when nothing was saved yet.
type PlayerStore interface {
	Load(ctx context.Context) (domain.PlayerState, error)
	Save(ctx context.Context, player domain.PlayerState) error
}

// ActivityLedger is the append-only record of logged activities.
type ActivityLedger interface {
	Append(ctx context.Context, log domain.ActivityLog) error
	List(ctx context.Context, limit int) ([]domain.ActivityLog, error)
}
