package in

import (
	"context"

	"shadowgate/internal/modules/progression/dto"
)

type Usecase interface {
	ApplyOutcome(ctx context.Context, input dto.OutcomeInput) (dto.OutcomeOutput, error)
	LogActivity(ctx context.Context, input dto.LogActivityInput) (dto.LogActivityOutput, error)
	Status(ctx context.Context) (dto.PlayerOutput, error)
	ListActivities(ctx context.Context, limit int) ([]dto.ActivityOutput, error)
}
