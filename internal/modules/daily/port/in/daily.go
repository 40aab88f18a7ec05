package in

import (
	"context"

	"shadowgate/internal/modules/daily/dto"
)

type Usecase interface {
	Begin(ctx context.Context, today string) (dto.BeginOutput, error)
	Show(ctx context.Context) (dto.StateOutput, error)
	Complete(ctx context.Context, input dto.ToggleInput) (dto.StateOutput, error)
	Reset(ctx context.Context, input dto.ToggleInput) (dto.StateOutput, error)
}
