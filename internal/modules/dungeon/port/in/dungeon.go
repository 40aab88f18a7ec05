package in

import (
	"context"

	"shadowgate/internal/modules/dungeon/dto"
)

type Usecase interface {
	Enter(ctx context.Context, input dto.EnterInput) (dto.ActiveOutput, error)
	Grade(ctx context.Context) (dto.GradeOutput, error)
	Run(ctx context.Context, gateRef string) (dto.GradeOutput, error)
	Reset(ctx context.Context) error
	GetActive(ctx context.Context) (dto.ActiveOutput, error)
}
