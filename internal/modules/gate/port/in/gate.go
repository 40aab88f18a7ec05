package in

import (
	"context"

	"shadowgate/internal/modules/gate/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.GateOutput, error)
	// Get resolves a gate by its 1-based catalog index or by its ID.
	Get(ctx context.Context, ref string) (dto.GateOutput, error)
	Watch(ctx context.Context, onChange func([]dto.GateOutput, error)) error
}
