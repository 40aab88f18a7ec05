package in

import (
	"context"

	dailydto "shadowgate/internal/modules/daily/dto"
	dailyin "shadowgate/internal/modules/daily/port/in"
)

type CLIHandler struct {
	usecase dailyin.Usecase
}

func NewCLIHandler(usecase dailyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Begin(ctx context.Context, today string) (dailydto.BeginOutput, error) {
	return h.usecase.Begin(ctx, today)
}

func (h CLIHandler) Show(ctx context.Context) (dailydto.StateOutput, error) {
	return h.usecase.Show(ctx)
}

func (h CLIHandler) Complete(ctx context.Context, number int) (dailydto.StateOutput, error) {
	return h.usecase.Complete(ctx, dailydto.ToggleInput{Number: number})
}

func (h CLIHandler) Reset(ctx context.Context, number int) (dailydto.StateOutput, error) {
	return h.usecase.Reset(ctx, dailydto.ToggleInput{Number: number})
}
