package in

import (
	"context"

	dungeondto "shadowgate/internal/modules/dungeon/dto"
	dungeonin "shadowgate/internal/modules/dungeon/port/in"
)

type CLIHandler struct {
	usecase dungeonin.Usecase
}

func NewCLIHandler(usecase dungeonin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Enter(ctx context.Context, gateRef string, force bool) (dungeondto.ActiveOutput, error) {
	return h.usecase.Enter(ctx, dungeondto.EnterInput{GateRef: gateRef, Force: force})
}

func (h CLIHandler) Grade(ctx context.Context) (dungeondto.GradeOutput, error) {
	return h.usecase.Grade(ctx)
}

func (h CLIHandler) Run(ctx context.Context, gateRef string) (dungeondto.GradeOutput, error) {
	return h.usecase.Run(ctx, gateRef)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) GetActive(ctx context.Context) (dungeondto.ActiveOutput, error) {
	return h.usecase.GetActive(ctx)
}
