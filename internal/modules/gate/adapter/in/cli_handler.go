package in

import (
	"context"

	gatedto "shadowgate/internal/modules/gate/dto"
	gatein "shadowgate/internal/modules/gate/port/in"
)

type CLIHandler struct {
	usecase gatein.Usecase
}

func NewCLIHandler(usecase gatein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListGates(ctx context.Context) ([]gatedto.GateOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) GetGate(ctx context.Context, ref string) (gatedto.GateOutput, error) {
	return h.usecase.Get(ctx, ref)
}

func (h CLIHandler) WatchGates(ctx context.Context, onChange func([]gatedto.GateOutput, error)) error {
	return h.usecase.Watch(ctx, onChange)
}
