package in

import (
	"context"

	progressiondto "shadowgate/internal/modules/progression/dto"
	progressionin "shadowgate/internal/modules/progression/port/in"
)

type CLIHandler struct {
	usecase progressionin.Usecase
}

func NewCLIHandler(usecase progressionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (progressiondto.PlayerOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) LogActivity(ctx context.Context, activity string, minutes int, grade string) (progressiondto.LogActivityOutput, error) {
	return h.usecase.LogActivity(ctx, progressiondto.LogActivityInput{Activity: activity, Minutes: minutes, Grade: grade})
}

func (h CLIHandler) ListActivities(ctx context.Context, limit int) ([]progressiondto.ActivityOutput, error) {
	return h.usecase.ListActivities(ctx, limit)
}
