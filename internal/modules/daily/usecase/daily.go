package usecase

import (
	"context"

	"shadowgate/internal/modules/daily/domain"
	dailydto "shadowgate/internal/modules/daily/dto"
	dailyin "shadowgate/internal/modules/daily/port/in"
	"shadowgate/internal/modules/daily/service"
)

type Interactor struct {
	svc *service.DailyService
}

func NewInteractor(svc *service.DailyService) dailyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Begin(ctx context.Context, today string) (dailydto.BeginOutput, error) {
	result, err := i.svc.Begin(ctx, today)
	if err != nil {
		return dailydto.BeginOutput{}, err
	}
	return dailydto.BeginOutput{
		State:       toStateOutput(result.State),
		RolledOver:  result.RolledOver,
		PenaltyOwed: result.PenaltyOwed,
		Penalty: dailydto.PenaltyOutput{
			Ran:      result.Penalty.Ran,
			Missing:  result.Penalty.Missing,
			ExitCode: result.Penalty.ExitCode,
			Output:   result.Penalty.Output,
			TimedOut: result.Penalty.TimedOut,
			Failure:  result.Penalty.Failure,
		},
	}, nil
}

func (i *Interactor) Show(ctx context.Context) (dailydto.StateOutput, error) {
	state, err := i.svc.State(ctx)
	if err != nil {
		return dailydto.StateOutput{}, err
	}
	return toStateOutput(state), nil
}

func (i *Interactor) Complete(ctx context.Context, input dailydto.ToggleInput) (dailydto.StateOutput, error) {
	return i.toggle(ctx, input, true)
}

func (i *Interactor) Reset(ctx context.Context, input dailydto.ToggleInput) (dailydto.StateOutput, error) {
	return i.toggle(ctx, input, false)
}

func (i *Interactor) toggle(ctx context.Context, input dailydto.ToggleInput, completed bool) (dailydto.StateOutput, error) {
	state, err := i.svc.SetCompleted(ctx, input.Number-1, completed)
	if err != nil {
		return dailydto.StateOutput{}, err
	}
	return toStateOutput(state), nil
}

func toStateOutput(state domain.State) dailydto.StateOutput {
	quests := make([]dailydto.QuestOutput, 0, len(state.Quests))
	for idx, q := range state.Quests {
		quests = append(quests, dailydto.QuestOutput{Number: idx + 1, Name: q.Name, Completed: q.Completed})
	}
	return dailydto.StateOutput{Date: state.Date, Quests: quests, AllComplete: state.AllComplete()}
}
