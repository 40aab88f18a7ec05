package usecase

import (
	"context"

	"shadowgate/internal/modules/progression/domain"
	"shadowgate/internal/modules/progression/dto"
	progressionin "shadowgate/internal/modules/progression/port/in"
	"shadowgate/internal/modules/progression/service"
)

type Interactor struct {
	svc *service.ProgressionService
}

func NewInteractor(svc *service.ProgressionService) progressionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ApplyOutcome(ctx context.Context, input dto.OutcomeInput) (dto.OutcomeOutput, error) {
	player, change, err := i.svc.ApplyOutcome(ctx, input.Passed, input.XPReward)
	if err != nil {
		return dto.OutcomeOutput{}, err
	}
	return dto.OutcomeOutput{
		XPGained:       change.XPGained,
		CurrencyGained: change.CurrencyGained,
		FatigueBefore:  change.FatigueBefore,
		FatigueAfter:   change.FatigueAfter,
		LeveledUp:      change.LeveledUp(),
		RankedUp:       change.RankedUp(),
		Player:         i.toPlayerOutput(player),
	}, nil
}

func (i *Interactor) LogActivity(ctx context.Context, input dto.LogActivityInput) (dto.LogActivityOutput, error) {
	activity, err := domain.ParseActivity(input.Activity)
	if err != nil {
		return dto.LogActivityOutput{}, err
	}
	grade, err := domain.ParseGrade(input.Grade)
	if err != nil {
		return dto.LogActivityOutput{}, err
	}
	log, player, change, err := i.svc.LogActivity(ctx, activity, input.Minutes, grade)
	if err != nil {
		return dto.LogActivityOutput{}, err
	}
	return dto.LogActivityOutput{
		Activity:  toActivityOutput(log),
		LeveledUp: change.LeveledUp(),
		RankedUp:  change.RankedUp(),
		Player:    i.toPlayerOutput(player),
	}, nil
}

func (i *Interactor) Status(ctx context.Context) (dto.PlayerOutput, error) {
	player, err := i.svc.Player(ctx)
	if err != nil {
		return dto.PlayerOutput{}, err
	}
	return i.toPlayerOutput(player), nil
}

func (i *Interactor) ListActivities(ctx context.Context, limit int) ([]dto.ActivityOutput, error) {
	items, err := i.svc.ListActivities(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toActivityOutput(item))
	}
	return out, nil
}

func (i *Interactor) toPlayerOutput(p domain.PlayerState) dto.PlayerOutput {
	rules := i.svc.Rules()
	level := rules.Level(p.Experience)
	return dto.PlayerOutput{
		Name:        p.Name,
		Level:       level,
		Experience:  p.Experience,
		NextLevelXP: rules.NextLevelXP(level),
		Currency:    p.Currency,
		Fatigue:     p.Fatigue,
		Rank:        string(p.Rank),
		STR:         p.Stats.STR,
		INT:         p.Stats.INT,
		WIS:         p.Stats.WIS,
		VIT:         p.Stats.VIT,
	}
}

func toActivityOutput(log domain.ActivityLog) dto.ActivityOutput {
	return dto.ActivityOutput{
		ID:        log.ID,
		Activity:  string(log.Activity),
		Minutes:   log.Minutes,
		Grade:     string(log.Grade),
		XPGained:  log.XPGained,
		STR:       log.StatPoints.STR,
		INT:       log.StatPoints.INT,
		WIS:       log.StatPoints.WIS,
		VIT:       log.StatPoints.VIT,
		CreatedAt: log.CreatedAt,
	}
}
