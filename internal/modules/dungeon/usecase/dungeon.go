package usecase

import (
	"context"
	"errors"
	"fmt"

	"shadowgate/internal/modules/dungeon/domain"
	dungeondto "shadowgate/internal/modules/dungeon/dto"
	dungeonin "shadowgate/internal/modules/dungeon/port/in"
	dungeonout "shadowgate/internal/modules/dungeon/port/out"
	"shadowgate/internal/modules/dungeon/service"
	gatein "shadowgate/internal/modules/gate/port/in"
	progressiondto "shadowgate/internal/modules/progression/dto"
	progressionin "shadowgate/internal/modules/progression/port/in"
	apperrors "shadowgate/internal/platform/errors"
)

type Interactor struct {
	svc         *service.DungeonService
	gates       gatein.Usecase
	progression progressionin.Usecase
	activeStore dungeonout.ActiveDungeonStore
}

func NewInteractor(svc *service.DungeonService, gates gatein.Usecase, progression progressionin.Usecase, activeStore dungeonout.ActiveDungeonStore) dungeonin.Usecase {
	return &Interactor{svc: svc, gates: gates, progression: progression, activeStore: activeStore}
}

func (i *Interactor) Enter(ctx context.Context, input dungeondto.EnterInput) (dungeondto.ActiveOutput, error) {
	if !input.Force {
		_, err := i.activeStore.LoadActive(ctx)
		if err == nil {
			return dungeondto.ActiveOutput{}, apperrors.ErrActiveDungeonExists
		}
		if !errors.Is(err, apperrors.ErrNoActiveDungeon) {
			return dungeondto.ActiveOutput{}, err
		}
	}

	gate, err := i.gates.Get(ctx, input.GateRef)
	if err != nil {
		return dungeondto.ActiveOutput{}, err
	}
	active, err := i.svc.Enter(ctx, domain.ActiveDungeon{
		GateID:     gate.ID,
		GateName:   gate.Name,
		Rank:       gate.Rank,
		SourcePath: gate.SourcePath,
		Command:    gate.Command,
		XPReward:   gate.XPReward,
	})
	if err != nil {
		return dungeondto.ActiveOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return dungeondto.ActiveOutput{}, err
	}
	return i.toActiveOutput(active), nil
}

// Grade grades the active dungeon and applies the outcome. A pass closes
// the dungeon; a failure keeps it open for another attempt.
func (i *Interactor) Grade(ctx context.Context) (dungeondto.GradeOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return dungeondto.GradeOutput{}, err
	}
	result, err := i.svc.Grade(ctx, active)
	if err != nil {
		return dungeondto.GradeOutput{}, err
	}
	progress, err := i.progression.ApplyOutcome(ctx, progressiondto.OutcomeInput{
		GateID:   active.GateID,
		Passed:   result.Passed(),
		XPReward: active.XPReward,
	})
	if err != nil {
		return dungeondto.GradeOutput{}, fmt.Errorf("record grading outcome: %w", err)
	}
	if result.Passed() {
		if err := i.activeStore.ClearActive(ctx); err != nil {
			return dungeondto.GradeOutput{}, err
		}
	}
	return dungeondto.GradeOutput{
		Active:   i.toActiveOutput(active),
		ExitCode: result.ExitCode,
		Output:   result.Output,
		TimedOut: result.TimedOut,
		Passed:   result.Passed(),
		Reason:   result.Reason(),
		Duration: result.Duration,
		Progress: progress,
	}, nil
}

// Run enters the gate, replacing any active dungeon, and grades it at once.
func (i *Interactor) Run(ctx context.Context, gateRef string) (dungeondto.GradeOutput, error) {
	if _, err := i.Enter(ctx, dungeondto.EnterInput{GateRef: gateRef, Force: true}); err != nil {
		return dungeondto.GradeOutput{}, err
	}
	return i.Grade(ctx)
}

func (i *Interactor) Reset(ctx context.Context) error {
	if err := i.svc.Reset(ctx); err != nil {
		return err
	}
	return i.activeStore.ClearActive(ctx)
}

func (i *Interactor) GetActive(ctx context.Context) (dungeondto.ActiveOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return dungeondto.ActiveOutput{}, err
	}
	return i.toActiveOutput(active), nil
}

func (i *Interactor) toActiveOutput(active domain.ActiveDungeon) dungeondto.ActiveOutput {
	out := dungeondto.ActiveOutput{
		GateID:     active.GateID,
		GateName:   active.GateName,
		Rank:       active.Rank,
		SourcePath: active.SourcePath,
		Command:    active.Command,
		XPReward:   active.XPReward,
		EnteredAt:  active.EnteredAt,
	}
	if active.UsesWorkspace() {
		out.WorkspaceDir = i.svc.WorkspaceDir()
	}
	return out
}
