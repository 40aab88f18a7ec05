package service

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"shadowgate/internal/modules/progression/domain"
	progressionout "shadowgate/internal/modules/progression/port/out"
	"shadowgate/internal/platform/clock"
	"shadowgate/internal/platform/id"
	"shadowgate/internal/platform/tx"
)

type ProgressionService struct {
	rules   domain.Rules
	clock   clock.Clock
	idGen   id.Generator
	players progressionout.PlayerStore
	ledger  progressionout.ActivityLedger
	tx      tx.Manager
	logger  hclog.Logger
}

func NewProgressionService(rules domain.Rules, clock clock.Clock, idGen id.Generator, players progressionout.PlayerStore, ledger progressionout.ActivityLedger, txManager tx.Manager, logger hclog.Logger) *ProgressionService {
	if txManager == nil {
		txManager = tx.NoopManager{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ProgressionService{
		rules:   rules,
		clock:   clock,
		idGen:   idGen,
		players: players,
		ledger:  ledger,
		tx:      txManager,
		logger:  logger.Named("progression"),
	}
}

func (s *ProgressionService) Rules() domain.Rules {
	return s.rules
}

func (s *ProgressionService) Player(ctx context.Context) (domain.PlayerState, error) {
	return s.players.Load(ctx)
}

// ApplyOutcome loads the player, folds in one grading result and saves.
func (s *ProgressionService) ApplyOutcome(ctx context.Context, passed bool, gateReward int) (domain.PlayerState, domain.Change, error) {
	var (
		player domain.PlayerState
		change domain.Change
	)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		current, err := s.players.Load(ctx)
		if err != nil {
			return err
		}
		player, change = s.rules.ApplyOutcome(current, passed, gateReward)
		return s.players.Save(ctx, player)
	})
	if err != nil {
		return domain.PlayerState{}, domain.Change{}, fmt.Errorf("apply outcome: %w", err)
	}
	s.logger.Info("outcome applied", "passed", passed, "xp_gained", change.XPGained, "rank", player.Rank, "fatigue", player.Fatigue)
	return player, change, nil
}

// LogActivity records the activity and credits the player in one
// transaction, so a log is never stored without being applied.
func (s *ProgressionService) LogActivity(ctx context.Context, activity domain.Activity, minutes int, grade domain.Grade) (domain.ActivityLog, domain.PlayerState, domain.Change, error) {
	log, err := domain.NewActivityLog(s.idGen.New(), activity, minutes, grade, s.clock.Now())
	if err != nil {
		return domain.ActivityLog{}, domain.PlayerState{}, domain.Change{}, err
	}
	var (
		player domain.PlayerState
		change domain.Change
	)
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.ledger.Append(ctx, log); err != nil {
			return err
		}
		current, err := s.players.Load(ctx)
		if err != nil {
			return err
		}
		player, change = s.rules.ApplyActivity(current, log)
		return s.players.Save(ctx, player)
	})
	if err != nil {
		return domain.ActivityLog{}, domain.PlayerState{}, domain.Change{}, fmt.Errorf("log activity: %w", err)
	}
	s.logger.Info("activity logged", "id", log.ID, "activity", log.Activity, "minutes", log.Minutes, "grade", log.Grade, "xp_gained", log.XPGained)
	return log, player, change, nil
}

func (s *ProgressionService) ListActivities(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	return s.ledger.List(ctx, limit)
}
