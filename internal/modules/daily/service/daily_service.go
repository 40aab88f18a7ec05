package service

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"shadowgate/internal/modules/daily/domain"
	dailyout "shadowgate/internal/modules/daily/port/out"
	apperrors "shadowgate/internal/platform/errors"
)

// DailyService is the daily quest tracker. One instance serves one
// process: the rollover check runs on the first Begin only.
type DailyService struct {
	store   dailyout.QuestStore
	penalty dailyout.PenaltyRunner
	quests  []string
	logger  hclog.Logger
	begun   bool
}

func NewDailyService(store dailyout.QuestStore, penalty dailyout.PenaltyRunner, quests []string, logger hclog.Logger) *DailyService {
	if len(quests) == 0 {
		quests = domain.DefaultQuests
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DailyService{
		store:   store,
		penalty: penalty,
		quests:  append([]string(nil), quests...),
		logger:  logger.Named("daily"),
	}
}

type BeginResult struct {
	State       domain.State
	RolledOver  bool
	PenaltyOwed bool
	Penalty     domain.PenaltyOutcome
}

// Begin starts the session for today. A stale checklist is replaced with a
// fresh copy of the configured quests, after the penalty has run when the
// stale day was left incomplete.
func (s *DailyService) Begin(ctx context.Context, today string) (BeginResult, error) {
	if today == "" {
		return BeginResult{}, fmt.Errorf("%w: today is required", apperrors.ErrInvalidInput)
	}
	stored, err := s.store.Load(ctx)
	if err != nil {
		return BeginResult{}, fmt.Errorf("load daily state: %w", err)
	}
	if s.begun {
		return BeginResult{State: stored}, nil
	}

	decision := domain.Decide(stored, today)
	result := BeginResult{State: stored, PenaltyOwed: decision.RunPenalty}
	if decision.RunPenalty {
		s.logger.Warn("daily quests left incomplete", "date", stored.Date)
		outcome, runErr := s.penalty.Run(ctx)
		if runErr != nil {
			s.logger.Error("penalty failed", "error", runErr)
			outcome = domain.PenaltyOutcome{Failure: runErr.Error()}
		}
		result.Penalty = outcome
	}
	if decision.Rollover {
		fresh := domain.NewState(today, s.quests)
		if err := s.store.Save(ctx, fresh); err != nil {
			return BeginResult{}, fmt.Errorf("save daily state: %w", err)
		}
		s.logger.Info("daily quests rolled over", "from", stored.Date, "to", today)
		result.State = fresh
		result.RolledOver = true
	}
	s.begun = true
	return result, nil
}

// SetCompleted marks quest i (0-based) and persists at once.
func (s *DailyService) SetCompleted(ctx context.Context, i int, completed bool) (domain.State, error) {
	if !s.begun {
		return domain.State{}, fmt.Errorf("%w: daily cycle has not begun", apperrors.ErrInvalidInput)
	}
	state, err := s.store.Load(ctx)
	if err != nil {
		return domain.State{}, fmt.Errorf("load daily state: %w", err)
	}
	next, err := state.SetCompleted(i, completed)
	if err != nil {
		return domain.State{}, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return domain.State{}, fmt.Errorf("save daily state: %w", err)
	}
	return next, nil
}

func (s *DailyService) State(ctx context.Context) (domain.State, error) {
	return s.store.Load(ctx)
}
