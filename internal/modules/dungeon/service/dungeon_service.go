package service

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"shadowgate/internal/modules/dungeon/domain"
	dungeonout "shadowgate/internal/modules/dungeon/port/out"
	"shadowgate/internal/platform/clock"
)

type DungeonService struct {
	workspace dungeonout.Workspace
	grader    dungeonout.Grader
	clock     clock.Clock
	logger    hclog.Logger
}

func NewDungeonService(workspace dungeonout.Workspace, grader dungeonout.Grader, clock clock.Clock, logger hclog.Logger) *DungeonService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DungeonService{workspace: workspace, grader: grader, clock: clock, logger: logger.Named("dungeon")}
}

func (s *DungeonService) WorkspaceDir() string {
	return s.workspace.Dir()
}

// Enter stages the gate and returns its active record. Command gates have
// nothing to stage.
func (s *DungeonService) Enter(ctx context.Context, active domain.ActiveDungeon) (domain.ActiveDungeon, error) {
	if active.UsesWorkspace() {
		if err := s.workspace.Prepare(ctx, active.SourcePath); err != nil {
			return domain.ActiveDungeon{}, err
		}
	}
	active.EnteredAt = s.clock.Now()
	s.logger.Info("entered dungeon", "gate", active.GateID, "rank", active.Rank)
	return active, nil
}

func (s *DungeonService) Grade(ctx context.Context, active domain.ActiveDungeon) (domain.GradingResult, error) {
	if active.UsesWorkspace() {
		return s.grader.Grade(ctx, s.workspace.Dir())
	}
	return s.grader.RunCommand(ctx, active.Command)
}

func (s *DungeonService) Reset(ctx context.Context) error {
	return s.workspace.Reset(ctx)
}
