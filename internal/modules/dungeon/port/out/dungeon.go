package out

import (
	"context"

	"shadowgate/internal/modules/dungeon/domain"
)

// Workspace is the scratch directory that mirrors one gate at a time.
type Workspace interface {
	Dir() string
	Prepare(ctx context.Context, sourcePath string) error
	Reset(ctx context.Context) error
}

type Grader interface {
	Grade(ctx context.Context, workspaceDir string) (domain.GradingResult, error)
	RunCommand(ctx context.Context, command string) (domain.GradingResult, error)
}

type ActiveDungeonStore interface {
	SaveActive(ctx context.Context, active domain.ActiveDungeon) error
	LoadActive(ctx context.Context) (domain.ActiveDungeon, error)
	ClearActive(ctx context.Context) error
}
