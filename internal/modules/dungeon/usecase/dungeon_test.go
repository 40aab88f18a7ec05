package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dungeonout "shadowgate/internal/modules/dungeon/adapter/out"
	dungeondto "shadowgate/internal/modules/dungeon/dto"
	dungeonin "shadowgate/internal/modules/dungeon/port/in"
	"shadowgate/internal/modules/dungeon/service"
	"shadowgate/internal/modules/dungeon/usecase"
	gatedto "shadowgate/internal/modules/gate/dto"
	progressiondto "shadowgate/internal/modules/progression/dto"
	apperrors "shadowgate/internal/platform/errors"
	"shadowgate/internal/platform/process"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeGates struct {
	gates map[string]gatedto.GateOutput
}

func (f fakeGates) List(context.Context) ([]gatedto.GateOutput, error) { return nil, nil }
func (f fakeGates) Get(_ context.Context, ref string) (gatedto.GateOutput, error) {
	g, ok := f.gates[ref]
	if !ok {
		return gatedto.GateOutput{}, apperrors.ErrNotFound
	}
	return g, nil
}
func (f fakeGates) Watch(context.Context, func([]gatedto.GateOutput, error)) error { return nil }

type fakeProgression struct {
	outcomes []progressiondto.OutcomeInput
}

func (f *fakeProgression) ApplyOutcome(_ context.Context, input progressiondto.OutcomeInput) (progressiondto.OutcomeOutput, error) {
	f.outcomes = append(f.outcomes, input)
	if input.Passed {
		return progressiondto.OutcomeOutput{XPGained: 100}, nil
	}
	return progressiondto.OutcomeOutput{FatigueAfter: 10}, nil
}
func (f *fakeProgression) LogActivity(context.Context, progressiondto.LogActivityInput) (progressiondto.LogActivityOutput, error) {
	return progressiondto.LogActivityOutput{}, nil
}
func (f *fakeProgression) Status(context.Context) (progressiondto.PlayerOutput, error) {
	return progressiondto.PlayerOutput{}, nil
}
func (f *fakeProgression) ListActivities(context.Context, int) ([]progressiondto.ActivityOutput, error) {
	return nil, nil
}

type fixture struct {
	uc          dungeonin.Usecase
	progression *fakeProgression
	subjects    string
	workspace   string
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	home := t.TempDir()
	subjects := filepath.Join(home, "subjects")
	writeFile(t, filepath.Join(subjects, "exam_1", "ex00", "tester.sh"), "test -f answer.txt\n")
	writeFile(t, filepath.Join(subjects, "exam_1", "ex00", "subject.en.txt"), "create answer.txt\n")
	writeFile(t, filepath.Join(subjects, "exam_2", "ex01", "subject.en.txt"), "no tester\n")

	gates := fakeGates{gates: map[string]gatedto.GateOutput{
		"1": {Index: 1, ID: "exam-1-ex00", Name: "ex00", Rank: "E", SourcePath: filepath.Join(subjects, "exam_1", "ex00"), HasGradingScript: true, Runnable: true},
		"2": {Index: 2, ID: "exam-2-ex01", Name: "ex01", Rank: "D", SourcePath: filepath.Join(subjects, "exam_2", "ex01"), HasSubject: true},
		"3": {Index: 3, ID: "cmd", Name: "Command Gate", Rank: "?", Command: "exit 0", XPReward: 40, Runnable: true},
	}}
	workspace := filepath.Join(home, "current_dungeon")
	svc := service.NewDungeonService(
		dungeonout.NewFSWorkspace(workspace, nil),
		dungeonout.NewScriptGrader(process.NewOSRunner(nil), dungeonout.GraderOptions{}, nil),
		fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		nil,
	)
	progression := &fakeProgression{}
	store := dungeonout.NewFileActiveDungeonStore(filepath.Join(home, ".shadowgate", "active-dungeon.json"))
	return fixture{
		uc:          usecase.NewInteractor(svc, gates, progression, store),
		progression: progression,
		subjects:    subjects,
		workspace:   workspace,
	}
}

func TestEnterFailGradeThenPass(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	active, err := f.uc.Enter(ctx, dungeondto.EnterInput{GateRef: "1"})
	require.NoError(t, err)
	assert.Equal(t, "exam-1-ex00", active.GateID)
	assert.Equal(t, f.workspace, active.WorkspaceDir)
	_, err = os.Stat(filepath.Join(f.workspace, "subject.en.txt"))
	require.NoError(t, err)

	failed, err := f.uc.Grade(ctx)
	require.NoError(t, err)
	assert.False(t, failed.Passed)
	assert.Equal(t, "exit status 1", failed.Reason)
	assert.Equal(t, 10, failed.Progress.FatigueAfter)

	still, err := f.uc.GetActive(ctx)
	require.NoError(t, err, "a failed grade keeps the dungeon open")
	assert.Equal(t, "exam-1-ex00", still.GateID)

	writeFile(t, filepath.Join(f.workspace, "answer.txt"), "done\n")
	passed, err := f.uc.Grade(ctx)
	require.NoError(t, err)
	assert.True(t, passed.Passed)
	assert.Equal(t, 100, passed.Progress.XPGained)

	_, err = f.uc.GetActive(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrNoActiveDungeon))
	require.Len(t, f.progression.outcomes, 2)
	assert.False(t, f.progression.outcomes[0].Passed)
	assert.True(t, f.progression.outcomes[1].Passed)

	_, err = os.Stat(filepath.Join(f.subjects, "exam_1", "ex00", "answer.txt"))
	assert.True(t, os.IsNotExist(err), "grading never writes into the source")
}

func TestEnterRequiresForceWhileActive(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Enter(ctx, dungeondto.EnterInput{GateRef: "1"})
	require.NoError(t, err)
	_, err = f.uc.Enter(ctx, dungeondto.EnterInput{GateRef: "2"})
	assert.True(t, errors.Is(err, apperrors.ErrActiveDungeonExists))

	active, err := f.uc.Enter(ctx, dungeondto.EnterInput{GateRef: "2", Force: true})
	require.NoError(t, err)
	assert.Equal(t, "exam-2-ex01", active.GateID)
	_, err = os.Stat(filepath.Join(f.workspace, "tester.sh"))
	assert.True(t, os.IsNotExist(err), "previous gate files are gone")
}

func TestGradeWithoutScriptAppliesNoOutcome(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Enter(ctx, dungeondto.EnterInput{GateRef: "2"})
	require.NoError(t, err)
	_, err = f.uc.Grade(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrGradingScriptMissing))
	assert.Empty(t, f.progression.outcomes)
}

func TestGradeWithoutActiveDungeon(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.uc.Grade(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrNoActiveDungeon))
}

func TestRunCommandGate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	out, err := f.uc.Run(context.Background(), "3")
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Empty(t, out.Active.WorkspaceDir)
	require.Len(t, f.progression.outcomes, 1)
	assert.Equal(t, 40, f.progression.outcomes[0].XPReward)
}

func TestEnterUnknownGate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.uc.Enter(context.Background(), dungeondto.EnterInput{GateRef: "99"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestResetClearsWorkspaceAndActive(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Enter(ctx, dungeondto.EnterInput{GateRef: "1"})
	require.NoError(t, err)

	require.NoError(t, f.uc.Reset(ctx))
	entries, err := os.ReadDir(f.workspace)
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, err = f.uc.GetActive(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrNoActiveDungeon))
}
