package app

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dailydto "shadowgate/internal/modules/daily/dto"
	dungeondto "shadowgate/internal/modules/dungeon/dto"
	gatedto "shadowgate/internal/modules/gate/dto"
	progressiondto "shadowgate/internal/modules/progression/dto"
	apperrors "shadowgate/internal/platform/errors"
	"shadowgate/internal/ui/components"
	gatesview "shadowgate/internal/ui/views/gates"
)

type fakeGates struct{ gates []gatedto.GateOutput }

func (f fakeGates) ListGates(context.Context) ([]gatedto.GateOutput, error) { return f.gates, nil }
func (f fakeGates) WatchGates(ctx context.Context, onChange func([]gatedto.GateOutput, error)) error {
	onChange(f.gates, nil)
	<-ctx.Done()
	return nil
}

type fakeDungeon struct {
	enterRef   string
	enterForce bool
	grade      dungeondto.GradeOutput
}

func (f *fakeDungeon) Enter(_ context.Context, ref string, force bool) (dungeondto.ActiveOutput, error) {
	f.enterRef, f.enterForce = ref, force
	return dungeondto.ActiveOutput{GateID: ref, GateName: "Gate " + ref}, nil
}
func (f *fakeDungeon) Grade(context.Context) (dungeondto.GradeOutput, error) { return f.grade, nil }
func (f *fakeDungeon) Run(_ context.Context, ref string) (dungeondto.GradeOutput, error) {
	return f.grade, nil
}
func (f *fakeDungeon) Reset(context.Context) error { return nil }
func (f *fakeDungeon) GetActive(context.Context) (dungeondto.ActiveOutput, error) {
	return dungeondto.ActiveOutput{}, apperrors.ErrNoActiveDungeon
}

type fakeProgression struct{}

func (fakeProgression) Status(context.Context) (progressiondto.PlayerOutput, error) {
	return progressiondto.PlayerOutput{Name: "Jin", Level: 1, NextLevelXP: 500, Rank: "E"}, nil
}
func (fakeProgression) ListActivities(context.Context, int) ([]progressiondto.ActivityOutput, error) {
	return nil, nil
}
func (fakeProgression) LogActivity(_ context.Context, activity string, minutes int, grade string) (progressiondto.LogActivityOutput, error) {
	return progressiondto.LogActivityOutput{
		Activity: progressiondto.ActivityOutput{Activity: activity, Minutes: minutes, Grade: grade, XPGained: minutes},
	}, nil
}

type fakeDaily struct{ completed []int }

func (f *fakeDaily) Show(context.Context) (dailydto.StateOutput, error) {
	return dailydto.StateOutput{Date: "2026-10-18"}, nil
}
func (f *fakeDaily) Complete(_ context.Context, n int) (dailydto.StateOutput, error) {
	f.completed = append(f.completed, n)
	return dailydto.StateOutput{Date: "2026-10-18"}, nil
}
func (f *fakeDaily) Reset(context.Context, int) (dailydto.StateOutput, error) {
	return dailydto.StateOutput{Date: "2026-10-18"}, nil
}

func newTestModel(dungeon *fakeDungeon, daily *fakeDaily) Model {
	gates := fakeGates{gates: []gatedto.GateOutput{{Index: 1, ID: "c-piscine-c-00-ex00", Name: "ex00", Rank: "E", Runnable: true}}}
	return NewModel(gates, dungeon, fakeProgression{}, daily)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestPaletteEnterPassesForceFlag(t *testing.T) {
	t.Parallel()
	dungeon := &fakeDungeon{}
	m := newTestModel(dungeon, &fakeDaily{})

	m, cmd := update(t, m, components.PaletteSubmitMsg{Input: "dungeon:enter c-piscine-c-00-ex00 --force"})
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	m, _ = update(t, m, cmd())
	assert.Equal(t, "c-piscine-c-00-ex00", dungeon.enterRef)
	assert.True(t, dungeon.enterForce)
	assert.True(t, m.hasActive)
	assert.False(t, m.busy)
}

func TestGradedPassClearsActiveDungeon(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeDungeon{}, &fakeDaily{})
	m.hasActive = true
	m.active = dungeondto.ActiveOutput{GateName: "ex00"}

	out := dungeondto.GradeOutput{Active: m.active, Passed: true, Reason: "passed"}
	out.Progress.XPGained = 100
	m, cmd := update(t, m, gradedMsg{out: out})

	assert.False(t, m.hasActive)
	assert.Contains(t, m.status, "+100 XP")
	assert.NotNil(t, cmd)
}

func TestGradedFailureKeepsActiveDungeon(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeDungeon{}, &fakeDaily{})
	active := dungeondto.ActiveOutput{GateName: "ex00"}

	m, _ = update(t, m, gradedMsg{out: dungeondto.GradeOutput{Active: active, Reason: "exit status 1"}})

	assert.True(t, m.hasActive)
	assert.Equal(t, "ex00", m.active.GateName)
	assert.Contains(t, m.status, "exit status 1")
}

func TestGradeWithoutActiveDungeonIsRejected(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeDungeon{}, &fakeDaily{})

	m, cmd := update(t, m, components.PaletteSubmitMsg{Input: "dungeon:grade"})
	assert.Nil(t, cmd)
	assert.Equal(t, "no active dungeon", m.status)
}

func TestPaletteDailyCompleteSwitchesTab(t *testing.T) {
	t.Parallel()
	daily := &fakeDaily{}
	m := newTestModel(&fakeDungeon{}, daily)

	m, cmd := update(t, m, components.PaletteSubmitMsg{Input: "daily:complete 2"})
	require.NotNil(t, cmd)
	assert.Equal(t, tabDaily, m.activeTab)
	cmd()
	assert.Equal(t, []int{2}, daily.completed)
}

func TestPaletteValidatesArguments(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeDungeon{}, &fakeDaily{})

	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "activity:log coding many"})
	assert.Equal(t, "invalid minutes", m.status)

	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "daily:reset"})
	assert.Equal(t, "usage: daily:reset <n>", m.status)

	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "bogus"})
	assert.True(t, strings.HasPrefix(m.status, "unknown command"))
}

func TestActivityLoggedReportsXP(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeDungeon{}, &fakeDaily{})

	m, cmd := update(t, m, components.PaletteSubmitMsg{Input: "activity:log coding 60 S"})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "logged coding 60 min (S) +60 XP", m.status)
}

func TestCatalogChangeRefreshesGateList(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeDungeon{}, &fakeDaily{})

	gates := []gatedto.GateOutput{{Index: 1, ID: "a"}, {Index: 2, ID: "b"}}
	m, cmd := update(t, m, catalogChangedMsg{gates: gates})
	assert.NotNil(t, cmd)
	assert.Equal(t, "catalog refreshed (2 gates)", m.status)
	g, ok := m.gateView.SelectedGate()
	require.True(t, ok)
	assert.Equal(t, "a", g.ID)
}

func TestActiveDungeonMissingIsSilent(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeDungeon{}, &fakeDaily{})

	m, _ = update(t, m, m.loadActiveCmd()())
	assert.False(t, m.hasActive)
	assert.Equal(t, "ready", m.status)
}

func TestLoadedGatesFeedPaletteCompletion(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeDungeon{}, &fakeDaily{})

	m, _ = update(t, m, gatesview.GatesLoadedMsg{Gates: []gatedto.GateOutput{{Index: 1, ID: "c-piscine-c-00-ex00"}}})
	m.palette.SetValue("dungeon:enter c-")
	got := m.palette.Suggestions()
	require.Len(t, got, 1)
	assert.Equal(t, "c-piscine-c-00-ex00", got[0].Label)
}
