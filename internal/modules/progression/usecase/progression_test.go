package usecase_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	progressionout "shadowgate/internal/modules/progression/adapter/out"
	"shadowgate/internal/modules/progression/domain"
	"shadowgate/internal/modules/progression/dto"
	progressionin "shadowgate/internal/modules/progression/port/in"
	"shadowgate/internal/modules/progression/service"
	"shadowgate/internal/modules/progression/usecase"
	apperrors "shadowgate/internal/platform/errors"
	"shadowgate/internal/platform/kvstore"
	"shadowgate/internal/platform/sqlitedb"
	"shadowgate/internal/platform/tx"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("act-%d", s.n)
}

type failingPlayers struct {
	load func(context.Context) (domain.PlayerState, error)
}

func (f failingPlayers) Load(ctx context.Context) (domain.PlayerState, error) { return f.load(ctx) }
func (failingPlayers) Save(context.Context, domain.PlayerState) error {
	return errors.New("disk full")
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "shadowgate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fixture struct {
	uc    progressionin.Usecase
	store kvstore.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db := openDB(t)
	store, err := kvstore.NewSQLiteStore(ctx, db)
	require.NoError(t, err)
	ledger, err := progressionout.NewSQLiteActivityLedger(ctx, db)
	require.NoError(t, err)
	rules := domain.DefaultRules()
	svc := service.NewProgressionService(
		rules,
		fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		&seqID{},
		progressionout.NewKVPlayerStore(store, rules, "Jin"),
		ledger,
		tx.NewSQLiteManager(db),
		nil,
	)
	return fixture{uc: usecase.NewInteractor(svc), store: store}
}

func TestStatusDefaultsWhenNothingSaved(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	player, err := f.uc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jin", player.Name)
	assert.Equal(t, "E", player.Rank)
	assert.Equal(t, 1, player.Level)
	assert.Equal(t, 500, player.NextLevelXP)
}

func TestApplyOutcomePersists(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.ApplyOutcome(ctx, dto.OutcomeInput{GateID: "g1", Passed: true})
	require.NoError(t, err)
	assert.Equal(t, 100, out.XPGained)
	assert.Equal(t, 10, out.CurrencyGained)
	assert.True(t, out.RankedUp)
	assert.Equal(t, 5, out.FatigueAfter)

	out, err = f.uc.ApplyOutcome(ctx, dto.OutcomeInput{GateID: "g1", Passed: false})
	require.NoError(t, err)
	assert.Zero(t, out.XPGained)
	assert.Equal(t, 5, out.FatigueBefore)
	assert.Equal(t, 15, out.FatigueAfter)

	player, err := f.uc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, player.Experience)
	assert.Equal(t, 10, player.Currency)
	assert.Equal(t, 15, player.Fatigue)
	assert.Equal(t, "D", player.Rank)

	raw := map[string]any{}
	found, err := f.store.Load(ctx, progressionout.PlayerKey, &raw)
	require.NoError(t, err)
	require.True(t, found)
	assert.EqualValues(t, 1, raw["level"])
}

func TestStoredLevelIsIgnoredOnLoad(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, progressionout.PlayerKey, map[string]any{
		"name": "Jin", "experience": 1200, "rank": "B", "level": 99,
	}))

	player, err := f.uc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, player.Level)
	assert.Equal(t, 1500, player.NextLevelXP)
}

func TestLogActivityAppliesOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.LogActivity(ctx, dto.LogActivityInput{Activity: "code", Minutes: 90, Grade: "A"})
	require.NoError(t, err)
	assert.Equal(t, "act-1", out.Activity.ID)
	assert.Equal(t, 108, out.Activity.XPGained)
	assert.Equal(t, 3, out.Activity.INT)
	assert.Equal(t, 108, out.Player.Experience)
	assert.Equal(t, 3, out.Player.INT)

	_, err = f.uc.LogActivity(ctx, dto.LogActivityInput{Activity: "sport", Minutes: 30, Grade: "F"})
	require.NoError(t, err)

	logs, err := f.uc.ListActivities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	limited, err := f.uc.ListActivities(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	player, err := f.uc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 108+6, player.Experience)
	assert.Equal(t, 1, player.STR)
	assert.Equal(t, 1, player.VIT)
}

func TestLogActivityRejectsBadInput(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	cases := []dto.LogActivityInput{
		{Activity: "nap", Minutes: 30, Grade: "A"},
		{Activity: "code", Minutes: 30, Grade: "Z"},
		{Activity: "code", Minutes: 0, Grade: "A"},
	}
	for _, input := range cases {
		_, err := f.uc.LogActivity(ctx, input)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "%+v", input)
	}
	logs, err := f.uc.ListActivities(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestLogActivityRollsBackWhenPlayerSaveFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	ledger, err := progressionout.NewSQLiteActivityLedger(ctx, db)
	require.NoError(t, err)
	players := failingPlayers{load: func(context.Context) (domain.PlayerState, error) {
		return domain.NewPlayer("Jin"), nil
	}}
	svc := service.NewProgressionService(domain.DefaultRules(), fixedClock{now: time.Now()}, &seqID{}, players, ledger, tx.NewSQLiteManager(db), nil)
	uc := usecase.NewInteractor(svc)

	_, err = uc.LogActivity(ctx, dto.LogActivityInput{Activity: "code", Minutes: 60, Grade: "B"})
	require.Error(t, err)

	logs, err := ledger.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
