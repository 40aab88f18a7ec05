package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	dailyinadapter "shadowgate/internal/modules/daily/adapter/in"
	dailyoutadapter "shadowgate/internal/modules/daily/adapter/out"
	dailydto "shadowgate/internal/modules/daily/dto"
	dailyservice "shadowgate/internal/modules/daily/service"
	dailyusecase "shadowgate/internal/modules/daily/usecase"
	dungeoninadapter "shadowgate/internal/modules/dungeon/adapter/in"
	dungeonoutadapter "shadowgate/internal/modules/dungeon/adapter/out"
	dungeonservice "shadowgate/internal/modules/dungeon/service"
	dungeonusecase "shadowgate/internal/modules/dungeon/usecase"
	gateinadapter "shadowgate/internal/modules/gate/adapter/in"
	gateoutadapter "shadowgate/internal/modules/gate/adapter/out"
	gateservice "shadowgate/internal/modules/gate/service"
	gateusecase "shadowgate/internal/modules/gate/usecase"
	progressioninadapter "shadowgate/internal/modules/progression/adapter/in"
	progressionoutadapter "shadowgate/internal/modules/progression/adapter/out"
	progressiondomain "shadowgate/internal/modules/progression/domain"
	progressionservice "shadowgate/internal/modules/progression/service"
	progressionusecase "shadowgate/internal/modules/progression/usecase"
	"shadowgate/internal/platform/clock"
	"shadowgate/internal/platform/config"
	"shadowgate/internal/platform/id"
	"shadowgate/internal/platform/kvstore"
	"shadowgate/internal/platform/logging"
	"shadowgate/internal/platform/process"
	"shadowgate/internal/platform/sqlitedb"
	"shadowgate/internal/platform/tx"
	uiapp "shadowgate/internal/ui/app"
)

type App struct {
	Config         config.Config
	Logger         hclog.Logger
	GateCLI        gateinadapter.CLIHandler
	DungeonCLI     dungeoninadapter.CLIHandler
	ProgressionCLI progressioninadapter.CLIHandler
	DailyCLI       dailyinadapter.CLIHandler

	clock   clock.Clock
	closers []io.Closer
}

func New(cfg config.Config) (*App, error) {
	ctx := context.Background()
	settings := cfg.Settings

	logPath := ""
	if settings.Log.File {
		logPath = cfg.LogPath
	}
	logger, logCloser, err := logging.New(logging.Options{Level: settings.Log.Level, JSON: settings.Log.JSON, FilePath: logPath})
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, clock: clock.SystemClock{}, closers: []io.Closer{logCloser}}

	db, err := sqlitedb.Open(ctx, cfg.DBPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	app.closers = append([]io.Closer{db}, app.closers...)

	store, err := newStore(ctx, cfg, db)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	ledger, err := progressionoutadapter.NewSQLiteActivityLedger(ctx, db)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new activity ledger: %w", err)
	}
	runner := process.NewOSRunner(logger)

	gateUC := gateusecase.NewInteractor(gateservice.NewCatalogService(
		gateoutadapter.NewFSScanner(logger),
		gateoutadapter.NewFileConfigSource(),
		gateoutadapter.NewFSNotifyWatcher(gateoutadapter.DefaultDebounce, logger),
		gateservice.Options{
			Source:     settings.Gates.Source,
			Root:       settings.Gates.Root,
			ConfigFile: settings.Gates.ConfigFile,
		},
		logger,
	))

	rules := progressiondomain.Rules{
		LevelThreshold:  settings.Progression.LevelThreshold,
		DefaultReward:   settings.Progression.DefaultReward,
		CurrencyDivisor: settings.Progression.CurrencyDivisor,
		SuccessFatigue:  settings.Progression.SuccessFatigue,
		FailureFatigue:  settings.Progression.FailureFatigue,
	}
	progressionUC := progressionusecase.NewInteractor(progressionservice.NewProgressionService(
		rules,
		app.clock,
		id.UUID{},
		progressionoutadapter.NewKVPlayerStore(store, rules, settings.PlayerName),
		ledger,
		tx.NewSQLiteManager(db),
		logger,
	))

	dungeonUC := dungeonusecase.NewInteractor(
		dungeonservice.NewDungeonService(
			dungeonoutadapter.NewFSWorkspace(settings.Workspace.Dir, logger),
			dungeonoutadapter.NewScriptGrader(runner, dungeonoutadapter.GraderOptions{
				Script:  settings.Grader.Script,
				Shell:   settings.Grader.Shell,
				Timeout: settings.Grader.Timeout,
			}, logger),
			app.clock,
			logger,
		),
		gateUC,
		progressionUC,
		dungeonoutadapter.NewFileActiveDungeonStore(cfg.ActivePath),
	)

	dailyUC := dailyusecase.NewInteractor(dailyservice.NewDailyService(
		dailyoutadapter.NewKVQuestStore(store),
		dailyoutadapter.NewCommandPenaltyRunner(runner, dailyoutadapter.PenaltyOptions{
			Command:     settings.Daily.PenaltyCommand,
			Timeout:     settings.Daily.PenaltyTimeout,
			Interactive: settings.Daily.PenaltyInteractive,
		}, logger),
		settings.Daily.Quests,
		logger,
	))

	app.GateCLI = gateinadapter.NewCLIHandler(gateUC)
	app.DungeonCLI = dungeoninadapter.NewCLIHandler(dungeonUC)
	app.ProgressionCLI = progressioninadapter.NewCLIHandler(progressionUC)
	app.DailyCLI = dailyinadapter.NewCLIHandler(dailyUC)
	return app, nil
}

func newStore(ctx context.Context, cfg config.Config, db *sql.DB) (kvstore.Store, error) {
	switch cfg.Settings.Storage.Backend {
	case config.BackendSQLite:
		store, err := kvstore.NewSQLiteStore(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("new sqlite store: %w", err)
		}
		return store, nil
	default:
		return kvstore.NewFileStore(cfg.StateDir), nil
	}
}

// BeginSession runs the daily rollover for the current local day. Every
// entry point calls it once before touching the player.
func (a *App) BeginSession(ctx context.Context) (dailydto.BeginOutput, error) {
	return a.DailyCLI.Begin(ctx, clock.Today(a.clock))
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.GateCLI, app.DungeonCLI, app.ProgressionCLI, app.DailyCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
