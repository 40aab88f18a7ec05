package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shadowgate/internal/bootstrap"
	dailydto "shadowgate/internal/modules/daily/dto"
	dungeondto "shadowgate/internal/modules/dungeon/dto"
	gatedto "shadowgate/internal/modules/gate/dto"
	progressiondto "shadowgate/internal/modules/progression/dto"
	"shadowgate/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var homePath string

	root := &cobra.Command{
		Use:           "shadowgate",
		Short:         "Level up by clearing graded coding exercises",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&homePath, "home", ".", "shadowgate home directory")

	root.AddCommand(newTUICmd(&homePath))
	root.AddCommand(newGatesCmd(&homePath))
	root.AddCommand(newDungeonCmd(&homePath))
	root.AddCommand(newStatusCmd(&homePath))
	root.AddCommand(newDailyCmd(&homePath))
	root.AddCommand(newActivityCmd(&homePath))
	root.AddCommand(newConfigCmd(&homePath))
	return root
}

func loadApp(homePath string) (*bootstrap.App, error) {
	cfg, err := config.New(homePath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// openSession loads the app and runs the daily rollover, reporting any
// penalty on errOut.
func openSession(ctx context.Context, homePath string, errOut io.Writer) (*bootstrap.App, error) {
	app, err := loadApp(homePath)
	if err != nil {
		return nil, err
	}
	begin, err := app.BeginSession(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	printPenalty(errOut, begin)
	return app, nil
}

func printPenalty(w io.Writer, begin dailydto.BeginOutput) {
	if !begin.PenaltyOwed {
		return
	}
	p := begin.Penalty
	switch {
	case p.Missing:
		_, _ = fmt.Fprintln(w, "daily quests were left incomplete; penalty quest binary not found (add exercises/penalty_quest to enforce it)")
	case p.Failure != "":
		_, _ = fmt.Fprintf(w, "daily quests were left incomplete; penalty quest failed to start: %s\n", p.Failure)
	default:
		_, _ = fmt.Fprintf(w, "daily quests were left incomplete; penalty quest exited with %d\n", p.ExitCode)
		if strings.TrimSpace(p.Output) != "" {
			_, _ = fmt.Fprintln(w, p.Output)
		}
	}
}

func newTUICmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the shadowgate terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openSession(cmd.Context(), *homePath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newGatesCmd(homePath *string) *cobra.Command {
	gates := &cobra.Command{Use: "gates", Short: "Gate catalog commands"}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List discovered gates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer app.Close()
			items, err := app.GateCLI.ListGates(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			printGates(cmd.OutOrStdout(), items)
			return nil
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")

	show := &cobra.Command{
		Use:   "show <number|id>",
		Short: "Show one gate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer app.Close()
			g, err := app.GateCLI.GetGate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "number: %d\nid: %s\nname: %s\nrank: %s\nexam: %s\nstatus: %s\nsource: %s\ncommand: %s\nxp_reward: %d\n",
				g.Index, g.ID, g.Name, g.Rank, g.ExamLevel, g.Status(), g.SourcePath, g.Command, g.XPReward)
			return nil
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the catalog whenever the subjects tree changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.GateCLI.WatchGates(ctx, func(items []gatedto.GateOutput, err error) {
				if err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "scan failed: %v\n", err)
					return
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "--- %d gates ---\n", len(items))
				printGates(cmd.OutOrStdout(), items)
			})
		},
	}

	gates.AddCommand(list, show, watch)
	return gates
}

func printGates(w io.Writer, items []gatedto.GateOutput) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "no gates")
		return
	}
	for _, g := range items {
		_, _ = fmt.Fprintf(w, "%d\t[%s]\t%s\t%s\t%s\n", g.Index, g.Rank, g.Name, g.ExamLevel, g.Status())
	}
}

func newDungeonCmd(homePath *string) *cobra.Command {
	dungeon := &cobra.Command{Use: "dungeon", Short: "Enter, grade and reset dungeons"}

	var force bool
	enter := &cobra.Command{
		Use:   "enter <number|id>",
		Short: "Stage a gate into the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openSession(cmd.Context(), *homePath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.DungeonCLI.Enter(cmd.Context(), args[0], force)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "entered %s [%s]", out.GateName, out.Rank)
			if out.WorkspaceDir != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), " workspace=%s", out.WorkspaceDir)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	enter.Flags().BoolVar(&force, "force", false, "replace the active dungeon")

	grade := &cobra.Command{
		Use:   "grade",
		Short: "Grade the active dungeon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openSession(cmd.Context(), *homePath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.DungeonCLI.Grade(cmd.Context())
			if err != nil {
				return err
			}
			printGrade(cmd.OutOrStdout(), out)
			return nil
		},
	}

	run := &cobra.Command{
		Use:   "run <number|id>",
		Short: "Enter a gate and grade it immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openSession(cmd.Context(), *homePath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.DungeonCLI.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printGrade(cmd.OutOrStdout(), out)
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Empty the workspace and abandon the active dungeon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.DungeonCLI.Reset(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "workspace reset")
			return nil
		},
	}

	active := &cobra.Command{
		Use:   "active",
		Short: "Show the active dungeon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.DungeonCLI.GetActive(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "gate=%s name=%q rank=%s entered=%s workspace=%s\n",
				out.GateID, out.GateName, out.Rank, out.EnteredAt.Format("2006-01-02T15:04:05Z07:00"), out.WorkspaceDir)
			return nil
		},
	}

	dungeon.AddCommand(enter, grade, run, reset, active)
	return dungeon
}

func printGrade(w io.Writer, out dungeondto.GradeOutput) {
	if strings.TrimSpace(out.Output) != "" {
		_, _ = fmt.Fprintln(w, strings.TrimRight(out.Output, "\n"))
	}
	verdict := "FAILED"
	if out.Passed {
		verdict = "CLEARED"
	}
	_, _ = fmt.Fprintf(w, "%s %s (%s, %s)\n", verdict, out.Active.GateName, out.Reason, out.Duration.Round(time.Millisecond))
	p := out.Progress
	if out.Passed {
		_, _ = fmt.Fprintf(w, "+%d xp +%d gold\n", p.XPGained, p.CurrencyGained)
	} else {
		_, _ = fmt.Fprintf(w, "fatigue %d -> %d\n", p.FatigueBefore, p.FatigueAfter)
	}
	if p.LeveledUp {
		_, _ = fmt.Fprintf(w, "LEVEL UP! now level %d\n", p.Player.Level)
	}
	if p.RankedUp {
		_, _ = fmt.Fprintf(w, "RANK UP! now rank %s\n", p.Player.Rank)
	}
}

func newStatusCmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the player status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openSession(cmd.Context(), *homePath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			p, err := app.ProgressionCLI.Status(cmd.Context())
			if err != nil {
				return err
			}
			printPlayer(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func printPlayer(w io.Writer, p progressiondto.PlayerOutput) {
	_, _ = fmt.Fprintf(w, "name: %s\nrank: %s\nlevel: %d\nxp: %d/%d\ngold: %d\nfatigue: %d\nSTR %d  INT %d  WIS %d  VIT %d\n",
		p.Name, p.Rank, p.Level, p.Experience, p.NextLevelXP, p.Currency, p.Fatigue, p.STR, p.INT, p.WIS, p.VIT)
}

func newDailyCmd(homePath *string) *cobra.Command {
	daily := &cobra.Command{Use: "daily", Short: "Daily quest checklist"}

	daily.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show today's quests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openSession(cmd.Context(), *homePath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			state, err := app.DailyCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			printDaily(cmd.OutOrStdout(), state)
			return nil
		},
	})

	toggle := func(use, short string, completed bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <number>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				number, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("quest number must be an integer: %q", args[0])
				}
				app, err := openSession(cmd.Context(), *homePath, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer app.Close()
				var state dailydto.StateOutput
				if completed {
					state, err = app.DailyCLI.Complete(cmd.Context(), number)
				} else {
					state, err = app.DailyCLI.Reset(cmd.Context(), number)
				}
				if err != nil {
					return err
				}
				printDaily(cmd.OutOrStdout(), state)
				return nil
			},
		}
	}
	daily.AddCommand(toggle("complete", "Mark a quest done", true))
	daily.AddCommand(toggle("reset", "Mark a quest not done", false))
	return daily
}

func printDaily(w io.Writer, state dailydto.StateOutput) {
	_, _ = fmt.Fprintf(w, "daily cycle: %s\n", state.Date)
	for _, q := range state.Quests {
		mark := " "
		if q.Completed {
			mark = "x"
		}
		_, _ = fmt.Fprintf(w, "%d [%s] %s\n", q.Number, mark, q.Name)
	}
	if state.AllComplete && len(state.Quests) > 0 {
		_, _ = fmt.Fprintln(w, "all quests complete")
	}
}

func newActivityCmd(homePath *string) *cobra.Command {
	activity := &cobra.Command{Use: "activity", Short: "Log real-life activities for stat points"}

	var grade string
	logCmd := &cobra.Command{
		Use:   "log <code|sleep|sport|eat|listen|breath> <minutes>",
		Short: "Record an activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("minutes must be an integer: %q", args[1])
			}
			app, err := openSession(cmd.Context(), *homePath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.ProgressionCLI.LogActivity(cmd.Context(), args[0], minutes, grade)
			if err != nil {
				return err
			}
			a := out.Activity
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged %s %dmin grade=%s +%d xp (STR+%d INT+%d WIS+%d VIT+%d)\n",
				a.Activity, a.Minutes, a.Grade, a.XPGained, a.STR, a.INT, a.WIS, a.VIT)
			if out.LeveledUp {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "LEVEL UP! now level %d\n", out.Player.Level)
			}
			if out.RankedUp {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "RANK UP! now rank %s\n", out.Player.Rank)
			}
			return nil
		},
	}
	logCmd.Flags().StringVar(&grade, "grade", "B", "self-assessed grade: S|A|B|F")

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List logged activities, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer app.Close()
			items, err := app.ProgressionCLI.ListActivities(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no activities")
				return nil
			}
			for _, a := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%dmin\t%s\t+%dxp\n",
					a.CreatedAt.Local().Format("2006-01-02 15:04"), a.Activity, a.Minutes, a.Grade, a.XPGained)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum entries (0 for all)")

	activity.AddCommand(logCmd, list)
	return activity
}

func newConfigCmd(homePath *string) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Settings file commands"}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := filepath.Abs(*homePath)
			if err != nil {
				return err
			}
			path := filepath.Join(home, config.DataDir, "config.yaml")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			raw, err := config.DefaultSettingsYAML()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")

	cfgCmd.AddCommand(initCmd)
	return cfgCmd
}
