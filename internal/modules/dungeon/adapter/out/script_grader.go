package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"shadowgate/internal/modules/dungeon/domain"
	dungeonout "shadowgate/internal/modules/dungeon/port/out"
	apperrors "shadowgate/internal/platform/errors"
	"shadowgate/internal/platform/process"
)

type GraderOptions struct {
	Script  string
	Shell   string
	Timeout time.Duration
}

// ScriptGrader runs the gate's grading script inside the workspace. The
// exit status of the script is the only pass signal.
type ScriptGrader struct {
	runner process.Runner
	opts   GraderOptions
	logger hclog.Logger
}

func NewScriptGrader(runner process.Runner, opts GraderOptions, logger hclog.Logger) dungeonout.Grader {
	if opts.Script == "" {
		opts.Script = "tester.sh"
	}
	if opts.Shell == "" {
		opts.Shell = "bash"
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ScriptGrader{runner: runner, opts: opts, logger: logger.Named("grader")}
}

func (g *ScriptGrader) Grade(ctx context.Context, workspaceDir string) (domain.GradingResult, error) {
	script := filepath.Join(workspaceDir, g.opts.Script)
	info, err := os.Stat(script)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.GradingResult{}, fmt.Errorf("%w: %s", apperrors.ErrGradingScriptMissing, script)
		}
		return domain.GradingResult{}, fmt.Errorf("%w: stat grading script: %v", apperrors.ErrIO, err)
	}
	if info.IsDir() {
		return domain.GradingResult{}, fmt.Errorf("%w: %s is a directory", apperrors.ErrGradingScriptMissing, script)
	}
	if err := os.Chmod(script, info.Mode().Perm()|0o111); err != nil {
		return domain.GradingResult{}, fmt.Errorf("%w: mark grading script executable: %v", apperrors.ErrIO, err)
	}

	g.logger.Info("grading", "dir", workspaceDir, "script", g.opts.Script)
	return g.run(ctx, process.Command{
		Name:    g.opts.Shell,
		Args:    []string{g.opts.Script},
		Dir:     workspaceDir,
		Timeout: g.opts.Timeout,
	})
}

// RunCommand grades a configuration gate by running its shell command from
// the current directory.
func (g *ScriptGrader) RunCommand(ctx context.Context, command string) (domain.GradingResult, error) {
	if strings.TrimSpace(command) == "" {
		return domain.GradingResult{ExitCode: 1, Output: domain.NoCommandOutput}, nil
	}
	g.logger.Info("running gate command", "command", command)
	return g.run(ctx, process.Command{
		Name:    "sh",
		Args:    []string{"-c", command},
		Timeout: g.opts.Timeout,
	})
}

func (g *ScriptGrader) run(ctx context.Context, cmd process.Command) (domain.GradingResult, error) {
	res, err := g.runner.Run(ctx, cmd)
	if err != nil {
		return domain.GradingResult{}, fmt.Errorf("run grader: %w", err)
	}
	result := domain.GradingResult{
		ExitCode: res.ExitCode,
		Output:   res.Output,
		TimedOut: res.TimedOut,
		Duration: res.Duration,
	}
	g.logger.Info("graded", "passed", result.Passed(), "reason", result.Reason(), "duration", result.Duration)
	return result, nil
}
