package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"shadowgate/internal/modules/daily/domain"
	dailyout "shadowgate/internal/modules/daily/port/out"
	"shadowgate/internal/platform/process"
)

type PenaltyOptions struct {
	Command     string
	Timeout     time.Duration
	Interactive bool
}

// CommandPenaltyRunner runs the configured penalty program with no
// arguments. It blocks until the program exits.
type CommandPenaltyRunner struct {
	runner process.Runner
	opts   PenaltyOptions
	logger hclog.Logger
}

func NewCommandPenaltyRunner(runner process.Runner, opts PenaltyOptions, logger hclog.Logger) dailyout.PenaltyRunner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CommandPenaltyRunner{runner: runner, opts: opts, logger: logger.Named("penalty")}
}

func (r *CommandPenaltyRunner) Run(ctx context.Context) (domain.PenaltyOutcome, error) {
	if r.opts.Command == "" {
		r.logger.Warn("penalty owed but no penalty command is configured")
		return domain.PenaltyOutcome{Missing: true}, nil
	}
	if _, err := os.Stat(r.opts.Command); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("penalty command not found", "path", r.opts.Command)
			return domain.PenaltyOutcome{Missing: true}, nil
		}
		return domain.PenaltyOutcome{}, fmt.Errorf("stat penalty command: %w", err)
	}

	r.logger.Info("running penalty", "path", r.opts.Command)
	res, err := r.runner.Run(ctx, process.Command{
		Name:        r.opts.Command,
		Timeout:     r.opts.Timeout,
		Interactive: r.opts.Interactive,
	})
	if err != nil {
		return domain.PenaltyOutcome{}, fmt.Errorf("run penalty: %w", err)
	}
	return domain.PenaltyOutcome{
		Ran:      true,
		ExitCode: res.ExitCode,
		Output:   res.Output,
		TimedOut: res.TimedOut,
	}, nil
}
