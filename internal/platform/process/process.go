// Package process runs external commands to completion. A nonzero exit is
// reported in Result, not as an error; Run only fails when the command
// cannot be started or the caller's context ends.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// TimedOutExitCode is reported when the deadline killed the process.
const TimedOutExitCode = -1

type Command struct {
	Name    string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration

	// Interactive attaches the command to this process's terminal instead
	// of capturing its output.
	Interactive bool
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type Result struct {
	ExitCode int
	// Output holds stdout and stderr interleaved in the order the process wrote them.
	Output   string
	TimedOut bool
	Duration time.Duration
}

type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

type OSRunner struct {
	logger hclog.Logger
}

func NewOSRunner(logger hclog.Logger) *OSRunner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &OSRunner{logger: logger.Named("process")}
}

func (r *OSRunner) Run(ctx context.Context, command Command) (Result, error) {
	if command.Name == "" {
		return Result{}, fmt.Errorf("command name is required")
	}
	runCtx := ctx
	if command.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, command.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	if len(command.Env) > 0 {
		cmd.Env = append(cmd.Environ(), command.Env...)
	}
	// One writer for both streams: os/exec then hands the child a single
	// pipe and the combined text keeps its original ordering.
	var output bytes.Buffer
	if command.Interactive {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	} else {
		cmd.Stdout = &output
		cmd.Stderr = &output
	}
	cmd.WaitDelay = 2 * time.Second

	r.logger.Debug("starting command", "command", command.String(), "dir", command.Dir, "timeout", command.Timeout)
	started := time.Now()
	err := cmd.Run()
	result := Result{Output: output.String(), Duration: time.Since(started)}

	if command.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		result.ExitCode = TimedOutExitCode
		result.TimedOut = true
		r.logger.Warn("command timed out", "command", command.String(), "timeout", command.Timeout)
		return result, nil
	}
	if ctx.Err() != nil {
		return Result{}, fmt.Errorf("run %s: %w", command.Name, ctx.Err())
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("run %s: %w", command.Name, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	r.logger.Debug("command finished", "command", command.String(), "exit_code", result.ExitCode, "duration", result.Duration)
	return result, nil
}
