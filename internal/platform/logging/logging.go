// Package logging builds the hclog logger shared by every module.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

type Options struct {
	Level string
	JSON  bool
	// FilePath, when set, receives log lines instead of stderr.
	FilePath string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns the root logger and a closer for its file sink.
func New(opts Options) (hclog.Logger, io.Closer, error) {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: ensure log dir: %w", err)
		}
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: open log file: %w", err)
		}
		out, closer = f, f
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "shadowgate",
		Level:      level,
		Output:     out,
		JSONFormat: opts.JSON,
	})
	return logger, closer, nil
}
