package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dailyout "shadowgate/internal/modules/daily/adapter/out"
	"shadowgate/internal/platform/process"
)

func TestPenaltyMissingCommandIsReported(t *testing.T) {
	t.Parallel()
	runner := dailyout.NewCommandPenaltyRunner(process.NewOSRunner(nil), dailyout.PenaltyOptions{
		Command: filepath.Join(t.TempDir(), "exercises", "penalty_quest"),
	}, nil)

	outcome, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.Missing)
	assert.False(t, outcome.Ran)
}

func TestPenaltyRunsConfiguredProgram(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "penalty_quest")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho 'do 100 burpees'\nexit 4\n"), 0o755))
	runner := dailyout.NewCommandPenaltyRunner(process.NewOSRunner(nil), dailyout.PenaltyOptions{Command: path}, nil)

	outcome, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.Ran)
	assert.Equal(t, 4, outcome.ExitCode)
	assert.Equal(t, "do 100 burpees\n", outcome.Output)
}
