package out_test

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
	apperrors "shadowgate/internal/platform/errors"
)

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

func TestPrepareMirrorsSourceWithModesTimesAndLinks(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "subjects", "exam_1", "ex00")
	writeFile(t, filepath.Join(src, "tester.sh"), "exit 0\n", 0o755)
	writeFile(t, filepath.Join(src, "attachment", "subject.en.txt"), "do it\n", 0o644)
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(src, "tester.sh"), stamp, stamp))
	require.NoError(t, os.Symlink("attachment/subject.en.txt", filepath.Join(src, "subject.link")))

	dir := filepath.Join(base, "current_dungeon")
	ws := dungeonout.NewFSWorkspace(dir, nil)
	require.NoError(t, ws.Prepare(context.Background(), src))

	info, err := os.Stat(filepath.Join(dir, "tester.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(stamp))

	body, err := os.ReadFile(filepath.Join(dir, "attachment", "subject.en.txt"))
	require.NoError(t, err)
	assert.Equal(t, "do it\n", string(body))

	link, err := os.Readlink(filepath.Join(dir, "subject.link"))
	require.NoError(t, err)
	assert.Equal(t, "attachment/subject.en.txt", link)
}

func TestPrepareTwiceLeavesNoFilesFromFirstSource(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	first := filepath.Join(base, "first")
	second := filepath.Join(base, "second")
	writeFile(t, filepath.Join(first, "only_first.c"), "int x;\n", 0o644)
	writeFile(t, filepath.Join(second, "tester.sh"), "exit 0\n", 0o644)

	dir := filepath.Join(base, "ws")
	ws := dungeonout.NewFSWorkspace(dir, nil)
	require.NoError(t, ws.Prepare(context.Background(), first))
	writeFile(t, filepath.Join(dir, "scratch.txt"), "player edits\n", 0o644)
	require.NoError(t, ws.Prepare(context.Background(), second))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"tester.sh"}, names)

	siblings, err := os.ReadDir(base)
	require.NoError(t, err)
	for _, s := range siblings {
		assert.NotContains(t, s.Name(), "staging")
	}
}

func TestPrepareMissingSourceDoesNotTouchWorkspace(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	dir := filepath.Join(base, "ws")
	writeFile(t, filepath.Join(dir, "keep.txt"), "keep\n", 0o644)

	ws := dungeonout.NewFSWorkspace(dir, nil)
	err := ws.Prepare(context.Background(), filepath.Join(base, "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	body, err := os.ReadFile(filepath.Join(dir, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(body))
}

func TestPrepareFailureKeepsPreviousWorkspace(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("root can read unreadable files")
	}
	base := t.TempDir()
	src := filepath.Join(base, "src")
	writeFile(t, filepath.Join(src, "secret.txt"), "x\n", 0o000)
	dir := filepath.Join(base, "ws")
	writeFile(t, filepath.Join(dir, "keep.txt"), "keep\n", 0o644)

	ws := dungeonout.NewFSWorkspace(dir, nil)
	err := ws.Prepare(context.Background(), src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIO))

	_, err = os.Stat(filepath.Join(dir, "keep.txt"))
	require.NoError(t, err)
	siblings, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Len(t, siblings, 2)
}

func TestPrepareKeepsReadOnlyDirectoryMode(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	writeFile(t, filepath.Join(src, "docs", "subject.en.txt"), "read me\n", 0o644)
	require.NoError(t, os.Chmod(filepath.Join(src, "docs"), 0o555))
	dir := filepath.Join(base, "ws")
	t.Cleanup(func() {
		_ = os.Chmod(filepath.Join(src, "docs"), 0o755)
		_ = os.Chmod(filepath.Join(dir, "docs"), 0o755)
	})

	ws := dungeonout.NewFSWorkspace(dir, nil)
	require.NoError(t, ws.Prepare(context.Background(), src))

	info, err := os.Stat(filepath.Join(dir, "docs"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o555), info.Mode().Perm())
	body, err := os.ReadFile(filepath.Join(dir, "docs", "subject.en.txt"))
	require.NoError(t, err)
	assert.Equal(t, "read me\n", string(body))
}

func TestPrepareCancelledKeepsPreviousWorkspace(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	writeFile(t, filepath.Join(src, "tester.sh"), "exit 0\n", 0o755)
	dir := filepath.Join(base, "ws")
	writeFile(t, filepath.Join(dir, "keep.txt"), "keep\n", 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ws := dungeonout.NewFSWorkspace(dir, nil)
	err := ws.Prepare(ctx, src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIO))

	_, err = os.Stat(filepath.Join(dir, "keep.txt"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "tester.sh"))
	assert.True(t, os.IsNotExist(err))
}

func TestPrepareRejectsOverlappingSource(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "tester.sh"), "exit 0\n", 0o644)
	ws := dungeonout.NewFSWorkspace(filepath.Join(base, "ws"), nil)
	err := ws.Prepare(context.Background(), base)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestResetEmptiesWorkspace(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "ws")
	writeFile(t, filepath.Join(dir, "a", "b.txt"), "b\n", 0o644)
	ws := dungeonout.NewFSWorkspace(dir, nil)

	require.NoError(t, ws.Reset(context.Background()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, dir, ws.Dir())
}
