package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	gateout "shadowgate/internal/modules/gate/adapter/out"
)

func TestWatcherReportsNewGate(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	watcher := gateout.NewFSNotifyWatcher(20*time.Millisecond, nil)
	go func() {
		done <- watcher.Watch(ctx, root, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register the root.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(root, "exam_1", "ex00", "tester.sh"), "exit 0\n")

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}
	cancel()
	require.NoError(t, <-done)
}
