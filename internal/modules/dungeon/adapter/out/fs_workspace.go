package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/otiai10/copy"

	dungeonout "shadowgate/internal/modules/dungeon/port/out"
	apperrors "shadowgate/internal/platform/errors"
)

// FSWorkspace keeps a scratch directory that mirrors one gate source.
// Prepare builds the new copy next to the workspace and only swaps it in
// once the copy is complete.
type FSWorkspace struct {
	dir    string
	logger hclog.Logger
}

func NewFSWorkspace(dir string, logger hclog.Logger) dungeonout.Workspace {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FSWorkspace{dir: dir, logger: logger.Named("workspace")}
}

func (w *FSWorkspace) Dir() string {
	return w.dir
}

func (w *FSWorkspace) Prepare(ctx context.Context, sourcePath string) error {
	info, err := os.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: gate source %s", apperrors.ErrNotFound, sourcePath)
		}
		return fmt.Errorf("%w: stat gate source: %v", apperrors.ErrIO, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: gate source %s is not a directory", apperrors.ErrInvalidInput, sourcePath)
	}
	if err := w.checkDisjoint(sourcePath); err != nil {
		return err
	}

	parent := filepath.Dir(w.dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("%w: create workspace parent: %v", apperrors.ErrIO, err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(w.dir)+"-staging-")
	if err != nil {
		return fmt.Errorf("%w: create staging dir: %v", apperrors.ErrIO, err)
	}
	if err := copyTree(ctx, sourcePath, staging, w.logger); err != nil {
		if rmErr := os.RemoveAll(staging); rmErr != nil {
			w.logger.Warn("remove staging dir", "path", staging, "error", rmErr)
		}
		return fmt.Errorf("%w: copy %s: %v", apperrors.ErrIO, sourcePath, err)
	}
	if err := os.RemoveAll(w.dir); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("%w: remove old workspace: %v", apperrors.ErrIO, err)
	}
	if err := os.Rename(staging, w.dir); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("%w: install workspace: %v", apperrors.ErrIO, err)
	}
	w.logger.Info("workspace prepared", "source", sourcePath, "dir", w.dir)
	return nil
}

func (w *FSWorkspace) Reset(_ context.Context) error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("%w: clear workspace: %v", apperrors.ErrIO, err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("%w: recreate workspace: %v", apperrors.ErrIO, err)
	}
	w.logger.Info("workspace reset", "dir", w.dir)
	return nil
}

// checkDisjoint refuses sources that contain the workspace or live inside it.
func (w *FSWorkspace) checkDisjoint(sourcePath string) error {
	src, err := filepath.Abs(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: resolve gate source: %v", apperrors.ErrIO, err)
	}
	dst, err := filepath.Abs(w.dir)
	if err != nil {
		return fmt.Errorf("%w: resolve workspace: %v", apperrors.ErrIO, err)
	}
	if within(src, dst) || within(dst, src) {
		return fmt.Errorf("%w: gate source %s overlaps workspace %s", apperrors.ErrInvalidInput, src, dst)
	}
	return nil
}

func within(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// copyTree mirrors src into the existing directory dst, keeping modes,
// times and symlinks. Sockets and devices are skipped.
func copyTree(ctx context.Context, src, dst string, logger hclog.Logger) error {
	return copy.Copy(src, dst, copy.Options{
		OnSymlink:         func(string) copy.SymlinkAction { return copy.Shallow },
		PermissionControl: copy.PerservePermission,
		PreserveTimes:     true,
		Skip: func(info os.FileInfo, path, _ string) (bool, error) {
			if err := ctx.Err(); err != nil {
				return true, err
			}
			mode := info.Mode()
			if mode&(os.ModeSocket|os.ModeDevice|os.ModeCharDevice|os.ModeIrregular) != 0 {
				logger.Debug("skipping special file", "path", path, "mode", mode.String())
				return true, nil
			}
			return false, nil
		},
	})
}
