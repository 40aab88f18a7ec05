package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"shadowgate/internal/modules/gate/domain"
	gateout "shadowgate/internal/modules/gate/port/out"
	"shadowgate/internal/platform/slug"
)

// FSScanner walks a subjects tree and turns every directory owning a
// grading script or a subject file into one gate.
type FSScanner struct {
	logger hclog.Logger
}

func NewFSScanner(logger hclog.Logger) gateout.Scanner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FSScanner{logger: logger.Named("scanner")}
}

func (s *FSScanner) Scan(ctx context.Context, root string) ([]domain.Descriptor, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("gate root missing", "root", root)
			return []domain.Descriptor{}, nil
		}
		return nil, fmt.Errorf("stat gate root: %w", err)
	}
	if !info.IsDir() {
		s.logger.Warn("gate root is not a directory", "root", root)
		return []domain.Descriptor{}, nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve gate root: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	byOwner := map[string]*domain.Descriptor{}
	order := []string{}
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == absRoot {
				return err
			}
			s.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !domain.IsMarker(d.Name()) || !isRegularFile(path, d) {
			return nil
		}

		owner := domain.OwnerDir(path)
		rel, err := filepath.Rel(absRoot, owner)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
		desc, ok := byOwner[owner]
		if !ok {
			desc = newDescriptor(absRoot, owner, rel)
			byOwner[owner] = desc
			order = append(order, owner)
		}
		switch d.Name() {
		case domain.GradingScriptName:
			desc.HasGradingScript = true
		case domain.SubjectName:
			desc.HasSubject = true
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan %s: %w", absRoot, walkErr)
	}

	items := make([]domain.Descriptor, 0, len(order))
	for _, owner := range order {
		items = append(items, *byOwner[owner])
	}
	domain.SortCatalog(items)
	return items, nil
}

func newDescriptor(absRoot, owner, rel string) *domain.Descriptor {
	id := slug.FromPath(rel)
	if rel == "." {
		id = slug.Make(filepath.Base(absRoot))
	}
	examLevel := domain.ExamLevelOf(rel)
	return &domain.Descriptor{
		ID:         id,
		Name:       filepath.Base(owner),
		Rank:       domain.RankFromExam(examLevel),
		ExamLevel:  examLevel,
		SourcePath: owner,
	}
}

// isRegularFile accepts regular files and symlinks that point at one.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
