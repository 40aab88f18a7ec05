package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"shadowgate/internal/modules/dungeon/domain"
	dungeonout "shadowgate/internal/modules/dungeon/port/out"
	apperrors "shadowgate/internal/platform/errors"
)

type FileActiveDungeonStore struct {
	path string
}

func NewFileActiveDungeonStore(path string) dungeonout.ActiveDungeonStore {
	return &FileActiveDungeonStore{path: path}
}

func (s *FileActiveDungeonStore) SaveActive(_ context.Context, active domain.ActiveDungeon) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create active dungeon dir: %w", err)
	}
	payload, err := json.MarshalIndent(active, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active dungeon: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write active dungeon: %w", err)
	}
	return nil
}

func (s *FileActiveDungeonStore) LoadActive(_ context.Context) (domain.ActiveDungeon, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ActiveDungeon{}, apperrors.ErrNoActiveDungeon
		}
		return domain.ActiveDungeon{}, fmt.Errorf("read active dungeon: %w", err)
	}
	active := domain.ActiveDungeon{}
	if err := json.Unmarshal(payload, &active); err != nil {
		return domain.ActiveDungeon{}, fmt.Errorf("decode active dungeon: %w", err)
	}
	if active.GateID == "" {
		return domain.ActiveDungeon{}, apperrors.ErrNoActiveDungeon
	}
	return active, nil
}

func (s *FileActiveDungeonStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear active dungeon: %w", err)
	}
	return nil
}
