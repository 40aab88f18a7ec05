package out

import (
	"context"

	"shadowgate/internal/modules/progression/domain"
	progressionout "shadowgate/internal/modules/progression/port/out"
	"shadowgate/internal/platform/kvstore"
)

const PlayerKey = "player"

// playerDocument is the persisted shape. Level is written for anyone
// reading the file by hand and is recomputed on load.
type playerDocument struct {
	domain.PlayerState
	Level int `json:"level"`
}

type KVPlayerStore struct {
	store       kvstore.Store
	rules       domain.Rules
	defaultName string
}

func NewKVPlayerStore(store kvstore.Store, rules domain.Rules, defaultName string) progressionout.PlayerStore {
	return &KVPlayerStore{store: store, rules: rules, defaultName: defaultName}
}

func (s *KVPlayerStore) Load(ctx context.Context) (domain.PlayerState, error) {
	doc := playerDocument{}
	found, err := s.store.Load(ctx, PlayerKey, &doc)
	if err != nil {
		return domain.PlayerState{}, err
	}
	if !found {
		return domain.NewPlayer(s.defaultName), nil
	}
	return doc.PlayerState.Normalize(), nil
}

func (s *KVPlayerStore) Save(ctx context.Context, player domain.PlayerState) error {
	return s.store.Save(ctx, PlayerKey, playerDocument{PlayerState: player, Level: s.rules.Level(player.Experience)})
}
