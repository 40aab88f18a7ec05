package out

import (
	"context"

	"shadowgate/internal/modules/daily/domain"
	dailyout "shadowgate/internal/modules/daily/port/out"
	"shadowgate/internal/platform/kvstore"
)

const DailyKey = "daily"

type KVQuestStore struct {
	store kvstore.Store
}

func NewKVQuestStore(store kvstore.Store) dailyout.QuestStore {
	return &KVQuestStore{store: store}
}

func (s *KVQuestStore) Load(ctx context.Context) (domain.State, error) {
	state := domain.EmptyState()
	found, err := s.store.Load(ctx, DailyKey, &state)
	if err != nil {
		return domain.State{}, err
	}
	if !found {
		return domain.EmptyState(), nil
	}
	if state.Quests == nil {
		state.Quests = []domain.Quest{}
	}
	return state, nil
}

func (s *KVQuestStore) Save(ctx context.Context, state domain.State) error {
	if state.Quests == nil {
		state.Quests = []domain.Quest{}
	}
	return s.store.Save(ctx, DailyKey, state)
}
