package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gateout "shadowgate/internal/modules/gate/adapter/out"
	"shadowgate/internal/modules/gate/domain"
	apperrors "shadowgate/internal/platform/errors"
)

func TestConfigSourceAppliesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "gates.json")
	writeFile(t, path, `[
  {"id": "g1", "name": "Goblin Cave", "rank": "D", "command": "make test", "xp_reward": 250},
  {"command": "true"}
]`)

	items, err := gateout.NewFileConfigSource().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "g1", items[0].ID)
	assert.Equal(t, "Goblin Cave", items[0].Name)
	assert.Equal(t, domain.RankD, items[0].Rank)
	assert.Equal(t, "make test", items[0].Command)
	assert.Equal(t, 250, items[0].XPReward)
	assert.True(t, items[0].Runnable())

	assert.Equal(t, domain.DefaultRecordID, items[1].ID)
	assert.Equal(t, domain.DefaultRecordName, items[1].Name)
	assert.Equal(t, domain.Rank(domain.DefaultRecordRank), items[1].Rank)
	assert.Equal(t, 0, items[1].XPReward)
}

func TestConfigSourceReadsYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "gates.yaml")
	writeFile(t, path, "- id: y1\n  name: Yaml Gate\n  xp_reward: 40\n")

	items, err := gateout.NewFileConfigSource().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Yaml Gate", items[0].Name)
	assert.Equal(t, 40, items[0].XPReward)
	assert.False(t, items[0].Runnable())
}

func TestConfigSourceMissingFileIsNotFound(t *testing.T) {
	t.Parallel()
	_, err := gateout.NewFileConfigSource().Load(context.Background(), filepath.Join(t.TempDir(), "gates.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestConfigSourceRejectsMalformedDocuments(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"object top level": `{"id": "g1"}`,
		"scalar entry":     `["g1"]`,
		"fractional xp":    `[{"id": "g1", "xp_reward": 1.5}]`,
		"string xp":        `[{"id": "g1", "xp_reward": "lots"}]`,
		"negative xp":      `[{"id": "g1", "xp_reward": -5}]`,
		"broken json":      `[{"id": `,
	}
	for name, doc := range cases {
		path := filepath.Join(t.TempDir(), "gates.json")
		writeFile(t, path, doc)
		_, err := gateout.NewFileConfigSource().Load(context.Background(), path)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidConfig), name)
	}
}
