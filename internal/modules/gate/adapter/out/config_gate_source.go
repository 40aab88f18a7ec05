package out

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"shadowgate/internal/modules/gate/domain"
	gateout "shadowgate/internal/modules/gate/port/out"
	apperrors "shadowgate/internal/platform/errors"
)

// FileConfigSource reads a list of gate records from a JSON or YAML file.
// JSON documents are valid YAML, so one decoder serves both.
type FileConfigSource struct{}

func NewFileConfigSource() gateout.ConfigSource {
	return FileConfigSource{}
}

func (FileConfigSource) Load(_ context.Context, path string) ([]domain.Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: gate config %s", apperrors.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: read gate config: %v", apperrors.ErrIO, err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", apperrors.ErrInvalidConfig, path, err)
	}
	entries, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: top level must be a list of gates", apperrors.ErrInvalidConfig, path)
	}

	items := make([]domain.Descriptor, 0, len(entries))
	for i, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: entry %d is not an object", apperrors.ErrInvalidConfig, path, i)
		}
		record, err := decodeRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: entry %d: %v", apperrors.ErrInvalidConfig, path, i, err)
		}
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: entry %d: %v", apperrors.ErrInvalidConfig, path, i, err)
		}
		items = append(items, record.Descriptor())
	}
	return items, nil
}

func decodeRecord(fields map[string]any) (domain.Record, error) {
	reward, err := intField(fields, "xp_reward")
	if err != nil {
		return domain.Record{}, err
	}
	return domain.Record{
		ID:       stringField(fields, "id", domain.DefaultRecordID),
		Name:     stringField(fields, "name", domain.DefaultRecordName),
		Rank:     stringField(fields, "rank", domain.DefaultRecordRank),
		Command:  stringField(fields, "command", ""),
		XPReward: reward,
	}, nil
}

func stringField(fields map[string]any, key, fallback string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return fallback
	}
	s := fmt.Sprint(v)
	if s == "" {
		return fallback
	}
	return s
}

func intField(fields map[string]any, key string) (int, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, fmt.Errorf("%s out of range", key)
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%s must be an integer, got %v", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
}
