// Package kvstore persists whole documents under a key. A Save replaces the
// previous value entirely; there are no partial updates. Loading a key that
// was never saved is not an error: Load reports found=false and leaves dst
// untouched so the caller can apply its own defaults.
package kvstore

import (
	"context"
	"fmt"
	"regexp"

	apperrors "shadowgate/internal/platform/errors"
)

type Store interface {
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: store key %q", apperrors.ErrInvalidInput, key)
	}
	return nil
}
