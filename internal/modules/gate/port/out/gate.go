package out

import (
	"context"

	"shadowgate/internal/modules/gate/domain"
)

// Scanner discovers gates from a directory convention.
type Scanner interface {
	Scan(ctx context.Context, root string) ([]domain.Descriptor, error)
}

// ConfigSource reads gates from a static configuration file.
type ConfigSource interface {
	Load(ctx context.Context, path string) ([]domain.Descriptor, error)
}

// Watcher calls onChange after the tree under root changes. It blocks
// until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, root string, onChange func()) error
}
