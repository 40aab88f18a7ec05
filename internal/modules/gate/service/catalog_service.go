package service

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"shadowgate/internal/modules/gate/domain"
	gateout "shadowgate/internal/modules/gate/port/out"
)

const (
	SourceScan   = "scan"
	SourceConfig = "config"
)

// Options selects where gates come from. The filesystem scan and the
// configuration file are alternative sources and are never merged.
type Options struct {
	Source     string
	Root       string
	ConfigFile string
}

type CatalogService struct {
	scanner gateout.Scanner
	config  gateout.ConfigSource
	watcher gateout.Watcher
	opts    Options
	logger  hclog.Logger
}

func NewCatalogService(scanner gateout.Scanner, config gateout.ConfigSource, watcher gateout.Watcher, opts Options, logger hclog.Logger) *CatalogService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CatalogService{scanner: scanner, config: config, watcher: watcher, opts: opts, logger: logger.Named("gate")}
}

// Catalog builds a fresh catalog from the configured source.
func (s *CatalogService) Catalog(ctx context.Context) ([]domain.Descriptor, error) {
	switch s.opts.Source {
	case SourceConfig:
		items, err := s.config.Load(ctx, s.opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("gates loaded from config", "path", s.opts.ConfigFile, "count", len(items))
		return items, nil
	case SourceScan, "":
		items, err := s.scanner.Scan(ctx, s.opts.Root)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("gates scanned", "root", s.opts.Root, "count", len(items))
		return items, nil
	default:
		return nil, fmt.Errorf("unknown gate source %q", s.opts.Source)
	}
}

// Watch rebuilds the catalog every time the scanned tree changes. Config
// sources are static and are only read once.
func (s *CatalogService) Watch(ctx context.Context, onChange func([]domain.Descriptor, error)) error {
	onChange(s.Catalog(ctx))
	if s.opts.Source == SourceConfig || s.watcher == nil {
		<-ctx.Done()
		return nil
	}
	return s.watcher.Watch(ctx, s.opts.Root, func() {
		onChange(s.Catalog(ctx))
	})
}
