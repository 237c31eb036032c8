package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/smarthomes/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OpenStore opens the document store selected by cfg.Storage.Driver.
// Database options only apply to the sqlite and postgres drivers.
func OpenStore(cfg *config.Config, log *zap.Logger, opts ...DatabaseOption) (DocumentStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageFile:
		log.Info("Using file document store", zap.String("dir", cfg.Storage.DataDir))
		return NewFileStore(cfg.Storage.DataDir)
	case config.StorageBolt:
		log.Info("Using bolt document store", zap.String("path", cfg.Storage.BoltPath))
		return NewBoltStore(cfg.Storage.BoltPath)
	case config.StorageSQLite, config.StoragePostgres:
		database, err := NewDatabase(&cfg.Storage, &cfg.Database, opts...)
		if err != nil {
			return nil, err
		}
		store, err := NewGormStore(database)
		if err != nil {
			_ = database.Close()
			return nil, err
		}
		log.Info("Using database document store", zap.String("driver", cfg.Storage.Driver))
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// Loader is a document that can be read into memory
type Loader interface {
	Name() string
	Load(ctx context.Context) error
}

// LoadAll reads every document concurrently and fails on the first error
func LoadAll(ctx context.Context, log *zap.Logger, loaders ...Loader) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, l := range loaders {
		g.Go(func() error {
			start := time.Now()
			if err := l.Load(ctx); err != nil {
				return fmt.Errorf("load %s: %w", l.Name(), err)
			}
			log.Debug("Loaded document",
				zap.String("document", l.Name()),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		})
	}
	return g.Wait()
}
