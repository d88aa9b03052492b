// Package store defines the persistence contract for the collection and opens
// the backend selected in configuration.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"cinedex/internal/collection"
	"cinedex/internal/config"
	"cinedex/internal/logging"
	"cinedex/internal/store/jsonstore"
	"cinedex/internal/store/sqlitestore"
)

// Store persists collection records. Absent records are reported as nil or
// false, never as errors; errors mean the backend itself failed. Every
// successful mutation is durable before the call returns.
type Store interface {
	FindAll(ctx context.Context) ([]collection.Record, error)
	FindByID(ctx context.Context, id string) (*collection.Record, error)
	FindByExternalID(ctx context.Context, imdbID string) (*collection.Record, error)
	Create(ctx context.Context, draft collection.Draft) (collection.Record, error)
	Update(ctx context.Context, id string, patch collection.Patch) (*collection.Record, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]collection.Record, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

var (
	_ Store = (*jsonstore.Store)(nil)
	_ Store = (*sqlitestore.Store)(nil)
)

// Open returns the backend named by cfg.Store.Backend.
func Open(cfg *config.Config, logger *slog.Logger) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: config required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Debug("opening collection store",
		logging.String("backend", cfg.Store.Backend),
		logging.String("path", cfg.Store.Path))

	switch cfg.Store.Backend {
	case config.BackendJSON, "":
		s, err := jsonstore.Open(cfg.Store.Path, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		s, err := sqlitestore.Open(cfg.Store.Path, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("store: unsupported backend %q", cfg.Store.Backend)
	}
}
