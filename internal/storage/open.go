package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/praxislabs/praxis-backend/internal/config"
	"github.com/praxislabs/praxis-backend/internal/database"
)

// Open constructs the Backend named by cfg.StorageDriver. Selection happens
// once at process start; everything downstream sees only the interface.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Backend, error) {
	switch cfg.StorageDriver {
	case driverMemory:
		log.Info().Msg("Using in-memory storage backend")
		return NewMemoryBackend(), nil

	case driverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		return NewPostgresBackend(pool), nil

	case driverRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("open redis backend: %w", err)
		}
		return NewRedisBackend(rdb), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
