package storage

import (
	"context"
	"fmt"

	"github.com/yourusername/warehouse-client/config"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

// NewStateRepository opens the state backend selected by cfg.StateDriver.
func NewStateRepository(ctx context.Context, cfg *config.Config) (repository.StateRepository, error) {
	switch cfg.StateDriver {
	case config.DriverSQLite:
		return NewSQLiteStateRepository(cfg.StateDBPath)
	case config.DriverRedis:
		return NewRedisStateRepository(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	case config.DriverMemory:
		return NewMemoryStateRepository(), nil
	default:
		return nil, fmt.Errorf("unknown state driver %q", cfg.StateDriver)
	}
}
