package repository

import (
	"context"
	"fmt"

	"skillswap/internal/domain/repository"
	"skillswap/pkg/config"
	"skillswap/pkg/logger"
)

// NewRecordStore picks the backend named by STORE_DRIVER.
func NewRecordStore(ctx context.Context, cfg *config.Config) (repository.RecordStore, error) {
	logger.Info("Using %s record store", cfg.StoreDriver)

	switch cfg.StoreDriver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "sqlite":
		return NewSQLStore(ctx, DriverSQLite, cfg.DatabaseURL)
	case "postgres":
		return NewSQLStore(ctx, DriverPostgres, cfg.DatabaseURL)
	case "firestore":
		if cfg.FirebaseProject == "" {
			return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore store")
		}
		return NewFirestoreStore(ctx, cfg.FirebaseProject, cfg.ServiceAccountPath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
