package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-backend/pkg/config"
	"github.com/angelmondragon/warehouse-backend/pkg/db"
	"github.com/angelmondragon/warehouse-backend/pkg/docstore"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/migrate"
	"github.com/angelmondragon/warehouse-backend/pkg/redis"
)

// openDocstore returns the document store selected by WAREHOUSE_STORAGE_DRIVER.
func openDocstore(ctx context.Context, cfg *config.Config, logg *logger.Logger, redisClient *redis.Client) (docstore.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverFS:
		return docstore.NewFS(cfg.Storage.Dir)

	case config.StorageDriverRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis storage driver needs %s or %s", config.EnvRedisURL, config.EnvRedisAddr)
		}
		return docstore.NewRedis(redisClient), nil

	case config.StorageDriverSQL:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		if cfg.DB.AutoMigrate {
			sqlDB, err := dbClient.DB().DB()
			if err != nil {
				_ = dbClient.Close()
				return nil, err
			}
			if err := migrate.Up(ctx, sqlDB, dbClient.Dialect()); err != nil {
				_ = dbClient.Close()
				return nil, err
			}
			logg.Info(ctx, "documents schema up to date")
		}
		return docstore.NewSQL(dbClient), nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
