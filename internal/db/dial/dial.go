// Package dial opens the document store selected by configuration.
package dial

import (
	"context"
	"fmt"
	"time"

	"github.com/nebula-labs/catalog/internal/config"
	"github.com/nebula-labs/catalog/internal/db"
	"github.com/nebula-labs/catalog/internal/db/mongodb"
	"github.com/nebula-labs/catalog/internal/db/redis"
)

const connectTimeout = 10 * time.Second

// Open creates the store for dbCfg.Driver. The caller owns Close.
func Open(ctx context.Context, dbCfg config.DatabaseConfig, storage config.StorageConfig) (db.Store, error) {
	switch dbCfg.Driver {
	case config.DriverMongo, "":
		s, err := mongodb.NewStore(ctx, mongodb.Config{
			URI:            dbCfg.URI,
			Database:       dbCfg.Name,
			ConnectTimeout: connectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("mongo store: %w", err)
		}
		return s, nil
	case config.DriverRedis, config.DriverValkey:
		// Valkey speaks the Redis protocol; rueidis serves both.
		s, err := redis.NewStore(redis.Config{
			Addrs:     dbCfg.Addrs,
			Username:  dbCfg.Username,
			Password:  dbCfg.Password,
			KeyPrefix: storage.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", dbCfg.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}
}
