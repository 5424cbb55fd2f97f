// Package app arma las dependencias compartidas por los binarios.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"devauth/internal/config"
	"devauth/internal/db"
	"devauth/internal/repository"
)

// Directory es el directorio de usuarios ya conectado más su función de cierre.
type Directory struct {
	Users repository.UserRepository
	Close func()
}

// OpenDirectory conecta el backend indicado por USER_STORE.
func OpenDirectory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Directory, error) {
	switch cfg.UserStore {
	case config.UserStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(ctxPing).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		logger.Info("user directory ready", zap.String("store", "redis"), zap.String("addr", cfg.RedisAddr))
		return &Directory{
			Users: repository.NewRedisUserRepository(client),
			Close: func() { _ = client.Close() },
		}, nil

	case config.UserStorePostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("db ping: %w", err)
		}
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		logger.Info("user directory ready", zap.String("store", "postgres"))
		return &Directory{
			Users: repository.NewPgUserRepository(pool),
			Close: pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown user store %q", cfg.UserStore)
}
