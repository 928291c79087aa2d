package app

import (
	"context"
	"fmt"

	"github.com/Noyllopa/LiquidNewtab/internal/config"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/kv/memory"
	"github.com/Noyllopa/LiquidNewtab/internal/kv/redisstore"
	"github.com/Noyllopa/LiquidNewtab/internal/kv/sqlitestore"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
	"github.com/Noyllopa/LiquidNewtab/internal/redis"
)

// OpenStore connects the backend selected by cfg.StoreBackend and fails
// fast when it is unreachable.
func OpenStore(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (kv.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully",
			logger.String("keyspace", cfg.RedisKeyspace))
		return redisstore.NewStore(client, cfg.RedisKeyspace), nil

	case config.BackendSQLite:
		db, err := sqlitestore.Open(ctx, cfg.SQLitePath, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		loggerClient.Info("SQLite initialized successfully",
			logger.String("path", cfg.SQLitePath))
		return sqlitestore.NewStore(db), nil

	case config.BackendMemory:
		loggerClient.Warn("memory store selected, state is lost on restart",
			logger.Int("quota", cfg.MemoryQuota))
		return memory.New(memory.WithQuota(cfg.MemoryQuota)), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
