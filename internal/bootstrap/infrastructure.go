package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/ayusman/gesturerelay/internal/config"
	"github.com/ayusman/gesturerelay/internal/store"
)

// redisTimeout keeps a missing Redis server from stalling gesture delivery.
const redisTimeout = 500 * time.Millisecond

// ProvideStore opens the recordings database. It returns nil when no
// database path is configured.
func ProvideStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*store.Store, error) {
	if cfg.DBPath == "" {
		return nil, nil
	}

	st, err := OpenStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	logger.Info("store opened", "path", st.Path())
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return st.Close()
		},
	})
	return st, nil
}

// OpenStore opens the database at path, creating its directory if needed.
func OpenStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func ProvideRecordings(st *store.Store) *store.RecordingRepository {
	if st == nil {
		return nil
	}
	return st.Recordings()
}

// ProvideRedisClient returns nil when no Redis address is configured.
func ProvideRedisClient(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  redisTimeout,
		WriteTimeout: redisTimeout,
		ReadTimeout:  redisTimeout,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unreachable, gestures will not be republished until it is", "addr", cfg.RedisAddr, "error", err)
				return nil
			}
			logger.Info("redis connected", "addr", cfg.RedisAddr, "channel", cfg.RedisChannel)
			return nil
		},
	})
	return client
}

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideStore,
		ProvideRecordings,
		ProvideRedisClient,
	),
)
