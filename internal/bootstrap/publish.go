package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/ayusman/gesturerelay/internal/config"
	"github.com/ayusman/gesturerelay/internal/publish"
)

func ProvideHub(cfg config.Config, logger *slog.Logger) *publish.Hub {
	return publish.NewHub(cfg.AllowedOrigins, logger)
}

type PublisherParams struct {
	fx.In

	Config config.Config
	Hub    *publish.Hub
	Redis  *redis.Client
	Logger *slog.Logger
}

// ProvidePublisher fans gestures out to the websocket hub and, when
// configured, Redis and the command hook.
func ProvidePublisher(p PublisherParams) publish.Publisher {
	sinks := publish.Multi{p.Hub}

	if p.Redis != nil {
		sinks = append(sinks, publish.NewRedisPublisher(p.Redis, p.Config.RedisChannel, p.Logger))
	}
	if p.Config.HookCommand != "" {
		sinks = append(sinks, publish.NewCommandHook(p.Config.HookCommand, p.Config.HookArgs, p.Config.HookTimeout, p.Logger))
	}

	return sinks
}

var PublishModule = fx.Options(
	fx.Provide(
		ProvideHub,
		ProvidePublisher,
	),
)
