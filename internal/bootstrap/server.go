package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/ayusman/gesturerelay/internal/app"
	"github.com/ayusman/gesturerelay/internal/config"
	"github.com/ayusman/gesturerelay/internal/preview"
	"github.com/ayusman/gesturerelay/internal/publish"
	"github.com/ayusman/gesturerelay/internal/server"
	"github.com/ayusman/gesturerelay/internal/store"
)

type ServerParams struct {
	fx.In

	App        *app.App
	Hub        *publish.Hub
	Recordings *store.RecordingRepository
	Preview    *preview.Renderer
	Logger     *slog.Logger
}

func ProvideServer(p ServerParams) *server.Server {
	return server.New(server.Config{
		Relay:      p.App,
		Gestures:   p.Hub,
		Recordings: p.Recordings,
		Preview:    p.Preview,
		Logger:     p.Logger,
	})
}

// shutdownTimeout bounds the graceful drain; preview streams never finish
// on their own and are cut after it.
const shutdownTimeout = 3 * time.Second

// StartServer binds the listener on start. It is invoked before StartRelay,
// so on stop the relay and its websocket hub close first.
func StartServer(lc fx.Lifecycle, srv *server.Server, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start(cfg.Addr())
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return srv.Close()
			}
			return nil
		},
	})
}

var ServerModule = fx.Options(
	fx.Provide(ProvideServer),
	fx.Invoke(StartServer),
)
