package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/fx"

	"github.com/ayusman/gesturerelay/internal/app"
	"github.com/ayusman/gesturerelay/internal/config"
	"github.com/ayusman/gesturerelay/internal/publish"
	"github.com/ayusman/gesturerelay/internal/tray"
)

const subscriberRefresh = 2 * time.Second

// WireTray connects the tray menu to the relay: toggling detection, showing
// the last gesture and subscriber count, and shutting down on quit.
func WireTray(lc fx.Lifecycle, t *tray.Tray, a *app.App, hub *publish.Hub, cfg config.Config, shutdowner fx.Shutdowner, logger *slog.Logger) {
	t.OnToggle(a.SetEnabled)
	t.OnQuit(func() {
		if err := shutdowner.Shutdown(); err != nil {
			logger.Error("failed to request shutdown", "error", err)
		}
	})
	t.OnStatus(func() {
		url := fmt.Sprintf("http://localhost:%d/api/status", cfg.Port)
		if err := openBrowser(url); err != nil {
			logger.Warn("failed to open browser", "url", url, "error", err)
		}
	})
	a.OnGesture(t.SetLastGesture)

	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(subscriberRefresh)
				defer ticker.Stop()
				for {
					select {
					case <-stop:
						return
					case <-ticker.C:
						t.SetSubscribers(hub.Count())
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			return nil
		},
	})
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

var TrayModule = fx.Options(
	fx.Provide(tray.New),
	fx.Invoke(WireTray),
)
