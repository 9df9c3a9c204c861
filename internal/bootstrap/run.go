package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/ayusman/gesturerelay/internal/config"
	"github.com/ayusman/gesturerelay/internal/tray"
)

// Options assembles the relay's dependency graph for cfg.
func Options(cfg config.Config) fx.Option {
	opts := []fx.Option{
		fx.Supply(cfg),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: logger.With("component", "fx")}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
		InfrastructureModule,
		PublishModule,
		ServerModule,
		RelayModule,
	}
	if cfg.Tray {
		opts = append(opts, TrayModule)
	}
	return fx.Options(opts...)
}

// Run starts the relay and blocks until it receives SIGINT or SIGTERM, or
// the tray asks it to quit. fx installs the signal handlers.
func Run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var t *tray.Tray
	opts := Options(cfg)
	if cfg.Tray {
		opts = fx.Options(opts, fx.Populate(&t))
	}

	fxApp := fx.New(opts)
	if err := fxApp.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), fxApp.StartTimeout())
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start relay: %w", err)
	}

	if t != nil {
		// The tray owns the main goroutine until the relay shuts down.
		go func() {
			<-fxApp.Wait()
			t.Quit()
		}()
		t.Run()
	} else {
		<-fxApp.Wait()
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), fxApp.StopTimeout())
	defer cancel()
	return fxApp.Stop(stopCtx)
}
