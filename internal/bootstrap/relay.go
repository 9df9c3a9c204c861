package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/ayusman/gesturerelay/internal/app"
	"github.com/ayusman/gesturerelay/internal/capture"
	"github.com/ayusman/gesturerelay/internal/config"
	"github.com/ayusman/gesturerelay/internal/gesture"
	"github.com/ayusman/gesturerelay/internal/preview"
	"github.com/ayusman/gesturerelay/internal/publish"
	"github.com/ayusman/gesturerelay/internal/store"
)

func ProvideDetector(cfg config.Config) *gesture.Detector {
	return gesture.NewDetector(cfg.Gesture())
}

func ProvideSource(cfg config.Config, recordings *store.RecordingRepository, logger *slog.Logger) (capture.Source, error) {
	// A nil repository must reach NewSource as a nil interface.
	var reader capture.RecordingReader
	if recordings != nil {
		reader = recordings
	}
	return capture.NewSource(cfg, reader, logger)
}

// ProvideRecorder returns nil unless recording is enabled.
func ProvideRecorder(cfg config.Config, recordings *store.RecordingRepository, logger *slog.Logger) *capture.Recorder {
	if !cfg.Record || recordings == nil {
		return nil
	}
	return capture.NewRecorder(recordings, logger)
}

// ProvidePreview returns nil unless the preview stream is enabled.
func ProvidePreview(cfg config.Config) *preview.Renderer {
	if !cfg.Preview {
		return nil
	}
	return preview.NewRenderer()
}

type AppParams struct {
	fx.In

	Source    capture.Source
	Detector  *gesture.Detector
	Publisher publish.Publisher
	Recorder  *capture.Recorder
	Preview   *preview.Renderer
	Logger    *slog.Logger
}

func ProvideApp(p AppParams) *app.App {
	return app.New(app.Config{
		Source:    p.Source,
		Detector:  p.Detector,
		Publisher: p.Publisher,
		Recorder:  p.Recorder,
		Preview:   p.Preview,
		Logger:    p.Logger,
	})
}

// StartRelay opens the frame source on start and releases it on stop. A
// source that cannot be opened aborts startup.
func StartRelay(lc fx.Lifecycle, a *app.App) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return a.Start()
		},
		OnStop: func(ctx context.Context) error {
			a.Stop()
			return nil
		},
	})
}

var RelayModule = fx.Options(
	fx.Provide(
		ProvideDetector,
		ProvideSource,
		ProvideRecorder,
		ProvidePreview,
		ProvideApp,
	),
	fx.Invoke(StartRelay),
)
