// Package app wires a frame source through body selection and gesture
// detection to the event publishers.
package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ayusman/gesturerelay/internal/capture"
	"github.com/ayusman/gesturerelay/internal/gesture"
	"github.com/ayusman/gesturerelay/internal/preview"
	"github.com/ayusman/gesturerelay/internal/publish"
)

// Config holds the components the App orchestrates. Recorder and Preview are
// optional.
type Config struct {
	Source    capture.Source
	Detector  *gesture.Detector
	Publisher publish.Publisher
	Recorder  *capture.Recorder
	Preview   *preview.Renderer
	Logger    *slog.Logger
}

// GestureCallback is invoked for every published gesture.
type GestureCallback func(gesture.Event)

// Stats is a snapshot of the relay counters.
type Stats struct {
	Enabled           bool                    `json:"enabled"`
	Source            string                  `json:"source"`
	SourceOpen        bool                    `json:"source_open"`
	FramesReceived    uint64                  `json:"frames_received"`
	FramesSelected    uint64                  `json:"frames_selected"`
	GesturesPublished uint64                  `json:"gestures_published"`
	PublishErrors     uint64                  `json:"publish_errors"`
	Gestures          map[gesture.Type]uint64 `json:"gestures"`
	Recording         string                  `json:"recording,omitempty"`
}

// App is the running relay.
type App struct {
	source    capture.Source
	detector  *gesture.Detector
	publisher publish.Publisher
	recorder  *capture.Recorder
	preview   *preview.Renderer
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	enabled   bool
	running   bool
	callbacks []GestureCallback
	last      *gesture.Event

	framesReceived    atomic.Uint64
	framesSelected    atomic.Uint64
	gesturesPublished atomic.Uint64
	publishErrors     atomic.Uint64
}

// New creates an App. Detection starts enabled.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	detector := cfg.Detector
	if detector == nil {
		detector = gesture.NewDetector(gesture.DefaultConfig())
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		source:    cfg.Source,
		detector:  detector,
		publisher: cfg.Publisher,
		recorder:  cfg.Recorder,
		preview:   cfg.Preview,
		logger:    logger.With("component", "app"),
		ctx:       ctx,
		cancel:    cancel,
		enabled:   true,
	}
}

// SetEnabled enables or disables gesture detection. Disabled frames are
// still counted and recorded but never reach the detector.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled != enabled {
		a.logger.Info("detection toggled", "enabled", enabled)
	}
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnGesture registers a callback for published gestures.
func (a *App) OnGesture(cb GestureCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, cb)
}

// LastGesture returns the most recently published gesture.
func (a *App) LastGesture() (gesture.Event, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.last == nil {
		return gesture.Event{}, false
	}
	return *a.last, true
}

// Start registers the frame handler with the source and opens it.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}

	a.source.Subscribe(a.handleFrame)

	if a.recorder != nil {
		if _, err := a.recorder.Begin("", a.source.Name()); err != nil {
			return err
		}
	}

	if err := a.source.Open(); err != nil {
		if a.recorder != nil {
			a.recorder.End()
		}
		return err
	}

	a.running = true
	a.logger.Info("relay started", "source", a.source.Name())
	return nil
}

// Stop closes the source, finishes any recording and closes the publishers.
func (a *App) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.mu.Unlock()

	// The source may be blocked delivering a frame, so it is closed without
	// holding the lock.
	if err := a.source.Close(); err != nil {
		a.logger.Error("failed to close source", "error", err)
	}
	a.cancel()

	if a.recorder != nil {
		a.recorder.End()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close publisher", "error", err)
		}
	}

	a.logger.Info("relay stopped",
		"frames", a.framesReceived.Load(),
		"gestures", a.gesturesPublished.Load(),
	)
}

// Stats returns a snapshot of the relay counters.
func (a *App) Stats() Stats {
	s := Stats{
		Enabled:           a.IsEnabled(),
		Source:            a.source.Name(),
		SourceOpen:        a.source.IsOpen(),
		FramesReceived:    a.framesReceived.Load(),
		FramesSelected:    a.framesSelected.Load(),
		GesturesPublished: a.gesturesPublished.Load(),
		PublishErrors:     a.publishErrors.Load(),
		Gestures:          a.detector.Counts(),
	}
	if a.recorder != nil {
		s.Recording = a.recorder.Active()
	}
	return s
}

// Detector returns the gesture detector.
func (a *App) Detector() *gesture.Detector {
	return a.detector
}

// Source returns the frame source.
func (a *App) Source() capture.Source {
	return a.source
}
