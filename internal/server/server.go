// Package server provides the HTTP surface of the gesture relay.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ayusman/gesturerelay/internal/app"
	"github.com/ayusman/gesturerelay/internal/preview"
	"github.com/ayusman/gesturerelay/internal/server/api"
	"github.com/ayusman/gesturerelay/internal/store"
)

// Relay is the part of the running relay the server reports on and controls.
type Relay interface {
	Stats() app.Stats
	SetEnabled(enabled bool)
}

// Subscribers is the gesture websocket endpoint.
type Subscribers interface {
	http.Handler
	Count() int
}

// Config holds the server dependencies. Relay and Gestures are required;
// Recordings and Preview enable their routes when set.
type Config struct {
	Relay      Relay
	Gestures   Subscribers
	Recordings *store.RecordingRepository
	Preview    *preview.Renderer
	Logger     *slog.Logger
}

// Server represents the HTTP server of the relay.
type Server struct {
	config Config
	echo   *echo.Echo
	logger *slog.Logger
	start  time.Time

	mu   sync.Mutex
	addr net.Addr
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		config: config,
		echo:   e,
		logger: logger.With("component", "server"),
		start:  time.Now(),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/status", s.handleStatus)
	s.echo.PUT("/api/detection", s.handleDetection)

	if s.config.Gestures != nil {
		s.echo.GET("/gesture", echo.WrapHandler(s.config.Gestures))
	}

	if s.config.Preview != nil {
		s.echo.GET("/api/stream", echo.WrapHandler(NewStreamHandler(s.config.Preview)))
	}

	if s.config.Recordings != nil {
		h := api.NewRecordingHandler(s.config.Recordings, s.logger.With("handler", "recordings"))
		h.RegisterRoutes(s.echo.Group("/api/recordings"))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Echo returns the underlying router.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

type statusResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	Relay       app.Stats `json:"relay"`
	Subscribers int       `json:"subscribers"`
}

func (s *Server) handleStatus(c echo.Context) error {
	resp := statusResponse{
		Status: "ok",
		Uptime: time.Since(s.start).String(),
		Relay:  s.config.Relay.Stats(),
	}
	if s.config.Gestures != nil {
		resp.Subscribers = s.config.Gestures.Count()
	}
	if !resp.Relay.SourceOpen {
		resp.Status = "degraded"
	}
	return c.JSON(http.StatusOK, resp)
}

type detectionRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleDetection(c echo.Context) error {
	var req detectionRequest
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return api.BadRequest("invalid_request", "body must be {\"enabled\": true|false}")
	}

	s.config.Relay.SetEnabled(*req.Enabled)
	return c.JSON(http.StatusOK, map[string]bool{"enabled": *req.Enabled})
}

// Start listens on addr and serves until Shutdown. It returns once the
// listener is bound.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.echo.Listener = ln

	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound listen address once Start succeeded.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Close immediately closes the listener and every open connection.
func (s *Server) Close() error {
	return s.echo.Close()
}
