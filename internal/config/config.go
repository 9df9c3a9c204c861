// Package config holds the relay settings, their defaults and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayusman/gesturerelay/internal/gesture"
)

// Source kinds.
const (
	SourceBridge = "bridge"
	SourceReplay = "replay"
)

// DefaultRedisChannel is the Redis channel gestures are published on.
const DefaultRedisChannel = "gesture"

// Config is the fully resolved relay configuration.
type Config struct {
	Port           int
	AllowedOrigins []string

	SwipeThreshold  float64
	PushThreshold   float64
	SwipeTimeout    time.Duration
	PushMaxDistance float64
	ResetOnHandoff  bool

	Source          string
	BridgeCommand   string
	BridgeArgs      []string
	ReplayRecording string
	ReplayLoop      bool
	ReplaySpeed     float64
	Record          bool

	DBPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	HookCommand string
	HookArgs    []string
	HookTimeout time.Duration

	Preview bool
	Tray    bool

	LogLevel  string
	LogFormat string
}

// DefaultConfig returns the configuration the relay starts with when nothing
// is overridden.
func DefaultConfig() Config {
	g := gesture.DefaultConfig()
	return Config{
		Port:           8000,
		AllowedOrigins: []string{"*"},

		SwipeThreshold:  g.SwipeThreshold,
		PushThreshold:   g.PushThreshold,
		SwipeTimeout:    g.SwipeTimeout,
		PushMaxDistance: g.PushMaxDistance,
		ResetOnHandoff:  g.ResetOnHandoff,

		Source:        SourceBridge,
		BridgeCommand: "kinect-bridge",
		ReplaySpeed:   1.0,

		DBPath: DefaultDBPath(),

		RedisChannel: DefaultRedisChannel,
		HookTimeout:  5 * time.Second,

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Gesture returns the detector settings.
func (c Config) Gesture() gesture.Config {
	return gesture.Config{
		SwipeThreshold:  c.SwipeThreshold,
		PushThreshold:   c.PushThreshold,
		SwipeTimeout:    c.SwipeTimeout,
		PushMaxDistance: c.PushMaxDistance,
		ResetOnHandoff:  c.ResetOnHandoff,
	}
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate rejects settings the relay cannot run with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if err := c.Gesture().Validate(); err != nil {
		return err
	}

	switch c.Source {
	case SourceBridge:
		if strings.TrimSpace(c.BridgeCommand) == "" {
			return errors.New("bridge source requires a bridge command")
		}
	case SourceReplay:
		if c.ReplayRecording == "" {
			return errors.New("replay source requires a recording id")
		}
		if c.DBPath == "" {
			return errors.New("replay source requires a database path")
		}
		if c.ReplaySpeed <= 0 {
			return errors.New("replay speed must be positive")
		}
	default:
		return fmt.Errorf("unknown source %q (want %s or %s)", c.Source, SourceBridge, SourceReplay)
	}

	if c.Record && c.DBPath == "" {
		return errors.New("recording requires a database path")
	}
	if c.HookCommand != "" && c.HookTimeout <= 0 {
		return errors.New("hook timeout must be positive")
	}
	if c.RedisAddr != "" && c.RedisChannel == "" {
		return errors.New("redis channel must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}

	return nil
}
