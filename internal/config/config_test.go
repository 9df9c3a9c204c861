package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.SwipeThreshold != 0.20 || cfg.PushThreshold != 0.20 {
		t.Errorf("thresholds = %v/%v, want 0.20/0.20", cfg.SwipeThreshold, cfg.PushThreshold)
	}
	if cfg.SwipeTimeout != 2*time.Second {
		t.Errorf("SwipeTimeout = %v, want 2s", cfg.SwipeTimeout)
	}
	if cfg.PushMaxDistance != 1.0 {
		t.Errorf("PushMaxDistance = %v, want 1.0", cfg.PushMaxDistance)
	}
	if cfg.RedisChannel != "gesture" {
		t.Errorf("RedisChannel = %q, want gesture", cfg.RedisChannel)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
	if cfg.Addr() != ":8000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}

	g := cfg.Gesture()
	if g.SwipeTimeout != cfg.SwipeTimeout || g.ResetOnHandoff {
		t.Errorf("Gesture() = %+v", g)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.Port = 0 }, "port"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "port"},
		{"negative swipe threshold", func(c *Config) { c.SwipeThreshold = -1 }, "swipe threshold"},
		{"zero push threshold", func(c *Config) { c.PushThreshold = 0 }, "push threshold"},
		{"zero timeout", func(c *Config) { c.SwipeTimeout = 0 }, "swipe timeout"},
		{"unknown source", func(c *Config) { c.Source = "webcam" }, "unknown source"},
		{"empty bridge command", func(c *Config) { c.BridgeCommand = " " }, "bridge command"},
		{"replay without recording", func(c *Config) { c.Source = SourceReplay }, "recording id"},
		{"replay zero speed", func(c *Config) {
			c.Source = SourceReplay
			c.ReplayRecording = "abc"
			c.ReplaySpeed = 0
		}, "replay speed"},
		{"record without db", func(c *Config) {
			c.Record = true
			c.DBPath = ""
		}, "database path"},
		{"hook without timeout", func(c *Config) {
			c.HookCommand = "notify"
			c.HookTimeout = 0
		}, "hook timeout"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "log level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Server.Port != nil {
		t.Error("missing file should leave values unset")
	}

	if _, err := LoadFile(""); err == nil {
		t.Error("LoadFile(\"\") should fail")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile_Apply(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000
allowed_origins = ["http://localhost:3000"]

[gesture]
swipe_threshold = 0.3
swipe_timeout_ms = 1500
reset_on_handoff = true

[source]
kind = "replay"
replay_recording = "rec-1"

[redis]
addr = "localhost:6379"

[hook]
command = "notify-send"
timeout_ms = 250

[log]
level = "debug"
`)

	file, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	cfg := DefaultConfig()
	cfg.Port = 7000
	changed := func(flag string) bool { return flag == "port" }
	file.Apply(&cfg, changed)

	if cfg.Port != 7000 {
		t.Errorf("Port = %d, changed flag should win over file", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.SwipeThreshold != 0.3 {
		t.Errorf("SwipeThreshold = %v, want 0.3", cfg.SwipeThreshold)
	}
	if cfg.PushThreshold != 0.20 {
		t.Errorf("PushThreshold = %v, unset key should keep default", cfg.PushThreshold)
	}
	if cfg.SwipeTimeout != 1500*time.Millisecond {
		t.Errorf("SwipeTimeout = %v, want 1.5s", cfg.SwipeTimeout)
	}
	if !cfg.ResetOnHandoff {
		t.Error("ResetOnHandoff should be true")
	}
	if cfg.Source != SourceReplay || cfg.ReplayRecording != "rec-1" {
		t.Errorf("source = %q/%q", cfg.Source, cfg.ReplayRecording)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisChannel != "gesture" {
		t.Errorf("redis = %q/%q", cfg.RedisAddr, cfg.RedisChannel)
	}
	if cfg.HookCommand != "notify-send" || cfg.HookTimeout != 250*time.Millisecond {
		t.Errorf("hook = %q/%v", cfg.HookCommand, cfg.HookTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFile_UnknownKey(t *testing.T) {
	path := writeConfig(t, "[server]\nprot = 9000\n")

	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "server.prot") {
		t.Errorf("LoadFile() error = %v, want unknown key server.prot", err)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := writeConfig(t, "[server\nport = ")

	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() should fail on malformed TOML")
	}
}

func TestDefaultTemplate_Decodes(t *testing.T) {
	path := writeConfig(t, DefaultTemplate())

	file, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(DefaultTemplate) error = %v", err)
	}

	cfg := DefaultConfig()
	file.Apply(&cfg, nil)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Port != 8000 || cfg.SwipeTimeout != 2*time.Second || cfg.Source != SourceBridge {
		t.Errorf("template values = %+v", cfg)
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "gesturerelay", "config.toml") {
		t.Errorf("DefaultConfigPath() = %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "gesturerelay", "gesturerelay.db") {
		t.Errorf("DefaultDBPath() = %q", got)
	}
}
