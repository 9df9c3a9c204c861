package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/gesturerelay/internal/bootstrap"
	"github.com/ayusman/gesturerelay/internal/config"
	"github.com/ayusman/gesturerelay/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[server]\nport = 9000\n\n[gesture]\nswipe_timeout_ms = 1500\npush_threshold = 0.3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--config", path, "--port", "7000", "--swipe-threshold", "0.25"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Port = 7000
	cfg.SwipeThreshold = 0.25
	if err := resolveConfig(cmd, &cfg); err != nil {
		t.Fatalf("resolveConfig() error = %v", err)
	}

	if cfg.Port != 7000 {
		t.Errorf("Port = %d, flag should win", cfg.Port)
	}
	if cfg.SwipeThreshold != 0.25 {
		t.Errorf("SwipeThreshold = %v, want flag value 0.25", cfg.SwipeThreshold)
	}
	if cfg.PushThreshold != 0.3 {
		t.Errorf("PushThreshold = %v, want file value 0.3", cfg.PushThreshold)
	}
	if cfg.SwipeTimeout != 1500*time.Millisecond {
		t.Errorf("SwipeTimeout = %v, want file value 1.5s", cfg.SwipeTimeout)
	}
}

func TestConfigCmd_WritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "config", "--config", path)
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("output = %q, want %q", out, path)
	}

	if _, err := config.LoadFile(path); err != nil {
		t.Errorf("written template does not load: %v", err)
	}
}

func TestRecordingsCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := bootstrap.OpenStore(dbPath)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	if err := st.Recordings().Create(&store.Recording{ID: "rec-1", Name: "wave", Source: "bridge"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	st.Close()

	out, err := execute(t, "recordings", "list", "--db-path", dbPath)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "rec-1") || !strings.Contains(out, "wave") {
		t.Errorf("list output = %q", out)
	}

	out, err = execute(t, "recordings", "show", "rec-1", "--db-path", dbPath)
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(out, "bridge") {
		t.Errorf("show output = %q", out)
	}

	if _, err := execute(t, "recordings", "delete", "rec-1", "--db-path", dbPath); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if _, err := execute(t, "recordings", "show", "rec-1", "--db-path", dbPath); err == nil {
		t.Error("show after delete should fail")
	}

	out, err = execute(t, "recordings", "list", "--db-path", dbPath)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "no recordings") {
		t.Errorf("list output = %q", out)
	}
}
