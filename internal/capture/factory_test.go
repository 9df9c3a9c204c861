package capture

import (
	"errors"
	"testing"

	"github.com/ayusman/gesturerelay/internal/config"
)

func TestNewSource(t *testing.T) {
	repo := newTestRepo(t)

	tests := []struct {
		name     string
		modify   func(*config.Config)
		repo     RecordingReader
		wantName string
		wantErr  error
	}{
		{
			name:     "bridge",
			modify:   func(c *config.Config) {},
			wantName: "bridge",
		},
		{
			name: "replay",
			modify: func(c *config.Config) {
				c.Source = config.SourceReplay
				c.ReplayRecording = "rec-1"
			},
			repo:     repo,
			wantName: "replay",
		},
		{
			name:    "unknown",
			modify:  func(c *config.Config) { c.Source = "webcam" },
			wantErr: ErrUnknownSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.modify(&cfg)

			src, err := NewSource(cfg, tt.repo, discardLogger())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewSource() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSource() error = %v", err)
			}
			if src.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", src.Name(), tt.wantName)
			}
		})
	}
}

func TestNewSource_ReplayWithoutStore(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source = config.SourceReplay
	cfg.ReplayRecording = "rec-1"

	if _, err := NewSource(cfg, nil, discardLogger()); err == nil {
		t.Error("NewSource() should fail without a recording store")
	}
}
