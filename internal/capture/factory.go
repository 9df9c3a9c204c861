package capture

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ayusman/gesturerelay/internal/config"
)

// ErrUnknownSource is returned for a source kind the relay does not support.
var ErrUnknownSource = errors.New("unknown frame source")

// NewSource builds the frame source selected by cfg. recordings is only
// needed for replay and may be nil otherwise.
func NewSource(cfg config.Config, recordings RecordingReader, logger *slog.Logger) (Source, error) {
	switch cfg.Source {
	case config.SourceBridge:
		return NewBridgeSource(cfg.BridgeCommand, cfg.BridgeArgs, logger), nil
	case config.SourceReplay:
		if recordings == nil {
			return nil, errors.New("replay source requires a recording store")
		}
		return NewReplaySource(recordings, cfg.ReplayRecording, cfg.ReplaySpeed, cfg.ReplayLoop, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}
