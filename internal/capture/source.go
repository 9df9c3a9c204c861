// Package capture provides body-tracking frame sources for the gesture relay.
package capture

import (
	"errors"

	"github.com/ayusman/gesturerelay/internal/skeleton"
)

// ErrSourceNotOpen is returned when using a source that is not open.
var ErrSourceNotOpen = errors.New("frame source is not open")

// ErrSensorUnavailable is returned by Open when the sensor cannot be opened.
var ErrSensorUnavailable = errors.New("sensor unavailable")

// FrameHandler receives frames pushed by a Source.
type FrameHandler func(skeleton.Frame)

// Source defines the interface for body-tracking frame sources.
//
// A source delivers frames from a single goroutine, so handler invocations
// never overlap. Subscribe should be called before Open; frames that arrive
// while no handler is registered are dropped.
type Source interface {
	Open() error
	Subscribe(h FrameHandler)
	Close() error
	IsOpen() bool
	Name() string
}
