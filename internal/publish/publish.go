// Package publish delivers detected gestures to subscribers.
package publish

import (
	"context"
	"errors"

	"github.com/ayusman/gesturerelay/internal/gesture"
)

// Channel is the event name gestures are published under.
const Channel = "gesture"

// Publisher delivers gesture events. Delivery is fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, e gesture.Event) error
	Close() error
}

// WireEvent is the JSON shape subscribers receive.
type WireEvent struct {
	Hand        string        `json:"hand"`
	Type        string        `json:"type"`
	Coordinates gesture.Point `json:"coordinates"`
	Timestamp   int64         `json:"timestamp"`
}

// NewWireEvent converts an event to its wire form. Hands are labelled
// "izq" and "der" for the front-end clients.
func NewWireEvent(e gesture.Event) WireEvent {
	return WireEvent{
		Hand:        HandLabel(e.Hand),
		Type:        string(e.Type),
		Coordinates: e.Coordinates,
		Timestamp:   e.Timestamp.UnixMilli(),
	}
}

// HandLabel maps a hand to its wire label.
func HandLabel(h gesture.Hand) string {
	if h == gesture.HandLeft {
		return "izq"
	}
	return "der"
}

// Multi fans an event out to several publishers. A failing publisher does
// not prevent delivery to the others.
type Multi []Publisher

// Publish sends e to every publisher and joins their errors.
func (m Multi) Publish(ctx context.Context, e gesture.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher.
func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
