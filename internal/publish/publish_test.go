package publish

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ayusman/gesturerelay/internal/gesture"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent(hand gesture.Hand, typ gesture.Type) gesture.Event {
	return gesture.Event{
		Hand:        hand,
		Type:        typ,
		Coordinates: gesture.Point{X: 0.25, Y: 0, Z: 0.5},
		Timestamp:   time.UnixMilli(1700000000500),
	}
}

func TestNewWireEvent(t *testing.T) {
	tests := []struct {
		hand gesture.Hand
		want string
	}{
		{hand: gesture.HandLeft, want: "izq"},
		{hand: gesture.HandRight, want: "der"},
	}

	for _, tt := range tests {
		t.Run(string(tt.hand), func(t *testing.T) {
			w := NewWireEvent(sampleEvent(tt.hand, gesture.TypeSwipeRight))
			if w.Hand != tt.want {
				t.Errorf("Hand = %q, want %q", w.Hand, tt.want)
			}
		})
	}

	t.Run("json shape", func(t *testing.T) {
		data, err := json.Marshal(NewWireEvent(sampleEvent(gesture.HandRight, gesture.TypeClick)))
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		want := `{"hand":"der","type":"click","coordinates":{"x":0.25,"y":0,"z":0.5},"timestamp":1700000000500}`
		if string(data) != want {
			t.Errorf("json = %s\nwant   %s", data, want)
		}
	})
}

type recordingPublisher struct {
	events []gesture.Event
	err    error
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, e gesture.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return p.err
}

func TestMulti(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("boom")}
	healthy := &recordingPublisher{}
	m := Multi{failing, healthy}

	err := m.Publish(context.Background(), sampleEvent(gesture.HandLeft, gesture.TypeSwipeUp))
	if err == nil {
		t.Error("expected joined error from failing publisher")
	}
	if len(healthy.events) != 1 {
		t.Errorf("healthy publisher got %d events, want 1", len(healthy.events))
	}

	if err := m.Close(); err == nil {
		t.Error("expected Close() to report the failing publisher")
	}
	if !failing.closed || !healthy.closed {
		t.Error("Close() should close every publisher")
	}

	if err := (Multi{}).Publish(context.Background(), gesture.Event{}); err != nil {
		t.Errorf("empty Multi Publish() error = %v", err)
	}
}
