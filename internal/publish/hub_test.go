package publish

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/gesturerelay/internal/gesture"
)

func newTestHub(t *testing.T, origins ...string) (*Hub, string) {
	t.Helper()
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	hub := NewHub(origins, discardLogger())
	ts := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
	})

	return hub, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Count() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Count() = %d, want %d", hub.Count(), want)
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return env
}

func TestHub_Broadcast(t *testing.T) {
	hub, url := newTestHub(t)

	a := dial(t, url)
	b := dial(t, url)
	waitForCount(t, hub, 2)

	event := sampleEvent(gesture.HandLeft, gesture.TypeSwipeLeft)
	if err := hub.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		env := readEnvelope(t, conn)
		if env.Event != "gesture" {
			t.Errorf("Event = %q, want gesture", env.Event)
		}
		if env.Data.Hand != "izq" || env.Data.Type != "swipe_left" {
			t.Errorf("Data = %+v", env.Data)
		}
		if env.Data.Timestamp != event.Timestamp.UnixMilli() {
			t.Errorf("Timestamp = %d, want %d", env.Data.Timestamp, event.Timestamp.UnixMilli())
		}
	}
}

func TestHub_NoReplayForLateSubscribers(t *testing.T) {
	hub, url := newTestHub(t)

	if err := hub.Publish(context.Background(), sampleEvent(gesture.HandRight, gesture.TypeClick)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	conn := dial(t, url)
	waitForCount(t, hub, 1)

	if err := hub.Publish(context.Background(), sampleEvent(gesture.HandRight, gesture.TypeSwipeUp)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	env := readEnvelope(t, conn)
	if env.Data.Type != "swipe_up" {
		t.Errorf("first event = %s, want swipe_up", env.Data.Type)
	}
}

func TestHub_DisconnectIsolated(t *testing.T) {
	hub, url := newTestHub(t)

	gone := dial(t, url)
	stays := dial(t, url)
	waitForCount(t, hub, 2)

	gone.Close()
	waitForCount(t, hub, 1)

	if err := hub.Publish(context.Background(), sampleEvent(gesture.HandRight, gesture.TypeHandOpen)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	env := readEnvelope(t, stays)
	if env.Data.Type != "hand_open" {
		t.Errorf("Type = %s, want hand_open", env.Data.Type)
	}
}

func TestHub_OriginCheck(t *testing.T) {
	_, url := newTestHub(t, "http://kiosk.local")

	t.Run("allowed origin", func(t *testing.T) {
		header := http.Header{"Origin": []string{"http://KIOSK.local"}}
		conn, _, err := websocket.DefaultDialer.Dial(url, header)
		if err != nil {
			t.Fatalf("Dial() error = %v", err)
		}
		conn.Close()
	})

	t.Run("rejected origin", func(t *testing.T) {
		header := http.Header{"Origin": []string{"http://elsewhere.example"}}
		_, resp, err := websocket.DefaultDialer.Dial(url, header)
		if err == nil {
			t.Fatal("expected dial to fail")
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403 response, got %v", resp)
		}
	})

	t.Run("no origin header", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("Dial() error = %v", err)
		}
		conn.Close()
	})
}

func TestHub_Close(t *testing.T) {
	hub, url := newTestHub(t)

	conn := dial(t, url)
	waitForCount(t, hub, 1)

	if err := hub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected subscriber connection to be closed")
	}

	if hub.Count() != 0 {
		t.Errorf("Count() = %d after Close, want 0", hub.Count())
	}

	if err := hub.Publish(context.Background(), sampleEvent(gesture.HandLeft, gesture.TypeClick)); err != ErrClosed {
		t.Errorf("Publish() after Close error = %v, want ErrClosed", err)
	}

	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Error("expected new connections to be refused after Close")
	}

	if err := hub.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
