package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ayusman/gesturerelay/internal/gesture"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return client, mr
}

func TestRedisPublisher_Publish(t *testing.T) {
	client, mr := newTestRedis(t)
	ctx := context.Background()

	listener := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer listener.Close()

	sub := listener.Subscribe(ctx, "gesture")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}

	p := NewRedisPublisher(client, "", discardLogger())
	defer p.Close()

	if err := p.Publish(ctx, sampleEvent(gesture.HandLeft, gesture.TypeSwipeDown)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var w WireEvent
		if err := json.Unmarshal([]byte(msg.Payload), &w); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if w.Hand != "izq" || w.Type != "swipe_down" {
			t.Errorf("payload = %+v", w)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for redis message")
	}
}

func TestRedisPublisher_ServerDown(t *testing.T) {
	client, mr := newTestRedis(t)
	p := NewRedisPublisher(client, "kiosk:gestures", discardLogger())

	mr.Close()

	// Publishing never waits on the server, even past the queue size.
	start := time.Now()
	for i := 0; i < redisQueueSize*2; i++ {
		if err := p.Publish(context.Background(), sampleEvent(gesture.HandRight, gesture.TypeClick)); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Errorf("Publish() blocked for %v with redis down", elapsed)
	}

	closed := make(chan error, 1)
	go func() { closed <- p.Close() }()
	select {
	case <-closed:
	case <-time.After(redisCloseGrace + 3*time.Second):
		t.Fatal("Close() did not return")
	}
}

func TestRedisPublisher_PublishAfterClose(t *testing.T) {
	client, _ := newTestRedis(t)
	p := NewRedisPublisher(client, "", discardLogger())

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Publish(context.Background(), sampleEvent(gesture.HandLeft, gesture.TypeClick)); !errors.Is(err, ErrClosed) {
		t.Errorf("Publish() after Close error = %v, want ErrClosed", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
