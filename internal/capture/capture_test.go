package capture

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ayusman/gesturerelay/internal/skeleton"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// collect subscribes a buffered channel to src.
func collect(src Source) <-chan skeleton.Frame {
	ch := make(chan skeleton.Frame, 64)
	src.Subscribe(func(f skeleton.Frame) {
		ch <- f
	})
	return ch
}

func waitFrame(t *testing.T, ch <-chan skeleton.Frame) skeleton.Frame {
	t.Helper()
	select {
	case f := <-ch:
		return f
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for frame")
		return skeleton.Frame{}
	}
}

func waitClosed(t *testing.T, src Source) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for src.IsOpen() {
		if time.Now().After(deadline) {
			t.Fatal("source did not stop")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
