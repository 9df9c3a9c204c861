package capture

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/gesturerelay/internal/skeleton"
	"github.com/ayusman/gesturerelay/internal/store"
)

func newTestRepo(t *testing.T) *store.RecordingRepository {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s.Recordings()
}

// recordFrames stores n frames 10ms apart and returns the recording ID.
func recordFrames(t *testing.T, repo *store.RecordingRepository, n int) string {
	t.Helper()

	rec := NewRecorder(repo, discardLogger())
	id, err := rec.Begin("test", "mock")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	start := time.UnixMilli(1700000000000)
	for i := 0; i < n; i++ {
		frame := skeleton.Frame{
			Timestamp: start.Add(time.Duration(i) * 10 * time.Millisecond),
			Bodies:    []skeleton.Body{skeleton.StandingBody(uint64(i+1), 2.0)},
		}
		if err := rec.Record(frame); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	rec.End()

	return id
}

func TestReplaySource_PlaysInOrder(t *testing.T) {
	repo := newTestRepo(t)
	id := recordFrames(t, repo, 3)

	src := NewReplaySource(repo, id, 10, false, discardLogger())
	frames := collect(src)

	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	for i := 1; i <= 3; i++ {
		f := waitFrame(t, frames)
		if len(f.Bodies) != 1 || f.Bodies[0].TrackingID != uint64(i) {
			t.Fatalf("frame %d bodies = %+v", i, f.Bodies)
		}
		if time.Since(f.Timestamp) > time.Minute {
			t.Errorf("frame %d should be restamped, got %v", i, f.Timestamp)
		}
	}

	waitClosed(t, src)
}

func TestReplaySource_Loop(t *testing.T) {
	repo := newTestRepo(t)
	id := recordFrames(t, repo, 2)

	src := NewReplaySource(repo, id, 10, true, discardLogger())
	frames := collect(src)

	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		waitFrame(t, frames)
	}

	if !src.IsOpen() {
		t.Error("looping replay should still be open")
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if src.IsOpen() {
		t.Error("IsOpen() = true after Close")
	}
}

func TestReplaySource_ConcurrentClose(t *testing.T) {
	repo := newTestRepo(t)
	id := recordFrames(t, repo, 2)

	src := NewReplaySource(repo, id, 10, true, discardLogger())
	src.Subscribe(func(skeleton.Frame) {})

	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := src.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if src.IsOpen() {
		t.Error("IsOpen() = true after Close")
	}

	// The source can be reopened after a concurrent shutdown.
	if err := src.Open(); err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() after reopen error = %v", err)
	}
}

func TestReplaySource_Errors(t *testing.T) {
	repo := newTestRepo(t)

	src := NewReplaySource(repo, "missing", 1, false, discardLogger())
	if err := src.Open(); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Open() missing recording error = %v, want %v", err, store.ErrNotFound)
	}

	empty := &store.Recording{ID: "empty", Name: "empty", Source: "mock"}
	if err := repo.Create(empty); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	src = NewReplaySource(repo, "empty", 1, false, discardLogger())
	if err := src.Open(); !errors.Is(err, ErrEmptyRecording) {
		t.Errorf("Open() empty recording error = %v, want %v", err, ErrEmptyRecording)
	}
}
