package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/gesturerelay/internal/skeleton"
	"github.com/ayusman/gesturerelay/internal/store"
)

// ErrRecordingActive is returned when Begin is called twice.
var ErrRecordingActive = errors.New("recording already in progress")

// RecordingWriter is the subset of the recording repository the recorder needs.
type RecordingWriter interface {
	Create(rec *store.Recording) error
	AppendFrame(id string, sequence int, offsetMs int64, data []byte) error
}

// Recorder persists incoming frames into a recording.
type Recorder struct {
	repo   RecordingWriter
	logger *slog.Logger

	mu       sync.Mutex
	id       string
	sequence int
	first    time.Time
}

func NewRecorder(repo RecordingWriter, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger.With("component", "recorder"),
	}
}

// Begin creates a new recording and returns its ID.
func (r *Recorder) Begin(name, source string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id != "" {
		return "", ErrRecordingActive
	}

	if name == "" {
		name = time.Now().Format("2006-01-02 15:04:05")
	}

	rec := &store.Recording{
		ID:     uuid.New().String(),
		Name:   name,
		Source: source,
	}
	if err := r.repo.Create(rec); err != nil {
		return "", fmt.Errorf("create recording: %w", err)
	}

	r.id = rec.ID
	r.sequence = 0
	r.first = time.Time{}

	r.logger.Info("recording started", "id", rec.ID, "name", name)
	return rec.ID, nil
}

// Record appends frame to the active recording. It is a no-op when no
// recording is active.
func (r *Recorder) Record(frame skeleton.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id == "" {
		return nil
	}

	if r.first.IsZero() {
		r.first = frame.Timestamp
	}
	offset := frame.Timestamp.Sub(r.first).Milliseconds()
	if offset < 0 {
		offset = 0
	}

	data, err := skeleton.EncodeFrame(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	if err := r.repo.AppendFrame(r.id, r.sequence, offset, data); err != nil {
		return fmt.Errorf("append frame %d: %w", r.sequence, err)
	}
	r.sequence++
	return nil
}

// End finishes the active recording and returns its ID.
func (r *Recorder) End() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.id
	if id != "" {
		r.logger.Info("recording finished", "id", id, "frames", r.sequence)
	}
	r.id = ""
	return id
}

// Active returns the ID of the recording in progress, if any.
func (r *Recorder) Active() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}
