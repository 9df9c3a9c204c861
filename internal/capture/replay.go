package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/gesturerelay/internal/skeleton"
	"github.com/ayusman/gesturerelay/internal/store"
)

// ErrEmptyRecording is returned when replaying a recording with no frames.
var ErrEmptyRecording = errors.New("recording has no frames")

// RecordingReader is the subset of the recording repository replay needs.
type RecordingReader interface {
	GetByID(id string) (*store.Recording, error)
	Frames(id string) ([]store.RecordedFrame, error)
}

type replayFrame struct {
	offset time.Duration
	frame  skeleton.Frame
}

// ReplaySource plays a stored recording back with its original pacing.
type ReplaySource struct {
	repo   RecordingReader
	id     string
	speed  float64
	loop   bool
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	hmu     sync.RWMutex
	handler FrameHandler
}

// NewReplaySource creates a replay of recording id. A speed of 2 plays twice
// as fast; non-positive speeds are treated as 1.
func NewReplaySource(repo RecordingReader, id string, speed float64, loop bool, logger *slog.Logger) *ReplaySource {
	if speed <= 0 {
		speed = 1
	}
	return &ReplaySource{
		repo:   repo,
		id:     id,
		speed:  speed,
		loop:   loop,
		logger: logger.With("component", "replay", "recording", id),
	}
}

func (s *ReplaySource) Name() string {
	return "replay"
}

func (s *ReplaySource) Subscribe(h FrameHandler) {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	s.handler = h
}

// Open loads the recording and starts playback.
func (s *ReplaySource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if _, err := s.repo.GetByID(s.id); err != nil {
		return fmt.Errorf("load recording %s: %w", s.id, err)
	}

	stored, err := s.repo.Frames(s.id)
	if err != nil {
		return fmt.Errorf("load frames for %s: %w", s.id, err)
	}
	if len(stored) == 0 {
		return ErrEmptyRecording
	}

	frames := make([]replayFrame, 0, len(stored))
	for _, rf := range stored {
		frame, err := skeleton.DecodeFrame(rf.Data)
		if err != nil {
			return fmt.Errorf("decode frame %d: %w", rf.Sequence, err)
		}
		offset := time.Duration(float64(rf.OffsetMs)*float64(time.Millisecond)/s.speed)
		frames = append(frames, replayFrame{offset: offset, frame: frame})
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true

	go s.play(frames, s.stop, s.done)

	s.logger.Info("replay started", "frames", len(frames), "speed", s.speed, "loop", s.loop)
	return nil
}

func (s *ReplaySource) play(frames []replayFrame, stop, done chan struct{}) {
	defer close(done)
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	for {
		start := time.Now()
		for _, rf := range frames {
			if wait := rf.offset - time.Since(start); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-stop:
					timer.Stop()
					return
				case <-timer.C:
				}
			} else {
				select {
				case <-stop:
					return
				default:
				}
			}

			// Restamp so the detector sees live time.
			frame := rf.frame
			frame.Timestamp = time.Now()

			s.hmu.RLock()
			h := s.handler
			s.hmu.RUnlock()

			if h != nil {
				h(frame)
			}
		}

		if !s.loop {
			s.logger.Info("replay finished")
			return
		}
	}
}

// Close stops playback.
func (s *ReplaySource) Close() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	stop, done := s.stop, s.done
	s.stop = nil
	s.mu.Unlock()

	// A concurrent Close has already signalled; just wait for playback to end.
	if stop != nil {
		close(stop)
	}
	<-done
	return nil
}

func (s *ReplaySource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
