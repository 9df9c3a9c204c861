package capture

import (
	"sync"

	"github.com/ayusman/gesturerelay/internal/skeleton"
)

// MockSource delivers frames pushed by tests.
type MockSource struct {
	mu      sync.Mutex
	running bool
	openErr error
	handler FrameHandler
	opens   int
}

func NewMockSource() *MockSource {
	return &MockSource{}
}

func (s *MockSource) Name() string { return "mock" }

func (s *MockSource) Subscribe(h FrameHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return s.openErr
	}
	s.running = true
	s.opens++
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *MockSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SetOpenError makes the next Open calls fail with err.
func (s *MockSource) SetOpenError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openErr = err
}

// Opens reports how many times Open succeeded.
func (s *MockSource) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

// Emit synchronously hands frame to the subscriber.
func (s *MockSource) Emit(frame skeleton.Frame) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSourceNotOpen
	}
	h := s.handler
	s.mu.Unlock()

	if h != nil {
		h(frame)
	}
	return nil
}
