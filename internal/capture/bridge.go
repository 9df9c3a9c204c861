package capture

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/ayusman/gesturerelay/internal/skeleton"
)

const (
	// maxFrameSize bounds a single NDJSON frame line from the bridge.
	maxFrameSize = 1 << 20
	// shutdownGrace is how long the bridge has to exit after an interrupt.
	shutdownGrace = 2 * time.Second
	// startTimeout bounds the wait for the bridge to report the sensor open.
	startTimeout = 10 * time.Second
	// readyLine may be written by the bridge once the sensor is open, before
	// the first frame.
	readyLine = "ready"
)

// BridgeSource reads frames from a sensor bridge subprocess. The bridge wraps
// the vendor body-tracking SDK and writes one JSON frame per line to stdout.
// The sensor counts as open once the bridge writes a "ready" line or its
// first frame.
type BridgeSource struct {
	command      string
	args         []string
	logger       *slog.Logger
	startTimeout time.Duration

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	done    chan struct{}
	running bool
	closing bool
	exitErr error

	hmu     sync.RWMutex
	handler FrameHandler
}

// NewBridgeSource creates a source that runs command with args on Open.
func NewBridgeSource(command string, args []string, logger *slog.Logger) *BridgeSource {
	return &BridgeSource{
		command:      command,
		args:         args,
		logger:       logger.With("component", "bridge", "command", command),
		startTimeout: startTimeout,
	}
}

// Name identifies the source in logs and status output.
func (s *BridgeSource) Name() string {
	return "bridge"
}

// Subscribe registers the frame handler.
func (s *BridgeSource) Subscribe(h FrameHandler) {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	s.handler = h
}

// Open starts the bridge process and waits until it reports the sensor open.
// It fails when the bridge exits or stays silent past the start timeout.
func (s *BridgeSource) Open() error {
	s.mu.Lock()

	if s.running {
		s.mu.Unlock()
		return nil
	}

	cmd := exec.Command(s.command, s.args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = &logWriter{logger: s.logger}

	if err := cmd.Start(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("start sensor bridge: %w", err)
	}

	done := make(chan struct{})
	ready := make(chan struct{})

	s.cmd = cmd
	s.stdout = stdout
	s.done = done
	s.running = true
	s.closing = false
	s.exitErr = nil

	go s.readLoop(cmd, stdout, ready, done)
	s.mu.Unlock()

	s.logger.Info("sensor bridge started", "pid", cmd.Process.Pid)

	timer := time.NewTimer(s.startTimeout)
	defer timer.Stop()

	select {
	case <-ready:
	case <-done:
		// A bridge that wrote a frame and then exited still opened the sensor.
		select {
		case <-ready:
			return nil
		default:
		}
		s.mu.Lock()
		exitErr := s.exitErr
		s.mu.Unlock()
		if exitErr != nil {
			return fmt.Errorf("%w: bridge exited before the sensor opened: %v", ErrSensorUnavailable, exitErr)
		}
		return fmt.Errorf("%w: bridge exited before the sensor opened", ErrSensorUnavailable)
	case <-timer.C:
		s.Close()
		return fmt.Errorf("%w: no response from bridge within %s", ErrSensorUnavailable, s.startTimeout)
	}

	s.logger.Info("sensor open")
	return nil
}

func (s *BridgeSource) readLoop(cmd *exec.Cmd, stdout io.Reader, ready, done chan struct{}) {
	defer close(done)

	signalled := false
	markReady := func() {
		if !signalled {
			signalled = true
			close(ready)
		}
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if strings.TrimSpace(string(line)) == readyLine {
			markReady()
			continue
		}

		frame, err := skeleton.DecodeFrame(line)
		if err != nil {
			s.logger.Warn("skipping malformed frame", "error", err)
			continue
		}
		markReady()
		if frame.Timestamp.IsZero() {
			frame.Timestamp = time.Now()
		}

		s.hmu.RLock()
		h := s.handler
		s.hmu.RUnlock()

		if h != nil {
			h(frame)
		}
	}

	scanErr := scanner.Err()
	waitErr := cmd.Wait()

	s.mu.Lock()
	closing := s.closing
	s.running = false
	s.exitErr = waitErr
	s.mu.Unlock()

	if closing {
		s.logger.Info("sensor bridge stopped")
		return
	}

	if scanErr != nil {
		s.logger.Error("sensor bridge read failed", "error", scanErr)
	}
	s.logger.Error("sensor bridge disconnected", "exit", waitErr)
}

// Close interrupts the bridge and waits for it to exit.
func (s *BridgeSource) Close() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	cmd, stdout, done := s.cmd, s.stdout, s.done
	s.mu.Unlock()

	_ = cmd.Process.Signal(os.Interrupt)

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		s.logger.Warn("sensor bridge did not exit, killing")
		_ = cmd.Process.Kill()
		stdout.Close()
		<-done
	}

	return nil
}

// IsOpen returns true while the bridge process is running.
func (s *BridgeSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// logWriter forwards bridge stderr lines to the logger.
type logWriter struct {
	logger *slog.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			w.logger.Warn("bridge stderr", "line", line)
		}
	}
	return len(p), nil
}
