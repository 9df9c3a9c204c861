package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/ayusman/gesturerelay/internal/gesture"
)

const hookQueueSize = 16

// CommandHook runs an external command for every gesture, writing the wire
// event as JSON to its stdin. Commands run one at a time on a background
// worker so a slow hook never stalls frame processing.
type CommandHook struct {
	command string
	args    []string
	timeout time.Duration
	logger  *slog.Logger

	queue  chan gesture.Event
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewCommandHook creates a CommandHook and starts its worker.
func NewCommandHook(command string, args []string, timeout time.Duration, logger *slog.Logger) *CommandHook {
	h := &CommandHook{
		command: command,
		args:    args,
		timeout: timeout,
		logger:  logger.With("component", "hook", "command", command),
		queue:   make(chan gesture.Event, hookQueueSize),
	}

	h.wg.Add(1)
	go h.worker()

	return h
}

func (h *CommandHook) worker() {
	defer h.wg.Done()
	for e := range h.queue {
		if err := h.run(context.Background(), e); err != nil {
			h.logger.Error("hook failed", "type", e.Type, "error", err)
		}
	}
}

// Publish queues e for the hook. Events are dropped when the queue is full.
func (h *CommandHook) Publish(_ context.Context, e gesture.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}

	select {
	case h.queue <- e:
	default:
		h.logger.Warn("hook queue full, dropping gesture", "type", e.Type)
	}
	return nil
}

// run executes the command once with a timeout.
func (h *CommandHook) run(ctx context.Context, e gesture.Event) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	payload, err := json.Marshal(NewWireEvent(e))
	if err != nil {
		return fmt.Errorf("marshal gesture: %w", err)
	}

	cmd := exec.CommandContext(ctx, h.command, h.args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.WaitDelay = 500 * time.Millisecond

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("hook timeout after %s", h.timeout)
	}

	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("hook execution failed: %w, stderr: %s", err, s)
		}
		return fmt.Errorf("hook execution failed: %w", err)
	}

	return nil
}

// Close stops accepting events and waits for queued ones to finish.
func (h *CommandHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.queue)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}
