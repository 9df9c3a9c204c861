package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ayusman/gesturerelay/internal/gesture"
)

const (
	redisQueueSize      = 64
	redisPublishTimeout = time.Second
	redisCloseGrace     = 2 * time.Second
)

// RedisPublisher republishes gestures on a Redis pub/sub channel so that
// services other than websocket clients can follow them. Messages are sent
// from a background worker; an unreachable server never blocks the caller.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger

	queue  chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewRedisPublisher creates a RedisPublisher and starts its worker. An empty
// channel defaults to Channel.
func NewRedisPublisher(client *redis.Client, channel string, logger *slog.Logger) *RedisPublisher {
	if channel == "" {
		channel = Channel
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  logger.With("component", "redis", "channel", channel),
		queue:   make(chan []byte, redisQueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	p.wg.Add(1)
	go p.worker()

	return p
}

func (p *RedisPublisher) worker() {
	defer p.wg.Done()
	for data := range p.queue {
		ctx, cancel := context.WithTimeout(p.ctx, redisPublishTimeout)
		err := p.client.Publish(ctx, p.channel, data).Err()
		cancel()
		if err != nil {
			p.logger.Error("publish gesture failed", "error", err)
		}
	}
}

// Publish queues the wire form of e for the channel. Events are dropped when
// the queue is full.
func (p *RedisPublisher) Publish(_ context.Context, e gesture.Event) error {
	data, err := json.Marshal(NewWireEvent(e))
	if err != nil {
		return fmt.Errorf("marshal gesture: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.queue <- data:
		p.logger.Debug("queued gesture", "type", e.Type, "hand", e.Hand)
	default:
		p.logger.Warn("redis queue full, dropping gesture", "type", e.Type)
	}
	return nil
}

// Close drains queued events and closes the Redis client. Events still queued
// after a short grace period are abandoned.
func (p *RedisPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(redisCloseGrace):
		p.logger.Warn("abandoning queued gestures")
		p.cancel()
		<-done
	}
	p.cancel()

	return p.client.Close()
}
