package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/notify-admin-api/internal/models"
)

// ErrBusClosed is returned when publishing to a bus that is not running.
var ErrBusClosed = errors.New("event bus is not accepting events")

// Handler consumes an announcement published event.
type Handler func(ctx context.Context, event models.AnnouncementPublishedEvent) error

// Config configures the worker pool behind the bus.
type Config struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

type subscriber struct {
	name    string
	handler Handler
}

type delivery struct {
	event      models.AnnouncementPublishedEvent
	subscriber subscriber
	attempt    int
}

// Bus fans announcement events out to subscribers on a goroutine pool.
// Publish returns once every subscriber's delivery is queued; handlers run
// later with the bus context, never the caller's.
type Bus struct {
	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	deliveries chan delivery
	pending    sync.WaitGroup
	running    sync.WaitGroup

	mu          sync.Mutex
	subscribers []subscriber
	ctx         context.Context
	cancel      context.CancelFunc
	started     bool
	closed      bool
}

// NewBus builds a bus; call Start before publishing.
func NewBus(cfg Config) *Bus {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Bus{
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		deliveries: make(chan delivery, cfg.BufferSize),
	}
}

// Subscribe registers a named handler for every subsequent event.
func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, subscriber{name: name, handler: handler})
}

// Start launches the workers. Safe to call once.
func (b *Bus) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.ctx, b.cancel = context.WithCancel(ctx)
	for i := 0; i < b.workers; i++ {
		b.running.Add(1)
		go b.worker()
	}
	b.started = true
	b.logger.Info("event bus started", zap.Int("workers", b.workers), zap.Int("subscribers", len(b.subscribers)))
}

// Publish queues the event for every subscriber.
func (b *Bus) Publish(ctx context.Context, event models.AnnouncementPublishedEvent) error {
	b.mu.Lock()
	if !b.started || b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	subs := make([]subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	busCtx := b.ctx
	b.pending.Add(len(subs))
	b.mu.Unlock()

	for i, sub := range subs {
		select {
		case b.deliveries <- delivery{event: event, subscriber: sub}:
		case <-ctx.Done():
			b.pending.Add(-(len(subs) - i))
			return fmt.Errorf("publish announcement %d: %w", event.Announcement.ID, ctx.Err())
		case <-busCtx.Done():
			b.pending.Add(-(len(subs) - i))
			return ErrBusClosed
		}
	}
	return nil
}

// Stop rejects new events, waits for queued deliveries until ctx expires,
// then stops the workers.
func (b *Bus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.started || b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		b.pending.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-ctx.Done():
		err = fmt.Errorf("drain event bus: %w", ctx.Err())
	}
	b.cancel()
	b.running.Wait()
	b.logger.Info("event bus stopped")
	return err
}

func (b *Bus) worker() {
	defer b.running.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case d := <-b.deliveries:
			b.deliver(d)
		}
	}
}

func (b *Bus) deliver(d delivery) {
	defer b.pending.Done()
	err := b.invoke(d)
	if err == nil {
		return
	}
	d.attempt++
	fields := []zap.Field{
		zap.String("subscriber", d.subscriber.name),
		zap.String("event_id", d.event.EventID),
		zap.Int64("announcement_id", d.event.Announcement.ID),
		zap.Int("attempt", d.attempt),
		zap.Error(err),
	}
	if d.attempt > b.maxRetries {
		b.logger.Error("event delivery exceeded retries", fields...)
		return
	}
	b.logger.Warn("event delivery failed, retrying", fields...)
	b.pending.Add(1)
	go b.retry(d)
}

func (b *Bus) invoke(d delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return d.subscriber.handler(b.ctx, d.event)
}

func (b *Bus) retry(d delivery) {
	timer := time.NewTimer(b.retryDelay)
	defer timer.Stop()
	select {
	case <-b.ctx.Done():
		b.pending.Done()
	case <-timer.C:
		select {
		case b.deliveries <- d:
		case <-b.ctx.Done():
			b.pending.Done()
		}
	}
}
