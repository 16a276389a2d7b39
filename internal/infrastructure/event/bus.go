package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus dispatches domain events inside the process.
//
// Without workers, Publish runs handlers inline. With workers, Start launches
// a pool that drains a bounded queue; Publish falls back to inline dispatch
// when the bus is stopped or the queue is full, so events are never dropped.
// Handler errors and panics are logged and never reach the publisher.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger

	workers   int
	queueSize int
	queue     chan envelope
	running   atomic.Bool
	wg        sync.WaitGroup
	mu        sync.Mutex
}

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// Option configures the bus
type Option func(*InMemoryEventBus)

// WithWorkers dispatches asynchronously on n workers with a queue of queueSize
func WithWorkers(n, queueSize int) Option {
	return func(b *InMemoryEventBus) {
		if n > 0 {
			b.workers = n
			if queueSize <= 0 {
				queueSize = 256
			}
			b.queueSize = queueSize
		}
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...Option) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &InMemoryEventBus{registry: NewHandlerRegistry(), logger: logger}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish hands each event to its handlers. It only returns an error when ctx is done.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.enqueue(ctx, ev) {
			continue
		}
		b.dispatch(ctx, ev)
	}
	return nil
}

func (b *InMemoryEventBus) enqueue(ctx context.Context, ev shared.DomainEvent) bool {
	if b.workers == 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running.Load() || b.queue == nil {
		return false
	}
	// the request context ends before the handler runs
	env := envelope{ctx: context.WithoutCancel(ctx), event: ev}
	select {
	case b.queue <- env:
		return true
	default:
		b.logger.Warn("event queue full, dispatching inline", zap.String("event_type", ev.EventType()))
		return false
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, ev shared.DomainEvent) {
	for _, h := range b.registry.HandlersFor(ev.EventType()) {
		if err := b.safeHandle(ctx, h, ev); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", ev.EventType()),
				zap.String("event_id", ev.EventID().String()),
				zap.Error(err))
		}
	}
}

func (b *InMemoryEventBus) safeHandle(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", ev.EventType()),
				zap.Any("panic", r))
		}
	}()
	return h.Handle(ctx, ev)
}

// Subscribe registers a handler. Without explicit types the handler's own EventTypes are used.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start launches the workers, if any. A stopped bus can be started again
// and gets a fresh queue.
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running.Load() {
		return nil
	}
	if b.workers > 0 {
		b.queue = make(chan envelope, b.queueSize)
	}
	b.running.Store(true)
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.work(b.queue)
	}
	b.logger.Info("event bus started", zap.Int("workers", b.workers))
	return nil
}

func (b *InMemoryEventBus) work(queue <-chan envelope) {
	defer b.wg.Done()
	for env := range queue {
		b.dispatch(env.ctx, env.event)
	}
}

// Stop drains queued events and waits for the workers, or gives up when ctx ends
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running.Load() {
		b.mu.Unlock()
		return nil
	}
	b.running.Store(false)
	if b.queue != nil {
		close(b.queue)
		b.queue = nil
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
