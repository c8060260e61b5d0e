package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/shared"
)

// InMemoryEventBus delivers domain events to subscribed handlers in-process.
// Delivery is asynchronous: Publish returns immediately and each handler runs
// in its own goroutine. Handler failures are logged and never propagated to
// the publisher, so side effects like mail can never fail a checkout.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
	wg       sync.WaitGroup
	running  bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
	}
}

// Start starts the event bus
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.running = true
	return nil
}

// Stop stops accepting events and waits for in-flight deliveries to finish
// or for the context to expire, whichever comes first
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers a handler for the given event types, falling back to
// the handler's own EventTypes when none are given
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, eventType := range eventTypes {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
}

// Unsubscribe removes a handler from every event type it is registered for
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for eventType, handlers := range b.handlers {
		filtered := handlers[:0]
		for _, h := range handlers {
			if h != handler {
				filtered = append(filtered, h)
			}
		}
		b.handlers[eventType] = filtered
	}
}

// Publish dispatches events to all subscribed handlers asynchronously
func (b *InMemoryEventBus) Publish(_ context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	if !b.running {
		b.mu.RUnlock()
		b.logger.Warn("event bus is stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}

	type delivery struct {
		event   shared.DomainEvent
		handler shared.EventHandler
	}
	var deliveries []delivery
	for _, evt := range events {
		for _, handler := range b.handlers[evt.EventType()] {
			deliveries = append(deliveries, delivery{event: evt, handler: handler})
		}
	}
	b.mu.RUnlock()

	for _, d := range deliveries {
		b.wg.Add(1)
		go func(d delivery) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event handler panicked",
						zap.String("event_type", d.event.EventType()),
						zap.Any("panic", r),
					)
				}
			}()

			// Deliveries get their own deadline, detached from the request
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := d.handler.Handle(ctx, d.event); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", d.event.EventType()),
					zap.String("event_id", d.event.EventID().String()),
					zap.Int64("aggregate_id", d.event.AggregateID()),
					zap.Error(err),
				)
			}
		}(d)
	}
	return nil
}

// Wait blocks until all in-flight deliveries finish. Intended for tests.
func (b *InMemoryEventBus) Wait() {
	b.wg.Wait()
}

// Ensure InMemoryEventBus implements shared.EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
