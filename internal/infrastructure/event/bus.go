// Package event dispatches domain events to in-process handlers.
package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

// BackgroundHandler marks handlers that run after the publishing request returns.
// Their context is detached from the request and bounded by Timeout.
type BackgroundHandler interface {
	shared.EventHandler
	Background() bool
}

// InMemoryEventBus implements shared.EventBus with in-process pub/sub
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
	wg       sync.WaitGroup
	// Timeout bounds each background handler run
	Timeout time.Duration
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
		Timeout:  time.Minute,
	}
}

// Publish delivers events to their handlers. Inline handlers run before Publish
// returns; background handlers are queued while the bus is running and run
// inline otherwise. Handler failures are logged and never returned.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if bg, ok := handler.(BackgroundHandler); ok && bg.Background() && b.running.Load() {
				b.dispatchBackground(ctx, handler, event)
				continue
			}
			b.dispatch(ctx, handler, event)
		}
	}
	return nil
}

func (b *InMemoryEventBus) dispatchBackground(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.Timeout)
		defer cancel()
		b.dispatch(hctx, handler, event)
	}()
}

// dispatch runs one handler and recovers from panics
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	if err := handler.Handle(ctx, event); err != nil {
		b.logger.Error("handler failed to process event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("tenant_id", event.TenantID().String()),
			zap.Error(err),
		)
	}
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

// Start enables background dispatch
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop disables background dispatch and waits for queued handlers until ctx ends
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
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
		b.logger.Warn("event bus stopped with handlers still running")
		return ctx.Err()
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
