package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type registry struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

func newRegistry() registry {
	return registry{listeners: make(map[EventType][]EventHandler)}
}

// Subscribe registers a handler for the given event type.
func (r *registry) Subscribe(eventType EventType, handler EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[eventType] = append(r.listeners[eventType], handler)
}

func (r *registry) handlers(eventType EventType) []EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EventHandler{}, r.listeners[eventType]...)
}

// deliver runs every handler; one failing handler does not stop the rest.
func (r *registry) deliver(ctx context.Context, logger *zap.Logger, event Event) {
	for _, handler := range r.handlers(event.Type) {
		if err := handler(ctx, event); err != nil {
			logger.Warn("event handler failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.String("ticket_id", event.TicketID),
				zap.Error(err))
		}
	}
}

// InMemoryDispatcher delivers events in-process on a background goroutine.
type InMemoryDispatcher struct {
	registry
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger) *InMemoryDispatcher {
	return &InMemoryDispatcher{registry: newRegistry(), logger: logger}
}

// Publish returns immediately; handlers run detached from the caller's cancellation.
func (d *InMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(ctx, d.logger, event)
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish.
func (d *InMemoryDispatcher) Wait() {
	d.wg.Wait()
}
