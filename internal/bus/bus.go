// Package bus is an in-process notification bus. Writers publish a
// [models.Event] for the entity type they changed; any number of handlers
// registered for that type (or for [models.EventAll]) are called
// synchronously on the publisher's goroutine. Nothing is persisted.
package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

// Handler receives published events.
type Handler func(ctx context.Context, event models.Event)

type registration struct {
	id        string
	eventType models.EventType
	handler   Handler
}

// Bus is safe for concurrent use. Handlers may subscribe or unsubscribe
// from inside a delivery.
type Bus struct {
	mu       sync.RWMutex
	handlers map[models.EventType][]registration
	byID     map[string]models.EventType
	now      func() time.Time
	logger   *logger.Logger
}

func New(log *logger.Logger) *Bus {
	return &Bus{
		handlers: make(map[models.EventType][]registration),
		byID:     make(map[string]models.EventType),
		now:      time.Now,
		logger:   log,
	}
}

// Subscribe registers handler for eventType and returns the registration id.
func (b *Bus) Subscribe(eventType models.EventType, handler Handler) string {
	id := "handler_" + uuid.NewString()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, eventType: eventType, handler: handler})
	b.byID[id] = eventType
	return id
}

// Unsubscribe removes the registration. It reports false when id is unknown
// or already removed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	eventType, ok := b.byID[id]
	if !ok {
		return false
	}
	delete(b.byID, id)

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
	return true
}

// Publish delivers event to every handler of its type, then to wildcard
// handlers, and returns the number of handlers called. A panicking handler
// is logged and does not stop delivery to the rest.
func (b *Bus) Publish(ctx context.Context, event models.Event) int {
	if event.EmittedAt.IsZero() {
		event.EmittedAt = b.now()
	}

	b.mu.RLock()
	targets := make([]registration, 0, len(b.handlers[event.Type])+len(b.handlers[models.EventAll]))
	targets = append(targets, b.handlers[event.Type]...)
	if event.Type != models.EventAll {
		targets = append(targets, b.handlers[models.EventAll]...)
	}
	b.mu.RUnlock()

	for _, r := range targets {
		b.deliver(ctx, r, event)
	}
	return len(targets)
}

// Len returns the number of live registrations.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byID)
}

func (b *Bus) deliver(ctx context.Context, r registration, event models.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.FromContextOr(ctx, b.logger).Error().
				Str("func", "Bus.deliver").
				Str("handler_id", r.id).
				Str("event_type", string(event.Type)).
				Err(fmt.Errorf("%w: %v", ErrHandlerPanicked, rec)).
				Msg("sync event handler panicked")
		}
	}()
	r.handler(ctx, event)
}
