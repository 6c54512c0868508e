// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that runs
// multiple workers side by side until their context is canceled.
package workers

import (
	"context"

	"github.com/MKhiriev/go-bank-sync/internal/bus"
	"github.com/MKhiriev/go-bank-sync/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is canceled or the worker fails to start, and
// releases everything it acquired before returning.
type Worker interface {
	Run(ctx context.Context) error
}

// EventSubscriber is the subscribe side of the sync notification bus.
type EventSubscriber interface {
	Subscribe(eventType models.EventType, handler bus.Handler) string
	Unsubscribe(id string) bool
}
