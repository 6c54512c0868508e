package store

import (
	"context"

	"github.com/MKhiriev/go-bank-sync/models"
)

// Unconfigured is the [DocumentStore] used when no backend is configured.
// Every operation fails with [ErrNotConfigured] so that the service layer
// can fall back to its offline behaviour.
type Unconfigured struct{}

// NewUnconfigured returns the offline store.
func NewUnconfigured() *Unconfigured {
	return &Unconfigured{}
}

func (Unconfigured) Add(context.Context, string, models.Fields) (models.Document, error) {
	return models.Document{}, ErrNotConfigured
}

func (Unconfigured) Set(context.Context, string, string, models.Fields) (models.Document, error) {
	return models.Document{}, ErrNotConfigured
}

func (Unconfigured) Get(context.Context, string, string) (models.Document, error) {
	return models.Document{}, ErrNotConfigured
}

func (Unconfigured) Update(context.Context, string, string, models.Fields) error {
	return ErrNotConfigured
}

func (Unconfigured) Delete(context.Context, string, string) error {
	return ErrNotConfigured
}

func (Unconfigured) Query(context.Context, string, ...models.Constraint) ([]models.Document, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) Commit(context.Context, []models.Write) error {
	return ErrNotConfigured
}

func (Unconfigured) WatchDocument(context.Context, string, string, DocumentCallback) (Unsubscribe, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) WatchQuery(context.Context, string, []models.Constraint, QueryCallback) (Unsubscribe, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) Close() error {
	return nil
}
