//go:generate mockgen -source=interfaces.go -destination=../mock/document_store_mock.go -package=mock
package store

import (
	"context"

	"github.com/MKhiriev/go-bank-sync/models"
)

// DocumentCallback receives every change of a watched document. A nil
// document with a nil error means the document does not exist (yet).
// A non-nil error is delivered once, after which the listener is stopped.
type DocumentCallback func(doc *models.Document, err error)

// QueryCallback receives the full result set of a watched query every time
// it changes. A non-nil error is delivered once and stops the listener.
type QueryCallback func(docs []models.Document, err error)

// Unsubscribe stops a listener. Calling it more than once is safe.
type Unsubscribe func()

// DocumentStore is the remote document database boundary. Every backend
// translates its driver errors into the sentinels of this package.
type DocumentStore interface {
	// Add stores fields under a store-assigned id.
	Add(ctx context.Context, collection string, fields models.Fields) (models.Document, error)
	// Set creates or overwrites the document with the given id.
	Set(ctx context.Context, collection, id string, fields models.Fields) (models.Document, error)
	// Get returns ErrNotFound when the document is absent.
	Get(ctx context.Context, collection, id string) (models.Document, error)
	// Update merges fields into an existing document. ErrNotFound when absent.
	Update(ctx context.Context, collection, id string, fields models.Fields) error
	// Delete removes the document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Query returns the documents of collection matching constraints.
	Query(ctx context.Context, collection string, constraints ...models.Constraint) ([]models.Document, error)
	// Commit applies all writes atomically.
	Commit(ctx context.Context, writes []models.Write) error

	WatchDocument(ctx context.Context, collection, id string, cb DocumentCallback) (Unsubscribe, error)
	WatchQuery(ctx context.Context, collection string, constraints []models.Constraint, cb QueryCallback) (Unsubscribe, error)

	Close() error
}

// ErrorClassificator maps driver errors onto retry classes.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
