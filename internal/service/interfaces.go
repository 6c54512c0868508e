//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock
package service

import (
	"context"

	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/models"
)

// DocumentService is the CRUD facade over the document store. Writes stamp
// timestamps with the store clock, invalidate the collection cache and
// publish a sync event.
type DocumentService interface {
	Create(ctx context.Context, collection string, fields models.Fields) (models.Document, error)
	CreateWithID(ctx context.Context, collection, id string, fields models.Fields) (models.Document, error)

	// Read returns nil, nil when the document does not exist.
	Read(ctx context.Context, collection, id string) (*models.Document, error)

	Update(ctx context.Context, collection, id string, fields models.Fields) error
	Delete(ctx context.Context, collection, id string) error

	// List never fails; any error yields an empty slice.
	List(ctx context.Context, collection string, constraints ...models.Constraint) []models.Document

	// Batch commits all writes atomically and returns them with generated
	// ids filled in.
	Batch(ctx context.Context, writes ...models.Write) ([]models.Write, error)

	Invalidate(collection string) int
}

// SubscriptionService keeps a registry of live store listeners keyed by an
// opaque listener id.
type SubscriptionService interface {
	SubscribeToDocument(ctx context.Context, collection, id string, cb store.DocumentCallback) (string, error)
	SubscribeToCollection(ctx context.Context, collection string, constraints []models.Constraint, cb store.QueryCallback) (string, error)

	// Unsubscribe reports whether id was registered.
	Unsubscribe(id string) bool
	UnsubscribeAll() int
	Active() int
}

// BankingService composes document reads into banking entities, tolerating
// the different shapes user, account and transaction documents come in.
type BankingService interface {
	UserProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID string, fields models.Fields) error

	Accounts(ctx context.Context, userID string) ([]models.Account, error)
	Transactions(ctx context.Context, userID string) ([]models.Transaction, error)

	Users(ctx context.Context) []models.User
	AllTransactions(ctx context.Context, limit int) []models.Transaction

	SystemSettings(ctx context.Context) models.SystemSettings
	UpdateSystemSettings(ctx context.Context, fields models.Fields) error
}

// SyncService bridges store listeners into bus events.
type SyncService interface {
	WatchUser(ctx context.Context, userID string) (string, error)
	WatchCollection(ctx context.Context, collection string, constraints ...models.Constraint) (string, error)
	Stop(listenerID string) bool
}

// EventPublisher fans sync events out to interested readers.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) int
}

type AppInfoService interface {
	GetAppInfo(ctx context.Context) models.AppInfo
}
