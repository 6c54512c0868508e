package service

import (
	"context"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

// syncService turns store listeners into bus events so that readers which
// never subscribed to the store directly still learn about remote changes.
type syncService struct {
	subscriptions SubscriptionService
	publisher     EventPublisher
	logger        *logger.Logger
}

func NewSyncService(subscriptions SubscriptionService, publisher EventPublisher, logger *logger.Logger) SyncService {
	return &syncService{
		subscriptions: subscriptions,
		publisher:     publisher,
		logger:        logger,
	}
}

// WatchUser publishes a users/snapshot event carrying the decoded profile
// (nil when the document is gone) on every change of the user document.
func (s *syncService) WatchUser(ctx context.Context, userID string) (string, error) {
	return s.subscriptions.SubscribeToDocument(ctx, models.CollectionUsers, userID, func(doc *models.Document, err error) {
		if err != nil {
			logger.FromContextOr(ctx, s.logger).Err(err).
				Str("func", "syncService.WatchUser").
				Str("id", userID).
				Msg("user listener failed")
			return
		}

		var payload *models.User
		if doc != nil {
			user := models.UserFromDocument(*doc)
			payload = &user
		}
		s.publisher.Publish(ctx, models.Event{
			Type:       models.EventUsers,
			Action:     models.ActionSnapshot,
			Collection: models.CollectionUsers,
			DocumentID: userID,
			Payload:    payload,
		})
	})
}

// WatchCollection publishes a snapshot event with the full query result on
// every change.
func (s *syncService) WatchCollection(ctx context.Context, collection string, constraints ...models.Constraint) (string, error) {
	return s.subscriptions.SubscribeToCollection(ctx, collection, constraints, func(docs []models.Document, err error) {
		if err != nil {
			logger.FromContextOr(ctx, s.logger).Err(err).
				Str("func", "syncService.WatchCollection").
				Str("collection", collection).
				Msg("collection listener failed")
			return
		}

		s.publisher.Publish(ctx, models.Event{
			Type:       models.EventType(collection),
			Action:     models.ActionSnapshot,
			Collection: collection,
			Payload:    docs,
		})
	})
}

func (s *syncService) Stop(listenerID string) bool {
	return s.subscriptions.Unsubscribe(listenerID)
}
