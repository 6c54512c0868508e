package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/internal/validators"
	"github.com/MKhiriev/go-bank-sync/models"
)

// ListenerIDPrefix prefixes every listener id handed out by the
// subscription service.
const ListenerIDPrefix = "listener_"

type listener struct {
	unsubscribe store.Unsubscribe
	// stopWatch detaches the context watcher registered for the listener.
	stopWatch func() bool
}

type subscriptionService struct {
	store     store.DocumentStore
	validator validators.Validator

	mu        sync.Mutex
	listeners map[string]listener

	logger *logger.Logger
}

func NewSubscriptionService(documents store.DocumentStore, logger *logger.Logger) SubscriptionService {
	return &subscriptionService{
		store:     documents,
		validator: validators.NewDocumentValidator(),
		listeners: make(map[string]listener),
		logger:    logger,
	}
}

func (s *subscriptionService) SubscribeToDocument(ctx context.Context, collection, id string, cb store.DocumentCallback) (string, error) {
	target := validators.Target{Collection: collection, ID: id}
	if err := s.validator.Validate(ctx, target, validators.FieldCollection, validators.FieldDocumentID); err != nil {
		return "", newError("subscribe", collection, id, err)
	}

	unsubscribe, err := s.store.WatchDocument(ctx, collection, id, func(doc *models.Document, err error) {
		if err != nil {
			cb(nil, newError("subscribe", collection, id, err))
			return
		}
		cb(doc, nil)
	})
	if err != nil {
		logger.FromContextOr(ctx, s.logger).Err(err).
			Str("func", "subscriptionService.SubscribeToDocument").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to register document listener")
		return "", newError("subscribe", collection, id, err)
	}

	return s.register(ctx, unsubscribe), nil
}

func (s *subscriptionService) SubscribeToCollection(ctx context.Context, collection string, constraints []models.Constraint, cb store.QueryCallback) (string, error) {
	if err := s.validator.Validate(ctx, validators.Target{Collection: collection}, validators.FieldCollection); err != nil {
		return "", newError("subscribe", collection, "", err)
	}
	if err := s.validator.Validate(ctx, constraints); err != nil {
		return "", newError("subscribe", collection, "", err)
	}

	unsubscribe, err := s.store.WatchQuery(ctx, collection, constraints, func(docs []models.Document, err error) {
		if err != nil {
			cb(nil, newError("subscribe", collection, "", err))
			return
		}
		if docs == nil {
			docs = []models.Document{}
		}
		cb(docs, nil)
	})
	if err != nil {
		logger.FromContextOr(ctx, s.logger).Err(err).
			Str("func", "subscriptionService.SubscribeToCollection").
			Str("collection", collection).
			Msg("failed to register query listener")
		return "", newError("subscribe", collection, "", err)
	}

	return s.register(ctx, unsubscribe), nil
}

// register stores the unsubscribe handle under a fresh id. The listener is
// released on its own when ctx ends.
func (s *subscriptionService) register(ctx context.Context, unsubscribe store.Unsubscribe) string {
	id := ListenerIDPrefix + uuid.NewString()

	s.mu.Lock()
	s.listeners[id] = listener{
		unsubscribe: unsubscribe,
		stopWatch:   context.AfterFunc(ctx, func() { s.Unsubscribe(id) }),
	}
	s.mu.Unlock()

	s.logger.Debug().Str("func", "subscriptionService.register").Str("listener_id", id).Msg("listener registered")
	return id
}

func (s *subscriptionService) Unsubscribe(id string) bool {
	s.mu.Lock()
	l, ok := s.listeners[id]
	delete(s.listeners, id)
	s.mu.Unlock()

	if !ok {
		return false
	}

	l.stopWatch()
	l.unsubscribe()
	s.logger.Debug().Str("func", "subscriptionService.Unsubscribe").Str("listener_id", id).Msg("listener removed")
	return true
}

func (s *subscriptionService) UnsubscribeAll() int {
	s.mu.Lock()
	all := s.listeners
	s.listeners = make(map[string]listener)
	s.mu.Unlock()

	for _, l := range all {
		l.stopWatch()
		l.unsubscribe()
	}

	if len(all) > 0 {
		s.logger.Info().Str("func", "subscriptionService.UnsubscribeAll").Int("listeners", len(all)).Msg("all listeners removed")
	}
	return len(all)
}

func (s *subscriptionService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
