// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-bank-sync/internal/cache"
	"github.com/MKhiriev/go-bank-sync/internal/fallback"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/internal/validators"
	"github.com/MKhiriev/go-bank-sync/models"
)

// LocalIDPrefix marks documents that were never persisted.
const LocalIDPrefix = "local_"

type documentService struct {
	store     store.DocumentStore
	cache     *cache.Cache
	publisher EventPublisher
	validator validators.Validator
	fallback  fallback.Provider

	production bool
	now        func() time.Time

	logger *logger.Logger
}

// DocumentServiceOption customizes a document service.
type DocumentServiceOption func(*documentService)

// WithFallback sets the provider consulted by Read and List when the store
// fails outside production.
func WithFallback(p fallback.Provider) DocumentServiceOption {
	return func(s *documentService) {
		s.fallback = p
	}
}

// WithProduction disables the fallback provider.
func WithProduction(production bool) DocumentServiceOption {
	return func(s *documentService) {
		s.production = production
	}
}

// WithLocalClock sets the clock used for synthetic offline documents.
func WithLocalClock(now func() time.Time) DocumentServiceOption {
	return func(s *documentService) {
		s.now = now
	}
}

func NewDocumentService(documents store.DocumentStore, c *cache.Cache, publisher EventPublisher, logger *logger.Logger, opts ...DocumentServiceOption) DocumentService {
	s := &documentService{
		store:     documents,
		cache:     c,
		publisher: publisher,
		validator: validators.NewDocumentValidator(),
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *documentService) Create(ctx context.Context, collection string, fields models.Fields) (models.Document, error) {
	if err := s.validator.Validate(ctx, validators.Target{Collection: collection, Fields: fields}, validators.FieldCollection, validators.FieldBody); err != nil {
		return models.Document{}, newError("create", collection, "", err)
	}

	doc, err := s.store.Add(ctx, collection, stampCreated(fields))
	return s.afterCreate(ctx, "create", collection, "", fields, doc, err)
}

func (s *documentService) CreateWithID(ctx context.Context, collection, id string, fields models.Fields) (models.Document, error) {
	if err := s.validator.Validate(ctx, validators.Target{Collection: collection, ID: id, Fields: fields}); err != nil {
		return models.Document{}, newError("create", collection, id, err)
	}

	doc, err := s.store.Set(ctx, collection, id, stampCreated(fields))
	return s.afterCreate(ctx, "create", collection, id, fields, doc, err)
}

// afterCreate degrades to a synthetic, non-persisted document when no store
// is configured so that offline demo flows keep working.
func (s *documentService) afterCreate(ctx context.Context, op, collection, id string, fields models.Fields, doc models.Document, err error) (models.Document, error) {
	log := logger.FromContextOr(ctx, s.logger)

	if errors.Is(err, store.ErrNotConfigured) {
		local := s.localDocument(id, fields)
		log.Warn().
			Str("func", "documentService.Create").
			Str("collection", collection).
			Str("id", local.ID).
			Msg("document store is not configured, returning a local document")
		return local, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "documentService.Create").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to create document")
		return models.Document{}, newError(op, collection, id, err)
	}

	s.cache.Invalidate(collection)
	s.publish(ctx, collection, doc.ID, models.ActionCreated, doc)
	return doc, nil
}

// localDocument always carries LocalIDPrefix; a caller-chosen id keeps its
// value after the prefix.
func (s *documentService) localDocument(id string, fields models.Fields) models.Document {
	switch {
	case id == "":
		id = LocalIDPrefix + uuid.NewString()
	case !strings.HasPrefix(id, LocalIDPrefix):
		id = LocalIDPrefix + id
	}
	return models.Document{ID: id, Fields: models.ResolveServerTimestamps(stampCreated(fields), s.now())}
}

func (s *documentService) Read(ctx context.Context, collection, id string) (*models.Document, error) {
	log := logger.FromContextOr(ctx, s.logger)

	if err := s.validator.Validate(ctx, validators.Target{Collection: collection, ID: id}, validators.FieldCollection, validators.FieldDocumentID); err != nil {
		return nil, newError("read", collection, id, err)
	}

	doc, err := s.store.Get(ctx, collection, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err == nil {
		return &doc, nil
	}

	if s.production || s.fallback == nil {
		log.Err(err).
			Str("func", "documentService.Read").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to read document")
		return nil, newError("read", collection, id, err)
	}

	mock, ok := s.fallback.Document(collection, id)
	log.Warn().Err(err).
		Str("func", "documentService.Read").
		Str("collection", collection).
		Str("id", id).
		Bool("found", ok).
		Msg("document store failed, serving offline data")
	if !ok {
		return nil, nil
	}
	return mock, nil
}

func (s *documentService) Update(ctx context.Context, collection, id string, fields models.Fields) error {
	log := logger.FromContextOr(ctx, s.logger)

	target := validators.Target{Collection: collection, ID: id, Fields: fields}
	if err := s.validator.Validate(ctx, target, validators.FieldCollection, validators.FieldDocumentID, validators.FieldUpdateBody); err != nil {
		return newError("update", collection, id, err)
	}

	if err := s.store.Update(ctx, collection, id, stampUpdated(fields)); err != nil {
		log.Err(err).
			Str("func", "documentService.Update").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to update document")
		return newError("update", collection, id, err)
	}

	s.cache.Invalidate(collection)
	s.publish(ctx, collection, id, models.ActionUpdated, fields.Clone())
	return nil
}

func (s *documentService) Delete(ctx context.Context, collection, id string) error {
	log := logger.FromContextOr(ctx, s.logger)

	if err := s.validator.Validate(ctx, validators.Target{Collection: collection, ID: id}, validators.FieldCollection, validators.FieldDocumentID); err != nil {
		return newError("delete", collection, id, err)
	}

	if err := s.store.Delete(ctx, collection, id); err != nil {
		log.Err(err).
			Str("func", "documentService.Delete").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to delete document")
		return newError("delete", collection, id, err)
	}

	s.cache.Invalidate(collection)
	s.publish(ctx, collection, id, models.ActionDeleted, nil)
	return nil
}

func (s *documentService) List(ctx context.Context, collection string, constraints ...models.Constraint) []models.Document {
	log := logger.FromContextOr(ctx, s.logger)

	if err := s.validateQuery(ctx, collection, constraints); err != nil {
		log.Warn().Err(err).
			Str("func", "documentService.List").
			Str("collection", collection).
			Msg("rejected query")
		return []models.Document{}
	}

	key := cache.ListKey(collection, constraints)
	if docs, ok := s.cache.Get(key); ok {
		log.Debug().Str("func", "documentService.List").Str("key", key).Msg("cache hit")
		return docs
	}

	docs, err := s.store.Query(ctx, collection, constraints...)
	if err == nil {
		if docs == nil {
			docs = []models.Document{}
		}
		s.cache.Set(key, docs)
		return docs
	}

	if errors.Is(err, store.ErrPermissionDenied) {
		log.Warn().Err(err).
			Str("func", "documentService.List").
			Str("collection", collection).
			Msg("permission denied, returning no documents")
		return []models.Document{}
	}

	if !s.production && s.fallback != nil {
		log.Warn().Err(err).
			Str("func", "documentService.List").
			Str("collection", collection).
			Msg("document store failed, serving offline data")
		return s.fallback.Query(collection, constraints...)
	}

	log.Err(err).
		Str("func", "documentService.List").
		Str("collection", collection).
		Msg("failed to list documents, returning no documents")
	return []models.Document{}
}

func (s *documentService) validateQuery(ctx context.Context, collection string, constraints []models.Constraint) error {
	if err := s.validator.Validate(ctx, validators.Target{Collection: collection}, validators.FieldCollection); err != nil {
		return err
	}
	return s.validator.Validate(ctx, constraints)
}

func (s *documentService) Batch(ctx context.Context, writes ...models.Write) ([]models.Write, error) {
	log := logger.FromContextOr(ctx, s.logger)

	if err := s.validator.Validate(ctx, writes); err != nil {
		return nil, newError("batch", "", "", err)
	}

	prepared := make([]models.Write, len(writes))
	for i, w := range writes {
		switch w.Kind {
		case models.WriteSet:
			if w.ID == "" {
				w.ID = store.NewDocumentID()
			}
			w.Fields = stampCreated(w.Fields)
		case models.WriteUpdate:
			w.Fields = stampUpdated(w.Fields)
		}
		prepared[i] = w
	}

	if err := s.store.Commit(ctx, prepared); err != nil {
		log.Err(err).
			Str("func", "documentService.Batch").
			Int("writes", len(prepared)).
			Msg("batch commit failed")
		return nil, newError("batch", "", "", err)
	}

	invalidated := make(map[string]struct{}, len(prepared))
	for i, w := range prepared {
		if _, ok := invalidated[w.Collection]; !ok {
			s.cache.Invalidate(w.Collection)
			invalidated[w.Collection] = struct{}{}
		}
		s.publish(ctx, w.Collection, w.ID, writeAction(w.Kind), writes[i].Fields.Clone())
	}

	log.Debug().Str("func", "documentService.Batch").Int("writes", len(prepared)).Msg("batch committed")
	return prepared, nil
}

func (s *documentService) Invalidate(collection string) int {
	return s.cache.Invalidate(collection)
}

func (s *documentService) publish(ctx context.Context, collection, id string, action models.EventAction, payload any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, models.Event{
		Type:       models.EventType(collection),
		Action:     action,
		Collection: collection,
		DocumentID: id,
		Payload:    payload,
	})
}

func writeAction(kind models.WriteKind) models.EventAction {
	switch kind {
	case models.WriteUpdate:
		return models.ActionUpdated
	case models.WriteDelete:
		return models.ActionDeleted
	default:
		return models.ActionCreated
	}
}

// stampCreated sets both timestamps to the store clock.
func stampCreated(fields models.Fields) models.Fields {
	out := fields.Clone()
	out[models.FieldCreatedAt] = models.ServerTimestamp
	out[models.FieldUpdatedAt] = models.ServerTimestamp
	return out
}

// stampUpdated advances updatedAt only. A createdAt in the patch is dropped.
func stampUpdated(fields models.Fields) models.Fields {
	out := fields.Clone()
	delete(out, models.FieldCreatedAt)
	out[models.FieldUpdatedAt] = models.ServerTimestamp
	return out
}
