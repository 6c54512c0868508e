// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

// MemoryStore is an in-process [DocumentStore]. It backs the demo mode and
// the tests of the layers above, and behaves like the remote backends:
// server timestamps resolve to the store clock and listeners fire after
// every successful write.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]models.Fields
	now  func() time.Time

	hub    *watchHub
	logger *logger.Logger
}

// MemoryOption customizes a [MemoryStore].
type MemoryOption func(*MemoryStore)

// WithClock replaces the clock used to resolve server timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(log *logger.Logger, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		data:   make(map[string]map[string]models.Fields),
		now:    time.Now,
		hub:    newWatchHub(log),
		logger: log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed stores docs as they are, without resolving timestamps or notifying
// listeners. It is meant for fixtures.
func (s *MemoryStore) Seed(collection string, docs ...models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		s.collection(collection)[doc.ID] = doc.Fields.Clone()
	}
}

func (s *MemoryStore) Add(ctx context.Context, collection string, fields models.Fields) (models.Document, error) {
	return s.Set(ctx, collection, NewDocumentID(), fields)
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, fields models.Fields) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if collection == "" || id == "" {
		return models.Document{}, fmt.Errorf("%w: collection and id are required", ErrInvalidQuery)
	}

	s.mu.Lock()
	resolved := models.ResolveServerTimestamps(fields, s.now())
	s.collection(collection)[id] = resolved
	s.mu.Unlock()

	s.hub.notify(collection)

	logger.FromContextOr(ctx, s.logger).Debug().
		Str("func", "MemoryStore.Set").
		Str("collection", collection).
		Str("id", id).
		Msg("document stored")

	return models.Document{ID: id, Fields: resolved.Clone()}, nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.data[collection][id]
	if !ok {
		return models.Document{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return models.Document{ID: id, Fields: fields.Clone()}, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields models.Fields) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.mu.Lock()
	existing, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	s.data[collection][id] = mergeFields(existing, models.ResolveServerTimestamps(fields, s.now()))
	s.mu.Unlock()

	s.hub.notify(collection)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.mu.Lock()
	_, existed := s.data[collection][id]
	delete(s.data[collection], id)
	s.mu.Unlock()

	if existed {
		s.hub.notify(collection)
	}
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, constraints ...models.Constraint) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.mu.RLock()
	docs := make([]models.Document, 0, len(s.data[collection]))
	for id, fields := range s.data[collection] {
		docs = append(docs, models.Document{ID: id, Fields: fields.Clone()})
	}
	s.mu.RUnlock()

	SortByID(docs)
	return ApplyConstraints(docs, constraints)
}

// Commit stages every write against a private overlay first, so a failing
// update leaves the store untouched.
func (s *MemoryStore) Commit(ctx context.Context, writes []models.Write) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := ValidateWrites(writes); err != nil {
		return err
	}

	type key struct{ collection, id string }

	s.mu.Lock()
	now := s.now()
	staged := make(map[key]models.Fields, len(writes))
	order := make([]key, 0, len(writes))

	current := func(k key) (models.Fields, bool) {
		if f, ok := staged[k]; ok {
			return f, f != nil
		}
		f, ok := s.data[k.collection][k.id]
		return f, ok
	}

	for i, w := range writes {
		k := key{w.Collection, w.ID}
		if _, ok := staged[k]; !ok {
			order = append(order, k)
		}

		switch w.Kind {
		case models.WriteSet:
			staged[k] = models.ResolveServerTimestamps(w.Fields, now)
		case models.WriteUpdate:
			existing, ok := current(k)
			if !ok {
				s.mu.Unlock()
				return fmt.Errorf("%w: write %d: %s/%s", ErrNotFound, i, w.Collection, w.ID)
			}
			staged[k] = mergeFields(existing, models.ResolveServerTimestamps(w.Fields, now))
		case models.WriteDelete:
			staged[k] = nil
		}
	}

	for _, k := range order {
		if f := staged[k]; f != nil {
			s.collection(k.collection)[k.id] = f
		} else {
			delete(s.data[k.collection], k.id)
		}
	}
	s.mu.Unlock()

	s.hub.notify(touchedCollections(writes)...)
	return nil
}

func (s *MemoryStore) WatchDocument(ctx context.Context, collection, id string, cb DocumentCallback) (Unsubscribe, error) {
	return s.hub.watchDocumentWith(ctx, collection, func(ctx context.Context) (models.Document, error) {
		return s.Get(ctx, collection, id)
	}, cb)
}

func (s *MemoryStore) WatchQuery(ctx context.Context, collection string, constraints []models.Constraint, cb QueryCallback) (Unsubscribe, error) {
	if err := ValidateConstraints(constraints); err != nil {
		return nil, err
	}
	return s.hub.watchQueryWith(ctx, collection, func(ctx context.Context) ([]models.Document, error) {
		return s.Query(ctx, collection, constraints...)
	}, cb)
}

// Listeners returns the number of active listeners.
func (s *MemoryStore) Listeners() int {
	return s.hub.active()
}

func (s *MemoryStore) Close() error {
	s.hub.close()
	return nil
}

// collection must be called with s.mu held for writing.
func (s *MemoryStore) collection(name string) map[string]models.Fields {
	c, ok := s.data[name]
	if !ok {
		c = make(map[string]models.Fields)
		s.data[name] = c
	}
	return c
}
