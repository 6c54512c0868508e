package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

func newTestMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore(logger.Nop(), WithClock(stepClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemoryStore_AddResolvesServerTimestamps(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx := context.Background()

	doc, err := s.Add(ctx, "accounts", models.Fields{
		"name":                 "Checking",
		models.FieldCreatedAt: models.ServerTimestamp,
		models.FieldUpdatedAt: models.ServerTimestamp,
	})
	require.NoError(t, err)

	assert.Len(t, doc.ID, 20)
	assert.False(t, doc.CreatedAt().IsZero())
	assert.Equal(t, doc.CreatedAt(), doc.UpdatedAt())

	stored, err := s.Get(ctx, "accounts", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, stored)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := newTestMemoryStore(t)

	_, err := s.Get(context.Background(), "users", "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateMergesAndAdvancesTimestamp(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx := context.Background()

	created, err := s.Set(ctx, "users", "u1", models.Fields{
		"name":                 "Ada",
		"email":                "ada@example.com",
		models.FieldCreatedAt: models.ServerTimestamp,
		models.FieldUpdatedAt: models.ServerTimestamp,
	})
	require.NoError(t, err)

	err = s.Update(ctx, "users", "u1", models.Fields{
		"name":                 "Ada L.",
		models.FieldUpdatedAt: models.ServerTimestamp,
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", got.String("name"))
	assert.Equal(t, "ada@example.com", got.String("email"))
	assert.Equal(t, created.CreatedAt(), got.CreatedAt())
	assert.True(t, got.UpdatedAt().After(got.CreatedAt()))
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	s := newTestMemoryStore(t)

	err := s.Update(context.Background(), "users", "ghost", models.Fields{"a": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx := context.Background()

	_, err := s.Set(ctx, "users", "u1", models.Fields{"name": "Ada"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "users", "u1"))
	require.NoError(t, s.Delete(ctx, "users", "u1"))

	_, err = s.Get(ctx, "users", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReturnedDocumentsAreCopies(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx := context.Background()

	_, err := s.Set(ctx, "users", "u1", models.Fields{"name": "Ada"})
	require.NoError(t, err)

	got, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	got.Fields["name"] = "mutated"

	again, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.String("name"))
}

func TestMemoryStore_Query(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx := context.Background()
	s.Seed("accounts",
		models.Document{ID: "a1", Fields: models.Fields{"userId": "u1", "balance": 10.0}},
		models.Document{ID: "a2", Fields: models.Fields{"userId": "u2", "balance": 20.0}},
		models.Document{ID: "a3", Fields: models.Fields{"userId": "u1", "balance": 30.0}},
	)

	docs, err := s.Query(ctx, "accounts",
		models.Where("userId", models.OpEqual, "u1"),
		models.OrderBy("balance", models.Desc),
	)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a3", docs[0].ID)
	assert.Equal(t, "a1", docs[1].ID)

	_, err = s.Query(ctx, "accounts", models.Limit(0))
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestMemoryStore_CommitIsAtomic(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx := context.Background()
	s.Seed("accounts", models.Document{ID: "a1", Fields: models.Fields{"balance": 100.0}})

	err := s.Commit(ctx, []models.Write{
		models.UpdateWrite("accounts", "a1", models.Fields{"balance": 50.0}),
		models.UpdateWrite("accounts", "missing", models.Fields{"balance": 50.0}),
	})
	require.ErrorIs(t, err, ErrNotFound)

	got, err := s.Get(ctx, "accounts", "a1")
	require.NoError(t, err)
	balance, _ := got.Float("balance")
	assert.Equal(t, 100.0, balance)
}

func TestMemoryStore_CommitAppliesInOrder(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx := context.Background()

	err := s.Commit(ctx, []models.Write{
		models.SetWrite("transactions", "t1", models.Fields{"amount": 5.0, models.FieldCreatedAt: models.ServerTimestamp}),
		models.UpdateWrite("transactions", "t1", models.Fields{"amount": 7.0, models.FieldUpdatedAt: models.ServerTimestamp}),
		models.SetWrite("accounts", "a1", models.Fields{"balance": 1.0}),
		models.DeleteWrite("accounts", "a1"),
	})
	require.NoError(t, err)

	tx, err := s.Get(ctx, "transactions", "t1")
	require.NoError(t, err)
	amount, _ := tx.Float("amount")
	assert.Equal(t, 7.0, amount)
	// one clock tick per batch
	assert.Equal(t, tx.CreatedAt(), tx.UpdatedAt())

	_, err = s.Get(ctx, "accounts", "a1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CommitRejectsInvalidWrites(t *testing.T) {
	s := newTestMemoryStore(t)

	err := s.Commit(context.Background(), []models.Write{{Kind: models.WriteSet, Collection: "users"}})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestMemoryStore_WatchDocument(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx := context.Background()

	updates := make(chan *models.Document, 10)
	unsubscribe, err := s.WatchDocument(ctx, "users", "u1", func(doc *models.Document, err error) {
		assert.NoError(t, err)
		updates <- doc
	})
	require.NoError(t, err)
	defer unsubscribe()

	// first delivery: document does not exist yet
	assert.Nil(t, receive(t, updates))

	_, err = s.Set(ctx, "users", "u1", models.Fields{"name": "Ada"})
	require.NoError(t, err)

	doc := receive(t, updates)
	require.NotNil(t, doc)
	assert.Equal(t, "Ada", doc.String("name"))

	// writes to another document of the collection do not re-deliver
	_, err = s.Set(ctx, "users", "u2", models.Fields{"name": "Bob"})
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, "users", "u1", models.Fields{"name": "Ada L."}))

	doc = receive(t, updates)
	require.NotNil(t, doc)
	assert.Equal(t, "Ada L.", doc.String("name"))
}

func TestMemoryStore_WatchQueryAndUnsubscribe(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx := context.Background()

	results := make(chan []models.Document, 10)
	unsubscribe, err := s.WatchQuery(ctx, "accounts",
		[]models.Constraint{models.Where("userId", models.OpEqual, "u1")},
		func(docs []models.Document, err error) {
			assert.NoError(t, err)
			results <- docs
		})
	require.NoError(t, err)

	assert.Empty(t, receive(t, results))

	_, err = s.Set(ctx, "accounts", "a1", models.Fields{"userId": "u1"})
	require.NoError(t, err)
	assert.Len(t, receive(t, results), 1)

	unsubscribe()
	unsubscribe()
	assert.Eventually(t, func() bool { return s.Listeners() == 0 }, time.Second, 5*time.Millisecond)

	_, err = s.Set(ctx, "accounts", "a2", models.Fields{"userId": "u1"})
	require.NoError(t, err)
	select {
	case docs := <-results:
		t.Fatalf("unexpected delivery after unsubscribe: %v", docs)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryStore_WatchStopsWithContext(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	delivered := make(chan struct{}, 1)
	_, err := s.WatchQuery(ctx, "users", nil, func([]models.Document, error) {
		delivered <- struct{}{}
	})
	require.NoError(t, err)
	<-delivered

	cancel()
	assert.Eventually(t, func() bool { return s.Listeners() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryStore_WatchAfterClose(t *testing.T) {
	s := NewMemoryStore(logger.Nop())
	require.NoError(t, s.Close())

	_, err := s.WatchDocument(context.Background(), "users", "u1", func(*models.Document, error) {})
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := newTestMemoryStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Query(ctx, "users")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for listener delivery")
	}
	var zero T
	return zero
}
