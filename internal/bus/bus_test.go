package bus

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

func TestBus_PublishFansOutByType(t *testing.T) {
	b := New(logger.Nop())
	ctx := context.Background()

	var accounts, users, all []models.Event
	b.Subscribe(models.EventAccounts, func(_ context.Context, e models.Event) { accounts = append(accounts, e) })
	b.Subscribe(models.EventUsers, func(_ context.Context, e models.Event) { users = append(users, e) })
	b.Subscribe(models.EventAll, func(_ context.Context, e models.Event) { all = append(all, e) })

	n := b.Publish(ctx, models.Event{Type: models.EventAccounts, Action: models.ActionCreated, DocumentID: "a1"})
	assert.Equal(t, 2, n)

	require.Len(t, accounts, 1)
	assert.Equal(t, "a1", accounts[0].DocumentID)
	assert.False(t, accounts[0].EmittedAt.IsZero())
	assert.Empty(t, users)
	assert.Len(t, all, 1)
}

func TestBus_PublishWithoutHandlers(t *testing.T) {
	b := New(logger.Nop())

	assert.Zero(t, b.Publish(context.Background(), models.Event{Type: models.EventSettings}))
}

func TestBus_KeepsEmittedAt(t *testing.T) {
	b := New(logger.Nop())
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	var got time.Time
	b.Subscribe(models.EventUsers, func(_ context.Context, e models.Event) { got = e.EmittedAt })
	b.Publish(context.Background(), models.Event{Type: models.EventUsers, EmittedAt: at})

	assert.Equal(t, at, got)
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	b := New(logger.Nop())

	calls := 0
	id := b.Subscribe(models.EventUsers, func(context.Context, models.Event) { calls++ })

	assert.True(t, b.Unsubscribe(id))
	assert.False(t, b.Unsubscribe(id))
	assert.False(t, b.Unsubscribe("handler_unknown"))

	b.Publish(context.Background(), models.Event{Type: models.EventUsers})
	assert.Zero(t, calls)
	assert.Zero(t, b.Len())
}

func TestBus_PanickingHandlerDoesNotStopDelivery(t *testing.T) {
	b := New(logger.Nop())

	delivered := false
	b.Subscribe(models.EventTransactions, func(context.Context, models.Event) { panic("boom") })
	b.Subscribe(models.EventTransactions, func(context.Context, models.Event) { delivered = true })

	assert.NotPanics(t, func() {
		assert.Equal(t, 2, b.Publish(context.Background(), models.Event{Type: models.EventTransactions}))
	})
	assert.True(t, delivered)
}

func TestBus_UnsubscribeDuringDelivery(t *testing.T) {
	b := New(logger.Nop())

	var id string
	calls := 0
	id = b.Subscribe(models.EventAccounts, func(context.Context, models.Event) {
		calls++
		b.Unsubscribe(id)
	})

	b.Publish(context.Background(), models.Event{Type: models.EventAccounts})
	b.Publish(context.Background(), models.Event{Type: models.EventAccounts})
	assert.Equal(t, 1, calls)
}

func TestBus_ConcurrentUse(t *testing.T) {
	b := New(logger.Nop())
	var received atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := b.Subscribe(models.EventAll, func(context.Context, models.Event) { received.Add(1) })
			b.Publish(context.Background(), models.Event{Type: models.EventUsers})
			b.Unsubscribe(id)
		}()
	}
	wg.Wait()

	assert.Positive(t, received.Load())
	assert.Zero(t, b.Len())
}
