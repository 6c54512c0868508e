package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-bank-sync/internal/bus"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/internal/mock"
	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/models"
)

func TestSyncService_WatchUserPublishesSnapshots(t *testing.T) {
	memory := newMemoryStore(t)
	events := bus.New(logger.Nop())
	subs := NewSubscriptionService(memory, logger.Nop())
	svc := NewSyncService(subs, events, logger.Nop())
	ctx := context.Background()

	received := make(chan models.Event, 10)
	events.Subscribe(models.EventUsers, func(_ context.Context, e models.Event) { received <- e })

	id, err := svc.WatchUser(ctx, "u1")
	require.NoError(t, err)

	first := receive(t, received)
	assert.Equal(t, models.ActionSnapshot, first.Action)
	assert.Equal(t, "u1", first.DocumentID)
	assert.Nil(t, first.Payload.(*models.User))

	_, err = memory.Set(ctx, models.CollectionUsers, "u1", models.Fields{"displayName": "Ada", "role": "admin"})
	require.NoError(t, err)

	second := receive(t, received)
	user, ok := second.Payload.(*models.User)
	require.True(t, ok)
	require.NotNil(t, user)
	assert.Equal(t, "Ada", user.DisplayName)
	assert.Equal(t, models.RoleAdmin, user.Role)

	assert.True(t, svc.Stop(id))
	assert.False(t, svc.Stop(id))
}

func TestSyncService_WatchCollectionPublishesResults(t *testing.T) {
	memory := newMemoryStore(t)
	memory.Seed(models.CollectionAccounts, models.Document{ID: "a1", Fields: models.Fields{"userId": "u1"}})

	ctrl := gomock.NewController(t)
	publisher := mock.NewMockEventPublisher(ctrl)
	svc := NewSyncService(NewSubscriptionService(memory, logger.Nop()), publisher, logger.Nop())

	done := make(chan models.Event, 1)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e models.Event) int {
		done <- e
		return 1
	})

	id, err := svc.WatchCollection(context.Background(), models.CollectionAccounts, models.Where("userId", models.OpEqual, "u1"))
	require.NoError(t, err)
	defer svc.Stop(id)

	e := receive(t, done)
	assert.Equal(t, models.EventAccounts, e.Type)
	docs, ok := e.Payload.([]models.Document)
	require.True(t, ok)
	assert.Len(t, docs, 1)
}

func TestSyncService_ListenerFailureIsNotPublished(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mock.NewMockDocumentStore(ctrl)
	publisher := mock.NewMockEventPublisher(ctrl)
	svc := NewSyncService(NewSubscriptionService(mockStore, logger.Nop()), publisher, logger.Nop())

	mockStore.EXPECT().
		WatchDocument(gomock.Any(), models.CollectionUsers, "u1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, cb store.DocumentCallback) (store.Unsubscribe, error) {
			cb(nil, store.ErrUnavailable)
			return func() {}, nil
		})
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.WatchUser(context.Background(), "u1")
	assert.NoError(t, err)
}
