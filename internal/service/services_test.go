package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bank-sync/internal/bus"
	"github.com/MKhiriev/go-bank-sync/internal/config"
	"github.com/MKhiriev/go-bank-sync/internal/fallback"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/models"
)

func TestNewServices(t *testing.T) {
	cfg := config.Defaults()
	storages := &store.Storages{Documents: newMemoryStore(t), Driver: config.DriverMemory}
	events := bus.New(logger.Nop())

	services, err := NewServices(storages, events, fallback.Demo(), *cfg, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)

	received := 0
	events.Subscribe(models.EventAll, func(context.Context, models.Event) { received++ })

	_, err = services.DocumentService.Create(context.Background(), models.CollectionUsers, models.Fields{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, 1, received)
	assert.Len(t, services.BankingService.Users(context.Background()), 1)
	assert.Equal(t, "dev", services.AppInfoService.GetAppInfo(context.Background()).Version)
}

func TestNewServices_NoVersion(t *testing.T) {
	cfg := config.Defaults()
	cfg.App.Version = ""

	_, err := NewServices(&store.Storages{Documents: store.NewUnconfigured()}, bus.New(logger.Nop()), nil, *cfg, models.AppBuildInfo{}, logger.Nop())
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)
}
