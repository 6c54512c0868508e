package service

import (
	"github.com/MKhiriev/go-bank-sync/internal/cache"
	"github.com/MKhiriev/go-bank-sync/internal/config"
	"github.com/MKhiriev/go-bank-sync/internal/fallback"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/models"
)

type Services struct {
	DocumentService     DocumentService
	SubscriptionService SubscriptionService
	BankingService      BankingService
	SyncService         SyncService
	AppInfoService      AppInfoService
}

func NewServices(storages *store.Storages, publisher EventPublisher, offline fallback.Provider, cfg config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, build, logger)
	if err != nil {
		return nil, err
	}

	documents := NewDocumentService(
		storages.Documents,
		cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval),
		publisher,
		logger.WithComponent("documents"),
		WithFallback(offline),
		WithProduction(cfg.App.IsProduction()),
	)
	subscriptions := NewSubscriptionService(storages.Documents, logger.WithComponent("subscriptions"))

	return &Services{
		DocumentService:     documents,
		SubscriptionService: subscriptions,
		BankingService:      NewBankingService(documents, logger.WithComponent("banking")),
		SyncService:         NewSyncService(subscriptions, publisher, logger.WithComponent("sync")),
		AppInfoService:      appInfo,
	}, nil
}
