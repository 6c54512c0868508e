package service

import (
	"context"

	"github.com/MKhiriev/go-bank-sync/internal/config"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

type appInfoService struct {
	info models.AppInfo

	logger *logger.Logger
}

func NewAppInfoService(cfg config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (AppInfoService, error) {
	if cfg.App.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		info: models.AppInfo{
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			Driver:      cfg.Storage.Driver,
			BuildDate:   build.BuildDate(),
			BuildCommit: build.BuildCommit(),
		},
		logger: logger,
	}, nil
}

func (s *appInfoService) GetAppInfo(ctx context.Context) models.AppInfo {
	return s.info
}
