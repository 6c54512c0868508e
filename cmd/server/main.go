package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-bank-sync/internal/bus"
	"github.com/MKhiriev/go-bank-sync/internal/config"
	"github.com/MKhiriev/go-bank-sync/internal/fallback"
	"github.com/MKhiriev/go-bank-sync/internal/handler"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/internal/server"
	"github.com/MKhiriev/go-bank-sync/internal/service"
	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/internal/workers"
	"github.com/MKhiriev/go-bank-sync/models"
)

const role = "go-bank-sync-server"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger(role, "").Fatal().Err(err).Msg("error getting configs")
	}
	if buildVersion != "N/A" {
		cfg.App.Version = buildVersion
	}

	log := logger.NewLogger(role, cfg.App.LogLevel)
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	fixtures, err := fallback.Load(cfg.Storage.FixturesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading fixtures")
	}
	if memory, ok := storages.Documents.(*store.MemoryStore); ok {
		seeded := fixtures.SeedInto(memory)
		log.Info().Int("documents", seeded).Msg("memory store seeded with fixtures")
	}

	events := bus.New(log.WithComponent("bus"))

	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, events, fixtures, *cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	background := workers.NewWorkers(log.WithComponent("workers"),
		workers.NewEventLog(events, log.WithComponent("events")),
		workers.NewRemoteChanges(services.SyncService, services.DocumentService, events, models.BankingCollections, log.WithComponent("remote")),
	)
	workersDone := make(chan struct{})
	go func() {
		background.Run(ctx)
		close(workersDone)
	}()

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log,
		func() {
			cancel()
			<-workersDone
		},
		func() {
			released := services.SubscriptionService.UnsubscribeAll()
			log.Info().Int("listeners", released).Msg("listeners released")
		},
		func() {
			if err := storages.Close(); err != nil {
				log.Err(err).Msg("error closing document store")
			}
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err := srv.RunServer(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
