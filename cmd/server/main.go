package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/deepguard/internal/adapter"
	"github.com/MKhiriev/deepguard/internal/config"
	"github.com/MKhiriev/deepguard/internal/handler"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/server"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/internal/workers"
	"github.com/MKhiriev/deepguard/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	fmt.Println(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	log := logger.NewLogger("deepguard-server")
	cfg, err := config.GetServerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Str("storage", cfg.Storage.DSN).Str("detector", cfg.Adapter.Detector).
		Str("address", cfg.Server.HTTPAddress).Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if closeErr := storages.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing storages")
		}
	}()

	adapters, err := adapter.NewAdapters(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating adapters")
	}

	services, err := service.NewServices(storages, adapters, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	jobs := workers.NewWorkers(workers.NewHealthPoller(services.HealthService, cfg.Workers.HealthInterval, log))

	srv, err := server.NewServer(handlers, jobs, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}
