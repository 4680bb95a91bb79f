package main

import (
	"context"
	"os"

	"github.com/MKhiriev/deepguard/internal/adapter"
	"github.com/MKhiriev/deepguard/internal/client"
	"github.com/MKhiriev/deepguard/internal/config"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/internal/tui"
	"github.com/MKhiriev/deepguard/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewClientLogger("deepguard-client")
	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	adapters, err := adapter.NewAdapters(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create detection adapters")
	}

	services := service.NewClientServices(storages, adapters, *cfg, log)

	if buildVersion == "" {
		buildVersion = cfg.App.Version
	}
	ui := tui.New(services, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)

	app, err := client.NewApp(services, ui, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	runErr := app.Run()
	if err = storages.Close(); err != nil {
		log.Err(err).Msg("error closing local storage")
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("client run error")
	}
}
