package client

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/deepguard/internal/config"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/workers"
)

// App runs the terminal UI together with its background workers.
type App struct {
	ui      UI
	workers *workers.Workers
	logger  *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, cfg config.Workers, logger *logger.Logger) (*App, error) {
	if services == nil || ui == nil {
		return nil, errNoUIIsCreated
	}

	poller := workers.NewHealthPoller(services.HealthService, cfg.HealthInterval, logger).
		OnStatus(ui.NotifyBackendStatus)

	return &App{
		ui:      ui,
		workers: workers.NewWorkers(poller),
		logger:  logger,
	}, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return a.run(ctx)
}

// run returns once the UI has exited and every worker has stopped.
func (a *App) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.workers.Run(ctx)
	a.logger.Info().Str("func", "*App.run").Msg("client started")

	err := a.ui.Run(ctx)

	cancel()
	a.workers.Wait()
	a.logger.Info().Str("func", "*App.run").Msg("client stopped")

	if err != nil {
		return fmt.Errorf("client ui: %w", err)
	}
	return nil
}
