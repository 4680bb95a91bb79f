package service

import (
	"github.com/MKhiriev/deepguard/internal/adapter"
	"github.com/MKhiriev/deepguard/internal/config"
	"github.com/MKhiriev/deepguard/internal/crypto"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/internal/utils"
	"github.com/MKhiriev/deepguard/models"
)

// Services is the service set of the multi-user HTTP API.
type Services struct {
	AuthService      AuthService
	HistoryService   HistoryService
	DetectionService DetectionService
	HealthService    HealthService
	AppInfoService   AppInfoService
}

func NewServices(storages *store.Storages, adapters *adapter.Adapters, cfg config.ServerConfig, logger *logger.Logger) (*Services, error) {
	ids := utils.NewUUIDGenerator()

	appInfo, err := NewAppInfoService(cfg.App.Version, logger)
	if err != nil {
		return nil, err
	}

	auth := NewAuthService(storages.CredentialRepository, crypto.NewPasswordHasher(), ids, AuthOptions{
		DemoEnabled:   !cfg.App.DemoDisabled,
		TokenSignKey:  cfg.App.TokenSignKey,
		TokenIssuer:   cfg.App.TokenIssuer,
		TokenDuration: cfg.App.TokenDuration,
	}, logger)
	history := NewHistoryService(storages.HistoryRepository, ids, models.LogoutHistoryPolicy(cfg.App.LogoutHistoryPolicy), logger)
	health := NewHealthService(adapters.HealthChecker, logger)

	return &Services{
		AuthService:      auth,
		HistoryService:   history,
		DetectionService: NewDetectionService(adapters.Detector, health, history, logger),
		HealthService:    health,
		AppInfoService:   appInfo,
	}, nil
}

// ClientServices is the service set of the single-user terminal client.
type ClientServices struct {
	SessionManager   SessionManager
	HistoryService   HistoryService
	DetectionService DetectionService
	HealthService    HealthService
}

func NewClientServices(storages *store.Storages, adapters *adapter.Adapters, cfg config.ClientConfig, logger *logger.Logger) *ClientServices {
	ids := utils.NewUUIDGenerator()

	auth := NewAuthService(storages.CredentialRepository, crypto.NewPasswordHasher(), ids,
		AuthOptions{DemoEnabled: cfg.App.DemoEnabled}, logger)
	history := NewHistoryService(storages.HistoryRepository, ids, cfg.App.LogoutHistoryPolicy, logger)
	health := NewHealthService(adapters.HealthChecker, logger)

	return &ClientServices{
		SessionManager:   NewSessionManager(auth, storages.SessionRepository, history, cfg.App.AuthLatency, logger),
		HistoryService:   history,
		DetectionService: NewDetectionService(adapters.Detector, health, history, logger),
		HealthService:    health,
	}
}
