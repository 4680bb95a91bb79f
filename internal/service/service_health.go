package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/deepguard/internal/adapter"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/models"
)

type healthService struct {
	checker adapter.HealthChecker

	mu     sync.RWMutex
	status models.BackendStatus

	logger *logger.Logger
}

// NewHealthService constructs a HealthService whose status starts as
// [models.BackendChecking].
func NewHealthService(checker adapter.HealthChecker, logger *logger.Logger) HealthService {
	return &healthService{
		checker: checker,
		status:  models.BackendChecking,
		logger:  logger,
	}
}

func (s *healthService) Check(ctx context.Context) models.BackendStatus {
	status, err := s.checker.Check(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "*healthService.Check").Msg("detection backend is unreachable")
		status = models.BackendUnreachable
	}

	s.mu.Lock()
	previous := s.status
	s.status = status
	s.mu.Unlock()

	if previous != status {
		logger.FromContext(ctx).Info().Str("func", "*healthService.Check").
			Str("from", string(previous)).Str("to", string(status)).Msg("backend status changed")
	}

	return status
}

func (s *healthService) Status(ctx context.Context) models.BackendStatus {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	if status == models.BackendChecking {
		return s.Check(ctx)
	}
	return status
}
