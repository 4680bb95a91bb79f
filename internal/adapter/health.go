package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/deepguard/internal/config"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/utils"
	"github.com/MKhiriev/deepguard/models"
)

type healthResponse struct {
	Status string `json:"status"`
}

type httpHealthChecker struct {
	client *utils.HTTPClient
}

// NewHTTPHealthChecker probes GET {baseURL}/api/health.
func NewHTTPHealthChecker(baseURL string, timeout time.Duration) (HealthChecker, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid detection backend url: %w", err)
	}

	return &httpHealthChecker{client: utils.NewHTTPClient(normalized, timeout)}, nil
}

// Check reports [models.BackendHealthy] only for a 2xx response whose status
// field is "healthy". Any other outcome is [models.BackendUnreachable] with
// the cause.
func (h *httpHealthChecker) Check(ctx context.Context) (models.BackendStatus, error) {
	var body healthResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/api/health")
	if err != nil {
		return models.BackendUnreachable, fmt.Errorf("%w: %w", ErrBackendUnreachable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.BackendUnreachable, err
	}
	if body.Status != string(models.BackendHealthy) {
		return models.BackendUnreachable, fmt.Errorf("%w: status %q", ErrInvalidResponse, body.Status)
	}

	return models.BackendHealthy, nil
}

// staticHealthChecker always reports healthy. The simulated detector runs in
// process, so there is nothing to probe.
type staticHealthChecker struct{}

func (staticHealthChecker) Check(context.Context) (models.BackendStatus, error) {
	return models.BackendHealthy, nil
}

// Adapters bundles the detector and health checker selected by configuration.
type Adapters struct {
	Detector      Detector
	HealthChecker HealthChecker
}

// NewAdapters builds the detector pair selected by cfg.Detector.
func NewAdapters(cfg config.Adapter, log *logger.Logger) (*Adapters, error) {
	switch cfg.Detector {
	case "", config.DetectorSimulated:
		log.Info().Str("func", "NewAdapters").Msg("using simulated detector")
		return &Adapters{
			Detector:      NewSimulatedDetector(cfg.SimulatedMin, cfg.SimulatedMax, nil, log),
			HealthChecker: staticHealthChecker{},
		}, nil

	case config.DetectorRemote:
		detector, err := NewRemoteDetector(cfg.BackendURL, cfg.RequestTimeout, log)
		if err != nil {
			return nil, err
		}
		checker, err := NewHTTPHealthChecker(cfg.BackendURL, healthTimeout(cfg.RequestTimeout))
		if err != nil {
			return nil, err
		}
		log.Info().Str("func", "NewAdapters").Str("url", cfg.BackendURL).Msg("using remote detector")
		return &Adapters{Detector: detector, HealthChecker: checker}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDetector, cfg.Detector)
}

// healthTimeout keeps probes short even when analysis requests may take
// minutes.
func healthTimeout(requestTimeout time.Duration) time.Duration {
	const maxProbe = 5 * time.Second
	if requestTimeout <= 0 || requestTimeout > maxProbe {
		return maxProbe
	}
	return requestTimeout
}
