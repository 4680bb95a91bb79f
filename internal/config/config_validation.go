// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/deepguard/models"
)

// validate checks the invariants shared by every runtime before the merged
// [StructuredConfig] is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.LogoutHistoryPolicy != "" &&
		!models.LogoutHistoryPolicy(cfg.App.LogoutHistoryPolicy).IsValid() {
		return fmt.Errorf("%w: unknown logout history policy %q", ErrInvalidAppConfigs, cfg.App.LogoutHistoryPolicy)
	}

	if cfg.Storage.DSN != "" && !supportedDSN(cfg.Storage.DSN) {
		return fmt.Errorf("%w: unsupported dsn %q", ErrInvalidStorageConfigs, cfg.Storage.DSN)
	}

	switch cfg.Adapter.Detector {
	case "", DetectorSimulated:
	case DetectorRemote:
		if cfg.Adapter.BackendURL == "" {
			return fmt.Errorf("%w: remote detector requires backend url", ErrInvalidAdapterConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown detector %q", ErrInvalidAdapterConfigs, cfg.Adapter.Detector)
	}
	if cfg.Adapter.SimulatedMax < cfg.Adapter.SimulatedMin {
		return fmt.Errorf("%w: simulated max below min", ErrInvalidAdapterConfigs)
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout == 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration == 0 {
		return ErrInvalidServerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.Detector == DetectorRemote && cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Adapter.Detector == DetectorRemote && cfg.Workers.HealthInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func supportedDSN(dsn string) bool {
	switch {
	case dsn == "memory",
		strings.HasPrefix(dsn, "file://"),
		strings.HasPrefix(dsn, "sqlite://"),
		strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"):
		return true
	}
	// bare paths are treated as JSON document files
	return !strings.Contains(dsn, "://")
}
