// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_AUTH_LATENCY":          "250ms",
		"APP_DEMO_DISABLED":         "true",
		"APP_LOGOUT_HISTORY_POLICY": "user",
		"APP_TOKEN_SIGN_KEY":        "jwt_secret",
		"APP_TOKEN_ISSUER":          "test_issuer",
		"APP_TOKEN_DURATION":        "1h",
		"APP_VERSION":               "9.9.9",

		"STORAGE_DSN": "sqlite:///tmp/state.db",

		"SERVER_ADDRESS":         "localhost:8080",
		"SERVER_REQUEST_TIMEOUT": "30s",
		"SERVER_MAX_UPLOAD_SIZE": "1024",

		"ADAPTER_DETECTOR":        "remote",
		"ADAPTER_BACKEND_URL":     "http://detector:8000",
		"ADAPTER_REQUEST_TIMEOUT": "1m",
		"ADAPTER_SIMULATED_MIN":   "1s",
		"ADAPTER_SIMULATED_MAX":   "2s",

		"WORKERS_HEALTH_INTERVAL": "10s",
	}
	setEnvVars(t, envVars)

	// Act
	cfg, err := parseEnv()

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, 250*time.Millisecond, cfg.App.AuthLatency)
	assert.True(t, cfg.App.DemoDisabled)
	assert.Equal(t, "user", cfg.App.LogoutHistoryPolicy)
	assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.App.TokenIssuer)
	assert.Equal(t, time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "9.9.9", cfg.App.Version)

	assert.Equal(t, "sqlite:///tmp/state.db", cfg.Storage.DSN)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, int64(1024), cfg.Server.MaxUploadSize)

	assert.Equal(t, "remote", cfg.Adapter.Detector)
	assert.Equal(t, "http://detector:8000", cfg.Adapter.BackendURL)
	assert.Equal(t, time.Minute, cfg.Adapter.RequestTimeout)
	assert.Equal(t, time.Second, cfg.Adapter.SimulatedMin)
	assert.Equal(t, 2*time.Second, cfg.Adapter.SimulatedMax)

	assert.Equal(t, 10*time.Second, cfg.Workers.HealthInterval)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"APP_TOKEN_SIGN_KEY": "jwt_secret",
		"SERVER_ADDRESS":     "localhost:8080",
	})

	// Act
	cfg, err := parseEnv()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
	assert.Empty(t, cfg.App.TokenIssuer)
	assert.Zero(t, cfg.App.TokenDuration)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Empty(t, cfg.Storage.DSN)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("APP_AUTH_LATENCY", "not-a-duration")

	_, err := parseEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}
