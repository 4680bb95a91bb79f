package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/deepguard/models"
)

// ClientApp holds session settings used by the terminal client.
type ClientApp struct {
	// AuthLatency is the minimum duration of a login or signup call.
	AuthLatency time.Duration
	// DemoEnabled reports whether the built-in demo credential is accepted.
	DemoEnabled bool
	// LogoutHistoryPolicy decides which history entries logout removes.
	LogoutHistoryPolicy models.LogoutHistoryPolicy
	// Version is shown on the build info screen.
	Version string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains session settings.
	App ClientApp
	// Adapter contains detector selection and timeouts.
	Adapter Adapter
	// Storage contains the key-value backend DSN.
	Storage Storage
	// Workers contains background job settings.
	Workers Workers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// The in-memory default DSN is replaced with a JSON document under the user
// config directory so that sessions and history survive restarts.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			AuthLatency:         cfg.App.AuthLatency,
			DemoEnabled:         !cfg.App.DemoDisabled,
			LogoutHistoryPolicy: models.LogoutHistoryPolicy(cfg.App.LogoutHistoryPolicy),
			Version:             cfg.App.Version,
		},
		Adapter: cfg.Adapter,
		Storage: cfg.Storage,
		Workers: cfg.Workers,
	}
	if clientCfg.Storage.DSN == "memory" {
		clientCfg.Storage.DSN = defaultClientDSN()
	}

	return clientCfg, clientCfg.validate()
}

// ServerConfig is the configuration view used by the HTTP API server.
type ServerConfig struct {
	App     App
	Storage Storage
	Server  Server
	Adapter Adapter
	Workers Workers
}

// GetServerConfig builds and validates the server configuration view.
func GetServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App:     cfg.App,
		Storage: cfg.Storage,
		Server:  cfg.Server,
		Adapter: cfg.Adapter,
		Workers: cfg.Workers,
	}

	return serverCfg, serverCfg.validate()
}

func defaultClientDSN() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return "file://" + filepath.Join(dir, "deepguard", "state.json")
}
