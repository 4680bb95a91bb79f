package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON decoding. Durations
// are accepted as strings ("1s", "5m") or as integer nanoseconds.
type StructuredJSONConfig struct {
	App struct {
		AuthLatency         Duration  `json:"auth_latency"`
		DemoDisabled        bool      `json:"demo_disabled"`
		LogoutHistoryPolicy string    `json:"logout_history_policy"`
		TokenSignKey        string    `json:"token_sign_key"`
		TokenIssuer         string    `json:"token_issuer"`
		TokenDuration       Duration  `json:"token_duration"`
		Version             string    `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DSN string `json:"dsn"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		MaxUploadSize  int64    `json:"max_upload_size"`
	} `json:"server,omitempty"`

	Adapter struct {
		Detector       string   `json:"detector"`
		BackendURL     string   `json:"backend_url"`
		RequestTimeout Duration `json:"request_timeout"`
		SimulatedMin   Duration `json:"simulated_min"`
		SimulatedMax   Duration `json:"simulated_max"`
	} `json:"adapter,omitempty"`

	Workers struct {
		HealthInterval Duration `json:"health_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			AuthLatency:         time.Duration(jsonCfg.App.AuthLatency),
			DemoDisabled:        jsonCfg.App.DemoDisabled,
			LogoutHistoryPolicy: jsonCfg.App.LogoutHistoryPolicy,
			TokenSignKey:        jsonCfg.App.TokenSignKey,
			TokenIssuer:         jsonCfg.App.TokenIssuer,
			TokenDuration:       time.Duration(jsonCfg.App.TokenDuration),
			Version:             jsonCfg.App.Version,
		},
		Storage: Storage{
			DSN: jsonCfg.Storage.DSN,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			MaxUploadSize:  jsonCfg.Server.MaxUploadSize,
		},
		Adapter: Adapter{
			Detector:       jsonCfg.Adapter.Detector,
			BackendURL:     jsonCfg.Adapter.BackendURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			SimulatedMin:   time.Duration(jsonCfg.Adapter.SimulatedMin),
			SimulatedMax:   time.Duration(jsonCfg.Adapter.SimulatedMax),
		},
		Workers: Workers{
			HealthInterval: time.Duration(jsonCfg.Workers.HealthInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
