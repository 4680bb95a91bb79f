package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses configuration flags from args (normally os.Args[1:]).
//
// Flags:
//
//	-a               server address in format [host]:[port]
//	-d               storage DSN
//	-c/-config       json file path with configs
//	-token-sign-key  token signing key
//	-token-issuer    token issuer name
//	-token-duration  token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-auth-latency    minimum login/signup duration (e.g., "1s", "-1s" disables)
//	-logout-policy   history purge on logout: global, user or keep
//	-no-demo         disable the demo credential
//	-detector        detector mode: simulated or remote
//	-backend-url     detection backend base URL
//	-health-interval backend health poll interval
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("deepguard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var serverAddress NetAddress
	var dsn, jsonConfigPath string
	var tokenSignKey, tokenIssuer string
	var tokenDuration, requestTimeout, authLatency, healthInterval time.Duration
	var logoutPolicy, detector, backendURL string
	var noDemo bool

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&dsn, "d", "", "Storage DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&authLatency, "auth-latency", 0, "Minimum login/signup duration")
	fs.StringVar(&logoutPolicy, "logout-policy", "", "History purge on logout: global, user, keep")
	fs.BoolVar(&noDemo, "no-demo", false, "Disable the demo credential")
	fs.StringVar(&detector, "detector", "", "Detector mode: simulated, remote")
	fs.StringVar(&backendURL, "backend-url", "", "Detection backend base URL")
	fs.DurationVar(&healthInterval, "health-interval", 0, "Backend health poll interval")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			AuthLatency:         authLatency,
			DemoDisabled:        noDemo,
			LogoutHistoryPolicy: logoutPolicy,
			TokenSignKey:        tokenSignKey,
			TokenIssuer:         tokenIssuer,
			TokenDuration:       tokenDuration,
		},
		Storage: Storage{
			DSN: dsn,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			Detector:   detector,
			BackendURL: backendURL,
		},
		Workers: Workers{
			HealthInterval: healthInterval,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress, or an empty
// string when neither part is set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost", and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
