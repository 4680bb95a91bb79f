// Package config provides configuration loading, merging, and validation
// facilities for the deepguard server and terminal client.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. JSON config file (path from CONFIG or -c / -config)
//  3. Environment variables
//  4. Command-line flags
//
// The main entry points are [GetServerConfig] for the HTTP API and
// [GetClientConfig] for the terminal client. Both delegate to
// [GetStructuredConfig].
package config
