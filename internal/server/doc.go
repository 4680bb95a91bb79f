// Package server wires and runs the deepguard HTTP API.
//
// It owns the listener lifecycle together with the background workers:
// startup, signal handling, and graceful shutdown.
package server
