package server

// Server is the lifecycle of the deepguard API process: the HTTP listener
// plus the background workers that live as long as it does.
type Server interface {
	// RunServer serves until SIGINT, SIGTERM or SIGQUIT, then shuts down
	// and waits for the workers.
	RunServer()

	// Shutdown stops the HTTP listener, draining in-flight requests.
	Shutdown()
}
