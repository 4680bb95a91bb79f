package http

import (
	"net/http"

	"github.com/MKhiriev/deepguard/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}

// health probes the detection backend. Anything but healthy answers 503 so
// load balancers can act on the status code alone.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := h.services.HealthService.Check(r.Context())

	code := http.StatusOK
	if status != models.BackendHealthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, r, models.HealthResponse{Status: string(status)}, code)
}
