package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer)
	router.Use(middleware.Compress(5, "application/json"))

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
		r.Get("/api/health", h.health)
		r.Get("/api/version", h.getServerVersion)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/user/logout", h.logout)
		r.Get("/api/user/me", h.me)

		r.Get("/api/history", h.listHistory)
		r.Delete("/api/history/{id}", h.deleteHistoryItem)
		r.Post("/api/history/{id}/rerun", h.rerun)

		r.Post("/api/detect", h.detect)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
