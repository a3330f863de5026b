package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(CORSMiddleware)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(DefaultPageTimeout))
		r.Get("/", h.HomePage)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(DefaultHealthCheckTimeout))
		r.Get("/healthz", h.Healthz)
		r.Get("/readyz", h.Readyz)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(DefaultActionTimeout))
		r.Use(middleware.NoCache)
		r.Get("/api/state", h.GetState)
		r.Post("/api/clipboard/{id}/result", h.ResolveCopy)
		r.Post("/api/connectivity", h.SetConnectivity)
		r.Post("/api/url", h.UpdateURL)
		r.Post("/api/url/blur", h.BlurURL)
		r.Post("/api/url/submit", h.SubmitURL)
		r.Post("/api/connection/test", h.TestConnection)
	})

	r.Route("/api/endpoints", func(r chi.Router) {
		r.Use(middleware.Timeout(DefaultActionTimeout))
		r.Get("/", h.ListEndpoints)
		r.Post("/fetch-all", h.FetchAllEndpoints)
		r.Post("/{name}/fetch", h.FetchEndpoint)
		r.Post("/{name}/copy", h.CopyEndpoint)
	})

	r.Route("/api/events", func(r chi.Router) {
		r.Use(middleware.Timeout(DefaultPageTimeout))
		r.Get("/", h.ListEvents)
		r.Get("/errors", h.GetRecentErrors)
		r.Delete("/", h.CleanupEvents)
		r.Get("/{endpoint}", h.GetEventsByEndpoint)
	})

	r.Get("/static/*", h.ServeStatic)

	return r
}
