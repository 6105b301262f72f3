package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Location endpoints
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", s.handleListLocations)
			r.Post("/", s.handleCreateLocation)
			r.Get("/by-name/{name}", s.handleGetLocationByName)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetLocation)
				r.Delete("/", s.handleDeleteLocation)
			})
		})

		// Vendor endpoints
		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", s.handleListVendors)
			r.Post("/", s.handleCreateVendor)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetVendor)
				r.Delete("/", s.handleDeleteVendor)
			})
		})

		// Cluster endpoints
		r.Route("/clusters", func(r chi.Router) {
			r.Get("/", s.handleListClusters)
			r.Post("/", s.handleCreateCluster)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetCluster)
				r.Delete("/", s.handleDeleteCluster)
			})
		})

		// Capture agent endpoints
		r.Route("/cas", func(r chi.Router) {
			r.Get("/", s.handleListCas)
			r.Post("/", s.handleCreateCa)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetCa)
				r.Patch("/", s.handleUpdateCa)
				r.Delete("/", s.handleDeleteCa)
				r.Put("/capture-card", s.handleSetCaptureCard)
				r.Get("/role", s.handleGetCaRole)
				r.Post("/config/defaults", s.handleEnsureConfigDefaults)
				r.Get("/config", s.handleBuildConfig)
			})
		})

		// Role endpoints
		r.Route("/roles", func(r chi.Router) {
			r.Get("/", s.handleListRoles)
			r.Post("/", s.handleCreateRole)
			r.Patch("/{caID}", s.handleUpdateRole)
		})

		// Live redundancy status endpoints
		r.Route("/redunlive", func(r chi.Router) {
			r.Get("/locations", s.handleLiveLocations)
			r.Get("/agents", s.handleLiveAgents)

			r.Route("/agents/{serial}", func(r chi.Router) {
				r.Get("/", s.handleLiveAgent)
				r.Post("/sync", s.handleSyncAgent)
				r.Post("/publish", s.handlePublishAgent)
			})
		})

		// WebSocket status feed
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
