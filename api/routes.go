package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes wires the public surface, the admin entry points and the gated
// moderation endpoints. Everything under /api/admin except login, logout and
// the session check sits behind the access gate.
func setupRoutes(r chi.Router, handlers *routeHandlers, gate accessGate, healthcheck http.HandlerFunc) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(MetricsMiddleware)

		// Public endpoints
		r.Get("/health", healthcheck)
		r.Get("/api/projects", handlers.projectHandler.getProjects())
		r.Get("/api/projects/{slug}", handlers.projectHandler.getProjectBySlug())
		r.Post("/api/projects", handlers.projectHandler.submitProject())

		// Admin entry points (ungated: login needs no session, the session
		// check treats an absent cookie as a normal "false", and logout is
		// always a client-side success)
		r.Post("/api/admin/login", handlers.adminHandler.login())
		r.Get("/api/admin/session", handlers.adminHandler.sessionCheck())
		r.Post("/api/admin/logout", handlers.adminHandler.logout())

		// Gated moderation endpoints
		r.Group(func(r chi.Router) {
			r.Use(gate.requireAdmin)

			r.Get("/api/admin/projects", handlers.adminHandler.listProjects())
			r.Post("/api/admin/projects/{projectID}/approve", handlers.adminHandler.approveProject())
			r.Post("/api/admin/projects/{projectID}/reject", handlers.adminHandler.rejectProject())
			r.Delete("/api/admin/projects/{projectID}", handlers.adminHandler.deleteProject())
			r.Post("/api/admin/projects/{projectID}/screenshot", handlers.adminHandler.captureScreenshot())
			r.Get("/api/admin/logs", handlers.adminHandler.recentLogs())
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}
