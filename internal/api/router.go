// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aura-edu/vigil/internal/middleware"
)

// NewRouter builds the HTTP surface: health probes, the teacher-facing
// session API, both websocket endpoints and Prometheus metrics.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health probes get their own permissive rate limit so monitoring
	// never competes with the session API.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, h.cfg.Server.RateLimitWindow))
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(h.cfg.Server.RateLimitReqs, h.cfg.Server.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Get("/sessions", h.ListSessions)
		r.Get("/sessions/{id}", h.GetSession)
		r.Post("/sessions/{id}/reset", h.ResetSession)

		r.Get("/ws", h.LearnerWS)
		r.Get("/ws/monitor", h.MonitorWS)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
