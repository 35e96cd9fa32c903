// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gamehoard/gamehoard/internal/auth"
	"github.com/gamehoard/gamehoard/internal/middleware"
)

// Router builds the HTTP routing tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health and observability, public.
	r.Get("/api/v1/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	// Setup endpoints: account and device registration. Registration
	// returns the device token used by everything below.
	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(httprate.LimitByIP(30, h.cfg.Import.RateLimitWindow))

		r.Post("/", h.CreateAccount)
		r.Post("/{id}/devices", h.RegisterDevice)
	})

	// Import endpoint: device-token auth plus the per-device import
	// rate limit.
	r.Route("/api/v1/import", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(h.tokens.Middleware)
		r.Use(httprate.Limit(
			h.cfg.Import.RateLimitRequests,
			h.cfg.Import.RateLimitWindow,
			httprate.WithKeyFuncs(deviceKey),
			httprate.WithLimitHandler(rateLimited),
		))

		r.Post("/playnite", h.ImportPlaynite)
	})

	// Everything else requires a device token.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(h.tokens.Middleware)

		r.Get("/jobs", h.ListJobs)
		r.Get("/jobs/{id}", h.GetJob)

		r.Get("/titles", h.ListTitles)
		r.Get("/titles/{id}", h.GetTitle)
		r.Post("/titles/{id}/enrich", h.EnrichTitle)

		r.Get("/review", h.ReviewQueue)
		r.Post("/review/{id}/resolve", h.ResolveReview)
		r.Post("/review/{id}/ignore", h.IgnoreReview)

		r.Post("/catalog/merge", h.Merge)

		r.Post("/metadata/resync", h.ResyncMetadata)
		r.Get("/metadata/search", h.SearchMetadata)

		r.Delete("/devices/tokens/{tokenID}", h.RevokeDeviceToken)
	})

	return r
}

// deviceKey keys the import rate limit by the authenticated device so
// one chatty device cannot starve the others.
func deviceKey(r *http.Request) (string, error) {
	if identity := auth.IdentityFromContext(r.Context()); identity != nil {
		return identity.DeviceID.String(), nil
	}
	return r.RemoteAddr, nil
}

// rateLimited replaces httprate's plain-text 429 with the standard
// error envelope.
func rateLimited(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
		"import rate limit exceeded for this device", nil)
}
