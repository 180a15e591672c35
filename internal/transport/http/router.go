package http

import (
	"context"
	"net/http"

	"github.com/go-call-verify/internal/config"
	"github.com/go-call-verify/internal/domain"
	"github.com/go-call-verify/internal/transport/http/handler"
	appmiddleware "github.com/go-call-verify/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds background
// work started for the router, such as rate-limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := passthrough
	requireRole := func(...string) func(http.Handler) http.Handler { return passthrough }
	if deps.Verifier != nil {
		authMw = appmiddleware.Auth(deps.Verifier)
		requireRole = appmiddleware.RequireRole
	}

	callRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.CallRateLimit), cfg.CallRateBurst)

	healthH := handler.NewHealthHandler(deps.Version)
	callH := handler.NewCallHandler(deps.Calls)
	outcomeH := handler.NewOutcomeHandler(deps.Outcomes, deps.Transcripts)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			// Telephony worker
			r.Group(func(r chi.Router) {
				r.Use(requireRole(domain.RoleDispatcher))

				r.With(callRL.Limit).Post("/calls", callH.Start)
				r.Post("/calls/{id}/turns", callH.Turn)
				r.Get("/calls/{id}", callH.Get)
				r.Delete("/calls/{id}", callH.Hangup)
			})

			// Back office
			r.Group(func(r chi.Router) {
				r.Use(requireRole(domain.RoleOperator))

				r.Get("/outcomes/{id}", outcomeH.Get)
				r.Get("/outcomes/{id}/transcript", outcomeH.Transcript)
				r.Get("/accounts/{reference}/outcomes", outcomeH.ListByAccount)
			})
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler { return next }
