package http

import (
	"net/http"

	"github.com/adgate/internal/config"
	"github.com/adgate/internal/transport/http/handler"
	appmiddleware "github.com/adgate/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds the callback/admin router. The ad-completion endpoint is
// public (called from landing-page JavaScript in end-user browsers), so it
// carries CORS and a per-IP rate limit against session-token guessing.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10: the callback consumes sessions, so
	// brute-forcing tokens must stay unprofitable.
	callbackRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	callbackH := handler.NewAdCallbackHandler(deps.AdSessions)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check", healthH.Ping)
		r.With(callbackRL.Limit).Post("/ad-callback", callbackH.Complete)

		if deps.JWTProvider != nil {
			statsH := handler.NewStatsHandler(deps.Dispatcher)
			usersH := handler.NewUsersHandler(deps.Tiers)
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.Auth(deps.JWTProvider))
				r.Get("/stats", statsH.Get)
				r.Put("/users/{id}/tier", usersH.SetTier)
			})
		}
	})

	return r
}
