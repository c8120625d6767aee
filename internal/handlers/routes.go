package handlers

import (
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/hotel-booking-api/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var remapValidationOnce sync.Once

// remapValidationStatus reports request validation failures as 400 instead
// of huma's 422. huma.NewError is a package variable, so this applies to
// every huma API in the process; this binary serves only the one registered
// by RegisterRoutes.
func remapValidationStatus() {
	remapValidationOnce.Do(func() {
		newError := huma.NewError
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			if status == http.StatusUnprocessableEntity {
				status = http.StatusBadRequest
			}
			return newError(status, msg, errs...)
		}
	})
}

func RegisterRoutes(r *chi.Mux, gatherer prometheus.Gatherer, authHandler *auth.AuthHandler, bookingHandler *BookingHandler) {
	remapValidationStatus()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Hotel Booking API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Auth routes
	r.Get("/auth/discord/login", authHandler.HandleLogin)
	r.Get("/auth/discord/callback", authHandler.HandleCallback)

	// Protected routes. The middleware runs before huma reads the body.
	authMiddleware := authHandler.Middleware(api)
	secured := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"bearerAuth": {}}}
		o.Middlewares = append(o.Middlewares, authMiddleware)
	}
	huma.Get(api, "/booking", bookingHandler.HandleGet, secured)
	huma.Post(api, "/booking", bookingHandler.HandleCreate, secured, func(o *huma.Operation) {
		o.DefaultStatus = http.StatusOK
	})
	huma.Put(api, "/booking/{bookingId}", bookingHandler.HandleUpdate, secured)
}
