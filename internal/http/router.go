package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tucancha/court-booking/internal/domain"
	"github.com/tucancha/court-booking/internal/observability"
	"github.com/tucancha/court-booking/internal/rateLimit"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter, jwtSecret string, profiles ProfileEnsurer) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)

	r.Get("/v1/healthz", h.Healthz)
	r.Get("/v1/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret, profiles, logger))
		r.Use(RateLimitMiddleware(rl))

		r.Get("/v1/venues", h.ListVenues)
		r.Get("/v1/venues/{id}", h.GetVenue)
		r.Get("/v1/venues/{id}/day", h.VenueDay)
		r.Get("/v1/venues/{id}/slots", h.ListDisabledSlots)

		r.Get("/v1/bookings", h.ListBookings)
		r.Post("/v1/bookings", h.CreateBooking)
		r.Patch("/v1/bookings/{id}/status", h.UpdateBookingStatus)

		r.Get("/v1/profile", h.GetProfile)
		r.Put("/v1/profile", h.UpdateProfile)

		r.Get("/v1/geocode", h.Geocode)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(domain.RoleOwner))

			r.Get("/v1/owner/venues", h.ListMyVenues)
			r.Post("/v1/venues", h.CreateVenue)
			r.Put("/v1/venues/{id}", h.UpdateVenue)
			r.Delete("/v1/venues/{id}", h.DeleteVenue)

			r.Post("/v1/venues/{id}/courts", h.AddCourts)
			r.Put("/v1/courts/{id}", h.UpdateCourt)
			r.Delete("/v1/courts/{id}", h.DeleteCourt)

			r.Post("/v1/venues/{id}/slots", h.CreateDisabledSlot)
			r.Delete("/v1/venues/{id}/slots/{slotID}", h.DeleteDisabledSlot)
			r.Post("/v1/venues/{id}/slots/toggle", h.ToggleSlot)
			r.Delete("/v1/bookings/{id}", h.DeleteBooking)
			r.Get("/v1/dashboard", h.Dashboard)

			r.Post("/v1/images/{bucket}", h.UploadImage)
		})
	})

	return r
}
