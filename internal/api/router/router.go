package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/barbershop-booking-site/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/barbershop-booking-site/internal/http/middleware"
	"github.com/wolfman30/barbershop-booking-site/internal/session"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger   *logging.Logger
	Sessions *session.Manager

	Site    *handlers.SiteHandler
	Booking *handlers.BookingHandler
	Admin   *handlers.AdminHandler

	// CSRFKey enables CSRF protection for form posts when non-empty.
	CSRFKey      []byte
	SecureCookie bool
	// RateLimiter throttles booking, contact and login posts (optional).
	RateLimiter    *httpmiddleware.RateLimiter
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Ops endpoints carry no session.
	r.Get("/health", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	limited := func(h http.HandlerFunc) http.Handler {
		if cfg.RateLimiter == nil {
			return h
		}
		return httpmiddleware.RateLimit(cfg.RateLimiter)(h)
	}

	r.Group(func(web chi.Router) {
		web.Use(httpmiddleware.Sessions(cfg.Sessions, cfg.Logger))
		web.Use(httpmiddleware.CSRF(cfg.CSRFKey, cfg.SecureCookie, cfg.Logger))

		web.Get("/", cfg.Site.Home)
		web.Method(http.MethodPost, "/contact", limited(cfg.Site.Contact))

		web.Route("/booking", func(b chi.Router) {
			b.Get("/", cfg.Booking.Show)
			b.Method(http.MethodPost, "/", limited(cfg.Booking.Submit))
			b.Get("/done", cfg.Booking.Done)
		})

		web.Route("/admin", func(a chi.Router) {
			a.Get("/", cfg.Admin.Dashboard)
			a.Method(http.MethodPost, "/login", limited(cfg.Admin.Login))
			a.Get("/setup", cfg.Admin.Setup)
			a.Method(http.MethodPost, "/setup", limited(cfg.Admin.Provision))
			a.Get("/diagnostics", cfg.Admin.Diagnostics)

			a.Group(func(authed chi.Router) {
				authed.Use(httpmiddleware.RequireAdminToken("/admin"))
				authed.Post("/logout", cfg.Admin.Logout)
				authed.Post("/refresh", cfg.Admin.Refresh)
				authed.Route("/bookings/{id}", func(bk chi.Router) {
					bk.Post("/approve", cfg.Admin.Approve)
					bk.Post("/reject", cfg.Admin.Reject)
					bk.Get("/delete", cfg.Admin.ConfirmDelete)
					bk.Post("/delete", cfg.Admin.Delete)
				})
			})
		})
	})

	return r
}
