package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/barbershop-booking-site/cmd/mainconfig"
	"github.com/wolfman30/barbershop-booking-site/internal/adminauth"
	"github.com/wolfman30/barbershop-booking-site/internal/api/router"
	"github.com/wolfman30/barbershop-booking-site/internal/app/bootstrap"
	"github.com/wolfman30/barbershop-booking-site/internal/backend"
	"github.com/wolfman30/barbershop-booking-site/internal/bookingapi"
	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
	appconfig "github.com/wolfman30/barbershop-booking-site/internal/config"
	"github.com/wolfman30/barbershop-booking-site/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/barbershop-booking-site/internal/http/middleware"
	"github.com/wolfman30/barbershop-booking-site/internal/notify"
	"github.com/wolfman30/barbershop-booking-site/internal/observability/metrics"
	"github.com/wolfman30/barbershop-booking-site/internal/review"
	"github.com/wolfman30/barbershop-booking-site/internal/site"
	"github.com/wolfman30/barbershop-booking-site/internal/wizard"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

func main() {
	// Load configuration
	if err := appconfig.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info("starting barbershop booking site",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer a.close()

	stopSweeper := make(chan struct{})
	if a.limiter != nil {
		go a.limiter.Run(stopSweeper)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	close(stopSweeper)

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// app is the wired HTTP surface plus the resources to release on exit.
type app struct {
	handler http.Handler
	limiter *httpmiddleware.RateLimiter
	closers []func() error
	logger  *logging.Logger
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// setupMetrics registers the site's collectors on a private registry.
func setupMetrics() (http.Handler, *metrics.BackendMetrics, *metrics.BookingMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewBackendMetrics(reg), metrics.NewBookingMetrics(reg)
}

func newApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*app, error) {
	if cfg.BackendBaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}
	a := &app{logger: logger}

	store, closeStore, err := bootstrap.BuildSessionStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)
	sessions, err := bootstrap.BuildSessionManager(cfg, store, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	content, err := site.Load(cfg.SiteContentPath)
	if err != nil {
		a.close()
		return nil, err
	}
	renderer, err := handlers.NewRenderer(content, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	metricsHandler, backendMetrics, bookingMetrics := setupMetrics()

	bc := backend.NewClient(backend.Options{
		BaseURL:   cfg.BackendBaseURL,
		PublicKey: cfg.BackendPublicKey,
		Timeout:   cfg.BackendTimeout,
		Logger:    logger,
		Metrics:   backendMetrics,
	})
	bookingAPI := bookingapi.New(bc)
	authAPI := adminauth.NewClient(bc)

	sender, err := mainconfig.BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	notifier, err := notify.NewService(notify.ServiceOptions{
		Sender:     sender,
		OwnerEmail: cfg.OwnerEmail,
		Business:   content.Business.Name,
		AdminURL:   cfg.PublicBaseURL + "/admin",
		Metrics:    bookingMetrics,
		Logger:     logger,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	catalog := bookings.DefaultCatalog()
	runner := wizard.NewRunner(wizard.RunnerOptions{
		Creator:  bookingAPI,
		Catalog:  catalog,
		Locker:   store,
		Notifier: notifier,
		Metrics:  bookingMetrics,
		Logger:   logger,
	})
	reviewer := review.NewReviewer(review.Options{
		API:          bookingAPI,
		Notifier:     notifier,
		Metrics:      bookingMetrics,
		Logger:       logger,
		PollInterval: cfg.AdminPollInterval,
	})
	auth := adminauth.NewAuthenticator(authAPI, store, logger)

	if cfg.RateLimitRPS > 0 {
		a.limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.CSRFAuthKey == "" {
		logger.Warn("CSRF_AUTH_KEY not set, form posts are not CSRF protected")
	}

	a.handler = router.New(&router.Config{
		Logger:   logger,
		Sessions: sessions,
		Site: handlers.NewSiteHandler(handlers.SiteHandlerOptions{
			Renderer: renderer,
			Content:  content,
			Catalog:  catalog,
			Sessions: sessions,
			Contact:  notifier,
			Logger:   logger,
		}),
		Booking: handlers.NewBookingHandler(handlers.BookingHandlerOptions{
			Renderer:   renderer,
			Runner:     runner,
			Sessions:   sessions,
			CloseDelay: cfg.BookingCloseDelay,
			Logger:     logger,
		}),
		Admin: handlers.NewAdminHandler(handlers.AdminHandlerOptions{
			Renderer:      renderer,
			Authenticator: auth,
			Reviewer:      reviewer,
			Sessions:      sessions,
			Validator:     authAPI,
			Lister:        bookingAPI,
			Logger:        logger,
		}),
		CSRFKey:        []byte(cfg.CSRFAuthKey),
		SecureCookie:   cfg.SessionCookieSecure,
		RateLimiter:    a.limiter,
		MetricsHandler: metricsHandler,
	})
	return a, nil
}
