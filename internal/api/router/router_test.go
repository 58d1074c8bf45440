package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/barbershop-booking-site/internal/adminauth"
	"github.com/wolfman30/barbershop-booking-site/internal/backend"
	"github.com/wolfman30/barbershop-booking-site/internal/bookingapi"
	"github.com/wolfman30/barbershop-booking-site/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/barbershop-booking-site/internal/http/middleware"
	"github.com/wolfman30/barbershop-booking-site/internal/observability/metrics"
	"github.com/wolfman30/barbershop-booking-site/internal/review"
	"github.com/wolfman30/barbershop-booking-site/internal/session"
	"github.com/wolfman30/barbershop-booking-site/internal/site"
	"github.com/wolfman30/barbershop-booking-site/internal/wizard"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

func newTestRouter(t *testing.T, csrfKey []byte, limiter *httpmiddleware.RateLimiter) http.Handler {
	t.Helper()

	logger := logging.New("error")
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
	}))
	t.Cleanup(upstream.Close)

	content, err := site.Load("")
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	renderer, err := handlers.NewRenderer(content, logger)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	store := session.NewMemoryStore()
	codec, err := session.NewCookieCodec("router-test-secret-0123456789")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	manager := session.NewManager(session.ManagerOptions{Store: store, Codec: codec, TTL: time.Hour, Logger: logger})

	reg := prometheus.NewRegistry()
	bc := backend.NewClient(backend.Options{BaseURL: upstream.URL, Logger: logger, Metrics: metrics.NewBackendMetrics(reg)})
	bookingAPI := bookingapi.New(bc)
	authAPI := adminauth.NewClient(bc)

	runner := wizard.NewRunner(wizard.RunnerOptions{Creator: bookingAPI, Locker: store, Logger: logger})
	reviewer := review.NewReviewer(review.Options{API: bookingAPI, Logger: logger, PollInterval: time.Minute})

	return New(&Config{
		Logger:   logger,
		Sessions: manager,
		Site:     handlers.NewSiteHandler(handlers.SiteHandlerOptions{Renderer: renderer, Content: content, Sessions: manager, Logger: logger}),
		Booking:  handlers.NewBookingHandler(handlers.BookingHandlerOptions{Renderer: renderer, Runner: runner, Sessions: manager, Logger: logger}),
		Admin: handlers.NewAdminHandler(handlers.AdminHandlerOptions{
			Renderer:      renderer,
			Authenticator: adminauth.NewAuthenticator(authAPI, store, logger),
			Reviewer:      reviewer,
			Sessions:      manager,
			Validator:     authAPI,
			Lister:        bookingAPI,
			Logger:        logger,
		}),
		CSRFKey:        csrfKey,
		RateLimiter:    limiter,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Errorf("health check should not start a session")
	}
}

func TestRouterPagesSetSessionCookie(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	for _, path := range []string{"/", "/booking", "/admin", "/admin/setup", "/admin/diagnostics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("%s: expected html, got %q", path, ct)
		}
		var found bool
		for _, c := range rr.Result().Cookies() {
			found = found || c.Name == session.CookieName
		}
		if !found {
			t.Fatalf("%s: expected session cookie", path)
		}
	}
}

func TestRouterAdminMutationsRedirectWithoutToken(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	paths := []string{
		"/admin/logout",
		"/admin/refresh",
		"/admin/bookings/b1/approve",
		"/admin/bookings/b1/reject",
		"/admin/bookings/b1/delete",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusSeeOther {
			t.Fatalf("%s: expected 303, got %d", path, rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/admin" {
			t.Fatalf("%s: expected redirect to /admin, got %q", path, loc)
		}
	}
}

func TestRouterCSRFRejectsFormWithoutToken(t *testing.T) {
	router := newTestRouter(t, []byte("0123456789abcdef0123456789abcdef"), nil)

	form := url.Values{"name": {"Kiss Péter"}, "email": {"p@example.com"}, "message": {"Szia"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", rr.Code)
	}
}

func TestRouterCSRFTokenRenderedInForms(t *testing.T) {
	router := newTestRouter(t, []byte("0123456789abcdef0123456789abcdef"), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `name="`+httpmiddleware.CSRFFieldName+`"`) {
		t.Fatalf("expected csrf field in contact form")
	}
}

func TestRouterRateLimitsFormPosts(t *testing.T) {
	limiter := httpmiddleware.NewRateLimiter(0.001, 1)
	router := newTestRouter(t, nil, limiter)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("name=a"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "203.0.113.7:5555"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := post(); code != http.StatusSeeOther {
		t.Fatalf("expected first post to pass, got %d", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("expected second post to be limited, got %d", code)
	}

	// Page views are never limited.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected page view to pass, got %d", rr.Code)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
