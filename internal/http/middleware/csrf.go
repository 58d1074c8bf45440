package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

// CSRFFieldName is the hidden form field carrying the token.
const CSRFFieldName = "csrf_token"

// CSRF protects every unsafe request with gorilla/csrf. An empty key
// disables protection. Without secure cookies the site is assumed to run
// over plain HTTP, as in local development.
func CSRF(authKey []byte, secure bool, logger *logging.Logger) func(http.Handler) http.Handler {
	if len(authKey) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if logger == nil {
		logger = logging.Default()
	}
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName(CSRFFieldName),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
			http.Error(w, "Érvénytelen űrlap. Kérlek töltsd újra az oldalt.", http.StatusForbidden)
		})),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
