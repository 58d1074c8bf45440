package middleware

import (
	"net/http"

	"github.com/wolfman30/barbershop-booking-site/internal/session"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

// Sessions loads the visitor's session, refreshes its cookie and attaches it
// to the request context. Handlers persist changes with Manager.Save.
func Sessions(manager *session.Manager, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := manager.Load(r.Context(), r)
			if err != nil {
				logger.Error("session load failed", "error", err, "path", r.URL.Path)
				http.Error(w, "A szolgáltatás átmenetileg nem elérhető.", http.StatusServiceUnavailable)
				return
			}
			cookie, err := manager.Cookie(sess)
			if err != nil {
				logger.Error("session cookie failed", "error", err)
				http.Error(w, "A szolgáltatás átmenetileg nem elérhető.", http.StatusServiceUnavailable)
				return
			}
			http.SetCookie(w, cookie)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// RequireAdminToken redirects visitors without a stored admin token to
// loginPath. It does not validate the token; the backend does that on use.
func RequireAdminToken(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok || sess.Token == "" {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
