// Package handlers renders the public site, the booking wizard and the admin
// area as server-side HTML pages.
package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"github.com/wolfman30/barbershop-booking-site/internal/session"
	"github.com/wolfman30/barbershop-booking-site/internal/site"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per file under templates/.
const (
	pageHome          = "home"
	pageBooking       = "booking"
	pageBookingDone   = "booking_done"
	pageAdminLogin    = "admin_login"
	pageAdmin         = "admin"
	pageConfirmDelete = "admin_confirm_delete"
	pageAdminSetup    = "admin_setup"
	pageDiagnostics   = "admin_diagnostics"
)

var pages = []string{
	pageHome, pageBooking, pageBookingDone, pageAdminLogin,
	pageAdmin, pageConfirmDelete, pageAdminSetup, pageDiagnostics,
}

var funcs = template.FuncMap{
	"stars": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"add": func(a, b int) int { return a + b },
	"pct": func(v float64) string { return fmt.Sprintf("%.0f%%", v) },
	"seconds": func(d time.Duration) int {
		s := int(d.Seconds())
		if s < 1 {
			return 1
		}
		return s
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("2006.01.02. 15:04")
	},
	"statusLabel": statusLabel,
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages   map[string]*template.Template
	content *site.Content
	logger  *logging.Logger
}

// NewRenderer parses every page once. content supplies the business name and
// contact data shown in the layout.
func NewRenderer(content *site.Content, logger *logging.Logger) (*Renderer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(pages)), content: content, logger: logger}
	for _, name := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("handlers: parse %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// view is the envelope every page receives.
type view struct {
	Title     string
	Business  site.Business
	Hours     []site.OpeningHours
	CSRFField template.HTML
	Flashes   []session.Flash
	Admin     bool
	// Refresh, when set, emits a meta refresh to RefreshURL.
	Refresh    time.Duration
	RefreshURL string
	Page       any
}

func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, status int, name string, v view) {
	tmpl, ok := rd.pages[name]
	if !ok {
		internalError(w, rd.logger, fmt.Errorf("unknown page %q", name))
		return
	}
	if rd.content != nil {
		v.Business = rd.content.Business
		v.Hours = rd.content.Hours
	}
	if v.Title == "" {
		v.Title = v.Business.Name
	}
	v.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		internalError(w, rd.logger, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func internalError(w http.ResponseWriter, logger *logging.Logger, err error) {
	logger.Error("handler failed", "error", err)
	http.Error(w, "Belső hiba történt.", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
