package notify

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.txt
var templateFS embed.FS

const (
	templateBookingSubmitted = "booking_submitted"
	templateBookingStatus    = "booking_status"
	templateContactMessage   = "contact_message"
)

// renderer executes the "subject" and "body" blocks of a named e-mail template.
type renderer struct {
	templates map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{templates: make(map[string]*template.Template)}
	for _, name := range []string{templateBookingSubmitted, templateBookingStatus, templateContactMessage} {
		tmpl, err := template.ParseFS(templateFS, "templates/"+name+".txt")
		if err != nil {
			return nil, fmt.Errorf("notify: parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func (r *renderer) render(name string, data any) (subject, body string, err error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", "", fmt.Errorf("notify: unknown template %s", name)
	}
	var sb, bb bytes.Buffer
	if err := tmpl.ExecuteTemplate(&sb, "subject", data); err != nil {
		return "", "", fmt.Errorf("notify: render %s subject: %w", name, err)
	}
	if err := tmpl.ExecuteTemplate(&bb, "body", data); err != nil {
		return "", "", fmt.Errorf("notify: render %s body: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), strings.TrimSpace(bb.String()) + "\n", nil
}
