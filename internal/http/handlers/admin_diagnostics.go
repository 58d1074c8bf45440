package handlers

import (
	"fmt"
	"net/http"

	"github.com/wolfman30/barbershop-booking-site/internal/backend"
)

// check is one row of the diagnostics table.
type check struct {
	Name    string
	OK      bool
	Status  int
	Message string
}

type diagnosticsPage struct {
	HasToken    bool
	TokenLength int
	Checks      []check
}

// Diagnostics probes the backend with the stored token. Failures are only
// reported; the token is left in place.
func (h *AdminHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	page := diagnosticsPage{HasToken: sess.Token != "", TokenLength: len(sess.Token)}

	if page.HasToken {
		if h.validator != nil {
			c := check{Name: "Munkamenet (/admin/session)"}
			user, err := h.validator.ValidateToken(ctx, sess.Token)
			if err != nil {
				c.Status = backend.StatusOf(err)
				c.Message = err.Error()
			} else {
				c.OK = true
				c.Status = http.StatusOK
				c.Message = "Bejelentkezve: " + user.Email
			}
			page.Checks = append(page.Checks, c)
		}
		if h.lister != nil {
			c := check{Name: "Foglalások (/bookings)"}
			list, err := h.lister.ListBookings(ctx, sess.Token)
			if err != nil {
				c.Status = backend.StatusOf(err)
				c.Message = err.Error()
			} else {
				c.OK = true
				c.Status = http.StatusOK
				c.Message = fmt.Sprintf("%d foglalás", len(list))
			}
			page.Checks = append(page.Checks, c)
		}
	}

	h.logger.Info("admin diagnostics run", "has_token", page.HasToken, "checks", len(page.Checks))
	h.render.render(w, r, http.StatusOK, pageDiagnostics, view{
		Title: "Diagnosztika",
		Admin: true,
		Page:  page,
	})
}
