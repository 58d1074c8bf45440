package handlers

import (
	"net/http"

	"github.com/wolfman30/barbershop-booking-site/internal/session"
)

type setupPage struct {
	Name string
}

// Setup shows the first-admin form until an admin has been provisioned.
func (h *AdminHandler) Setup(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	pending, err := h.auth.SetupPending(r.Context())
	if err != nil {
		internalError(w, h.logger, err)
		return
	}
	if !pending {
		redirect(w, r, "/admin")
		return
	}
	flashes := sess.PopFlashes()
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		internalError(w, h.logger, err)
		return
	}
	h.render.render(w, r, http.StatusOK, pageAdminSetup, view{
		Title:   "Admin létrehozása",
		Admin:   true,
		Flashes: flashes,
		Page:    setupPage{Name: defaultAdminName},
	})
}

// Provision creates the first admin account.
func (h *AdminHandler) Provision(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	pending, err := h.auth.SetupPending(r.Context())
	if err != nil {
		internalError(w, h.logger, err)
		return
	}
	if !pending {
		redirect(w, r, "/admin")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Hibás kérés.", http.StatusBadRequest)
		return
	}
	name, email, password := formValue(r, "name"), formValue(r, "email"), r.PostFormValue("password")
	if name == "" || email == "" || password == "" {
		sess.AddFlash(session.FlashError, MessageSetupMissing, "")
		h.finish(w, r, sess, "/admin/setup")
		return
	}

	if _, err := h.auth.Provision(r.Context(), name, email, password); err != nil {
		h.logger.Warn("admin provisioning failed", "email", email, "error", err)
		sess.AddFlash(session.FlashError, authMessage(err, MessageSetupError), "")
		h.finish(w, r, sess, "/admin/setup")
		return
	}
	sess.AddFlash(session.FlashSuccess, MessageProvisioned, "Most már bejelentkezhetsz.")
	h.finish(w, r, sess, "/admin")
}
