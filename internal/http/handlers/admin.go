package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/barbershop-booking-site/internal/adminauth"
	"github.com/wolfman30/barbershop-booking-site/internal/backend"
	"github.com/wolfman30/barbershop-booking-site/internal/bookingapi"
	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
	"github.com/wolfman30/barbershop-booking-site/internal/review"
	"github.com/wolfman30/barbershop-booking-site/internal/session"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

// Admin flash messages.
const (
	MessageLoggedIn        = "Sikeres bejelentkezés"
	MessageLoggedOut       = "Kijelentkeztél"
	MessageLoginError      = "Hiba történt a bejelentkezés során"
	MessageMissingLogin    = "Kérlek add meg az email címet és a jelszót!"
	MessageApproved        = "Foglalás jóváhagyva"
	MessageRejected        = "Foglalás elutasítva"
	MessageDeleted         = "Foglalás törölve"
	MessageNotPending      = "Csak függőben lévő foglalás bírálható el."
	MessageBookingNotFound = "A foglalás nem található."
	MessageProvisioned     = "Admin felhasználó sikeresen létrehozva!"
	MessageSetupError      = "Hiba történt az admin létrehozása során"
	MessageSetupMissing    = "Kérlek töltsd ki az összes mezőt!"

	defaultAdminName = "Ujfalussy Milán"
)

// TokenValidator checks an access token against the backend.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*adminauth.User, error)
}

// BookingLister lists bookings with an access token.
type BookingLister interface {
	ListBookings(ctx context.Context, token string) ([]bookings.Booking, error)
}

// AdminHandler serves the owner's login, review board, setup and diagnostics
// pages.
type AdminHandler struct {
	render    *Renderer
	auth      *adminauth.Authenticator
	reviewer  *review.Reviewer
	sessions  *session.Manager
	validator TokenValidator
	lister    BookingLister
	logger    *logging.Logger
}

type AdminHandlerOptions struct {
	Renderer      *Renderer
	Authenticator *adminauth.Authenticator
	Reviewer      *review.Reviewer
	Sessions      *session.Manager
	// Validator and Lister back the diagnostics page; they are called
	// directly so a failing check never clears the stored token.
	Validator TokenValidator
	Lister    BookingLister
	Logger    *logging.Logger
}

// NewAdminHandler builds the admin review area handler.
func NewAdminHandler(opts AdminHandlerOptions) *AdminHandler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{
		render:    opts.Renderer,
		auth:      opts.Authenticator,
		reviewer:  opts.Reviewer,
		sessions:  opts.Sessions,
		validator: opts.Validator,
		lister:    opts.Lister,
		logger:    logger,
	}
}

type loginPage struct {
	SetupPending bool
}

type adminPage struct {
	Groups    bookings.Groups
	Total     int
	FetchedAt time.Time
}

type confirmDeletePage struct {
	Booking  bookings.Booking
	Question string
}

func statusLabel(s bookings.Status) string {
	switch s {
	case bookings.StatusApproved:
		return "Jóváhagyva"
	case bookings.StatusRejected:
		return "Elutasítva"
	}
	return "Függőben"
}

func boardOf(sess *session.Session) *review.Board {
	return &review.Board{Bookings: sess.Bookings, FetchedAt: sess.BookingsFetchedAt}
}

// keepBoard copies board back into the session unless the token was
// cleared along the way.
func keepBoard(sess *session.Session, board *review.Board) {
	if sess.Token == "" {
		return
	}
	sess.Bookings = board.Bookings
	sess.BookingsFetchedAt = board.FetchedAt
}

func (h *AdminHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		internalError(w, h.logger, errNoSession)
	}
	return sess, ok
}

func (h *AdminHandler) finish(w http.ResponseWriter, r *http.Request, sess *session.Session, to string) {
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		internalError(w, h.logger, err)
		return
	}
	redirect(w, r, to)
}

// Dashboard shows the login form or, with a stored token, the review board.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if sess.Token == "" {
		h.showLogin(w, r, sess)
		return
	}
	tokens := h.sessions.Tokens(sess)

	if sess.BookingsFetchedAt.IsZero() {
		if _, err := h.auth.Restore(ctx, tokens); err != nil {
			sess.AddFlash(session.FlashError, authMessage(err, adminauth.MessageSessionCheck), "")
			h.showLogin(w, r, sess)
			return
		}
	}

	board := boardOf(sess)
	if err := h.reviewer.Load(ctx, tokens, board, false); err != nil {
		if sess.Token == "" {
			sess.AddFlash(session.FlashError, backend.MessageAuthExpired, "")
			h.showLogin(w, r, sess)
			return
		}
		h.logger.Warn("admin board load failed", "error", err)
		sess.AddFlash(session.FlashError, backend.Message(err, bookingapi.MessageListFailed), "")
	}
	keepBoard(sess, board)

	flashes := sess.PopFlashes()
	if err := h.sessions.Save(ctx, sess); err != nil {
		internalError(w, h.logger, err)
		return
	}
	groups := board.Groups()
	h.render.render(w, r, http.StatusOK, pageAdmin, view{
		Title:      "Admin",
		Admin:      true,
		Flashes:    flashes,
		Refresh:    h.reviewer.PollInterval(),
		RefreshURL: "/admin",
		Page:       adminPage{Groups: groups, Total: groups.Total(), FetchedAt: board.FetchedAt},
	})
}

func (h *AdminHandler) showLogin(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	pending, err := h.auth.SetupPending(r.Context())
	if err != nil {
		h.logger.Warn("setup flag check failed", "error", err)
	}
	flashes := sess.PopFlashes()
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		internalError(w, h.logger, err)
		return
	}
	h.render.render(w, r, http.StatusOK, pageAdminLogin, view{
		Title:   "Admin bejelentkezés",
		Admin:   true,
		Flashes: flashes,
		Page:    loginPage{SetupPending: pending},
	})
}

// Login exchanges the posted credentials for a stored token.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Hibás kérés.", http.StatusBadRequest)
		return
	}
	email, password := formValue(r, "email"), r.PostFormValue("password")
	if email == "" || password == "" {
		sess.AddFlash(session.FlashError, MessageMissingLogin, "")
		h.finish(w, r, sess, "/admin")
		return
	}

	sess.Bookings = nil
	sess.BookingsFetchedAt = time.Time{}
	if _, err := h.auth.Login(r.Context(), h.sessions.Tokens(sess), email, password); err != nil {
		h.logger.Warn("admin login failed", "email", email, "error", err)
		sess.AddFlash(session.FlashError, backend.Message(err, MessageLoginError), "")
		h.finish(w, r, sess, "/admin")
		return
	}
	sess.AddFlash(session.FlashSuccess, MessageLoggedIn, "")
	h.finish(w, r, sess, "/admin")
}

// Logout forgets the stored token.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.auth.Logout(r.Context(), h.sessions.Tokens(sess)); err != nil {
		internalError(w, h.logger, err)
		return
	}
	sess.AddFlash(session.FlashInfo, MessageLoggedOut, "")
	h.finish(w, r, sess, "/admin")
}

// Refresh refetches the board regardless of its age.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	board := boardOf(sess)
	if err := h.reviewer.Load(r.Context(), h.sessions.Tokens(sess), board, true); err != nil {
		h.flashActionError(sess, err, bookingapi.MessageListFailed)
	}
	keepBoard(sess, board)
	h.finish(w, r, sess, "/admin")
}

// Approve accepts a pending booking.
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, bookings.StatusApproved)
}

// Reject declines a pending booking.
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, bookings.StatusRejected)
}

func (h *AdminHandler) decide(w http.ResponseWriter, r *http.Request, status bookings.Status) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	tokens := h.sessions.Tokens(sess)
	board := boardOf(sess)

	var err error
	if status == bookings.StatusApproved {
		_, err = h.reviewer.Approve(r.Context(), tokens, board, id)
	} else {
		_, err = h.reviewer.Reject(r.Context(), tokens, board, id)
	}
	switch {
	case err != nil:
		h.logger.Warn("booking decision failed", "booking_id", id, "status", status, "error", err)
		h.flashActionError(sess, err, bookingapi.MessageStatusFailed)
	case status == bookings.StatusApproved:
		sess.AddFlash(session.FlashSuccess, MessageApproved, "")
	default:
		sess.AddFlash(session.FlashSuccess, MessageRejected, "")
	}
	keepBoard(sess, board)
	h.finish(w, r, sess, "/admin")
}

// ConfirmDelete asks before deleting a booking.
func (h *AdminHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	b, found := boardOf(sess).Find(chi.URLParam(r, "id"))
	if !found {
		sess.AddFlash(session.FlashError, MessageBookingNotFound, "")
		h.finish(w, r, sess, "/admin")
		return
	}
	h.render.render(w, r, http.StatusOK, pageConfirmDelete, view{
		Title: "Foglalás törlése",
		Admin: true,
		Page:  confirmDeletePage{Booking: b, Question: review.ConfirmDeleteMessage},
	})
}

// Delete removes a booking once the confirmation form was submitted.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Hibás kérés.", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	board := boardOf(sess)
	err := h.reviewer.Delete(r.Context(), h.sessions.Tokens(sess), board, id, r.PostFormValue("confirm") == "yes")
	switch {
	case errors.Is(err, review.ErrConfirmationRequired):
		redirect(w, r, "/admin/bookings/"+id+"/delete")
		return
	case err != nil:
		h.logger.Warn("booking deletion failed", "booking_id", id, "error", err)
		h.flashActionError(sess, err, bookingapi.MessageDeleteFailed)
	default:
		sess.AddFlash(session.FlashSuccess, MessageDeleted, "")
	}
	keepBoard(sess, board)
	h.finish(w, r, sess, "/admin")
}

func (h *AdminHandler) flashActionError(sess *session.Session, err error, fallback string) {
	var msg string
	switch {
	case errors.Is(err, review.ErrInvalidTransition):
		msg = MessageNotPending
	case errors.Is(err, review.ErrNotFound):
		msg = MessageBookingNotFound
	case errors.Is(err, review.ErrNotAuthenticated):
		msg = backend.MessageAuthExpired
	default:
		msg = authMessage(err, fallback)
	}
	sess.AddFlash(session.FlashError, msg, "")
}

func authMessage(err error, fallback string) string {
	if errors.Is(err, backend.ErrAuthExpired) {
		return backend.MessageAuthExpired
	}
	return backend.Message(err, fallback)
}
