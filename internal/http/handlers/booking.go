package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
	"github.com/wolfman30/barbershop-booking-site/internal/session"
	"github.com/wolfman30/barbershop-booking-site/internal/wizard"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

// Wizard flash messages.
const (
	MessageBookingSaved       = "Foglalás rögzítve — várj a visszaigazolásra!"
	MessageBookingSavedDetail = "Emailben értesítünk a foglalás jóváhagyásáról."
	MessageBookingInFlight    = "A foglalás rögzítése folyamatban van."
)

// BookingHandler drives the booking wizard stored in the visitor's session.
type BookingHandler struct {
	render     *Renderer
	runner     *wizard.Runner
	sessions   *session.Manager
	closeDelay time.Duration
	logger     *logging.Logger
}

type BookingHandlerOptions struct {
	Renderer *Renderer
	Runner   *wizard.Runner
	Sessions *session.Manager
	// CloseDelay is how long the confirmation stays up before returning home.
	CloseDelay time.Duration
	Logger     *logging.Logger
}

// NewBookingHandler builds the wizard handler; CloseDelay defaults to two seconds.
func NewBookingHandler(opts BookingHandlerOptions) *BookingHandler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	delay := opts.CloseDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &BookingHandler{
		render:     opts.Renderer,
		runner:     opts.Runner,
		sessions:   opts.Sessions,
		closeDelay: delay,
		logger:     logger,
	}
}

type slotOption struct {
	Value    string
	Selected bool
}

type bookingPage struct {
	State    wizard.State
	Steps    []int
	Services []bookings.Service
	Slots    []slotOption
	MinDate  string
	Service  bookings.Service
}

// Show renders the current wizard step, opening a fresh wizard when none is
// active.
func (h *BookingHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		internalError(w, h.logger, errNoSession)
		return
	}
	st := wizard.New()
	if sess.Wizard != nil {
		st = h.runner.Reconcile(r.Context(), sess.ID, sess.Wizard.Open())
	}
	sess.Wizard = &st
	flashes := sess.PopFlashes()
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		internalError(w, h.logger, err)
		return
	}

	catalog := h.runner.Catalog()
	page := bookingPage{
		State:    st,
		Services: catalog.Services,
		MinDate:  h.runner.Now().Format(bookings.DateLayout),
	}
	for i := 1; i <= wizard.Steps; i++ {
		page.Steps = append(page.Steps, i)
	}
	for _, slot := range catalog.TimeSlots {
		page.Slots = append(page.Slots, slotOption{Value: slot, Selected: slot == st.Draft.Time})
	}
	page.Service, _ = catalog.Service(st.Draft.ServiceID)

	v := view{Title: "Időpontfoglalás", Flashes: flashes, Page: page}
	if st.Submitting() {
		v.Flashes = append(v.Flashes, session.Flash{Kind: session.FlashInfo, Message: MessageBookingInFlight})
		v.Refresh = 2 * time.Second
		v.RefreshURL = "/booking"
	}
	h.render.render(w, r, http.StatusOK, pageBooking, v)
}

// Submit applies a wizard action: "advance" (after saving the step's fields),
// "back", "close" or "save".
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := session.FromContext(ctx)
	if !ok {
		internalError(w, h.logger, errNoSession)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Hibás kérés.", http.StatusBadRequest)
		return
	}

	st := wizard.New()
	if sess.Wizard != nil {
		st = *sess.Wizard
	}

	store := wizard.Storage{
		Load: func(ctx context.Context) (wizard.State, bool, error) {
			data, err := h.sessions.Store().Get(ctx, sess.ID)
			if errors.Is(err, session.ErrNotFound) || (err == nil && data.Wizard == nil) {
				return wizard.State{}, false, nil
			}
			if err != nil {
				return wizard.State{}, false, err
			}
			return *data.Wizard, true, nil
		},
		Persist: func(ctx context.Context, s wizard.State) error {
			sess.Wizard = &s
			return h.sessions.Save(ctx, sess)
		},
	}

	var err error
	switch r.PostFormValue("action") {
	case "close":
		st, err = st.Close()
		if err == nil {
			sess.Wizard = &st
			h.save(w, r, sess, "/")
			return
		}
	case "back":
		st, err = st.Back()
	case "advance":
		if st, err = h.applyFields(st, r.PostForm); err == nil {
			var created *bookings.Booking
			st, created, err = h.runner.Advance(ctx, sess.ID, st, store)
			if created != nil {
				sess.Wizard = &st
				sess.AddFlash(session.FlashSuccess, MessageBookingSaved, MessageBookingSavedDetail)
				h.save(w, r, sess, "/booking/done")
				return
			}
		}
	default:
		st, err = h.applyFields(st, r.PostForm)
	}

	switch {
	case err == nil:
	case errors.Is(err, wizard.ErrSubmitting), errors.Is(err, wizard.ErrStale):
		// Another request owns the stored state; overwriting it here could
		// reopen a wizard that is about to close.
		redirect(w, r, "/booking")
		return
	case errors.Is(err, wizard.ErrClosed):
		st = st.Open()
	case wizard.IsValidation(err):
		sess.AddFlash(session.FlashError, err.Error(), "")
	case st.LastError != "":
		h.logger.Warn("booking wizard submission failed", "error", err)
		sess.AddFlash(session.FlashError, st.LastError, "")
	default:
		h.logger.Warn("booking wizard action refused", "error", err)
	}
	sess.Wizard = &st
	h.save(w, r, sess, "/booking")
}

// Done shows the confirmation and sends the visitor home after the delay.
func (h *BookingHandler) Done(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		internalError(w, h.logger, errNoSession)
		return
	}
	flashes := sess.PopFlashes()
	if len(flashes) > 0 {
		if err := h.sessions.Save(r.Context(), sess); err != nil {
			h.logger.Warn("failed to clear flashes", "error", err)
		}
	}
	h.render.render(w, r, http.StatusOK, pageBookingDone, view{
		Title:      "Foglalás rögzítve",
		Flashes:    flashes,
		Refresh:    h.closeDelay,
		RefreshURL: "/",
	})
}

// applyFields copies the posted fields of the current step into st.
func (h *BookingHandler) applyFields(st wizard.State, form url.Values) (wizard.State, error) {
	catalog := h.runner.Catalog()
	var err error
	switch st.Step {
	case wizard.StepService:
		if id := form.Get("service"); id != "" {
			return st.SelectService(catalog, id)
		}
	case wizard.StepDateTime:
		if date := form.Get("date"); date != "" {
			if st, err = st.SelectDate(date, h.runner.Now()); err != nil {
				return st, err
			}
		}
		if slot := form.Get("time"); slot != "" {
			return st.SelectTime(catalog, slot)
		}
	case wizard.StepContact:
		if form.Has("name") || form.Has("email") || form.Has("phone") || form.Has("notes") {
			return st.SetContact(wizard.Contact{
				Name:  form.Get("name"),
				Email: form.Get("email"),
				Phone: form.Get("phone"),
				Notes: form.Get("notes"),
			})
		}
	}
	return st, nil
}

func (h *BookingHandler) save(w http.ResponseWriter, r *http.Request, sess *session.Session, to string) {
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		internalError(w, h.logger, err)
		return
	}
	redirect(w, r, to)
}
