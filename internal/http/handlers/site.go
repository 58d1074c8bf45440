package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/mail"

	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
	"github.com/wolfman30/barbershop-booking-site/internal/notify"
	"github.com/wolfman30/barbershop-booking-site/internal/session"
	"github.com/wolfman30/barbershop-booking-site/internal/site"
	"github.com/wolfman30/barbershop-booking-site/internal/slider"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

// Contact form messages.
const (
	MessageContactMissing = "Kérlek töltsd ki az összes mezőt!"
	MessageContactEmail   = "Kérlek adj meg érvényes email címet!"
	MessageContactSent    = "Köszönöm az üzeneted! Hamarosan válaszolok."
	MessageContactFailed  = "Az üzenet küldése sikertelen. Kérlek próbáld újra később."
)

// ContactSender delivers landing page messages to the owner.
type ContactSender interface {
	Contact(ctx context.Context, m notify.ContactMessage) error
}

// SiteHandler serves the landing page and its contact form.
type SiteHandler struct {
	render   *Renderer
	content  *site.Content
	catalog  *bookings.Catalog
	sessions *session.Manager
	contact  ContactSender
	logger   *logging.Logger
}

type SiteHandlerOptions struct {
	Renderer *Renderer
	Content  *site.Content
	Catalog  *bookings.Catalog
	Sessions *session.Manager
	Contact  ContactSender
	Logger   *logging.Logger
}

// NewSiteHandler builds the landing page and contact form handler.
func NewSiteHandler(opts SiteHandlerOptions) *SiteHandler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = bookings.DefaultCatalog()
	}
	return &SiteHandler{
		render:   opts.Renderer,
		content:  opts.Content,
		catalog:  catalog,
		sessions: opts.Sessions,
		contact:  opts.Contact,
		logger:   logger,
	}
}

// comparison is one before/after pair with the slider's initial geometry.
type comparison struct {
	site.PortfolioItem
	Position   float64
	ClipRight  float64
	HandleLeft float64
}

type homePage struct {
	Content     *site.Content
	Services    []site.ServiceCard
	Comparisons []comparison
	Gallery     []site.GalleryItem
	Contact     notify.ContactMessage
}

// Home renders the landing page.
func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
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

	page := homePage{
		Content:  h.content,
		Services: h.content.ServiceCards(h.catalog),
		Gallery:  h.content.GalleryItems(),
	}
	for _, item := range h.content.Portfolio.Items {
		s := slider.New()
		page.Comparisons = append(page.Comparisons, comparison{
			PortfolioItem: item,
			Position:      s.Position(),
			ClipRight:     s.ClipRight(),
			HandleLeft:    s.HandleLeft(),
		})
	}
	h.render.render(w, r, http.StatusOK, pageHome, view{Flashes: flashes, Page: page})
}

// Contact forwards the landing page contact form to the owner.
func (h *SiteHandler) Contact(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		internalError(w, h.logger, errNoSession)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Hibás kérés.", http.StatusBadRequest)
		return
	}
	msg := notify.ContactMessage{
		Name:    formValue(r, "name"),
		Email:   formValue(r, "email"),
		Message: formValue(r, "message"),
	}

	switch err := validateContact(msg); {
	case err != nil:
		sess.AddFlash(session.FlashError, err.Error(), "")
	case h.contact == nil:
		sess.AddFlash(session.FlashError, MessageContactFailed, "")
	default:
		if err := h.contact.Contact(r.Context(), msg); err != nil {
			h.logger.Error("contact message failed", "error", err)
			sess.AddFlash(session.FlashError, MessageContactFailed, "")
		} else {
			h.logger.Info("contact message sent", "from", msg.Email)
			sess.AddFlash(session.FlashSuccess, MessageContactSent, "")
		}
	}

	if err := h.sessions.Save(r.Context(), sess); err != nil {
		internalError(w, h.logger, err)
		return
	}
	redirect(w, r, "/#contact")
}

func validateContact(m notify.ContactMessage) error {
	if m.Name == "" || m.Email == "" || m.Message == "" {
		return errors.New(MessageContactMissing)
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return errors.New(MessageContactEmail)
	}
	return nil
}

var errNoSession = errors.New("handlers: no session in request context")
