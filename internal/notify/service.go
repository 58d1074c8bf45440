package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
	"github.com/wolfman30/barbershop-booking-site/internal/observability/metrics"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

const sendTimeout = 10 * time.Second

// ContactMessage is a message left on the landing page.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// Service turns booking events into e-mails. Delivery failures are logged
// and never returned to the caller's flow, except for contact messages
// where the visitor must know whether the owner received it.
type Service struct {
	email      EmailSender
	render     *renderer
	ownerEmail string
	business   string
	adminURL   string
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// ServiceOptions configures a Service.
type ServiceOptions struct {
	Sender     EmailSender
	OwnerEmail string
	Business   string
	// AdminURL is linked from owner notifications.
	AdminURL string
	Metrics  *metrics.BookingMetrics
	Logger   *logging.Logger
}

// NewService parses the e-mail templates. Without a Sender every send fails.
func NewService(opts ServiceOptions) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	business := opts.Business
	if business == "" {
		business = defaultFromName
	}
	return &Service{
		email:      opts.Sender,
		render:     r,
		ownerEmail: strings.TrimSpace(opts.OwnerEmail),
		business:   business,
		adminURL:   opts.AdminURL,
		metrics:    opts.Metrics,
		logger:     logger,
	}, nil
}

// ErrNoRecipient is returned when the owner address is not configured.
var ErrNoRecipient = errors.New("notify: no recipient configured")

func (s *Service) send(ctx context.Context, name string, msg EmailMessage, data any) error {
	if s.email == nil {
		return errors.New("notify: no email sender configured")
	}
	subject, body, err := s.render.render(name, data)
	if err != nil {
		return err
	}
	msg.Subject = subject
	msg.Body = body

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()
	err = s.email.Send(ctx, msg)
	s.metrics.ObserveNotification(name, err == nil)
	return err
}

// BookingSubmitted tells the owner a booking awaits a decision.
func (s *Service) BookingSubmitted(ctx context.Context, b bookings.Booking) {
	if s.ownerEmail == "" {
		s.logger.Debug("notify: owner email not configured, skipping booking notification")
		return
	}
	data := struct {
		Booking  bookings.Booking
		AdminURL string
	}{b, s.adminURL}
	msg := EmailMessage{To: s.ownerEmail, ReplyTo: b.Email}
	if err := s.send(ctx, templateBookingSubmitted, msg, data); err != nil {
		s.logger.Error("notify: booking notification failed", "error", err, "booking_id", b.ID)
	}
}

// BookingStatusChanged tells the customer about an approval or rejection.
func (s *Service) BookingStatusChanged(ctx context.Context, b bookings.Booking) {
	if !b.Status.Terminal() {
		return
	}
	if strings.TrimSpace(b.Email) == "" {
		s.logger.Warn("notify: booking has no customer email", "booking_id", b.ID)
		return
	}
	data := struct {
		Booking  bookings.Booking
		Approved bool
		Business string
	}{b, b.Status == bookings.StatusApproved, s.business}
	msg := EmailMessage{To: b.Email, ToName: b.Name, ReplyTo: s.ownerEmail}
	if err := s.send(ctx, templateBookingStatus, msg, data); err != nil {
		s.logger.Error("notify: status notification failed", "error", err, "booking_id", b.ID, "status", b.Status)
	}
}

// Contact forwards a landing page message to the owner.
func (s *Service) Contact(ctx context.Context, m ContactMessage) error {
	if s.ownerEmail == "" {
		return ErrNoRecipient
	}
	msg := EmailMessage{To: s.ownerEmail, ReplyTo: m.Email}
	if err := s.send(ctx, templateContactMessage, msg, m); err != nil {
		s.logger.Error("notify: contact message failed", "error", err)
		return err
	}
	return nil
}
