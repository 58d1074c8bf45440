// Package wizard implements the four-step public booking flow as a value
// object. Every transition returns a new State; a refused transition returns
// the receiver unchanged together with the reason.
package wizard

import (
	"strings"
	"time"

	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
)

// Step is the visible wizard page, 1 through 4.
type Step int

const (
	StepService Step = iota + 1
	StepDateTime
	StepContact
	StepConfirm
)

// Steps is the number of wizard pages.
const Steps = int(StepConfirm)

// Phase tracks whether the wizard accepts input.
type Phase string

const (
	PhaseOpen       Phase = "open"
	PhaseSubmitting Phase = "submitting"
	PhaseClosed     Phase = "closed"
)

// Draft is the in-progress booking. It is never sent to the backend until
// the confirm step is advanced.
type Draft struct {
	ServiceID string `json:"serviceId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

// Contact carries the step 3 fields.
type Contact struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// State is one visitor's wizard.
type State struct {
	Step  Step  `json:"step"`
	Phase Phase `json:"phase"`
	Draft Draft `json:"draft"`
	// LastError is the visitor-facing reason of the last failed submission.
	LastError string `json:"lastError,omitempty"`
}

// New returns an open wizard on the first step.
func New() State {
	return State{Step: StepService, Phase: PhaseOpen}
}

// Open returns a fresh wizard when s is closed and s itself otherwise.
func (s State) Open() State {
	if s.Phase == PhaseClosed || s.Phase == "" {
		return New()
	}
	return s
}

// Close discards the draft. Closing is refused while submitting.
func (s State) Close() (State, error) {
	if s.Phase == PhaseSubmitting {
		return s, ErrSubmitting
	}
	return State{Step: StepService, Phase: PhaseClosed}, nil
}

func (s State) editable(step Step) error {
	switch s.Phase {
	case PhaseSubmitting:
		return ErrSubmitting
	case PhaseClosed:
		return ErrClosed
	}
	if s.Step != step {
		return ErrNotEditable
	}
	return nil
}

// SelectService picks a catalog service on step 1. Unknown and disabled
// services cannot be picked.
func (s State) SelectService(c *bookings.Catalog, id string) (State, error) {
	if err := s.editable(StepService); err != nil {
		return s, err
	}
	if !c.Bookable(id) {
		return s, &ValidationError{Step: StepService, Message: MessageSelectService}
	}
	s.Draft.ServiceID = id
	return s, nil
}

// SelectDate sets the date on step 2. The empty string clears it.
func (s State) SelectDate(value string, now time.Time) (State, error) {
	if err := s.editable(StepDateTime); err != nil {
		return s, err
	}
	value = strings.TrimSpace(value)
	if value != "" {
		if _, err := bookings.ParseDate(value, now); err != nil {
			return s, &ValidationError{Step: StepDateTime, Message: MessageInvalidDate}
		}
	}
	s.Draft.Date = value
	return s, nil
}

// SelectTime sets the slot on step 2. The empty string clears it.
func (s State) SelectTime(c *bookings.Catalog, slot string) (State, error) {
	if err := s.editable(StepDateTime); err != nil {
		return s, err
	}
	slot = strings.TrimSpace(slot)
	if slot != "" && !c.HasSlot(slot) {
		return s, &ValidationError{Step: StepDateTime, Message: MessageInvalidTime}
	}
	s.Draft.Time = slot
	return s, nil
}

// SetContact replaces the step 3 fields.
func (s State) SetContact(ct Contact) (State, error) {
	if err := s.editable(StepContact); err != nil {
		return s, err
	}
	s.Draft.Name = strings.TrimSpace(ct.Name)
	s.Draft.Email = strings.TrimSpace(ct.Email)
	s.Draft.Phone = strings.TrimSpace(ct.Phone)
	s.Draft.Notes = strings.TrimSpace(ct.Notes)
	return s, nil
}

// Advance validates the current step and moves forward. On the confirm step
// it enters the submitting phase; the caller then performs the submission.
func (s State) Advance(c *bookings.Catalog) (State, error) {
	switch s.Phase {
	case PhaseSubmitting:
		return s, ErrSubmitting
	case PhaseClosed:
		return s, ErrClosed
	}
	switch s.Step {
	case StepService:
		if !c.Bookable(s.Draft.ServiceID) {
			return s, &ValidationError{Step: s.Step, Message: MessageSelectService}
		}
	case StepDateTime:
		if s.Draft.Date == "" || s.Draft.Time == "" {
			return s, &ValidationError{Step: s.Step, Message: MessageSelectSlot}
		}
	case StepContact:
		if s.Draft.Name == "" || s.Draft.Email == "" || s.Draft.Phone == "" {
			return s, &ValidationError{Step: s.Step, Message: MessageFillContact}
		}
	case StepConfirm:
		s.Phase = PhaseSubmitting
		s.LastError = ""
		return s, nil
	}
	s.Step++
	s.LastError = ""
	return s, nil
}

// Back moves one step backwards without validating or discarding anything.
// It is a no-op on the first step.
func (s State) Back() (State, error) {
	switch s.Phase {
	case PhaseSubmitting:
		return s, ErrSubmitting
	case PhaseClosed:
		return s, ErrClosed
	}
	if s.Step > StepService {
		s.Step--
	}
	return s, nil
}

// Succeeded closes the wizard after the backend accepted the booking.
func (s State) Succeeded() State {
	if s.Phase != PhaseSubmitting {
		return s
	}
	return State{Step: StepService, Phase: PhaseClosed}
}

// Failed returns to the confirm step with the draft intact.
func (s State) Failed(message string) State {
	if s.Phase != PhaseSubmitting {
		return s
	}
	s.Phase = PhaseOpen
	s.Step = StepConfirm
	s.LastError = message
	return s
}

// Progress is the completion percentage shown in the progress bar.
func (s State) Progress() int {
	return int(s.Step) * 100 / Steps
}

// CanGoBack reports whether the back control is enabled.
func (s State) CanGoBack() bool {
	return s.Phase == PhaseOpen && s.Step > StepService
}

// Submitting reports whether a submission is in flight.
func (s State) Submitting() bool {
	return s.Phase == PhaseSubmitting
}

// Request builds the create-booking payload. The backend receives the
// service's display name rather than its id.
func (s State) Request(c *bookings.Catalog) bookings.Request {
	return bookings.Request{
		Service: c.ServiceName(s.Draft.ServiceID),
		Date:    s.Draft.Date,
		Time:    s.Draft.Time,
		Name:    s.Draft.Name,
		Email:   s.Draft.Email,
		Phone:   s.Draft.Phone,
		Notes:   s.Draft.Notes,
	}
}
