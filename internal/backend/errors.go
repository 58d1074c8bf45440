package backend

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is against any error returned by this
// package or by the typed clients built on it.
var (
	ErrAuthExpired        = errors.New("backend: authentication expired")
	ErrSubmission         = errors.New("backend: booking submission failed")
	ErrStatusUpdate       = errors.New("backend: status update failed")
	ErrDeletion           = errors.New("backend: deletion failed")
	ErrInvalidCredentials = errors.New("backend: invalid credentials")
	ErrNetwork            = errors.New("backend: network failure")
	ErrRequest            = errors.New("backend: request failed")
)

// User-facing messages shown when the backend gives no better explanation.
const (
	MessageAuthExpired = "Hitelesítési hiba. Kérlek jelentkezz be újra."
	MessageNetwork     = "Hálózati hiba. Kérlek próbáld újra később."
)

// Error describes a failed backend call.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Op names the logical operation, e.g. "create_booking".
	Op string
	// Status is the HTTP status code, zero for transport failures.
	Status int
	// Message is safe to show to the visitor.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %s: %v", e.Op, e.Status, e.Message, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Message returns the visitor-facing text carried by err, or fallback when
// err is not a backend error or has no message.
func Message(err error, fallback string) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

// StatusOf returns the HTTP status of a backend error, or zero.
func StatusOf(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}

func kindLabel(kind error) string {
	switch kind {
	case nil:
		return "ok"
	case ErrAuthExpired:
		return "auth_expired"
	case ErrSubmission:
		return "submission"
	case ErrStatusUpdate:
		return "status_update"
	case ErrDeletion:
		return "deletion"
	case ErrInvalidCredentials:
		return "invalid_credentials"
	case ErrNetwork:
		return "network"
	}
	return "error"
}
