package wizard

import "errors"

// Messages shown when a forward step is attempted with missing data.
const (
	MessageSelectService = "Kérlek válassz szolgáltatást!"
	MessageSelectSlot    = "Kérlek válassz dátumot és időpontot!"
	MessageFillContact   = "Kérlek töltsd ki az összes kötelező mezőt!"
	MessageInvalidDate   = "Kérlek válassz érvényes dátumot!"
	MessageInvalidTime   = "Kérlek válassz a felkínált időpontok közül!"
)

var (
	// ErrSubmitting is returned for any change attempted while a submission
	// is in flight.
	ErrSubmitting = errors.New("wizard: submission in progress")
	// ErrStale is returned when the stored wizard moved on, for example
	// because an earlier request already submitted the same draft.
	ErrStale = errors.New("wizard: state changed by another request")
	// ErrClosed is returned for edits after the wizard was closed.
	ErrClosed = errors.New("wizard: closed")
	// ErrNotEditable is returned when a field does not belong to the current step.
	ErrNotEditable = errors.New("wizard: field not editable on this step")
)

// ValidationError rejects a forward step; it never reaches the network.
type ValidationError struct {
	Step    Step
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
