package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStage                 = errors.New("invalid stage")
	ErrEntityNotFound               = errors.New("entity not found")
	ErrTerminalStage                = errors.New("entity is in a terminal stage")
	ErrInvalidTransition            = errors.New("transition not permitted")
	ErrCompletionRequiresAssignment = errors.New("completing a job requires business assignment")
	ErrAssignmentMismatch           = errors.New("assignment must list every service item")
	ErrUnknownBusiness              = errors.New("unknown business")
	ErrInvalidID                    = errors.New("invalid id")
	ErrInvalidCustomer              = errors.New("invalid customer")
	ErrInvalidAppointment           = errors.New("invalid appointment")
	ErrInvalidPriceInquiry          = errors.New("invalid price inquiry")
	ErrInvalidPhone                 = errors.New("phone must have exactly 10 digits")
	ErrInvalidEmail                 = errors.New("invalid email")
	ErrInvalidDate                  = errors.New("invalid date")
	ErrInvalidSlot                  = errors.New("invalid time slot")
	ErrSlotTaken                    = errors.New("time slot already booked")
	ErrInvalidPaymentAmount         = errors.New("invalid payment amount")
	ErrJobCancelled                 = errors.New("job is cancelled")
)

// DefaultFailureMessage is shown when a remote failure carries no message.
const DefaultFailureMessage = "Failed to update status"

type MutationErrorKind string

const (
	MutationErrorValidation MutationErrorKind = "validation"
	MutationErrorRemote     MutationErrorKind = "remote"
)

// MutationError is returned by every coordinated mutation. Message is safe to
// show to users.
type MutationError struct {
	Kind    MutationErrorKind
	Message string
	Err     error
}

func (e *MutationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

func validationError(err error) *MutationError {
	return &MutationError{Kind: MutationErrorValidation, Message: err.Error(), Err: err}
}

// userMessage prefers the message the remote store attached to err.
func userMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return DefaultFailureMessage
}
