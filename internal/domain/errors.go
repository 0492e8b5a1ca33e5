package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrConcurrentUpdate     = errors.New("donation was modified concurrently, retry")
	ErrEmailDeliveryFailure = errors.New("email delivery failed")
	ErrInvalidMatchState    = errors.New("match is not in a state that allows this action")
	ErrInvalidQuoteState    = errors.New("quote is not in a state that allows this action")
)

// InvalidTransitionError means the donation's current status does not admit
// the requested event.
type InvalidTransitionError struct {
	Event DonationEvent
	From  DonationStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("invalid transition: %s is not allowed for a new donation", e.Event)
	}
	return fmt.Sprintf("invalid transition: %s is not allowed from status %s", e.Event, e.From)
}

// OverAllocationError means accepting the requested quantity would commit more
// units than the donation holds.
type OverAllocationError struct {
	DonationID int32
	Requested  int32
	Remaining  int32
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("remaining quantity insufficient: donation %d has %d left, %d requested",
		e.DonationID, e.Remaining, e.Requested)
}

type InvalidQuoteInputError struct {
	Field  string
	Reason string
}

func (e *InvalidQuoteInputError) Error() string {
	return fmt.Sprintf("invalid quote input: %s %s", e.Field, e.Reason)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

func IsOverAllocation(err error) bool {
	var target *OverAllocationError
	return errors.As(err, &target)
}

func IsInvalidQuoteInput(err error) bool {
	var target *InvalidQuoteInputError
	return errors.As(err, &target)
}
