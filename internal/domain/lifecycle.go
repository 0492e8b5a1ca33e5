package domain

import "fmt"

type DonationEvent string

const (
	EventSubmit            DonationEvent = "submit"
	EventSendQuote         DonationEvent = "send_quote"
	EventAcceptQuote       DonationEvent = "accept_quote"
	EventRejectQuote       DonationEvent = "reject_quote"
	EventProposeMatch      DonationEvent = "propose_match"
	EventBeneficiaryAccept DonationEvent = "beneficiary_accept"
	EventCoordinatePickup  DonationEvent = "coordinate_pickup"
	EventSchedulePickup    DonationEvent = "schedule_pickup"
	EventComplete          DonationEvent = "complete"
	EventReject            DonationEvent = "reject"
	EventCancel            DonationEvent = "cancel"
)

type transitionRule struct {
	from []DonationStatus
	to   DonationStatus
}

// transitions is the single source of truth for donation status moves.
// EventSubmit has no prior state; EventCancel is resolved separately since it
// applies to every non-terminal state.
var transitions = map[DonationEvent]transitionRule{
	EventSendQuote: {
		from: []DonationStatus{DonationStatusPendingReview},
		to:   DonationStatusQuoteSent,
	},
	EventAcceptQuote: {
		from: []DonationStatus{DonationStatusQuoteSent},
		to:   DonationStatusQuoteAccepted,
	},
	EventRejectQuote: {
		from: []DonationStatus{DonationStatusQuoteSent},
		to:   DonationStatusPendingReview,
	},
	EventProposeMatch: {
		from: []DonationStatus{DonationStatusPendingReview, DonationStatusQuoteAccepted, DonationStatusMatched},
		to:   DonationStatusMatched,
	},
	EventBeneficiaryAccept: {
		from: []DonationStatus{DonationStatusMatched, DonationStatusBeneficiaryAccepted},
		to:   DonationStatusBeneficiaryAccepted,
	},
	EventCoordinatePickup: {
		from: []DonationStatus{DonationStatusBeneficiaryAccepted, DonationStatusQuoteAccepted},
		to:   DonationStatusPickupCoordinating,
	},
	EventSchedulePickup: {
		from: []DonationStatus{DonationStatusBeneficiaryAccepted, DonationStatusQuoteAccepted, DonationStatusPickupCoordinating},
		to:   DonationStatusPickupScheduled,
	},
	EventComplete: {
		from: []DonationStatus{DonationStatusPickupScheduled},
		to:   DonationStatusCompleted,
	},
	EventReject: {
		from: []DonationStatus{DonationStatusPendingReview},
		to:   DonationStatusRejected,
	},
}

func ParseDonationEvent(s string) (DonationEvent, error) {
	e := DonationEvent(s)
	if e == EventSubmit || e == EventCancel {
		return e, nil
	}
	if _, ok := transitions[e]; ok {
		return e, nil
	}
	return "", fmt.Errorf("unknown donation event %q: %w", s, ErrInvalidInput)
}

// NextStatus returns the status a donation in `from` moves to on `event`, or
// an *InvalidTransitionError when the table does not allow it.
func NextStatus(from DonationStatus, event DonationEvent) (DonationStatus, error) {
	switch event {
	case EventSubmit:
		if from == "" {
			return DonationStatusPendingReview, nil
		}
		return "", &InvalidTransitionError{Event: event, From: from}
	case EventCancel:
		if from == "" || from.IsTerminal() {
			return "", &InvalidTransitionError{Event: event, From: from}
		}
		return DonationStatusCancelled, nil
	}

	rule, ok := transitions[event]
	if !ok {
		return "", &InvalidTransitionError{Event: event, From: from}
	}
	for _, allowed := range rule.from {
		if allowed == from {
			return rule.to, nil
		}
	}
	return "", &InvalidTransitionError{Event: event, From: from}
}

// CanApply reports whether event is legal from the given status.
func CanApply(from DonationStatus, event DonationEvent) bool {
	_, err := NextStatus(from, event)
	return err == nil
}

// Counterparty is who should hear about a transition.
func (e DonationEvent) Counterparty() ActorType {
	switch e {
	case EventSendQuote, EventProposeMatch, EventSchedulePickup, EventReject, EventComplete, EventCoordinatePickup:
		return ActorTypeBusiness
	default:
		return ActorTypeAdmin
	}
}
