package domain

import "time"

type MatchStatus string

const (
	MatchStatusProposed  MatchStatus = "proposed"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusRejected  MatchStatus = "rejected"
	MatchStatusQuoteSent MatchStatus = "quote_sent"
	MatchStatusReceived  MatchStatus = "received"
)

// HoldsQuantity reports whether a match in this status counts against the
// donation's quantity.
func (s MatchStatus) HoldsQuantity() bool {
	return s == MatchStatusAccepted || s == MatchStatusReceived || s == MatchStatusQuoteSent
}

func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusRejected || s == MatchStatusReceived
}

type DonationMatch struct {
	ID                      int32       `json:"id"`
	DonationID              int32       `json:"donation_id"`
	BeneficiaryID           int32       `json:"beneficiary_id"`
	Status                  MatchStatus `json:"status"`
	ProposedAt              time.Time   `json:"proposed_at"`
	ProposedBy              string      `json:"proposed_by"`
	RespondedAt             *time.Time  `json:"responded_at,omitempty"`
	AcceptedQuantity        int32       `json:"accepted_quantity"`
	AcceptedUnit            string      `json:"accepted_unit"`
	RejectionReason         string      `json:"rejection_reason"`
	ReceivedAt              *time.Time  `json:"received_at,omitempty"`
	NotificationConfirmedAt *time.Time  `json:"notification_confirmed_at,omitempty"`
	Version                 int32       `json:"version"`
	CreatedAt               time.Time   `json:"created_at"`
	UpdatedAt               time.Time   `json:"updated_at"`
}

// AllocatedQuantity sums accepted quantity over matches that hold quantity,
// skipping the match with excludeID (0 skips nothing).
func AllocatedQuantity(matches []DonationMatch, excludeID int32) int32 {
	var total int32
	for _, m := range matches {
		if excludeID != 0 && m.ID == excludeID {
			continue
		}
		if m.Status.HoldsQuantity() {
			total += m.AcceptedQuantity
		}
	}
	return total
}

// RemainingQuantity is the part of the donation not committed to any match.
// It is always derived from the live match list and never stored.
func RemainingQuantity(d *Donation, matches []DonationMatch) int32 {
	return d.Quantity - AllocatedQuantity(matches, 0)
}

// CheckAllocation verifies that giving requested units to match matchID keeps
// the donation within its quantity.
func CheckAllocation(d *Donation, matches []DonationMatch, matchID int32, requested int32) error {
	remaining := d.Quantity - AllocatedQuantity(matches, matchID)
	if requested > remaining {
		return &OverAllocationError{DonationID: d.ID, Requested: requested, Remaining: remaining}
	}
	return nil
}
