package domain

import "time"

type QuoteStatus string

const (
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusConfirmed QuoteStatus = "confirmed"
)

// Quote is a priced offer for handling a donation. Amounts are won and are
// persisted as computed at creation time.
type Quote struct {
	ID         int32 `json:"id"`
	DonationID int32 `json:"donation_id"`
	// MatchID is nil for quotes sent before matching.
	MatchID          *int32      `json:"match_id,omitempty"`
	UnitPrice        int64       `json:"unit_price"`
	Quantity         int32       `json:"quantity"`
	SupplyAmount     int64       `json:"supply_amount"`
	CommissionRate   float64     `json:"commission_rate"`
	CommissionAmount int64       `json:"commission_amount"`
	VATAmount        int64       `json:"vat_amount"`
	TotalAmount      int64       `json:"total_amount"`
	LogisticsCost    int64       `json:"logistics_cost"`
	PickupDate       string      `json:"pickup_date"`
	PickupTime       string      `json:"pickup_time"`
	Status           QuoteStatus `json:"status"`
	RejectionReason  string      `json:"rejection_reason"`
	RespondedAt      *time.Time  `json:"responded_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// QuoteAmounts is the output of the quote calculator.
type QuoteAmounts struct {
	SupplyAmount     int64 `json:"supply_amount"`
	CommissionAmount int64 `json:"commission_amount"`
	VATAmount        int64 `json:"vat_amount"`
	TotalAmount      int64 `json:"total_amount"`
}
