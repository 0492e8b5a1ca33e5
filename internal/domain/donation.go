package domain

import (
	"fmt"
	"time"
)

type DonationStatus string

const (
	DonationStatusPendingReview       DonationStatus = "pending_review"
	DonationStatusQuoteSent           DonationStatus = "quote_sent"
	DonationStatusQuoteAccepted       DonationStatus = "quote_accepted"
	DonationStatusMatched             DonationStatus = "matched"
	DonationStatusBeneficiaryAccepted DonationStatus = "beneficiary_accepted"
	DonationStatusPickupCoordinating  DonationStatus = "pickup_coordinating"
	DonationStatusPickupScheduled     DonationStatus = "pickup_scheduled"
	DonationStatusCompleted           DonationStatus = "completed"
	DonationStatusRejected            DonationStatus = "rejected"
	DonationStatusCancelled           DonationStatus = "cancelled"
)

var donationStatuses = []DonationStatus{
	DonationStatusPendingReview,
	DonationStatusQuoteSent,
	DonationStatusQuoteAccepted,
	DonationStatusMatched,
	DonationStatusBeneficiaryAccepted,
	DonationStatusPickupCoordinating,
	DonationStatusPickupScheduled,
	DonationStatusCompleted,
	DonationStatusRejected,
	DonationStatusCancelled,
}

func ParseDonationStatus(s string) (DonationStatus, error) {
	for _, st := range donationStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown donation status %q: %w", s, ErrInvalidInput)
}

// IsTerminal reports whether no further event can move the donation.
func (s DonationStatus) IsTerminal() bool {
	return s == DonationStatusCompleted || s == DonationStatusRejected || s == DonationStatusCancelled
}

type Donation struct {
	ID                      int32          `json:"id"`
	BusinessID              int32          `json:"business_id"`
	Name                    string         `json:"name"`
	Description             string         `json:"description"`
	Category                string         `json:"category"`
	Quantity                int32          `json:"quantity"`
	Unit                    string         `json:"unit"`
	PickupDeadline          string         `json:"pickup_deadline"`
	PickupLocation          string         `json:"pickup_location"`
	Status                  DonationStatus `json:"status"`
	TaxReceiptURL           string         `json:"tax_receipt_url"`
	ESGReportURL            string         `json:"esg_report_url"`
	CO2SavedKg              float64        `json:"co2_saved_kg"`
	MealsServed             int32          `json:"meals_served"`
	WasteDivertedKg         float64        `json:"waste_diverted_kg"`
	NotificationConfirmedAt *time.Time     `json:"notification_confirmed_at,omitempty"`
	Version                 int32          `json:"version"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

// DonationFilter narrows DonationRepository.List. Zero values mean "any".
type DonationFilter struct {
	BusinessID int32
	Statuses   []DonationStatus
	Page       int32
	PageSize   int32
}

// ImpactMetrics are recorded when a donation completes.
type ImpactMetrics struct {
	CO2SavedKg      float64 `json:"co2_saved_kg"`
	MealsServed     int32   `json:"meals_served"`
	WasteDivertedKg float64 `json:"waste_diverted_kg"`
}
