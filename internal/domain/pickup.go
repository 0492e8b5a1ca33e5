package domain

import "time"

const DateLayout = "2006-01-02"

type PickupStatus string

const (
	PickupStatusScheduled PickupStatus = "scheduled"
	PickupStatusCompleted PickupStatus = "completed"
	PickupStatusCancelled PickupStatus = "cancelled"
)

type PickupSchedule struct {
	ID         int32        `json:"id"`
	DonationID int32        `json:"donation_id"`
	PickupDate string       `json:"pickup_date"` // YYYY-MM-DD
	PickupTime string       `json:"pickup_time"` // HH:MM
	Staff      string       `json:"staff"`
	Vehicle    string       `json:"vehicle"`
	Notes      string       `json:"notes"`
	Status     PickupStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

// IsUpcomingPickup reports whether pickupDate falls on today or the next
// calendar day, in today's location.
func IsUpcomingPickup(pickupDate string, today time.Time) bool {
	d := today.Format(DateLayout)
	next := today.AddDate(0, 0, 1).Format(DateLayout)
	return pickupDate == d || pickupDate == next
}

// UpcomingPickup pairs a scheduled donation with its schedule.
type UpcomingPickup struct {
	Donation Donation       `json:"donation"`
	Schedule PickupSchedule `json:"schedule"`
}
