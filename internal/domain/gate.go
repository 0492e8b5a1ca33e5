package domain

import "time"

// isNewer reports whether proposedAt is strictly after confirmedAt. A nil
// confirmedAt has never been confirmed and is older than everything.
func isNewer(proposedAt time.Time, confirmedAt *time.Time) bool {
	if confirmedAt == nil {
		return true
	}
	return proposedAt.After(*confirmedAt)
}

// CountBeneficiaryPendingAcks counts the beneficiary's live matches proposed
// since the beneficiary last acknowledged them.
func CountBeneficiaryPendingAcks(matches []DonationMatch) int {
	n := 0
	for _, m := range matches {
		if m.Status == MatchStatusRejected {
			continue
		}
		if isNewer(m.ProposedAt, m.NotificationConfirmedAt) {
			n++
		}
	}
	return n
}

// HasPendingBusinessAck reports whether any match on the donation was
// proposed after the business last acknowledged the donation.
func HasPendingBusinessAck(d *Donation, matches []DonationMatch) bool {
	for _, m := range matches {
		if m.DonationID != d.ID || m.Status == MatchStatusRejected {
			continue
		}
		if isNewer(m.ProposedAt, d.NotificationConfirmedAt) {
			return true
		}
	}
	return false
}

// ReminderSession holds the per-session "don't show today" flag for pickup
// reminders. It lives in memory only and is never written to the store.
type ReminderSession struct {
	dismissedOn string
}

func NewReminderSession() *ReminderSession {
	return &ReminderSession{}
}

// RestoreReminderSession rebuilds a session from the date a client says it
// last dismissed the reminder. Anything that is not a date means "never".
func RestoreReminderSession(dismissedOn string) *ReminderSession {
	if _, err := time.Parse(DateLayout, dismissedOn); err != nil {
		return &ReminderSession{}
	}
	return &ReminderSession{dismissedOn: dismissedOn}
}

// DismissedOn is the date last dismissed, or "" when never.
func (s *ReminderSession) DismissedOn() string { return s.dismissedOn }

func (s *ReminderSession) Dismiss(today time.Time) {
	s.dismissedOn = today.Format(DateLayout)
}

func (s *ReminderSession) ShouldShow(today time.Time) bool {
	return s.dismissedOn != today.Format(DateLayout)
}
