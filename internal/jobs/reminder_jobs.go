package jobs

import (
	"context"
	"fmt"
	"strconv"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/service"
)

const (
	templatePickupReminder = "pickup_reminder"
	templateReviewDigest   = "review_digest"
)

// systemActor is how jobs read across every organization.
var systemActor = domain.Actor{Type: domain.ActorTypeAdmin}

// SendPickupReminders emails the business and every receiving beneficiary of
// each pickup scheduled for today or tomorrow.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func(ctx context.Context) error {
		count, err := jr.sendPickupReminders(ctx)
		if err != nil {
			return err
		}
		logger.Info("Pickup reminders sent", "count", count)
		return nil
	})
}

func (jr *JobRunner) sendPickupReminders(ctx context.Context) (int, error) {
	today := jr.clock.Today()
	pickups, err := jr.services.Gate.UpcomingPickups(ctx, systemActor, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list upcoming pickups: %w", err)
	}

	count := 0
	for _, p := range pickups {
		matches, err := jr.services.Matching.ListMatches(ctx, systemActor, p.Donation.ID)
		if err != nil {
			logger.Error("Failed to list matches for pickup reminder",
				"donation_id", p.Donation.ID,
				"error", err)
			continue
		}

		when := "tomorrow"
		if p.Schedule.PickupDate == today.Format(domain.DateLayout) {
			when = "today"
		}
		title := fmt.Sprintf("Pickup %s: %s", when, p.Donation.Name)
		body := fmt.Sprintf("%s (%d %s) will be picked up on %s at %s from %s.",
			p.Donation.Name, p.Donation.Quantity, p.Donation.Unit,
			p.Schedule.PickupDate, p.Schedule.PickupTime, p.Donation.PickupLocation)

		msgs := []service.Message{reminder(domain.ActorTypeBusiness, p.Donation.BusinessID, p, title, body)}
		for _, m := range matches {
			if m.Status.HoldsQuantity() {
				msgs = append(msgs, reminder(domain.ActorTypeBeneficiary, m.BeneficiaryID, p, title, body))
			}
		}
		jr.services.Notifier.Deliver(ctx, msgs...)

		count++
		logger.Debug("Sent pickup reminder",
			"donation_id", p.Donation.ID,
			"pickup_date", p.Schedule.PickupDate,
			"recipients", len(msgs))
	}
	return count, nil
}

func reminder(t domain.ActorType, id int32, p domain.UpcomingPickup, title, body string) service.Message {
	return service.Message{
		RecipientType: t,
		RecipientID:   id,
		Kind:          domain.NotificationKindPickup,
		Title:         title,
		Body:          body,
		Template:      templatePickupReminder,
		Data: map[string]any{
			"donation_name":   p.Donation.Name,
			"pickup_date":     p.Schedule.PickupDate,
			"pickup_time":     p.Schedule.PickupTime,
			"pickup_location": p.Donation.PickupLocation,
		},
		Attributes: map[string]string{"donation_id": strconv.Itoa(int(p.Donation.ID))},
	}
}
