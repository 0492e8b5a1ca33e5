package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
)

// Lifecycle is the only place donation status changes are written. Every move
// goes through domain.NextStatus and a compare-and-swap on (status, version).
type Lifecycle struct {
	tx        repository.TxManager
	donations repository.DonationRepository
	notifier  Notifier
}

func NewLifecycle(tx repository.TxManager, donations repository.DonationRepository, notifier Notifier) *Lifecycle {
	return &Lifecycle{tx: tx, donations: donations, notifier: notifier}
}

// Transition applies event to the donation in its own transaction and delivers
// the counterparty's notification after commit.
func (l *Lifecycle) Transition(ctx context.Context, donationID int32, event domain.DonationEvent) (*domain.Donation, error) {
	var (
		d   *domain.Donation
		msg Message
	)
	err := l.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		d, err = l.donations.GetForUpdate(ctx, donationID)
		if err != nil {
			return err
		}
		msg, err = l.Apply(ctx, d, event)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.notifier.Deliver(ctx, msg)
	return d, nil
}

// Apply moves d along event inside the caller's transaction and records the
// in-app notification. The returned message is for the caller to Deliver once
// the transaction commits. On success d carries the new status and version.
func (l *Lifecycle) Apply(ctx context.Context, d *domain.Donation, event domain.DonationEvent) (Message, error) {
	from := d.Status
	to, err := domain.NextStatus(from, event)
	if err != nil {
		return Message{}, err
	}

	if err := l.donations.UpdateStatus(ctx, d, to); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return Message{}, l.conflict(ctx, d.ID, event)
		}
		return Message{}, fmt.Errorf("failed to update donation status: %w", err)
	}
	logger.Transition(d.ID, string(event), string(from), string(to))

	msg := transitionMessage(d, event, from)
	if err := l.notifier.Record(ctx, msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// conflict explains a lost compare-and-swap from the row as it is now.
func (l *Lifecycle) conflict(ctx context.Context, donationID int32, event domain.DonationEvent) error {
	current, err := l.donations.GetByID(ctx, donationID)
	if err != nil {
		return fmt.Errorf("failed to re-read donation after conflict: %w", err)
	}
	if !domain.CanApply(current.Status, event) {
		return &domain.InvalidTransitionError{Event: event, From: current.Status}
	}
	return domain.ErrConcurrentUpdate
}

func transitionMessage(d *domain.Donation, event domain.DonationEvent, from domain.DonationStatus) Message {
	recipient := event.Counterparty()
	var recipientID int32
	if recipient == domain.ActorTypeBusiness {
		recipientID = d.BusinessID
	}
	return Message{
		RecipientType: recipient,
		RecipientID:   recipientID,
		Kind:          domain.NotificationKindStatusChanged,
		Title:         "Donation status updated",
		Body:          fmt.Sprintf("Donation %q moved from %s to %s", d.Name, from, d.Status),
		Template:      "donation_status_changed",
		Data: map[string]any{
			"donation_name": d.Name,
			"event":         string(event),
			"from":          string(from),
			"to":            string(d.Status),
		},
		Attributes: donationAttributes(d),
	}
}

func donationAttributes(d *domain.Donation) map[string]string {
	return map[string]string{
		"donation_id": strconv.Itoa(int(d.ID)),
		"status":      string(d.Status),
	}
}
