package jobs

import (
	"context"
	"fmt"
	"strings"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/service"
)

// ReviewDigest is the admin's to-do list: registrations and donations waiting
// for a decision, plus matched donations that still have units unallocated.
type ReviewDigest struct {
	PendingBusinesses    []domain.Business
	PendingBeneficiaries []domain.Beneficiary
	PendingDonations     []domain.Donation
	UnallocatedDonations []service.DonationSummary
}

func (d ReviewDigest) Empty() bool {
	return len(d.PendingBusinesses) == 0 && len(d.PendingBeneficiaries) == 0 &&
		len(d.PendingDonations) == 0 && len(d.UnallocatedDonations) == 0
}

// SendReviewDigest emails the admin inbox a summary of everything awaiting review
func (jr *JobRunner) SendReviewDigest() {
	jr.runWithRecovery("SendReviewDigest", func(ctx context.Context) error {
		digest, err := jr.buildReviewDigest(ctx)
		if err != nil {
			return err
		}
		if digest.Empty() {
			logger.Info("Nothing awaiting review, digest skipped")
			return nil
		}
		jr.services.Notifier.Deliver(ctx, digestMessage(digest))
		logger.Info("Review digest sent",
			"businesses", len(digest.PendingBusinesses),
			"beneficiaries", len(digest.PendingBeneficiaries),
			"donations", len(digest.PendingDonations),
			"unallocated", len(digest.UnallocatedDonations))
		return nil
	})
}

func (jr *JobRunner) buildReviewDigest(ctx context.Context) (ReviewDigest, error) {
	var d ReviewDigest
	var err error

	if d.PendingBusinesses, err = jr.repos.Businesses.List(ctx, domain.RegistrationStatusPending); err != nil {
		return d, fmt.Errorf("failed to list pending businesses: %w", err)
	}
	if d.PendingBeneficiaries, err = jr.repos.Beneficiaries.List(ctx, domain.RegistrationStatusPending); err != nil {
		return d, fmt.Errorf("failed to list pending beneficiaries: %w", err)
	}
	if d.PendingDonations, err = jr.repos.Donations.ListByStatus(ctx, domain.DonationStatusPendingReview); err != nil {
		return d, fmt.Errorf("failed to list pending donations: %w", err)
	}

	matched, err := jr.repos.Donations.ListByStatus(ctx, domain.DonationStatusMatched)
	if err != nil {
		return d, fmt.Errorf("failed to list matched donations: %w", err)
	}
	for _, don := range matched {
		remaining, err := jr.services.Matching.RemainingQuantity(ctx, don.ID)
		if err != nil {
			logger.Error("Failed to compute remaining quantity", "donation_id", don.ID, "error", err)
			continue
		}
		if remaining > 0 {
			d.UnallocatedDonations = append(d.UnallocatedDonations, service.DonationSummary{Donation: don, RemainingQuantity: remaining})
		}
	}
	return d, nil
}

func digestMessage(d ReviewDigest) service.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Businesses awaiting approval: %d\n", len(d.PendingBusinesses))
	for _, x := range d.PendingBusinesses {
		fmt.Fprintf(&b, "  - %s (%s)\n", x.Name, x.Email)
	}
	fmt.Fprintf(&b, "Beneficiaries awaiting approval: %d\n", len(d.PendingBeneficiaries))
	for _, x := range d.PendingBeneficiaries {
		fmt.Fprintf(&b, "  - %s (%s)\n", x.Name, x.Email)
	}
	fmt.Fprintf(&b, "Donations awaiting review: %d\n", len(d.PendingDonations))
	for _, x := range d.PendingDonations {
		fmt.Fprintf(&b, "  - #%d %s, %d %s\n", x.ID, x.Name, x.Quantity, x.Unit)
	}
	fmt.Fprintf(&b, "Matched donations with units left: %d\n", len(d.UnallocatedDonations))
	for _, x := range d.UnallocatedDonations {
		fmt.Fprintf(&b, "  - #%d %s, %d of %d %s left\n", x.ID, x.Name, x.RemainingQuantity, x.Quantity, x.Unit)
	}

	return service.Message{
		RecipientType: domain.ActorTypeAdmin,
		Kind:          domain.NotificationKindRegistered,
		Title:         "Items awaiting review",
		Body:          b.String(),
		Template:      templateReviewDigest,
		Data: map[string]any{
			"pending_businesses":    len(d.PendingBusinesses),
			"pending_beneficiaries": len(d.PendingBeneficiaries),
			"pending_donations":     len(d.PendingDonations),
			"unallocated_donations": len(d.UnallocatedDonations),
		},
	}
}
