package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
)

type matchingService struct {
	tx              repository.TxManager
	donationRepo    repository.DonationRepository
	matchRepo       repository.MatchRepository
	beneficiaryRepo repository.BeneficiaryRepository
	lifecycle       *Lifecycle
	notifier        Notifier
	retry           repository.RetryPolicy
	clock           Clock
}

func NewMatchingService(
	tx repository.TxManager,
	donationRepo repository.DonationRepository,
	matchRepo repository.MatchRepository,
	beneficiaryRepo repository.BeneficiaryRepository,
	lifecycle *Lifecycle,
	notifier Notifier,
	retry repository.RetryPolicy,
	clock Clock,
) MatchingService {
	return &matchingService{
		tx:              tx,
		donationRepo:    donationRepo,
		matchRepo:       matchRepo,
		beneficiaryRepo: beneficiaryRepo,
		lifecycle:       lifecycle,
		notifier:        notifier,
		retry:           retry,
		clock:           clock,
	}
}

// ProposeMatches offers the donation to each beneficiary. An existing pair is
// re-opened in place, so a donation never holds two rows for one beneficiary.
func (s *matchingService) ProposeMatches(ctx context.Context, actor domain.Actor, donationID int32, beneficiaryIDs []int32) ([]domain.DonationMatch, error) {
	logger.EnterMethod("matchingService.ProposeMatches", "actor", actor.String(), "donationID", donationID, "beneficiaries", beneficiaryIDs)

	if err := requireAdmin(actor); err != nil {
		logger.ExitMethodWithError("matchingService.ProposeMatches", err)
		return nil, err
	}
	ids := dedupe(beneficiaryIDs)
	if len(ids) == 0 {
		err := fmt.Errorf("at least one beneficiary is required: %w", domain.ErrInvalidInput)
		logger.ExitMethodWithError("matchingService.ProposeMatches", err)
		return nil, err
	}

	var (
		proposed []domain.DonationMatch
		msgs     []Message
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.donationRepo.GetForUpdate(ctx, donationID)
		if err != nil {
			return err
		}
		if !domain.CanApply(d.Status, domain.EventProposeMatch) {
			return &domain.InvalidTransitionError{Event: domain.EventProposeMatch, From: d.Status}
		}

		for _, id := range ids {
			b, err := s.beneficiaryRepo.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("beneficiary %d does not exist: %w", id, domain.ErrInvalidInput)
				}
				return err
			}
			if b.Status != domain.RegistrationStatusApproved {
				return fmt.Errorf("beneficiary %d is %s, not approved: %w", id, b.Status, domain.ErrInvalidInput)
			}
		}

		now := s.clock.now()
		for _, id := range ids {
			m, err := s.upsertProposal(ctx, d.ID, id, actor.ProfileID.String(), now)
			if err != nil {
				return err
			}
			proposed = append(proposed, *m)

			attrs := donationAttributes(d)
			attrs["match_id"] = strconv.Itoa(int(m.ID))
			msgs = append(msgs, Message{
				RecipientType: domain.ActorTypeBeneficiary,
				RecipientID:   id,
				Kind:          domain.NotificationKindMatchProposed,
				Title:         "New donation proposed",
				Body:          fmt.Sprintf("%q (%d %s) has been proposed to you", d.Name, d.Quantity, d.Unit),
				Template:      "match_proposed",
				Data: map[string]any{
					"donation_name":   d.Name,
					"quantity":        d.Quantity,
					"unit":            d.Unit,
					"pickup_deadline": d.PickupDeadline,
				},
				Attributes: attrs,
			})
		}
		if err := s.notifier.Record(ctx, msgs...); err != nil {
			return err
		}

		msg, err := s.lifecycle.Apply(ctx, d, domain.EventProposeMatch)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("matchingService.ProposeMatches", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msgs...)

	logger.ExitMethod("matchingService.ProposeMatches", "donationID", donationID, "count", len(proposed))
	return proposed, nil
}

func (s *matchingService) upsertProposal(ctx context.Context, donationID, beneficiaryID int32, proposedBy string, now time.Time) (*domain.DonationMatch, error) {
	m, err := s.matchRepo.GetByPair(ctx, donationID, beneficiaryID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if m == nil {
		m = &domain.DonationMatch{
			DonationID:    donationID,
			BeneficiaryID: beneficiaryID,
			Status:        domain.MatchStatusProposed,
			ProposedAt:    now,
			ProposedBy:    proposedBy,
		}
		if err := s.matchRepo.Create(ctx, m); err != nil {
			return nil, err
		}
		return m, nil
	}

	m.Status = domain.MatchStatusProposed
	m.ProposedAt = now
	m.ProposedBy = proposedBy
	m.RespondedAt = nil
	m.AcceptedQuantity = 0
	m.AcceptedUnit = ""
	m.RejectionReason = ""
	m.ReceivedAt = nil
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// RespondToMatch records the beneficiary's answer. Accepting locks the
// donation row and re-derives allocation from every match before writing, so
// concurrent accepts can never commit more than the donation holds.
func (s *matchingService) RespondToMatch(ctx context.Context, actor domain.Actor, matchID int32, resp MatchResponse) (*domain.DonationMatch, error) {
	logger.EnterMethod("matchingService.RespondToMatch", "actor", actor.String(), "matchID", matchID, "accept", resp.Accept)

	if err := requireRole(actor, domain.ActorTypeBeneficiary); err != nil {
		logger.ExitMethodWithError("matchingService.RespondToMatch", err)
		return nil, err
	}
	if resp.Accept && resp.Quantity != nil && *resp.Quantity <= 0 {
		err := fmt.Errorf("accepted quantity must be positive: %w", domain.ErrInvalidInput)
		logger.ExitMethodWithError("matchingService.RespondToMatch", err)
		return nil, err
	}

	var (
		result *domain.DonationMatch
		msgs   []Message
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, err := s.matchRepo.GetByID(ctx, matchID)
		if err != nil {
			return err
		}
		if m.BeneficiaryID != actor.ID {
			return fmt.Errorf("%s does not own match %d: %w", actor, matchID, domain.ErrUnauthorized)
		}

		d, err := s.donationRepo.GetForUpdate(ctx, m.DonationID)
		if err != nil {
			return err
		}
		// Re-read under the donation lock.
		matches, err := s.matchRepo.ListByDonation(ctx, d.ID)
		if err != nil {
			return err
		}
		for i := range matches {
			if matches[i].ID == m.ID {
				m = &matches[i]
			}
		}
		if m.Status != domain.MatchStatusProposed {
			return fmt.Errorf("match %d is %s: %w", m.ID, m.Status, domain.ErrInvalidMatchState)
		}

		now := s.clock.now()
		m.RespondedAt = &now

		if !resp.Accept {
			m.Status = domain.MatchStatusRejected
			m.RejectionReason = strings.TrimSpace(resp.RejectionReason)
			if err := s.matchRepo.Update(ctx, m); err != nil {
				return err
			}
			msgs = append(msgs, matchAnsweredMessage(d, m))
			result = m
			return s.notifier.Record(ctx, msgs...)
		}

		qty := d.Quantity - domain.AllocatedQuantity(matches, m.ID)
		if resp.Quantity != nil {
			qty = *resp.Quantity
		} else if qty <= 0 {
			qty = 1
		}
		if err := domain.CheckAllocation(d, matches, m.ID, qty); err != nil {
			return err
		}
		if !domain.CanApply(d.Status, domain.EventBeneficiaryAccept) {
			return &domain.InvalidTransitionError{Event: domain.EventBeneficiaryAccept, From: d.Status}
		}

		m.Status = domain.MatchStatusAccepted
		m.AcceptedQuantity = qty
		m.AcceptedUnit = strings.TrimSpace(resp.Unit)
		if m.AcceptedUnit == "" {
			m.AcceptedUnit = d.Unit
		}
		if err := s.matchRepo.Update(ctx, m); err != nil {
			return err
		}

		msg, err := s.lifecycle.Apply(ctx, d, domain.EventBeneficiaryAccept)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
		result = m
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("matchingService.RespondToMatch", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msgs...)

	logger.ExitMethod("matchingService.RespondToMatch", "matchID", matchID, "status", result.Status)
	return result, nil
}

func matchAnsweredMessage(d *domain.Donation, m *domain.DonationMatch) Message {
	attrs := donationAttributes(d)
	attrs["match_id"] = strconv.Itoa(int(m.ID))
	return Message{
		RecipientType: domain.ActorTypeAdmin,
		Kind:          domain.NotificationKindMatchAnswered,
		Title:         "Match " + string(m.Status),
		Body:          fmt.Sprintf("Beneficiary %d %s donation %q", m.BeneficiaryID, m.Status, d.Name),
		Template:      "match_answered",
		Data: map[string]any{
			"donation_name":    d.Name,
			"beneficiary_id":   m.BeneficiaryID,
			"status":           string(m.Status),
			"rejection_reason": m.RejectionReason,
		},
		Attributes: attrs,
	}
}

func (s *matchingService) ConfirmReceipt(ctx context.Context, actor domain.Actor, matchID int32) (*domain.DonationMatch, error) {
	logger.EnterMethod("matchingService.ConfirmReceipt", "actor", actor.String(), "matchID", matchID)

	var (
		m   *domain.DonationMatch
		msg Message
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		m, err = s.matchRepo.GetByID(ctx, matchID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAdmin(actor, domain.ActorTypeBeneficiary, m.BeneficiaryID); err != nil {
			return err
		}
		if m.Status != domain.MatchStatusAccepted && m.Status != domain.MatchStatusQuoteSent {
			return fmt.Errorf("match %d is %s: %w", m.ID, m.Status, domain.ErrInvalidMatchState)
		}
		d, err := s.donationRepo.GetForUpdate(ctx, m.DonationID)
		if err != nil {
			return err
		}

		now := s.clock.now()
		m.Status = domain.MatchStatusReceived
		m.ReceivedAt = &now
		if err := s.matchRepo.Update(ctx, m); err != nil {
			return err
		}
		msg = matchAnsweredMessage(d, m)
		return s.notifier.Record(ctx, msg)
	})
	if err != nil {
		logger.ExitMethodWithError("matchingService.ConfirmReceipt", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msg)

	logger.ExitMethod("matchingService.ConfirmReceipt", "matchID", matchID)
	return m, nil
}

func (s *matchingService) RemainingQuantity(ctx context.Context, donationID int32) (int32, error) {
	d, err := repository.Read(ctx, s.retry, "donation.GetByID", func() (*domain.Donation, error) {
		return s.donationRepo.GetByID(ctx, donationID)
	})
	if err != nil {
		return 0, err
	}
	matches, err := repository.Read(ctx, s.retry, "match.ListByDonation", func() ([]domain.DonationMatch, error) {
		return s.matchRepo.ListByDonation(ctx, donationID)
	})
	if err != nil {
		return 0, err
	}
	return domain.RemainingQuantity(d, matches), nil
}

func (s *matchingService) ListMatches(ctx context.Context, actor domain.Actor, donationID int32) ([]domain.DonationMatch, error) {
	d, err := repository.Read(ctx, s.retry, "donation.GetByID", func() (*domain.Donation, error) {
		return s.donationRepo.GetByID(ctx, donationID)
	})
	if err != nil {
		return nil, err
	}
	matches, err := repository.Read(ctx, s.retry, "match.ListByDonation", func() ([]domain.DonationMatch, error) {
		return s.matchRepo.ListByDonation(ctx, donationID)
	})
	if err != nil {
		return nil, err
	}
	if err := canViewDonation(actor, d, matches); err != nil {
		return nil, err
	}
	if actor.Type == domain.ActorTypeBeneficiary {
		return matchesOf(matches, actor.ID), nil
	}
	return matches, nil
}

func (s *matchingService) ListMyMatches(ctx context.Context, actor domain.Actor) ([]domain.DonationMatch, error) {
	if err := requireRole(actor, domain.ActorTypeBeneficiary); err != nil {
		return nil, err
	}
	return repository.Read(ctx, s.retry, "match.ListByBeneficiary", func() ([]domain.DonationMatch, error) {
		return s.matchRepo.ListByBeneficiary(ctx, actor.ID)
	})
}

func dedupe(ids []int32) []int32 {
	seen := make(map[int32]bool, len(ids))
	out := make([]int32, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
