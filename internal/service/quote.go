package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
	"donation-matching-backend/internal/utils"
)

type quoteService struct {
	tx             repository.TxManager
	donationRepo   repository.DonationRepository
	matchRepo      repository.MatchRepository
	quoteRepo      repository.QuoteRepository
	lifecycle      *Lifecycle
	notifier       Notifier
	retry          repository.RetryPolicy
	clock          Clock
	commissionRate float64
	vatRate        float64
}

func NewQuoteService(
	tx repository.TxManager,
	donationRepo repository.DonationRepository,
	matchRepo repository.MatchRepository,
	quoteRepo repository.QuoteRepository,
	lifecycle *Lifecycle,
	notifier Notifier,
	retry repository.RetryPolicy,
	clock Clock,
	commissionRate, vatRate float64,
) QuoteService {
	if vatRate == 0 {
		vatRate = utils.DefaultVATRate
	}
	return &quoteService{
		tx:             tx,
		donationRepo:   donationRepo,
		matchRepo:      matchRepo,
		quoteRepo:      quoteRepo,
		lifecycle:      lifecycle,
		notifier:       notifier,
		retry:          retry,
		clock:          clock,
		commissionRate: commissionRate,
		vatRate:        vatRate,
	}
}

func (s *quoteService) rate(override *float64) float64 {
	if override != nil {
		return *override
	}
	return s.commissionRate
}

func (s *quoteService) PreviewQuote(ctx context.Context, unitPrice int64, quantity int32, commissionRate *float64) (domain.QuoteAmounts, error) {
	return utils.ComputeQuoteWithVAT(unitPrice, quantity, s.rate(commissionRate), s.vatRate)
}

// SendQuote prices the donation (or one accepted match of it) and persists the
// amounts as computed now. Later rate changes never touch a sent quote.
func (s *quoteService) SendQuote(ctx context.Context, actor domain.Actor, req SendQuoteRequest) (*domain.Quote, error) {
	logger.EnterMethod("quoteService.SendQuote", "actor", actor.String(), "donationID", req.DonationID)

	if err := requireAdmin(actor); err != nil {
		logger.ExitMethodWithError("quoteService.SendQuote", err)
		return nil, err
	}
	if err := s.validatePickup(req.PickupDate, req.PickupTime); err != nil {
		logger.ExitMethodWithError("quoteService.SendQuote", err)
		return nil, err
	}
	if req.LogisticsCost < 0 {
		err := &domain.InvalidQuoteInputError{Field: "logistics_cost", Reason: "must not be negative"}
		logger.ExitMethodWithError("quoteService.SendQuote", err)
		return nil, err
	}

	var (
		q    *domain.Quote
		msgs []Message
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.donationRepo.GetForUpdate(ctx, req.DonationID)
		if err != nil {
			return err
		}

		var match *domain.DonationMatch
		if req.MatchID != nil {
			match, err = s.matchRepo.GetByID(ctx, *req.MatchID)
			if err != nil {
				return err
			}
			if match.DonationID != d.ID {
				return fmt.Errorf("match %d does not belong to donation %d: %w", match.ID, d.ID, domain.ErrInvalidInput)
			}
			if match.Status != domain.MatchStatusAccepted {
				return fmt.Errorf("match %d is %s: %w", match.ID, match.Status, domain.ErrInvalidMatchState)
			}
		} else if !domain.CanApply(d.Status, domain.EventSendQuote) {
			return &domain.InvalidTransitionError{Event: domain.EventSendQuote, From: d.Status}
		}

		// Quotes price the whole donation, with or without a match.
		rate := s.rate(req.CommissionRate)
		amounts, err := utils.ComputeQuoteWithVAT(req.UnitPrice, d.Quantity, rate, s.vatRate)
		if err != nil {
			return err
		}

		q = &domain.Quote{
			DonationID:       d.ID,
			MatchID:          req.MatchID,
			UnitPrice:        req.UnitPrice,
			Quantity:         d.Quantity,
			SupplyAmount:     amounts.SupplyAmount,
			CommissionRate:   rate,
			CommissionAmount: amounts.CommissionAmount,
			VATAmount:        amounts.VATAmount,
			TotalAmount:      amounts.TotalAmount,
			LogisticsCost:    req.LogisticsCost,
			PickupDate:       req.PickupDate,
			PickupTime:       req.PickupTime,
			Status:           domain.QuoteStatusSent,
		}
		if err := s.quoteRepo.Create(ctx, q); err != nil {
			return err
		}

		sent := quoteMessage(d, q, domain.ActorTypeBusiness, d.BusinessID, domain.NotificationKindQuoteSent, "New quote received", "quote_sent")
		if err := s.notifier.Record(ctx, sent); err != nil {
			return err
		}
		msgs = append(msgs, sent)

		if match != nil {
			match.Status = domain.MatchStatusQuoteSent
			return s.matchRepo.Update(ctx, match)
		}
		msg, err := s.lifecycle.Apply(ctx, d, domain.EventSendQuote)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("quoteService.SendQuote", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msgs...)

	logger.ExitMethod("quoteService.SendQuote", "quoteID", q.ID, "total", q.TotalAmount)
	return q, nil
}

func (s *quoteService) validatePickup(date, clock string) error {
	if date != "" {
		if err := utils.ValidateFutureDate(date, s.clock.Today()); err != nil {
			return err
		}
	}
	if clock != "" {
		return utils.ValidateClock(clock)
	}
	return nil
}

func (s *quoteService) AcceptQuote(ctx context.Context, actor domain.Actor, quoteID int32) (*domain.Quote, error) {
	return s.answer(ctx, actor, quoteID, true, "")
}

func (s *quoteService) RejectQuote(ctx context.Context, actor domain.Actor, quoteID int32, reason string) (*domain.Quote, error) {
	return s.answer(ctx, actor, quoteID, false, reason)
}

// answer applies the owning business's decision on a sent quote. Direct
// quotes drive the donation; match-attached quotes only touch their match.
func (s *quoteService) answer(ctx context.Context, actor domain.Actor, quoteID int32, accept bool, reason string) (*domain.Quote, error) {
	method := "quoteService.RejectQuote"
	if accept {
		method = "quoteService.AcceptQuote"
	}
	logger.EnterMethod(method, "actor", actor.String(), "quoteID", quoteID)

	if err := requireRole(actor, domain.ActorTypeBusiness); err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, err
	}

	var (
		q    *domain.Quote
		msgs []Message
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		q, err = s.quoteRepo.GetByID(ctx, quoteID)
		if err != nil {
			return err
		}
		d, err := s.donationRepo.GetForUpdate(ctx, q.DonationID)
		if err != nil {
			return err
		}
		if d.BusinessID != actor.ID {
			return fmt.Errorf("%s does not own donation %d: %w", actor, d.ID, domain.ErrUnauthorized)
		}
		if q.Status != domain.QuoteStatusSent {
			return fmt.Errorf("quote %d is %s: %w", q.ID, q.Status, domain.ErrInvalidQuoteState)
		}

		now := s.clock.now()
		q.RespondedAt = &now
		event := domain.EventAcceptQuote
		if accept {
			q.Status = domain.QuoteStatusAccepted
		} else {
			q.Status = domain.QuoteStatusRejected
			q.RejectionReason = strings.TrimSpace(reason)
			event = domain.EventRejectQuote
		}
		if err := s.quoteRepo.Update(ctx, q); err != nil {
			return err
		}

		if q.MatchID == nil {
			msg, err := s.lifecycle.Apply(ctx, d, event)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		} else if !accept {
			m, err := s.matchRepo.GetByID(ctx, *q.MatchID)
			if err != nil {
				return err
			}
			if m.Status == domain.MatchStatusQuoteSent {
				m.Status = domain.MatchStatusAccepted
				if err := s.matchRepo.Update(ctx, m); err != nil {
					return err
				}
			}
		}

		answered := quoteMessage(d, q, domain.ActorTypeAdmin, 0, domain.NotificationKindQuoteAnswered, "Quote "+string(q.Status), "quote_answered")
		if err := s.notifier.Record(ctx, answered); err != nil {
			return err
		}
		msgs = append(msgs, answered)
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msgs...)

	logger.ExitMethod(method, "quoteID", quoteID, "status", q.Status)
	return q, nil
}

// ConfirmPickup fixes the pickup slot of an accepted quote. Amounts stay as
// they were computed.
func (s *quoteService) ConfirmPickup(ctx context.Context, actor domain.Actor, quoteID int32, pickupDate, pickupTime string) (*domain.Quote, error) {
	logger.EnterMethod("quoteService.ConfirmPickup", "actor", actor.String(), "quoteID", quoteID)

	if err := requireAdmin(actor); err != nil {
		logger.ExitMethodWithError("quoteService.ConfirmPickup", err)
		return nil, err
	}
	if pickupDate == "" || pickupTime == "" {
		err := fmt.Errorf("pickup date and time are required: %w", domain.ErrInvalidInput)
		logger.ExitMethodWithError("quoteService.ConfirmPickup", err)
		return nil, err
	}
	if err := s.validatePickup(pickupDate, pickupTime); err != nil {
		logger.ExitMethodWithError("quoteService.ConfirmPickup", err)
		return nil, err
	}

	var (
		q   *domain.Quote
		msg Message
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		q, err = s.quoteRepo.GetByID(ctx, quoteID)
		if err != nil {
			return err
		}
		if q.Status != domain.QuoteStatusAccepted {
			return fmt.Errorf("quote %d is %s: %w", q.ID, q.Status, domain.ErrInvalidQuoteState)
		}
		d, err := s.donationRepo.GetByID(ctx, q.DonationID)
		if err != nil {
			return err
		}

		q.Status = domain.QuoteStatusConfirmed
		q.PickupDate = pickupDate
		q.PickupTime = pickupTime
		if err := s.quoteRepo.Update(ctx, q); err != nil {
			return err
		}
		msg = quoteMessage(d, q, domain.ActorTypeBusiness, d.BusinessID, domain.NotificationKindPickup, "Pickup confirmed", "quote_pickup_confirmed")
		return s.notifier.Record(ctx, msg)
	})
	if err != nil {
		logger.ExitMethodWithError("quoteService.ConfirmPickup", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msg)

	logger.ExitMethod("quoteService.ConfirmPickup", "quoteID", quoteID)
	return q, nil
}

func (s *quoteService) ListQuotes(ctx context.Context, actor domain.Actor, donationID int32) ([]domain.Quote, error) {
	d, err := repository.Read(ctx, s.retry, "donation.GetByID", func() (*domain.Donation, error) {
		return s.donationRepo.GetByID(ctx, donationID)
	})
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, domain.ActorTypeBusiness, d.BusinessID); err != nil {
		return nil, err
	}
	return repository.Read(ctx, s.retry, "quote.ListByDonation", func() ([]domain.Quote, error) {
		return s.quoteRepo.ListByDonation(ctx, donationID)
	})
}

func quoteMessage(d *domain.Donation, q *domain.Quote, to domain.ActorType, toID int32, kind domain.NotificationKind, title, template string) Message {
	attrs := donationAttributes(d)
	attrs["quote_id"] = strconv.Itoa(int(q.ID))
	return Message{
		RecipientType: to,
		RecipientID:   toID,
		Kind:          kind,
		Title:         title,
		Body:          fmt.Sprintf("Quote for %q: total %d won (%s)", d.Name, q.TotalAmount, q.Status),
		Template:      template,
		Data: map[string]any{
			"donation_name":     d.Name,
			"quantity":          q.Quantity,
			"unit_price":        q.UnitPrice,
			"supply_amount":     q.SupplyAmount,
			"commission_amount": q.CommissionAmount,
			"vat_amount":        q.VATAmount,
			"total_amount":      q.TotalAmount,
			"logistics_cost":    q.LogisticsCost,
			"pickup_date":       q.PickupDate,
			"pickup_time":       q.PickupTime,
			"status":            string(q.Status),
		},
		Attributes: attrs,
	}
}
