package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
	"donation-matching-backend/internal/utils"
)

type donationService struct {
	tx           repository.TxManager
	donationRepo repository.DonationRepository
	matchRepo    repository.MatchRepository
	quoteRepo    repository.QuoteRepository
	pickupRepo   repository.PickupRepository
	businessRepo repository.BusinessRepository
	lifecycle    *Lifecycle
	notifier     Notifier
	retry        repository.RetryPolicy
	clock        Clock
}

func NewDonationService(
	tx repository.TxManager,
	donationRepo repository.DonationRepository,
	matchRepo repository.MatchRepository,
	quoteRepo repository.QuoteRepository,
	pickupRepo repository.PickupRepository,
	businessRepo repository.BusinessRepository,
	lifecycle *Lifecycle,
	notifier Notifier,
	retry repository.RetryPolicy,
	clock Clock,
) DonationService {
	return &donationService{
		tx:           tx,
		donationRepo: donationRepo,
		matchRepo:    matchRepo,
		quoteRepo:    quoteRepo,
		pickupRepo:   pickupRepo,
		businessRepo: businessRepo,
		lifecycle:    lifecycle,
		notifier:     notifier,
		retry:        retry,
		clock:        clock,
	}
}

func (s *donationService) SubmitDonation(ctx context.Context, actor domain.Actor, d *domain.Donation) (*domain.Donation, error) {
	logger.EnterMethod("donationService.SubmitDonation", "actor", actor.String())

	if err := requireRole(actor, domain.ActorTypeBusiness); err != nil {
		logger.ExitMethodWithError("donationService.SubmitDonation", err)
		return nil, err
	}
	if err := s.validateDonation(d); err != nil {
		logger.ExitMethodWithError("donationService.SubmitDonation", err)
		return nil, err
	}

	business, err := s.businessRepo.GetByID(ctx, actor.ID)
	if err != nil {
		logger.ExitMethodWithError("donationService.SubmitDonation", err)
		return nil, err
	}
	if business.Status != domain.RegistrationStatusApproved {
		err := fmt.Errorf("business %d is %s, not approved: %w", business.ID, business.Status, domain.ErrUnauthorized)
		logger.ExitMethodWithError("donationService.SubmitDonation", err)
		return nil, err
	}

	status, err := domain.NextStatus("", domain.EventSubmit)
	if err != nil {
		return nil, err
	}
	d.BusinessID = actor.ID
	d.Status = status
	d.NotificationConfirmedAt = nil

	msg := Message{
		RecipientType: domain.ActorTypeAdmin,
		Kind:          domain.NotificationKindStatusChanged,
		Title:         "New donation submitted",
		Template:      "donation_submitted",
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.donationRepo.Create(ctx, d); err != nil {
			return err
		}
		msg.Body = fmt.Sprintf("%s submitted %q (%d %s)", business.Name, d.Name, d.Quantity, d.Unit)
		msg.Data = map[string]any{"business_name": business.Name, "donation_name": d.Name, "quantity": d.Quantity, "unit": d.Unit}
		msg.Attributes = donationAttributes(d)
		return s.notifier.Record(ctx, msg)
	})
	if err != nil {
		logger.ExitMethodWithError("donationService.SubmitDonation", err)
		return nil, err
	}
	logger.Transition(d.ID, string(domain.EventSubmit), "", string(d.Status))
	s.notifier.Deliver(ctx, msg)

	logger.ExitMethod("donationService.SubmitDonation", "donationID", d.ID)
	return d, nil
}

func (s *donationService) validateDonation(d *domain.Donation) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Unit = strings.TrimSpace(d.Unit)
	switch {
	case d.Name == "":
		return fmt.Errorf("donation name is required: %w", domain.ErrInvalidInput)
	case d.Quantity <= 0:
		return fmt.Errorf("donation quantity must be positive: %w", domain.ErrInvalidInput)
	case d.Unit == "":
		return fmt.Errorf("donation unit is required: %w", domain.ErrInvalidInput)
	case strings.TrimSpace(d.PickupLocation) == "":
		return fmt.Errorf("pickup location is required: %w", domain.ErrInvalidInput)
	}
	return utils.ValidateFutureDate(d.PickupDeadline, s.clock.Today())
}

func (s *donationService) GetDonation(ctx context.Context, actor domain.Actor, id int32) (*DonationDetail, error) {
	d, err := repository.Read(ctx, s.retry, "donation.GetByID", func() (*domain.Donation, error) {
		return s.donationRepo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	matches, err := repository.Read(ctx, s.retry, "match.ListByDonation", func() ([]domain.DonationMatch, error) {
		return s.matchRepo.ListByDonation(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if err := canViewDonation(actor, d, matches); err != nil {
		return nil, err
	}

	quotes, err := repository.Read(ctx, s.retry, "quote.ListByDonation", func() ([]domain.Quote, error) {
		return s.quoteRepo.ListByDonation(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	pickup, err := repository.Read(ctx, s.retry, "pickup.GetByDonation", func() (*domain.PickupSchedule, error) {
		return s.pickupRepo.GetByDonation(ctx, id)
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	remaining := domain.RemainingQuantity(d, matches)
	if actor.Type == domain.ActorTypeBeneficiary {
		matches = matchesOf(matches, actor.ID)
		quotes = nil
	}

	detail := &DonationDetail{
		Donation:          *d,
		Matches:           matches,
		Quotes:            quotes,
		Pickup:            pickup,
		RemainingQuantity: remaining,
	}
	return detail, nil
}

// canViewDonation lets admins, the owning business and any beneficiary with a
// match on the donation see it.
func canViewDonation(actor domain.Actor, d *domain.Donation, matches []domain.DonationMatch) error {
	switch actor.Type {
	case domain.ActorTypeAdmin:
		return nil
	case domain.ActorTypeBusiness:
		if d.BusinessID == actor.ID {
			return nil
		}
	case domain.ActorTypeBeneficiary:
		if len(matchesOf(matches, actor.ID)) > 0 {
			return nil
		}
	}
	return fmt.Errorf("%s cannot view donation %d: %w", actor, d.ID, domain.ErrUnauthorized)
}

func matchesOf(matches []domain.DonationMatch, beneficiaryID int32) []domain.DonationMatch {
	var out []domain.DonationMatch
	for _, m := range matches {
		if m.BeneficiaryID == beneficiaryID {
			out = append(out, m)
		}
	}
	return out
}

func (s *donationService) ListDonations(ctx context.Context, actor domain.Actor, filter domain.DonationFilter) ([]DonationSummary, int32, error) {
	switch actor.Type {
	case domain.ActorTypeAdmin:
	case domain.ActorTypeBusiness:
		filter.BusinessID = actor.ID
	default:
		return nil, 0, fmt.Errorf("%s cannot list donations: %w", actor, domain.ErrUnauthorized)
	}

	type page struct {
		items []domain.Donation
		total int32
	}
	p, err := repository.Read(ctx, s.retry, "donation.List", func() (page, error) {
		items, total, err := s.donationRepo.List(ctx, filter)
		return page{items: items, total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int32, len(p.items))
	for i, d := range p.items {
		ids[i] = d.ID
	}
	matches, err := repository.Read(ctx, s.retry, "match.ListByDonations", func() ([]domain.DonationMatch, error) {
		return s.matchRepo.ListByDonations(ctx, ids)
	})
	if err != nil {
		return nil, 0, err
	}
	byDonation := make(map[int32][]domain.DonationMatch)
	for _, m := range matches {
		byDonation[m.DonationID] = append(byDonation[m.DonationID], m)
	}

	out := make([]DonationSummary, len(p.items))
	for i := range p.items {
		d := p.items[i]
		out[i] = DonationSummary{Donation: d, RemainingQuantity: domain.RemainingQuantity(&d, byDonation[d.ID])}
	}
	return out, p.total, nil
}

// manualEvents are the transitions exposed directly; the rest belong to the
// matching, quote and pickup workflows.
var manualEvents = map[domain.DonationEvent]bool{
	domain.EventReject:           true,
	domain.EventCancel:           true,
	domain.EventCoordinatePickup: true,
}

func (s *donationService) TransitionDonation(ctx context.Context, actor domain.Actor, id int32, event domain.DonationEvent) (*domain.Donation, error) {
	logger.EnterMethod("donationService.TransitionDonation", "actor", actor.String(), "donationID", id, "event", event)

	if !manualEvents[event] {
		err := fmt.Errorf("event %s is driven by its own workflow: %w", event, domain.ErrInvalidInput)
		logger.ExitMethodWithError("donationService.TransitionDonation", err)
		return nil, err
	}
	if !actor.IsAdmin() {
		if actor.Type != domain.ActorTypeBusiness || event != domain.EventCancel {
			err := fmt.Errorf("%s cannot apply %s: %w", actor, event, domain.ErrUnauthorized)
			logger.ExitMethodWithError("donationService.TransitionDonation", err)
			return nil, err
		}
		d, err := s.donationRepo.GetByID(ctx, id)
		if err != nil {
			logger.ExitMethodWithError("donationService.TransitionDonation", err)
			return nil, err
		}
		if d.BusinessID != actor.ID {
			err := fmt.Errorf("%s does not own donation %d: %w", actor, id, domain.ErrUnauthorized)
			logger.ExitMethodWithError("donationService.TransitionDonation", err)
			return nil, err
		}
	}

	d, err := s.lifecycle.Transition(ctx, id, event)
	if err != nil {
		logger.ExitMethodWithError("donationService.TransitionDonation", err)
		return nil, err
	}
	logger.ExitMethod("donationService.TransitionDonation", "donationID", id, "status", d.Status)
	return d, nil
}

func (s *donationService) SchedulePickup(ctx context.Context, actor domain.Actor, donationID int32, schedule *domain.PickupSchedule) (*domain.PickupSchedule, error) {
	logger.EnterMethod("donationService.SchedulePickup", "actor", actor.String(), "donationID", donationID)

	if err := requireAdmin(actor); err != nil {
		logger.ExitMethodWithError("donationService.SchedulePickup", err)
		return nil, err
	}
	if err := utils.ValidateFutureDate(schedule.PickupDate, s.clock.Today()); err != nil {
		logger.ExitMethodWithError("donationService.SchedulePickup", err)
		return nil, err
	}
	if err := utils.ValidateClock(schedule.PickupTime); err != nil {
		logger.ExitMethodWithError("donationService.SchedulePickup", err)
		return nil, err
	}

	var msgs []Message
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.donationRepo.GetForUpdate(ctx, donationID)
		if err != nil {
			return err
		}
		if !domain.CanApply(d.Status, domain.EventSchedulePickup) {
			return &domain.InvalidTransitionError{Event: domain.EventSchedulePickup, From: d.Status}
		}

		schedule.DonationID = d.ID
		schedule.Status = domain.PickupStatusScheduled
		if err := s.pickupRepo.Create(ctx, schedule); err != nil {
			return err
		}

		msg, err := s.lifecycle.Apply(ctx, d, domain.EventSchedulePickup)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)

		matches, err := s.matchRepo.ListByDonation(ctx, d.ID)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if !m.Status.HoldsQuantity() {
				continue
			}
			attrs := donationAttributes(d)
			attrs["match_id"] = strconv.Itoa(int(m.ID))
			msgs = append(msgs, Message{
				RecipientType: domain.ActorTypeBeneficiary,
				RecipientID:   m.BeneficiaryID,
				Kind:          domain.NotificationKindPickup,
				Title:         "Pickup scheduled",
				Body:          fmt.Sprintf("%q will be picked up on %s at %s", d.Name, schedule.PickupDate, schedule.PickupTime),
				Template:      "pickup_scheduled",
				Data: map[string]any{
					"donation_name": d.Name,
					"pickup_date":   schedule.PickupDate,
					"pickup_time":   schedule.PickupTime,
					"location":      d.PickupLocation,
				},
				Attributes: attrs,
			})
		}
		return s.notifier.Record(ctx, msgs[1:]...)
	})
	if err != nil {
		logger.ExitMethodWithError("donationService.SchedulePickup", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msgs...)

	logger.ExitMethod("donationService.SchedulePickup", "donationID", donationID, "pickupID", schedule.ID)
	return schedule, nil
}

func (s *donationService) CompleteDonation(ctx context.Context, actor domain.Actor, donationID int32, metrics domain.ImpactMetrics) (*domain.Donation, error) {
	logger.EnterMethod("donationService.CompleteDonation", "actor", actor.String(), "donationID", donationID)

	if err := requireAdmin(actor); err != nil {
		logger.ExitMethodWithError("donationService.CompleteDonation", err)
		return nil, err
	}
	if metrics.CO2SavedKg < 0 || metrics.MealsServed < 0 || metrics.WasteDivertedKg < 0 {
		err := fmt.Errorf("impact metrics must not be negative: %w", domain.ErrInvalidInput)
		logger.ExitMethodWithError("donationService.CompleteDonation", err)
		return nil, err
	}

	var (
		d   *domain.Donation
		msg Message
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		d, err = s.donationRepo.GetForUpdate(ctx, donationID)
		if err != nil {
			return err
		}
		pickup, err := s.pickupRepo.GetByDonation(ctx, donationID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		msg, err = s.lifecycle.Apply(ctx, d, domain.EventComplete)
		if err != nil {
			return err
		}

		if pickup != nil {
			if err := s.pickupRepo.UpdateStatus(ctx, pickup.ID, domain.PickupStatusCompleted); err != nil {
				return err
			}
		}

		matches, err := s.matchRepo.ListByDonation(ctx, donationID)
		if err != nil {
			return err
		}
		now := s.clock.now()
		for i := range matches {
			m := &matches[i]
			if m.Status != domain.MatchStatusAccepted && m.Status != domain.MatchStatusQuoteSent {
				continue
			}
			m.Status = domain.MatchStatusReceived
			m.ReceivedAt = &now
			if err := s.matchRepo.Update(ctx, m); err != nil {
				return err
			}
		}

		d.CO2SavedKg = metrics.CO2SavedKg
		d.MealsServed = metrics.MealsServed
		d.WasteDivertedKg = metrics.WasteDivertedKg
		return s.donationRepo.Update(ctx, d)
	})
	if err != nil {
		logger.ExitMethodWithError("donationService.CompleteDonation", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msg)

	logger.ExitMethod("donationService.CompleteDonation", "donationID", donationID)
	return d, nil
}
