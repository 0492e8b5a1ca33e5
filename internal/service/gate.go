package service

import (
	"context"
	"fmt"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
)

// gateService answers "what should this actor be told about right now". All
// counts are derived from the store on every call.
type gateService struct {
	donationRepo repository.DonationRepository
	matchRepo    repository.MatchRepository
	pickupRepo   repository.PickupRepository
	retry        repository.RetryPolicy
}

func NewGateService(
	donationRepo repository.DonationRepository,
	matchRepo repository.MatchRepository,
	pickupRepo repository.PickupRepository,
	retry repository.RetryPolicy,
) GateService {
	return &gateService{
		donationRepo: donationRepo,
		matchRepo:    matchRepo,
		pickupRepo:   pickupRepo,
		retry:        retry,
	}
}

// PendingMatchAcks counts unacknowledged match proposals: matches for a
// beneficiary, donations with new matches for a business. Admins have none.
func (s *gateService) PendingMatchAcks(ctx context.Context, actor domain.Actor) (int, error) {
	switch actor.Type {
	case domain.ActorTypeBeneficiary:
		matches, err := repository.Read(ctx, s.retry, "match.ListByBeneficiary", func() ([]domain.DonationMatch, error) {
			return s.matchRepo.ListByBeneficiary(ctx, actor.ID)
		})
		if err != nil {
			return 0, err
		}
		return domain.CountBeneficiaryPendingAcks(matches), nil

	case domain.ActorTypeBusiness:
		donations, err := repository.Read(ctx, s.retry, "donation.ListByBusiness", func() ([]domain.Donation, error) {
			return s.donationRepo.ListByBusiness(ctx, actor.ID)
		})
		if err != nil {
			return 0, err
		}
		ids := make([]int32, len(donations))
		for i, d := range donations {
			ids[i] = d.ID
		}
		matches, err := repository.Read(ctx, s.retry, "match.ListByDonations", func() ([]domain.DonationMatch, error) {
			return s.matchRepo.ListByDonations(ctx, ids)
		})
		if err != nil {
			return 0, err
		}
		n := 0
		for i := range donations {
			if domain.HasPendingBusinessAck(&donations[i], matches) {
				n++
			}
		}
		return n, nil
	}
	return 0, nil
}

// ConfirmAck stamps every row the actor acknowledges with at. Repeating it is
// harmless.
func (s *gateService) ConfirmAck(ctx context.Context, actor domain.Actor, at time.Time) (int64, error) {
	var (
		n   int64
		err error
	)
	switch actor.Type {
	case domain.ActorTypeBeneficiary:
		n, err = s.matchRepo.ConfirmNotifications(ctx, actor.ID, at)
	case domain.ActorTypeBusiness:
		n, err = s.donationRepo.ConfirmNotifications(ctx, actor.ID, at)
	default:
		return 0, fmt.Errorf("%s has nothing to acknowledge: %w", actor, domain.ErrInvalidInput)
	}
	if err != nil {
		return 0, err
	}
	logger.Debug("Notifications acknowledged", "actor", actor.String(), "rows", n)
	return n, nil
}

// UpcomingPickups lists scheduled donations picked up today or tomorrow,
// limited to what the actor is party to.
func (s *gateService) UpcomingPickups(ctx context.Context, actor domain.Actor, today time.Time) ([]domain.UpcomingPickup, error) {
	from := today.Format(domain.DateLayout)
	to := today.AddDate(0, 0, 1).Format(domain.DateLayout)

	schedules, err := repository.Read(ctx, s.retry, "pickup.ListByDateRange", func() ([]domain.PickupSchedule, error) {
		return s.pickupRepo.ListByDateRange(ctx, from, to)
	})
	if err != nil {
		return nil, err
	}

	var held map[int32]bool
	if actor.Type == domain.ActorTypeBeneficiary {
		matches, err := repository.Read(ctx, s.retry, "match.ListByBeneficiary", func() ([]domain.DonationMatch, error) {
			return s.matchRepo.ListByBeneficiary(ctx, actor.ID)
		})
		if err != nil {
			return nil, err
		}
		held = make(map[int32]bool)
		for _, m := range matches {
			if m.Status.HoldsQuantity() {
				held[m.DonationID] = true
			}
		}
	}

	out := []domain.UpcomingPickup{}
	for _, p := range schedules {
		if p.Status != domain.PickupStatusScheduled || !domain.IsUpcomingPickup(p.PickupDate, today) {
			continue
		}
		if held != nil && !held[p.DonationID] {
			continue
		}
		d, err := repository.Read(ctx, s.retry, "donation.GetByID", func() (*domain.Donation, error) {
			return s.donationRepo.GetByID(ctx, p.DonationID)
		})
		if err != nil {
			return nil, err
		}
		if d.Status != domain.DonationStatusPickupScheduled {
			continue
		}
		if actor.Type == domain.ActorTypeBusiness && d.BusinessID != actor.ID {
			continue
		}
		out = append(out, domain.UpcomingPickup{Donation: *d, Schedule: p})
	}
	return out, nil
}
