package repository

import (
	"context"
	"time"

	"donation-matching-backend/internal/domain"

	"github.com/google/uuid"
)

// TxManager runs fn inside one database transaction. Repositories called with
// the ctx passed to fn join that transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	// LinkOrganization points the profile at the business or beneficiary it
	// registered and sets its role to match.
	LinkOrganization(ctx context.Context, id uuid.UUID, role domain.ActorType, orgID int32) error
}

type BusinessRepository interface {
	Create(ctx context.Context, b *domain.Business) error
	GetByID(ctx context.Context, id int32) (*domain.Business, error)
	Update(ctx context.Context, b *domain.Business) error
	List(ctx context.Context, status domain.RegistrationStatus) ([]domain.Business, error)
}

type BeneficiaryRepository interface {
	Create(ctx context.Context, b *domain.Beneficiary) error
	GetByID(ctx context.Context, id int32) (*domain.Beneficiary, error)
	Update(ctx context.Context, b *domain.Beneficiary) error
	List(ctx context.Context, status domain.RegistrationStatus) ([]domain.Beneficiary, error)
}

type DonationRepository interface {
	Create(ctx context.Context, d *domain.Donation) error
	GetByID(ctx context.Context, id int32) (*domain.Donation, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int32) (*domain.Donation, error)
	// UpdateStatus moves d to status `to` only if the row still has d.Status
	// and d.Version. On success d carries the new status and version; on a
	// stale read it returns ErrVersionConflict.
	UpdateStatus(ctx context.Context, d *domain.Donation, to domain.DonationStatus) error
	// Update writes the non-status fields, guarded by d.Version.
	Update(ctx context.Context, d *domain.Donation) error
	List(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, int32, error)
	ListByBusiness(ctx context.Context, businessID int32) ([]domain.Donation, error)
	ListByStatus(ctx context.Context, status domain.DonationStatus) ([]domain.Donation, error)
	ConfirmNotifications(ctx context.Context, businessID int32, at time.Time) (int64, error)
}

type MatchRepository interface {
	// Create fails with ErrConstraintViolation when the pair already exists.
	Create(ctx context.Context, m *domain.DonationMatch) error
	GetByID(ctx context.Context, id int32) (*domain.DonationMatch, error)
	GetByPair(ctx context.Context, donationID, beneficiaryID int32) (*domain.DonationMatch, error)
	Update(ctx context.Context, m *domain.DonationMatch) error
	ListByDonation(ctx context.Context, donationID int32) ([]domain.DonationMatch, error)
	ListByDonations(ctx context.Context, donationIDs []int32) ([]domain.DonationMatch, error)
	ListByBeneficiary(ctx context.Context, beneficiaryID int32) ([]domain.DonationMatch, error)
	ConfirmNotifications(ctx context.Context, beneficiaryID int32, at time.Time) (int64, error)
}

type QuoteRepository interface {
	Create(ctx context.Context, q *domain.Quote) error
	GetByID(ctx context.Context, id int32) (*domain.Quote, error)
	Update(ctx context.Context, q *domain.Quote) error
	ListByDonation(ctx context.Context, donationID int32) ([]domain.Quote, error)
}

type PickupRepository interface {
	Create(ctx context.Context, p *domain.PickupSchedule) error
	GetByDonation(ctx context.Context, donationID int32) (*domain.PickupSchedule, error)
	// ListByDateRange returns scheduled pickups with from <= date <= to.
	ListByDateRange(ctx context.Context, from, to string) ([]domain.PickupSchedule, error)
	UpdateStatus(ctx context.Context, id int32, status domain.PickupStatus) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, recipientType domain.ActorType, recipientID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id int32, recipientType domain.ActorType, recipientID int32) error
}
