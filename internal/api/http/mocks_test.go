package http

import (
	"context"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) LinkOrganization(ctx context.Context, id uuid.UUID, role domain.ActorType, orgID int32) error {
	args := m.Called(ctx, id, role, orgID)
	return args.Error(0)
}

// MockDonationService
type MockDonationService struct {
	mock.Mock
}

func (m *MockDonationService) SubmitDonation(ctx context.Context, actor domain.Actor, d *domain.Donation) (*domain.Donation, error) {
	args := m.Called(ctx, actor, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockDonationService) GetDonation(ctx context.Context, actor domain.Actor, id int32) (*service.DonationDetail, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DonationDetail), args.Error(1)
}
func (m *MockDonationService) ListDonations(ctx context.Context, actor domain.Actor, filter domain.DonationFilter) ([]service.DonationSummary, int32, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]service.DonationSummary), args.Get(1).(int32), args.Error(2)
}
func (m *MockDonationService) TransitionDonation(ctx context.Context, actor domain.Actor, id int32, event domain.DonationEvent) (*domain.Donation, error) {
	args := m.Called(ctx, actor, id, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockDonationService) SchedulePickup(ctx context.Context, actor domain.Actor, donationID int32, schedule *domain.PickupSchedule) (*domain.PickupSchedule, error) {
	args := m.Called(ctx, actor, donationID, schedule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupSchedule), args.Error(1)
}
func (m *MockDonationService) CompleteDonation(ctx context.Context, actor domain.Actor, donationID int32, metrics domain.ImpactMetrics) (*domain.Donation, error) {
	args := m.Called(ctx, actor, donationID, metrics)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

// MockMatchingService
type MockMatchingService struct {
	mock.Mock
}

func (m *MockMatchingService) ProposeMatches(ctx context.Context, actor domain.Actor, donationID int32, beneficiaryIDs []int32) ([]domain.DonationMatch, error) {
	args := m.Called(ctx, actor, donationID, beneficiaryIDs)
	return args.Get(0).([]domain.DonationMatch), args.Error(1)
}
func (m *MockMatchingService) RespondToMatch(ctx context.Context, actor domain.Actor, matchID int32, resp service.MatchResponse) (*domain.DonationMatch, error) {
	args := m.Called(ctx, actor, matchID, resp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonationMatch), args.Error(1)
}
func (m *MockMatchingService) ConfirmReceipt(ctx context.Context, actor domain.Actor, matchID int32) (*domain.DonationMatch, error) {
	args := m.Called(ctx, actor, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonationMatch), args.Error(1)
}
func (m *MockMatchingService) RemainingQuantity(ctx context.Context, donationID int32) (int32, error) {
	args := m.Called(ctx, donationID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockMatchingService) ListMatches(ctx context.Context, actor domain.Actor, donationID int32) ([]domain.DonationMatch, error) {
	args := m.Called(ctx, actor, donationID)
	return args.Get(0).([]domain.DonationMatch), args.Error(1)
}
func (m *MockMatchingService) ListMyMatches(ctx context.Context, actor domain.Actor) ([]domain.DonationMatch, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.DonationMatch), args.Error(1)
}

// MockQuoteService
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) PreviewQuote(ctx context.Context, unitPrice int64, quantity int32, commissionRate *float64) (domain.QuoteAmounts, error) {
	args := m.Called(ctx, unitPrice, quantity, commissionRate)
	return args.Get(0).(domain.QuoteAmounts), args.Error(1)
}
func (m *MockQuoteService) SendQuote(ctx context.Context, actor domain.Actor, req service.SendQuoteRequest) (*domain.Quote, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}
func (m *MockQuoteService) AcceptQuote(ctx context.Context, actor domain.Actor, quoteID int32) (*domain.Quote, error) {
	args := m.Called(ctx, actor, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}
func (m *MockQuoteService) RejectQuote(ctx context.Context, actor domain.Actor, quoteID int32, reason string) (*domain.Quote, error) {
	args := m.Called(ctx, actor, quoteID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}
func (m *MockQuoteService) ConfirmPickup(ctx context.Context, actor domain.Actor, quoteID int32, pickupDate, pickupTime string) (*domain.Quote, error) {
	args := m.Called(ctx, actor, quoteID, pickupDate, pickupTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}
func (m *MockQuoteService) ListQuotes(ctx context.Context, actor domain.Actor, donationID int32) ([]domain.Quote, error) {
	args := m.Called(ctx, actor, donationID)
	return args.Get(0).([]domain.Quote), args.Error(1)
}

// MockGateService
type MockGateService struct {
	mock.Mock
}

func (m *MockGateService) PendingMatchAcks(ctx context.Context, actor domain.Actor) (int, error) {
	args := m.Called(ctx, actor)
	return args.Int(0), args.Error(1)
}
func (m *MockGateService) ConfirmAck(ctx context.Context, actor domain.Actor, at time.Time) (int64, error) {
	args := m.Called(ctx, actor, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockGateService) UpcomingPickups(ctx context.Context, actor domain.Actor, today time.Time) ([]domain.UpcomingPickup, error) {
	args := m.Called(ctx, actor, today)
	return args.Get(0).([]domain.UpcomingPickup), args.Error(1)
}

// MockRegistrationService
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) RegisterBusiness(ctx context.Context, profileID uuid.UUID, b *domain.Business) (*domain.Business, error) {
	args := m.Called(ctx, profileID, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockRegistrationService) RegisterBeneficiary(ctx context.Context, profileID uuid.UUID, b *domain.Beneficiary) (*domain.Beneficiary, error) {
	args := m.Called(ctx, profileID, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Beneficiary), args.Error(1)
}
func (m *MockRegistrationService) ReviewBusiness(ctx context.Context, actor domain.Actor, id int32, approve bool, reason string) (*domain.Business, error) {
	args := m.Called(ctx, actor, id, approve, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockRegistrationService) ReviewBeneficiary(ctx context.Context, actor domain.Actor, id int32, approve bool, reason string) (*domain.Beneficiary, error) {
	args := m.Called(ctx, actor, id, approve, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Beneficiary), args.Error(1)
}
func (m *MockRegistrationService) GetBusiness(ctx context.Context, actor domain.Actor, id int32) (*domain.Business, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockRegistrationService) GetBeneficiary(ctx context.Context, actor domain.Actor, id int32) (*domain.Beneficiary, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Beneficiary), args.Error(1)
}
func (m *MockRegistrationService) ListBusinesses(ctx context.Context, actor domain.Actor, status domain.RegistrationStatus) ([]domain.Business, error) {
	args := m.Called(ctx, actor, status)
	return args.Get(0).([]domain.Business), args.Error(1)
}
func (m *MockRegistrationService) ListBeneficiaries(ctx context.Context, actor domain.Actor, status domain.RegistrationStatus) ([]domain.Beneficiary, error) {
	args := m.Called(ctx, actor, status)
	return args.Get(0).([]domain.Beneficiary), args.Error(1)
}

// MockDocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) RequestUpload(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32, filename, contentType string) (*service.UploadTicket, error) {
	args := m.Called(ctx, actor, kind, ownerID, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadTicket), args.Error(1)
}
func (m *MockDocumentService) AttachDocument(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32, key string) error {
	args := m.Called(ctx, actor, kind, ownerID, key)
	return args.Error(0)
}
func (m *MockDocumentService) GetDocumentURL(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32) (string, error) {
	args := m.Called(ctx, actor, kind, ownerID)
	return args.String(0), args.Error(1)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, actor, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, actor domain.Actor, notificationID int32) error {
	args := m.Called(ctx, actor, notificationID)
	return args.Error(0)
}
