package jobs

import (
	"context"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/repository"
	"donation-matching-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// The embedded interfaces stay nil; calling a method the job does not use panics.

type MockGateService struct {
	service.GateService
	mock.Mock
}

func (m *MockGateService) UpcomingPickups(ctx context.Context, actor domain.Actor, today time.Time) ([]domain.UpcomingPickup, error) {
	args := m.Called(ctx, actor, today)
	return args.Get(0).([]domain.UpcomingPickup), args.Error(1)
}

type MockMatchingService struct {
	service.MatchingService
	mock.Mock
}

func (m *MockMatchingService) ListMatches(ctx context.Context, actor domain.Actor, donationID int32) ([]domain.DonationMatch, error) {
	args := m.Called(ctx, actor, donationID)
	return args.Get(0).([]domain.DonationMatch), args.Error(1)
}
func (m *MockMatchingService) RemainingQuantity(ctx context.Context, donationID int32) (int32, error) {
	args := m.Called(ctx, donationID)
	return args.Get(0).(int32), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Record(ctx context.Context, msgs ...service.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}
func (m *MockNotifier) Deliver(ctx context.Context, msgs ...service.Message) {
	m.Called(ctx, msgs)
}

type MockBusinessRepo struct {
	repository.BusinessRepository
	mock.Mock
}

func (m *MockBusinessRepo) List(ctx context.Context, status domain.RegistrationStatus) ([]domain.Business, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Business), args.Error(1)
}

type MockBeneficiaryRepo struct {
	repository.BeneficiaryRepository
	mock.Mock
}

func (m *MockBeneficiaryRepo) List(ctx context.Context, status domain.RegistrationStatus) ([]domain.Beneficiary, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Beneficiary), args.Error(1)
}

type MockDonationRepo struct {
	repository.DonationRepository
	mock.Mock
}

func (m *MockDonationRepo) ListByStatus(ctx context.Context, status domain.DonationStatus) ([]domain.Donation, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Donation), args.Error(1)
}
