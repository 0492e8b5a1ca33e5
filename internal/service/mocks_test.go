package service_test

import (
	"context"
	"sync"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// passthroughTx runs fn directly; rollback is the mocks' business.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeNotifier records what workflows hand to the notifier.
type fakeNotifier struct {
	mu        sync.Mutex
	recorded  []service.Message
	delivered []service.Message
	recordErr error
}

func (f *fakeNotifier) Record(ctx context.Context, msgs ...service.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, msgs...)
	return nil
}

func (f *fakeNotifier) Deliver(ctx context.Context, msgs ...service.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, msgs...)
}

func (f *fakeNotifier) kinds() []domain.NotificationKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.NotificationKind, len(f.recorded))
	for i, m := range f.recorded {
		out[i] = m.Kind
	}
	return out
}

// MockDonationRepo
type MockDonationRepo struct {
	mock.Mock
}

func (m *MockDonationRepo) Create(ctx context.Context, d *domain.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDonationRepo) GetByID(ctx context.Context, id int32) (*domain.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockDonationRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockDonationRepo) UpdateStatus(ctx context.Context, d *domain.Donation, to domain.DonationStatus) error {
	args := m.Called(ctx, d, to)
	if args.Error(0) == nil {
		d.Status = to
		d.Version++
	}
	return args.Error(0)
}
func (m *MockDonationRepo) Update(ctx context.Context, d *domain.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDonationRepo) List(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Donation), args.Get(1).(int32), args.Error(2)
}
func (m *MockDonationRepo) ListByBusiness(ctx context.Context, businessID int32) ([]domain.Donation, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).([]domain.Donation), args.Error(1)
}
func (m *MockDonationRepo) ListByStatus(ctx context.Context, status domain.DonationStatus) ([]domain.Donation, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Donation), args.Error(1)
}
func (m *MockDonationRepo) ConfirmNotifications(ctx context.Context, businessID int32, at time.Time) (int64, error) {
	args := m.Called(ctx, businessID, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockMatchRepo
type MockMatchRepo struct {
	mock.Mock
}

func (m *MockMatchRepo) Create(ctx context.Context, match *domain.DonationMatch) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}
func (m *MockMatchRepo) GetByID(ctx context.Context, id int32) (*domain.DonationMatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonationMatch), args.Error(1)
}
func (m *MockMatchRepo) GetByPair(ctx context.Context, donationID, beneficiaryID int32) (*domain.DonationMatch, error) {
	args := m.Called(ctx, donationID, beneficiaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonationMatch), args.Error(1)
}
func (m *MockMatchRepo) Update(ctx context.Context, match *domain.DonationMatch) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}
func (m *MockMatchRepo) ListByDonation(ctx context.Context, donationID int32) ([]domain.DonationMatch, error) {
	args := m.Called(ctx, donationID)
	return args.Get(0).([]domain.DonationMatch), args.Error(1)
}
func (m *MockMatchRepo) ListByDonations(ctx context.Context, donationIDs []int32) ([]domain.DonationMatch, error) {
	args := m.Called(ctx, donationIDs)
	return args.Get(0).([]domain.DonationMatch), args.Error(1)
}
func (m *MockMatchRepo) ListByBeneficiary(ctx context.Context, beneficiaryID int32) ([]domain.DonationMatch, error) {
	args := m.Called(ctx, beneficiaryID)
	return args.Get(0).([]domain.DonationMatch), args.Error(1)
}
func (m *MockMatchRepo) ConfirmNotifications(ctx context.Context, beneficiaryID int32, at time.Time) (int64, error) {
	args := m.Called(ctx, beneficiaryID, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuoteRepo
type MockQuoteRepo struct {
	mock.Mock
}

func (m *MockQuoteRepo) Create(ctx context.Context, q *domain.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}
func (m *MockQuoteRepo) GetByID(ctx context.Context, id int32) (*domain.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}
func (m *MockQuoteRepo) Update(ctx context.Context, q *domain.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}
func (m *MockQuoteRepo) ListByDonation(ctx context.Context, donationID int32) ([]domain.Quote, error) {
	args := m.Called(ctx, donationID)
	return args.Get(0).([]domain.Quote), args.Error(1)
}

// MockPickupRepo
type MockPickupRepo struct {
	mock.Mock
}

func (m *MockPickupRepo) Create(ctx context.Context, p *domain.PickupSchedule) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPickupRepo) GetByDonation(ctx context.Context, donationID int32) (*domain.PickupSchedule, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupSchedule), args.Error(1)
}
func (m *MockPickupRepo) ListByDateRange(ctx context.Context, from, to string) ([]domain.PickupSchedule, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.PickupSchedule), args.Error(1)
}
func (m *MockPickupRepo) UpdateStatus(ctx context.Context, id int32, status domain.PickupStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

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

// MockBusinessRepo
type MockBusinessRepo struct {
	mock.Mock
}

func (m *MockBusinessRepo) Create(ctx context.Context, b *domain.Business) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBusinessRepo) GetByID(ctx context.Context, id int32) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockBusinessRepo) Update(ctx context.Context, b *domain.Business) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBusinessRepo) List(ctx context.Context, status domain.RegistrationStatus) ([]domain.Business, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Business), args.Error(1)
}

// MockBeneficiaryRepo
type MockBeneficiaryRepo struct {
	mock.Mock
}

func (m *MockBeneficiaryRepo) Create(ctx context.Context, b *domain.Beneficiary) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBeneficiaryRepo) GetByID(ctx context.Context, id int32) (*domain.Beneficiary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Beneficiary), args.Error(1)
}
func (m *MockBeneficiaryRepo) Update(ctx context.Context, b *domain.Beneficiary) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBeneficiaryRepo) List(ctx context.Context, status domain.RegistrationStatus) ([]domain.Beneficiary, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Beneficiary), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, recipientType domain.ActorType, recipientID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, recipientType, recipientID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id int32, recipientType domain.ActorType, recipientID int32) error {
	args := m.Called(ctx, id, recipientType, recipientID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, msg service.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockPushService
type MockPushService struct {
	mock.Mock
}

func (m *MockPushService) Publish(ctx context.Context, topic string, data map[string]string) error {
	args := m.Called(ctx, topic, data)
	return args.Error(0)
}

// MockDocumentStorage
type MockDocumentStorage struct {
	mock.Mock
}

func (m *MockDocumentStorage) GeneratePresignedUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockDocumentStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockDocumentStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}
func (m *MockDocumentStorage) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var (
	testNow   = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	testClock = service.Clock{Now: func() time.Time { return testNow }, Location: time.UTC}

	adminActor       = domain.Actor{Type: domain.ActorTypeAdmin}
	businessActor    = domain.Actor{Type: domain.ActorTypeBusiness, ID: 7}
	beneficiaryActor = domain.Actor{Type: domain.ActorTypeBeneficiary, ID: 21}
)

func int32Ptr(v int32) *int32 { return &v }
