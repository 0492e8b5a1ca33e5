package service

import (
	"context"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/utils"

	"github.com/google/uuid"
)

type DonationService interface {
	SubmitDonation(ctx context.Context, actor domain.Actor, d *domain.Donation) (*domain.Donation, error)
	GetDonation(ctx context.Context, actor domain.Actor, id int32) (*DonationDetail, error)
	ListDonations(ctx context.Context, actor domain.Actor, filter domain.DonationFilter) ([]DonationSummary, int32, error)
	TransitionDonation(ctx context.Context, actor domain.Actor, id int32, event domain.DonationEvent) (*domain.Donation, error)
	SchedulePickup(ctx context.Context, actor domain.Actor, donationID int32, schedule *domain.PickupSchedule) (*domain.PickupSchedule, error)
	CompleteDonation(ctx context.Context, actor domain.Actor, donationID int32, metrics domain.ImpactMetrics) (*domain.Donation, error)
}

type MatchingService interface {
	ProposeMatches(ctx context.Context, actor domain.Actor, donationID int32, beneficiaryIDs []int32) ([]domain.DonationMatch, error)
	RespondToMatch(ctx context.Context, actor domain.Actor, matchID int32, resp MatchResponse) (*domain.DonationMatch, error)
	ConfirmReceipt(ctx context.Context, actor domain.Actor, matchID int32) (*domain.DonationMatch, error)
	RemainingQuantity(ctx context.Context, donationID int32) (int32, error)
	ListMatches(ctx context.Context, actor domain.Actor, donationID int32) ([]domain.DonationMatch, error)
	ListMyMatches(ctx context.Context, actor domain.Actor) ([]domain.DonationMatch, error)
}

type QuoteService interface {
	PreviewQuote(ctx context.Context, unitPrice int64, quantity int32, commissionRate *float64) (domain.QuoteAmounts, error)
	SendQuote(ctx context.Context, actor domain.Actor, req SendQuoteRequest) (*domain.Quote, error)
	AcceptQuote(ctx context.Context, actor domain.Actor, quoteID int32) (*domain.Quote, error)
	RejectQuote(ctx context.Context, actor domain.Actor, quoteID int32, reason string) (*domain.Quote, error)
	ConfirmPickup(ctx context.Context, actor domain.Actor, quoteID int32, pickupDate, pickupTime string) (*domain.Quote, error)
	ListQuotes(ctx context.Context, actor domain.Actor, donationID int32) ([]domain.Quote, error)
}

type GateService interface {
	PendingMatchAcks(ctx context.Context, actor domain.Actor) (int, error)
	ConfirmAck(ctx context.Context, actor domain.Actor, at time.Time) (int64, error)
	UpcomingPickups(ctx context.Context, actor domain.Actor, today time.Time) ([]domain.UpcomingPickup, error)
}

type RegistrationService interface {
	// RegisterBusiness and RegisterBeneficiary create a pending organization and
	// link the signed-in profile to it.
	RegisterBusiness(ctx context.Context, profileID uuid.UUID, b *domain.Business) (*domain.Business, error)
	RegisterBeneficiary(ctx context.Context, profileID uuid.UUID, b *domain.Beneficiary) (*domain.Beneficiary, error)
	ReviewBusiness(ctx context.Context, actor domain.Actor, id int32, approve bool, reason string) (*domain.Business, error)
	ReviewBeneficiary(ctx context.Context, actor domain.Actor, id int32, approve bool, reason string) (*domain.Beneficiary, error)
	GetBusiness(ctx context.Context, actor domain.Actor, id int32) (*domain.Business, error)
	GetBeneficiary(ctx context.Context, actor domain.Actor, id int32) (*domain.Beneficiary, error)
	ListBusinesses(ctx context.Context, actor domain.Actor, status domain.RegistrationStatus) ([]domain.Business, error)
	ListBeneficiaries(ctx context.Context, actor domain.Actor, status domain.RegistrationStatus) ([]domain.Beneficiary, error)
}

type DocumentService interface {
	RequestUpload(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32, filename, contentType string) (*UploadTicket, error)
	AttachDocument(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32, key string) error
	GetDocumentURL(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32) (string, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, actor domain.Actor, notificationID int32) error
}

// EmailService sends one transactional email.
type EmailService interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// PushService publishes a data-only realtime hint to a topic.
type PushService interface {
	Publish(ctx context.Context, topic string, data map[string]string) error
}

// Notifier fans a workflow's messages out to the in-app inbox, email and push.
// Record writes inbox rows and must run inside the workflow's transaction.
// Deliver sends email and push after commit; failures are logged, never
// returned.
type Notifier interface {
	Record(ctx context.Context, msgs ...Message) error
	Deliver(ctx context.Context, msgs ...Message)
}

type DonationDetail struct {
	Donation          domain.Donation        `json:"donation"`
	Matches           []domain.DonationMatch `json:"matches"`
	Quotes            []domain.Quote         `json:"quotes"`
	Pickup            *domain.PickupSchedule `json:"pickup,omitempty"`
	RemainingQuantity int32                  `json:"remaining_quantity"`
}

type DonationSummary struct {
	domain.Donation
	RemainingQuantity int32 `json:"remaining_quantity"`
}

// MatchResponse is a beneficiary's answer to a proposal. A nil Quantity on
// accept takes everything still unallocated.
type MatchResponse struct {
	Accept          bool
	Quantity        *int32
	Unit            string
	RejectionReason string
}

type SendQuoteRequest struct {
	DonationID     int32
	MatchID        *int32
	UnitPrice      int64
	CommissionRate *float64
	LogisticsCost  int64
	PickupDate     string
	PickupTime     string
}

type UploadTicket struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Clock supplies the current instant and the calendar pickup dates are
// expressed in.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Clock) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Today is midnight of the current calendar date.
func (c Clock) Today() time.Time {
	d, _ := utils.ParseDate(utils.Today(c.now(), c.loc()))
	return d.Time(c.loc())
}
