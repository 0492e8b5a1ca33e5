package http

import (
	"net/http"
	"testing"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/repository"
	"donation-matching-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDonationRoutes(t *testing.T) {
	t.Run("Submit", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := businessProfile()
		token := s.login(t, p)

		s.donations.On("SubmitDonation", mock.Anything, actorOf(t, p), mock.MatchedBy(func(d *domain.Donation) bool {
			return d.Name == "Bread" && d.Quantity == 40 && d.Unit == "box"
		})).Return(&domain.Donation{ID: 3, Name: "Bread", Quantity: 40, Status: domain.DonationStatusPendingReview}, nil)

		rec := s.do(t, http.MethodPost, "/api/v1/donations", token, map[string]any{
			"name":            "Bread",
			"quantity":        40,
			"unit":            "box",
			"pickup_deadline": "2025-06-20",
			"pickup_location": "Seoul",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		d := decodeBody[domain.Donation](t, rec)
		assert.Equal(t, domain.DonationStatusPendingReview, d.Status)
	})

	t.Run("Unknown fields are rejected", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := s.do(t, http.MethodPost, "/api/v1/donations", s.login(t, businessProfile()), map[string]any{"status": "completed"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("List filters by status", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := adminProfile()
		token := s.login(t, p)

		s.donations.On("ListDonations", mock.Anything, actorOf(t, p), domain.DonationFilter{
			Statuses: []domain.DonationStatus{domain.DonationStatusMatched, domain.DonationStatusBeneficiaryAccepted},
			Page:     2,
			PageSize: 20,
		}).Return([]service.DonationSummary{{Donation: domain.Donation{ID: 1}, RemainingQuantity: 4}}, int32(21), nil)

		rec := s.do(t, http.MethodGet, "/api/v1/donations?status=matched&status=beneficiary_accepted&page=2", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		list := decodeBody[listResponse[service.DonationSummary]](t, rec)
		assert.Equal(t, int32(21), list.Total)
		assert.Equal(t, int32(4), list.Items[0].RemainingQuantity)

		rec = s.do(t, http.MethodGet, "/api/v1/donations?status=lost", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Invalid transition is a conflict", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := adminProfile()
		token := s.login(t, p)

		s.donations.On("TransitionDonation", mock.Anything, actorOf(t, p), int32(3), domain.EventReject).
			Return(nil, &domain.InvalidTransitionError{Event: domain.EventReject, From: domain.DonationStatusMatched})

		rec := s.do(t, http.MethodPost, "/api/v1/donations/3/transitions", token, map[string]string{"event": "reject"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody[errorResponse](t, rec)
		assert.Equal(t, "invalid_transition", body.Code)
		assert.Contains(t, body.Error, "reject is not allowed from status matched")

		rec = s.do(t, http.MethodPost, "/api/v1/donations/3/transitions", token, map[string]string{"event": "teleport"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Get missing donation", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := adminProfile()
		s.donations.On("GetDonation", mock.Anything, actorOf(t, p), int32(99)).Return(nil, repository.ErrNotFound)

		rec := s.do(t, http.MethodGet, "/api/v1/donations/99", s.login(t, p), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Schedule pickup", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := adminProfile()
		s.donations.On("SchedulePickup", mock.Anything, actorOf(t, p), int32(3), mock.MatchedBy(func(ps *domain.PickupSchedule) bool {
			return ps.PickupDate == "2025-06-11" && ps.PickupTime == "10:00"
		})).Return(&domain.PickupSchedule{ID: 1, DonationID: 3, PickupDate: "2025-06-11", Status: domain.PickupStatusScheduled}, nil)

		rec := s.do(t, http.MethodPost, "/api/v1/donations/3/pickup", s.login(t, p), map[string]string{
			"pickup_date": "2025-06-11",
			"pickup_time": "10:00",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestMatchRoutes(t *testing.T) {
	t.Run("Over allocation names the invariant", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := beneficiaryProfile()
		token := s.login(t, p)

		s.matching.On("RespondToMatch", mock.Anything, actorOf(t, p), int32(5), service.MatchResponse{Accept: true, Quantity: int32Ptr(30), Unit: "box"}).
			Return(nil, &domain.OverAllocationError{DonationID: 3, Requested: 30, Remaining: 10})

		rec := s.do(t, http.MethodPost, "/api/v1/matches/5/respond", token, map[string]any{"accept": true, "quantity": 30, "unit": "box"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody[errorResponse](t, rec)
		assert.Equal(t, "over_allocation", body.Code)
		assert.Contains(t, body.Error, "remaining quantity insufficient")
	})

	t.Run("Propose", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := adminProfile()
		s.matching.On("ProposeMatches", mock.Anything, actorOf(t, p), int32(3), []int32{21, 22}).
			Return([]domain.DonationMatch{{ID: 1, BeneficiaryID: 21}, {ID: 2, BeneficiaryID: 22}}, nil)

		rec := s.do(t, http.MethodPost, "/api/v1/donations/3/matches", s.login(t, p), map[string]any{"beneficiary_ids": []int32{21, 22}})
		require.Equal(t, http.StatusCreated, rec.Code)
		list := decodeBody[listResponse[domain.DonationMatch]](t, rec)
		assert.Len(t, list.Items, 2)
	})

	t.Run("Store down", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := beneficiaryProfile()
		s.matching.On("ListMyMatches", mock.Anything, actorOf(t, p)).Return([]domain.DonationMatch(nil), repository.ErrStoreUnavailable)

		rec := s.do(t, http.MethodGet, "/api/v1/matches", s.login(t, p), nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestQuoteRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	admin := adminProfile()
	adminToken := s.login(t, admin)

	s.quotes.On("PreviewQuote", mock.Anything, int64(12345), int32(7), (*float64)(nil)).
		Return(domain.QuoteAmounts{SupplyAmount: 86415, CommissionAmount: 4321, VATAmount: 8642, TotalAmount: 99378}, nil)
	rec := s.do(t, http.MethodPost, "/api/v1/quotes/preview", adminToken, map[string]any{"unit_price": 12345, "quantity": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(99378), decodeBody[domain.QuoteAmounts](t, rec).TotalAmount)

	s.quotes.On("SendQuote", mock.Anything, actorOf(t, admin), mock.MatchedBy(func(req service.SendQuoteRequest) bool {
		return req.DonationID == 3 && req.UnitPrice == 0
	})).Return(nil, &domain.InvalidQuoteInputError{Field: "unit_price", Reason: "must be positive"})
	rec = s.do(t, http.MethodPost, "/api/v1/quotes", adminToken, map[string]any{"donation_id": 3, "unit_price": 0, "pickup_date": "2025-06-11", "pickup_time": "10:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	biz := businessProfile()
	s.quotes.On("AcceptQuote", mock.Anything, actorOf(t, biz), int32(9)).Return(nil, domain.ErrInvalidQuoteState)
	rec = s.do(t, http.MethodPost, "/api/v1/quotes/9/accept", s.login(t, biz), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGateRoutes(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	pickups := []domain.UpcomingPickup{{
		Donation: domain.Donation{ID: 3, Status: domain.DonationStatusPickupScheduled},
		Schedule: domain.PickupSchedule{DonationID: 3, PickupDate: "2025-06-11"},
	}}

	s := newTestServer(t, nil)
	p := beneficiaryProfile()
	token := s.login(t, p)
	s.gate.On("UpcomingPickups", mock.Anything, actorOf(t, p), today).Return(pickups, nil)
	s.gate.On("PendingMatchAcks", mock.Anything, actorOf(t, p)).Return(2, nil)
	s.gate.On("ConfirmAck", mock.Anything, actorOf(t, p), testNow).Return(int64(2), nil)

	rec := s.do(t, http.MethodGet, "/api/v1/gate/upcoming-pickups", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[upcomingPickupsResponse](t, rec)
	assert.True(t, res.ShowReminder)
	assert.Equal(t, "2025-06-10", res.Today)
	assert.Len(t, res.Pickups, 1)

	rec = s.do(t, http.MethodPost, "/api/v1/gate/reminder/dismiss", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dismissed := decodeBody[map[string]string](t, rec)["dismissed_on"]
	assert.Equal(t, "2025-06-10", dismissed)

	rec = s.do(t, http.MethodGet, "/api/v1/gate/upcoming-pickups?dismissed_on="+dismissed, token, nil)
	assert.False(t, decodeBody[upcomingPickupsResponse](t, rec).ShowReminder)

	rec = s.do(t, http.MethodGet, "/api/v1/gate/upcoming-pickups?dismissed_on=2025-06-09", token, nil)
	assert.True(t, decodeBody[upcomingPickupsResponse](t, rec).ShowReminder)

	rec = s.do(t, http.MethodGet, "/api/v1/gate/pending-acks", token, nil)
	assert.Equal(t, 2, decodeBody[map[string]int](t, rec)["pending"])

	rec = s.do(t, http.MethodPost, "/api/v1/gate/ack", token, nil)
	assert.Equal(t, int64(2), decodeBody[map[string]int64](t, rec)["confirmed"])
}

func TestDocumentAndNotificationRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	p := businessProfile()
	token := s.login(t, p)
	actor := actorOf(t, p)

	s.documents.On("RequestUpload", mock.Anything, actor, domain.DocumentBusinessLicense, int32(7), "license.pdf", "application/pdf").
		Return(&service.UploadTicket{Key: "business_license/7/x.pdf", UploadURL: "http://localhost/api/v1/upload/t?key=x"}, nil)
	rec := s.do(t, http.MethodPost, "/api/v1/documents/upload-url", token, map[string]any{
		"kind": "business_license", "owner_id": 7, "filename": "license.pdf", "content_type": "application/pdf",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "business_license/7/x.pdf", decodeBody[service.UploadTicket](t, rec).Key)

	rec = s.do(t, http.MethodPost, "/api/v1/documents/upload-url", token, map[string]any{"kind": "selfie", "owner_id": 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.documents.On("AttachDocument", mock.Anything, actor, domain.DocumentBusinessLicense, int32(7), "business_license/7/x.pdf").Return(nil)
	rec = s.do(t, http.MethodPost, "/api/v1/documents", token, map[string]any{"kind": "business_license", "owner_id": 7, "key": "business_license/7/x.pdf"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	s.documents.On("GetDocumentURL", mock.Anything, actor, domain.DocumentTaxReceipt, int32(3)).Return("https://dl", nil)
	rec = s.do(t, http.MethodGet, "/api/v1/documents/tax_receipt/3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://dl", decodeBody[map[string]string](t, rec)["url"])

	s.notifications.On("GetNotifications", mock.Anything, actor, int32(1), int32(20)).
		Return([]domain.Notification{{ID: 1, Kind: domain.NotificationKindQuoteSent}}, int32(1), nil)
	rec = s.do(t, http.MethodGet, "/api/v1/notifications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[listResponse[domain.Notification]](t, rec).Items, 1)

	s.notifications.On("MarkAsRead", mock.Anything, actor, int32(1)).Return(nil)
	rec = s.do(t, http.MethodPost, "/api/v1/notifications/1/read", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRegistrationRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	admin := adminProfile()
	token := s.login(t, admin)

	s.registration.On("ListBusinesses", mock.Anything, actorOf(t, admin), domain.RegistrationStatusPending).
		Return([]domain.Business{{ID: 7, Name: "Bakery", Status: domain.RegistrationStatusPending}}, nil)
	rec := s.do(t, http.MethodGet, "/api/v1/businesses?status=pending", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), decodeBody[listResponse[domain.Business]](t, rec).Total)

	rec = s.do(t, http.MethodGet, "/api/v1/businesses?status=archived", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.registration.On("ReviewBeneficiary", mock.Anything, actorOf(t, admin), int32(21), false, "").
		Return(nil, domain.ErrInvalidInput)
	rec = s.do(t, http.MethodPost, "/api/v1/beneficiaries/21/review", token, map[string]any{"approve": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	biz := businessProfile()
	s.registration.On("GetBeneficiary", mock.Anything, actorOf(t, biz), int32(21)).Return(nil, domain.ErrUnauthorized)
	rec = s.do(t, http.MethodGet, "/api/v1/beneficiaries/21", s.login(t, biz), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
