package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/security"
	"donation-matching-backend/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

type testServer struct {
	router        *mux.Router
	tokens        security.TokenManager
	profiles      *MockProfileRepo
	donations     *MockDonationService
	matching      *MockMatchingService
	quotes        *MockQuoteService
	gate          *MockGateService
	registration  *MockRegistrationService
	documents     *MockDocumentService
	notifications *MockNotificationService
}

func newTestServer(t *testing.T, storage *StorageHandler) *testServer {
	t.Helper()
	s := &testServer{
		tokens:        security.NewTokenManager(testSecret, ""),
		profiles:      new(MockProfileRepo),
		donations:     new(MockDonationService),
		matching:      new(MockMatchingService),
		quotes:        new(MockQuoteService),
		gate:          new(MockGateService),
		registration:  new(MockRegistrationService),
		documents:     new(MockDocumentService),
		notifications: new(MockNotificationService),
	}
	h := NewHandler(Services{
		Donations:     s.donations,
		Matching:      s.matching,
		Quotes:        s.quotes,
		Gate:          s.gate,
		Registration:  s.registration,
		Documents:     s.documents,
		Notifications: s.notifications,
	}, service.Clock{Now: func() time.Time { return testNow }, Location: time.UTC})
	s.router = NewRouter(h, NewAuthMiddleware(s.tokens, s.profiles), storage)
	return s
}

// login registers p with the profile mock and returns a bearer token for it.
func (s *testServer) login(t *testing.T, p *domain.Profile) string {
	t.Helper()
	s.profiles.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	token, err := s.tokens.GenerateAccessToken(p.ID, p.Email, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func int32Ptr(v int32) *int32 { return &v }

func adminProfile() *domain.Profile {
	return &domain.Profile{ID: uuid.New(), Email: "ops@example.org", Role: domain.ActorTypeAdmin}
}

func businessProfile() *domain.Profile {
	return &domain.Profile{ID: uuid.New(), Email: "owner@bakery.kr", Role: domain.ActorTypeBusiness, BusinessID: int32Ptr(7)}
}

func beneficiaryProfile() *domain.Profile {
	return &domain.Profile{ID: uuid.New(), Email: "fb@example.org", Role: domain.ActorTypeBeneficiary, BeneficiaryID: int32Ptr(21)}
}

func actorOf(t *testing.T, p *domain.Profile) domain.Actor {
	t.Helper()
	a, err := p.Actor()
	require.NoError(t, err)
	return a
}
