package http

import (
	"net/http"
	"testing"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthMiddleware(t *testing.T) {
	t.Run("Public route needs no token", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := s.do(t, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("Missing token", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := s.do(t, http.MethodGet, "/api/v1/donations", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Invalid token", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := s.do(t, http.MethodGet, "/api/v1/donations", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Unknown profile", func(t *testing.T) {
		s := newTestServer(t, nil)
		id := uuid.New()
		s.profiles.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)
		token, _ := s.tokens.GenerateAccessToken(id, "", time.Hour)

		rec := s.do(t, http.MethodGet, "/api/v1/donations", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Profile store down", func(t *testing.T) {
		s := newTestServer(t, nil)
		id := uuid.New()
		s.profiles.On("GetByID", mock.Anything, id).Return(nil, repository.ErrStoreUnavailable)
		token, _ := s.tokens.GenerateAccessToken(id, "", time.Hour)

		rec := s.do(t, http.MethodGet, "/api/v1/donations", token, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("Unregistered profile may register but not act", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := &domain.Profile{ID: uuid.New(), Role: domain.ActorTypeBusiness}
		token := s.login(t, p)

		rec := s.do(t, http.MethodGet, "/api/v1/donations", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		s.registration.On("RegisterBusiness", mock.Anything, p.ID, mock.MatchedBy(func(b *domain.Business) bool {
			return b.Name == "Bakery" && b.RegistrationNumber == "123-45-67890"
		})).Return(&domain.Business{ID: 7, Name: "Bakery", Status: domain.RegistrationStatusPending}, nil)

		rec = s.do(t, http.MethodPost, "/api/v1/businesses", token, map[string]any{
			"name":                "Bakery",
			"registration_number": "123-45-67890",
			"email":               "owner@bakery.kr",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		b := decodeBody[domain.Business](t, rec)
		assert.Equal(t, domain.RegistrationStatusPending, b.Status)
	})

	t.Run("Me", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := beneficiaryProfile()
		rec := s.do(t, http.MethodGet, "/api/v1/me", s.login(t, p), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody[domain.Profile](t, rec)
		assert.Equal(t, p.ID, got.ID)
	})
}
