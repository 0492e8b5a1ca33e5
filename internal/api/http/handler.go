package http

import (
	"net/http"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/service"
)

// Handler serves the JSON API on top of the services.
type Handler struct {
	donations     service.DonationService
	matching      service.MatchingService
	quotes        service.QuoteService
	gate          service.GateService
	registration  service.RegistrationService
	documents     service.DocumentService
	notifications service.NotificationService
	clock         service.Clock
}

type Services struct {
	Donations     service.DonationService
	Matching      service.MatchingService
	Quotes        service.QuoteService
	Gate          service.GateService
	Registration  service.RegistrationService
	Documents     service.DocumentService
	Notifications service.NotificationService
}

func NewHandler(svcs Services, clock service.Clock) *Handler {
	return &Handler{
		donations:     svcs.Donations,
		matching:      svcs.Matching,
		quotes:        svcs.Quotes,
		gate:          svcs.Gate,
		registration:  svcs.Registration,
		documents:     svcs.Documents,
		notifications: svcs.Notifications,
		clock:         clock,
	}
}

// actor returns the caller, writing a 403 when the route ran without one.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	a, ok := actorFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
	}
	return a, ok
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetMe returns the signed-in profile.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := profileFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
