package http

import (
	"net/http"

	"donation-matching-backend/internal/domain"
)

type submitDonationRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Quantity       int32  `json:"quantity"`
	Unit           string `json:"unit"`
	PickupDeadline string `json:"pickup_deadline"`
	PickupLocation string `json:"pickup_location"`
}

func (h *Handler) SubmitDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req submitDonationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	d, err := h.donations.SubmitDonation(r.Context(), actor, &domain.Donation{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		PickupDeadline: req.PickupDeadline,
		PickupLocation: req.PickupLocation,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	filter := domain.DonationFilter{}
	for _, raw := range r.URL.Query()["status"] {
		st, err := domain.ParseDonationStatus(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	var err error
	if filter.BusinessID, err = queryInt32(r, "business_id", 0); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.Page, err = queryInt32(r, "page", 1); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.PageSize, err = queryInt32(r, "page_size", 20); err != nil {
		writeError(w, r, err)
		return
	}

	items, total, err := h.donations.ListDonations(r.Context(), actor, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(items, total))
}

func (h *Handler) GetDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := h.donations.GetDonation(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type transitionRequest struct {
	Event string `json:"event"`
}

func (h *Handler) TransitionDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	event, err := domain.ParseDonationEvent(req.Event)
	if err != nil {
		writeError(w, r, err)
		return
	}

	d, err := h.donations.TransitionDonation(r.Context(), actor, id, event)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type schedulePickupRequest struct {
	PickupDate string `json:"pickup_date"`
	PickupTime string `json:"pickup_time"`
	Staff      string `json:"staff"`
	Vehicle    string `json:"vehicle"`
	Notes      string `json:"notes"`
}

func (h *Handler) SchedulePickup(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req schedulePickupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.donations.SchedulePickup(r.Context(), actor, id, &domain.PickupSchedule{
		PickupDate: req.PickupDate,
		PickupTime: req.PickupTime,
		Staff:      req.Staff,
		Vehicle:    req.Vehicle,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) CompleteDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var metrics domain.ImpactMetrics
	if err := decodeJSON(r, &metrics); err != nil {
		writeError(w, r, err)
		return
	}

	d, err := h.donations.CompleteDonation(r.Context(), actor, id, metrics)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
