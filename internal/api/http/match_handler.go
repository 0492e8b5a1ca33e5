package http

import (
	"net/http"

	"donation-matching-backend/internal/service"
)

type proposeMatchesRequest struct {
	BeneficiaryIDs []int32 `json:"beneficiary_ids"`
}

func (h *Handler) ProposeMatches(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req proposeMatchesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	matches, err := h.matching.ProposeMatches(r.Context(), actor, id, req.BeneficiaryIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newList(matches, int32(len(matches))))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	matches, err := h.matching.ListMatches(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(matches, int32(len(matches))))
}

func (h *Handler) ListMyMatches(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	matches, err := h.matching.ListMyMatches(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(matches, int32(len(matches))))
}

type respondToMatchRequest struct {
	Accept          bool   `json:"accept"`
	Quantity        *int32 `json:"quantity"`
	Unit            string `json:"unit"`
	RejectionReason string `json:"rejection_reason"`
}

func (h *Handler) RespondToMatch(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req respondToMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	m, err := h.matching.RespondToMatch(r.Context(), actor, id, service.MatchResponse{
		Accept:          req.Accept,
		Quantity:        req.Quantity,
		Unit:            req.Unit,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.matching.ConfirmReceipt(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
