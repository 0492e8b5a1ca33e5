package http

import (
	"net/http"

	"donation-matching-backend/internal/service"
)

type previewQuoteRequest struct {
	UnitPrice      int64    `json:"unit_price"`
	Quantity       int32    `json:"quantity"`
	CommissionRate *float64 `json:"commission_rate"`
}

func (h *Handler) PreviewQuote(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	var req previewQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	amounts, err := h.quotes.PreviewQuote(r.Context(), req.UnitPrice, req.Quantity, req.CommissionRate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, amounts)
}

type sendQuoteRequest struct {
	DonationID     int32    `json:"donation_id"`
	MatchID        *int32   `json:"match_id"`
	UnitPrice      int64    `json:"unit_price"`
	CommissionRate *float64 `json:"commission_rate"`
	LogisticsCost  int64    `json:"logistics_cost"`
	PickupDate     string   `json:"pickup_date"`
	PickupTime     string   `json:"pickup_time"`
}

func (h *Handler) SendQuote(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req sendQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	q, err := h.quotes.SendQuote(r.Context(), actor, service.SendQuoteRequest{
		DonationID:     req.DonationID,
		MatchID:        req.MatchID,
		UnitPrice:      req.UnitPrice,
		CommissionRate: req.CommissionRate,
		LogisticsCost:  req.LogisticsCost,
		PickupDate:     req.PickupDate,
		PickupTime:     req.PickupTime,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	quotes, err := h.quotes.ListQuotes(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(quotes, int32(len(quotes))))
}

func (h *Handler) AcceptQuote(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := h.quotes.AcceptQuote(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) RejectQuote(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	q, err := h.quotes.RejectQuote(r.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type confirmPickupRequest struct {
	PickupDate string `json:"pickup_date"`
	PickupTime string `json:"pickup_time"`
}

func (h *Handler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req confirmPickupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	q, err := h.quotes.ConfirmPickup(r.Context(), actor, id, req.PickupDate, req.PickupTime)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
