package http

import (
	"net/http"

	"donation-matching-backend/internal/domain"
)

func (h *Handler) PendingMatchAcks(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	n, err := h.gate.PendingMatchAcks(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"pending": n})
}

func (h *Handler) ConfirmAck(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	n, err := h.gate.ConfirmAck(r.Context(), actor, h.clock.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"confirmed": n})
}

type upcomingPickupsResponse struct {
	Today        string                  `json:"today"`
	ShowReminder bool                    `json:"show_reminder"`
	Pickups      []domain.UpcomingPickup `json:"pickups"`
}

// UpcomingPickups lists today's and tomorrow's pickups. The client passes back
// the date it last dismissed the reminder as ?dismissed_on=; nothing about the
// dismissal is stored server-side.
func (h *Handler) UpcomingPickups(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	today := h.clock.Today()
	pickups, err := h.gate.UpcomingPickups(r.Context(), actor, today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	session := domain.RestoreReminderSession(r.URL.Query().Get("dismissed_on"))
	writeJSON(w, http.StatusOK, upcomingPickupsResponse{
		Today:        today.Format(domain.DateLayout),
		ShowReminder: len(pickups) > 0 && session.ShouldShow(today),
		Pickups:      pickups,
	})
}

// DismissReminder returns the value the client should send as dismissed_on
// for the rest of the day.
func (h *Handler) DismissReminder(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	session := domain.NewReminderSession()
	session.Dismiss(h.clock.Today())
	writeJSON(w, http.StatusOK, map[string]string{"dismissed_on": session.DismissedOn()})
}
