package http

import (
	"net/http"

	"donation-matching-backend/internal/domain"

	"github.com/gorilla/mux"
)

type requestUploadRequest struct {
	Kind        string `json:"kind"`
	OwnerID     int32  `json:"owner_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

func (h *Handler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req requestUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	kind, err := domain.ParseDocumentKind(req.Kind)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ticket, err := h.documents.RequestUpload(r.Context(), actor, kind, req.OwnerID, req.Filename, req.ContentType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

type attachDocumentRequest struct {
	Kind    string `json:"kind"`
	OwnerID int32  `json:"owner_id"`
	Key     string `json:"key"`
}

func (h *Handler) AttachDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req attachDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	kind, err := domain.ParseDocumentKind(req.Kind)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.documents.AttachDocument(r.Context(), actor, kind, req.OwnerID, req.Key); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	kind, err := domain.ParseDocumentKind(mux.Vars(r)["kind"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	ownerID, err := pathID(r, "owner_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	url, err := h.documents.GetDocumentURL(r.Context(), actor, kind, ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
