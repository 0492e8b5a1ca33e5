package http

import (
	"fmt"
	"net/http"

	"donation-matching-backend/internal/domain"
)

type registerBusinessRequest struct {
	Name               string `json:"name"`
	RepresentativeName string `json:"representative_name"`
	RegistrationNumber string `json:"registration_number"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	ContractSigned     bool   `json:"contract_signed"`
}

func (h *Handler) RegisterBusiness(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	var req registerBusinessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.registration.RegisterBusiness(r.Context(), profile.ID, &domain.Business{
		Name:               req.Name,
		RepresentativeName: req.RepresentativeName,
		RegistrationNumber: req.RegistrationNumber,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		ContractSigned:     req.ContractSigned,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

type registerBeneficiaryRequest struct {
	Name              string   `json:"name"`
	OrganizationType  string   `json:"organization_type"`
	ManagerName       string   `json:"manager_name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Address           string   `json:"address"`
	DesiredCategories []string `json:"desired_categories"`
	CanPickup         bool     `json:"can_pickup"`
	CanIssueReceipt   bool     `json:"can_issue_receipt"`
}

func (h *Handler) RegisterBeneficiary(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	var req registerBeneficiaryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.registration.RegisterBeneficiary(r.Context(), profile.ID, &domain.Beneficiary{
		Name:              req.Name,
		OrganizationType:  req.OrganizationType,
		ManagerName:       req.ManagerName,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		DesiredCategories: req.DesiredCategories,
		CanPickup:         req.CanPickup,
		CanIssueReceipt:   req.CanIssueReceipt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func registrationStatus(r *http.Request) (domain.RegistrationStatus, error) {
	raw := r.URL.Query().Get("status")
	switch domain.RegistrationStatus(raw) {
	case "", domain.RegistrationStatusPending, domain.RegistrationStatusApproved, domain.RegistrationStatusRejected:
		return domain.RegistrationStatus(raw), nil
	}
	return "", fmt.Errorf("invalid status %q: %w", raw, domain.ErrInvalidInput)
}

func (h *Handler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	status, err := registrationStatus(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.registration.ListBusinesses(r.Context(), actor, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(list, int32(len(list))))
}

func (h *Handler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.registration.GetBusiness(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type reviewRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

func (h *Handler) ReviewBusiness(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.registration.ReviewBusiness(r.Context(), actor, id, req.Approve, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) ListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	status, err := registrationStatus(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.registration.ListBeneficiaries(r.Context(), actor, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(list, int32(len(list))))
}

func (h *Handler) GetBeneficiary(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.registration.GetBeneficiary(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) ReviewBeneficiary(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.registration.ReviewBeneficiary(r.Context(), actor, id, req.Approve, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
