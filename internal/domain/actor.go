package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type ActorType string

const (
	ActorTypeAdmin       ActorType = "admin"
	ActorTypeBusiness    ActorType = "business"
	ActorTypeBeneficiary ActorType = "beneficiary"
)

// Actor identifies who is calling: the profile behind the bearer token and the
// organization (business or beneficiary) it acts for. Admins carry ID 0.
type Actor struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Type      ActorType `json:"type"`
	ID        int32     `json:"id"`
}

func (a Actor) IsAdmin() bool { return a.Type == ActorTypeAdmin }

func (a Actor) String() string {
	return fmt.Sprintf("%s:%d", a.Type, a.ID)
}

// Profile is the application-side record of a hosted auth user.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          ActorType `json:"role"`
	BusinessID    *int32    `json:"business_id,omitempty"`
	BeneficiaryID *int32    `json:"beneficiary_id,omitempty"`
	CreatedAt     string    `json:"created_at"`
}

// Actor resolves the acting organization for the profile's role.
func (p *Profile) Actor() (Actor, error) {
	a := Actor{ProfileID: p.ID, Type: p.Role}
	switch p.Role {
	case ActorTypeAdmin:
		return a, nil
	case ActorTypeBusiness:
		if p.BusinessID == nil {
			return Actor{}, fmt.Errorf("profile %s has no business: %w", p.ID, ErrUnauthorized)
		}
		a.ID = *p.BusinessID
	case ActorTypeBeneficiary:
		if p.BeneficiaryID == nil {
			return Actor{}, fmt.Errorf("profile %s has no beneficiary: %w", p.ID, ErrUnauthorized)
		}
		a.ID = *p.BeneficiaryID
	default:
		return Actor{}, fmt.Errorf("profile %s has unknown role %q: %w", p.ID, p.Role, ErrUnauthorized)
	}
	return a, nil
}
