package service

import (
	"fmt"

	"donation-matching-backend/internal/domain"
)

func requireAdmin(actor domain.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%s is not an admin: %w", actor, domain.ErrUnauthorized)
	}
	return nil
}

func requireRole(actor domain.Actor, role domain.ActorType) error {
	if actor.Type != role {
		return fmt.Errorf("%s cannot act as %s: %w", actor, role, domain.ErrUnauthorized)
	}
	return nil
}

// requireOwnerOrAdmin passes admins and the given organization itself.
func requireOwnerOrAdmin(actor domain.Actor, role domain.ActorType, ownerID int32) error {
	if actor.IsAdmin() || (actor.Type == role && actor.ID == ownerID) {
		return nil
	}
	return fmt.Errorf("%s does not own %s %d: %w", actor, role, ownerID, domain.ErrUnauthorized)
}
