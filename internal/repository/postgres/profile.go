package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"

	"github.com/google/uuid"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `SELECT id, email, COALESCE(name, ''), role, business_id, beneficiary_id, created_at FROM profiles WHERE id = $1`
	logger.DatabaseCall("SELECT", "profiles", "profileID", id)

	p := &domain.Profile{}
	var createdAt time.Time
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Email, &p.Name, &p.Role, &p.BusinessID, &p.BeneficiaryID, &createdAt)
	if err != nil {
		return nil, mapError(err)
	}
	p.CreatedAt = createdAt.Format(time.RFC3339)
	return p, nil
}

func (r *profileRepository) LinkOrganization(ctx context.Context, id uuid.UUID, role domain.ActorType, orgID int32) error {
	var column string
	switch role {
	case domain.ActorTypeBusiness:
		column = "business_id"
	case domain.ActorTypeBeneficiary:
		column = "beneficiary_id"
	default:
		return fmt.Errorf("cannot link a %s profile to an organization: %w", role, domain.ErrInvalidInput)
	}
	query := `UPDATE profiles SET role = $2, ` + column + ` = $3 WHERE id = $1`
	logger.DatabaseCall("UPDATE", "profiles", "profileID", id, "role", role, "orgID", orgID)

	res, err := conn(ctx, r.db).ExecContext(ctx, query, id, role, orgID)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(res, repository.ErrNotFound)
}
