package postgres

import (
	"context"
	"database/sql"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"

	"github.com/lib/pq"
)

const matchColumns = `id, donation_id, beneficiary_id, status, proposed_at, COALESCE(proposed_by, ''), responded_at,
	accepted_quantity, COALESCE(accepted_unit, ''), COALESCE(rejection_reason, ''), received_at,
	notification_confirmed_at, version, created_at, updated_at`

type matchRepository struct {
	db *sql.DB
}

func NewMatchRepository(db *sql.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func scanMatch(row scanner) (*domain.DonationMatch, error) {
	m := &domain.DonationMatch{}
	err := row.Scan(&m.ID, &m.DonationID, &m.BeneficiaryID, &m.Status, &m.ProposedAt, &m.ProposedBy, &m.RespondedAt,
		&m.AcceptedQuantity, &m.AcceptedUnit, &m.RejectionReason, &m.ReceivedAt,
		&m.NotificationConfirmedAt, &m.Version, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *matchRepository) Create(ctx context.Context, m *domain.DonationMatch) error {
	logger.EnterMethod("matchRepository.Create", "donationID", m.DonationID, "beneficiaryID", m.BeneficiaryID)

	query := `INSERT INTO donation_matches (donation_id, beneficiary_id, status, proposed_at, proposed_by, accepted_quantity, version, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $7) RETURNING id, version, created_at, updated_at`
	logger.DatabaseCall("INSERT", "donation_matches", "donationID", m.DonationID, "beneficiaryID", m.BeneficiaryID)

	now := time.Now().UTC()
	err := conn(ctx, r.db).QueryRowContext(ctx, query, m.DonationID, m.BeneficiaryID, m.Status, m.ProposedAt, m.ProposedBy,
		m.AcceptedQuantity, now).Scan(&m.ID, &m.Version, &m.CreatedAt, &m.UpdatedAt)
	err = mapError(err)
	logger.DatabaseResult("INSERT", 1, err, "matchID", m.ID)

	if err != nil {
		logger.ExitMethodWithError("matchRepository.Create", err)
		return err
	}
	logger.ExitMethod("matchRepository.Create", "matchID", m.ID)
	return nil
}

func (r *matchRepository) GetByID(ctx context.Context, id int32) (*domain.DonationMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM donation_matches WHERE id = $1`
	logger.DatabaseCall("SELECT", "donation_matches", "matchID", id)
	return scanMatch(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *matchRepository) GetByPair(ctx context.Context, donationID, beneficiaryID int32) (*domain.DonationMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM donation_matches WHERE donation_id = $1 AND beneficiary_id = $2`
	logger.DatabaseCall("SELECT", "donation_matches", "donationID", donationID, "beneficiaryID", beneficiaryID)
	return scanMatch(conn(ctx, r.db).QueryRowContext(ctx, query, donationID, beneficiaryID))
}

// Update writes m only if the row is still at m.Version.
func (r *matchRepository) Update(ctx context.Context, m *domain.DonationMatch) error {
	query := `UPDATE donation_matches SET status = $1, proposed_at = $2, proposed_by = $3, responded_at = $4,
	          accepted_quantity = $5, accepted_unit = $6, rejection_reason = $7, received_at = $8,
	          version = version + 1, updated_at = $9
	          WHERE id = $10 AND version = $11`
	logger.DatabaseCall("UPDATE", "donation_matches", "matchID", m.ID, "status", m.Status, "version", m.Version)

	now := time.Now().UTC()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, m.Status, m.ProposedAt, m.ProposedBy, m.RespondedAt,
		m.AcceptedQuantity, m.AcceptedUnit, m.RejectionReason, m.ReceivedAt, now, m.ID, m.Version)
	if err != nil {
		err = mapError(err)
		logger.DatabaseResult("UPDATE", 0, err, "matchID", m.ID)
		return err
	}
	if err := checkAffected(res, repository.ErrVersionConflict); err != nil {
		logger.DatabaseResult("UPDATE", 0, nil, "matchID", m.ID, "conflict", true)
		return err
	}
	logger.DatabaseResult("UPDATE", 1, nil, "matchID", m.ID)
	m.Version++
	m.UpdatedAt = now
	return nil
}

func (r *matchRepository) ListByDonation(ctx context.Context, donationID int32) ([]domain.DonationMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM donation_matches WHERE donation_id = $1 ORDER BY id`
	return r.query(ctx, query, donationID)
}

func (r *matchRepository) ListByDonations(ctx context.Context, donationIDs []int32) ([]domain.DonationMatch, error) {
	if len(donationIDs) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(donationIDs))
	for i, id := range donationIDs {
		ids[i] = int64(id)
	}
	query := `SELECT ` + matchColumns + ` FROM donation_matches WHERE donation_id = ANY($1) ORDER BY donation_id, id`
	return r.query(ctx, query, pq.Array(ids))
}

func (r *matchRepository) ListByBeneficiary(ctx context.Context, beneficiaryID int32) ([]domain.DonationMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM donation_matches WHERE beneficiary_id = $1 ORDER BY proposed_at DESC`
	return r.query(ctx, query, beneficiaryID)
}

func (r *matchRepository) ConfirmNotifications(ctx context.Context, beneficiaryID int32, at time.Time) (int64, error) {
	query := `UPDATE donation_matches SET notification_confirmed_at = $1 WHERE beneficiary_id = $2`
	logger.DatabaseCall("UPDATE", "donation_matches", "beneficiaryID", beneficiaryID)

	res, err := conn(ctx, r.db).ExecContext(ctx, query, at, beneficiaryID)
	if err != nil {
		err = mapError(err)
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	return n, err
}

func (r *matchRepository) query(ctx context.Context, query string, args ...any) ([]domain.DonationMatch, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var matches []domain.DonationMatch
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, mapError(rows.Err())
}
