package postgres

import (
	"context"
	"database/sql"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
)

const quoteColumns = `id, donation_id, match_id, unit_price, quantity, supply_amount, commission_rate, commission_amount,
	vat_amount, total_amount, logistics_cost, COALESCE(pickup_date::text, ''), COALESCE(pickup_time, ''), status,
	COALESCE(rejection_reason, ''), responded_at, created_at, updated_at`

type quoteRepository struct {
	db *sql.DB
}

func NewQuoteRepository(db *sql.DB) repository.QuoteRepository {
	return &quoteRepository{db: db}
}

func scanQuote(row scanner) (*domain.Quote, error) {
	q := &domain.Quote{}
	err := row.Scan(&q.ID, &q.DonationID, &q.MatchID, &q.UnitPrice, &q.Quantity, &q.SupplyAmount, &q.CommissionRate, &q.CommissionAmount,
		&q.VATAmount, &q.TotalAmount, &q.LogisticsCost, &q.PickupDate, &q.PickupTime, &q.Status,
		&q.RejectionReason, &q.RespondedAt, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return q, nil
}

// nullString stores "" as NULL so date/time columns stay typed.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *quoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	logger.EnterMethod("quoteRepository.Create", "donationID", q.DonationID, "total", q.TotalAmount)

	query := `INSERT INTO quotes (donation_id, match_id, unit_price, quantity, supply_amount, commission_rate, commission_amount,
	          vat_amount, total_amount, logistics_cost, pickup_date, pickup_time, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14) RETURNING id, created_at, updated_at`
	logger.DatabaseCall("INSERT", "quotes", "donationID", q.DonationID)

	now := time.Now().UTC()
	err := conn(ctx, r.db).QueryRowContext(ctx, query, q.DonationID, q.MatchID, q.UnitPrice, q.Quantity, q.SupplyAmount,
		q.CommissionRate, q.CommissionAmount, q.VATAmount, q.TotalAmount, q.LogisticsCost,
		nullString(q.PickupDate), nullString(q.PickupTime), q.Status, now).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	err = mapError(err)
	logger.DatabaseResult("INSERT", 1, err, "quoteID", q.ID)

	if err != nil {
		logger.ExitMethodWithError("quoteRepository.Create", err)
		return err
	}
	logger.ExitMethod("quoteRepository.Create", "quoteID", q.ID)
	return nil
}

func (r *quoteRepository) GetByID(ctx context.Context, id int32) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	logger.DatabaseCall("SELECT", "quotes", "quoteID", id)
	return scanQuote(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

// Update persists the mutable quote fields. Amounts are facts fixed at
// creation and are never rewritten.
func (r *quoteRepository) Update(ctx context.Context, q *domain.Quote) error {
	query := `UPDATE quotes SET status = $1, rejection_reason = $2, responded_at = $3, pickup_date = $4, pickup_time = $5, updated_at = $6
	          WHERE id = $7`
	logger.DatabaseCall("UPDATE", "quotes", "quoteID", q.ID, "status", q.Status)

	now := time.Now().UTC()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, q.Status, q.RejectionReason, q.RespondedAt,
		nullString(q.PickupDate), nullString(q.PickupTime), now, q.ID)
	if err != nil {
		return mapError(err)
	}
	if err := checkAffected(res, repository.ErrNotFound); err != nil {
		return err
	}
	q.UpdatedAt = now
	return nil
}

func (r *quoteRepository) ListByDonation(ctx context.Context, donationID int32) ([]domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE donation_id = $1 ORDER BY created_at DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, donationID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	return quotes, mapError(rows.Err())
}
