package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"

	"github.com/lib/pq"
)

const donationColumns = `id, business_id, name, description, category, quantity, unit,
	pickup_deadline::text, pickup_location, status, COALESCE(tax_receipt_url, ''), COALESCE(esg_report_url, ''),
	co2_saved_kg, meals_served, waste_diverted_kg, notification_confirmed_at, version, created_at, updated_at`

type donationRepository struct {
	db *sql.DB
}

func NewDonationRepository(db *sql.DB) repository.DonationRepository {
	return &donationRepository{db: db}
}

func scanDonation(row scanner) (*domain.Donation, error) {
	d := &domain.Donation{}
	err := row.Scan(&d.ID, &d.BusinessID, &d.Name, &d.Description, &d.Category, &d.Quantity, &d.Unit,
		&d.PickupDeadline, &d.PickupLocation, &d.Status, &d.TaxReceiptURL, &d.ESGReportURL,
		&d.CO2SavedKg, &d.MealsServed, &d.WasteDivertedKg, &d.NotificationConfirmedAt, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return d, nil
}

func (r *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	logger.EnterMethod("donationRepository.Create", "businessID", d.BusinessID, "quantity", d.Quantity)

	query := `INSERT INTO donations (business_id, name, description, category, quantity, unit, pickup_deadline, pickup_location, status, version, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $10) RETURNING id, version, created_at, updated_at`
	logger.DatabaseCall("INSERT", "donations", "businessID", d.BusinessID)

	now := time.Now().UTC()
	err := conn(ctx, r.db).QueryRowContext(ctx, query, d.BusinessID, d.Name, d.Description, d.Category, d.Quantity, d.Unit,
		d.PickupDeadline, d.PickupLocation, d.Status, now).Scan(&d.ID, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	err = mapError(err)
	logger.DatabaseResult("INSERT", 1, err, "donationID", d.ID)

	if err != nil {
		logger.ExitMethodWithError("donationRepository.Create", err, "businessID", d.BusinessID)
		return err
	}
	logger.ExitMethod("donationRepository.Create", "donationID", d.ID)
	return nil
}

func (r *donationRepository) GetByID(ctx context.Context, id int32) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	logger.DatabaseCall("SELECT", "donations", "donationID", id)
	return scanDonation(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *donationRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("SELECT FOR UPDATE", "donations", "donationID", id)
	return scanDonation(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *donationRepository) UpdateStatus(ctx context.Context, d *domain.Donation, to domain.DonationStatus) error {
	query := `UPDATE donations SET status = $1, version = version + 1, updated_at = $2
	          WHERE id = $3 AND status = $4 AND version = $5`
	logger.DatabaseCall("UPDATE", "donations", "donationID", d.ID, "from", d.Status, "to", to, "version", d.Version)

	now := time.Now().UTC()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, to, now, d.ID, d.Status, d.Version)
	if err != nil {
		err = mapError(err)
		logger.DatabaseResult("UPDATE", 0, err, "donationID", d.ID)
		return err
	}
	if err := checkAffected(res, repository.ErrVersionConflict); err != nil {
		logger.DatabaseResult("UPDATE", 0, nil, "donationID", d.ID, "conflict", true)
		return err
	}
	logger.DatabaseResult("UPDATE", 1, nil, "donationID", d.ID)

	d.Status = to
	d.Version++
	d.UpdatedAt = now
	return nil
}

func (r *donationRepository) Update(ctx context.Context, d *domain.Donation) error {
	query := `UPDATE donations SET name = $1, description = $2, category = $3, quantity = $4, unit = $5,
	          pickup_deadline = $6, pickup_location = $7, tax_receipt_url = $8, esg_report_url = $9,
	          co2_saved_kg = $10, meals_served = $11, waste_diverted_kg = $12, version = version + 1, updated_at = $13
	          WHERE id = $14 AND version = $15`
	logger.DatabaseCall("UPDATE", "donations", "donationID", d.ID, "version", d.Version)

	now := time.Now().UTC()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, d.Name, d.Description, d.Category, d.Quantity, d.Unit,
		d.PickupDeadline, d.PickupLocation, d.TaxReceiptURL, d.ESGReportURL,
		d.CO2SavedKg, d.MealsServed, d.WasteDivertedKg, now, d.ID, d.Version)
	if err != nil {
		return mapError(err)
	}
	if err := checkAffected(res, repository.ErrVersionConflict); err != nil {
		return err
	}
	d.Version++
	d.UpdatedAt = now
	return nil
}

func (r *donationRepository) List(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, int32, error) {
	var where []string
	var args []any
	if filter.BusinessID != 0 {
		args = append(args, filter.BusinessID)
		where = append(where, fmt.Sprintf("business_id = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, pq.Array(statuses))
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	base := ` FROM donations`
	if len(where) > 0 {
		base += ` WHERE ` + strings.Join(where, " AND ")
	}

	var count int32
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT count(*)`+base, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	query := `SELECT ` + donationColumns + base +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	donations, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return donations, count, nil
}

func (r *donationRepository) ListByBusiness(ctx context.Context, businessID int32) ([]domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE business_id = $1 ORDER BY created_at DESC`
	return r.query(ctx, query, businessID)
}

func (r *donationRepository) ListByStatus(ctx context.Context, status domain.DonationStatus) ([]domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE status = $1 ORDER BY created_at`
	return r.query(ctx, query, status)
}

func (r *donationRepository) ConfirmNotifications(ctx context.Context, businessID int32, at time.Time) (int64, error) {
	query := `UPDATE donations SET notification_confirmed_at = $1 WHERE business_id = $2`
	logger.DatabaseCall("UPDATE", "donations", "businessID", businessID)

	res, err := conn(ctx, r.db).ExecContext(ctx, query, at, businessID)
	if err != nil {
		err = mapError(err)
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	return n, err
}

func (r *donationRepository) query(ctx context.Context, query string, args ...any) ([]domain.Donation, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var donations []domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, *d)
	}
	return donations, mapError(rows.Err())
}
