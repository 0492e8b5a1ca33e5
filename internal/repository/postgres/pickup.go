package postgres

import (
	"context"
	"database/sql"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
)

const pickupColumns = `id, donation_id, pickup_date::text, pickup_time, COALESCE(staff, ''), COALESCE(vehicle, ''),
	COALESCE(notes, ''), status, created_at`

type pickupRepository struct {
	db *sql.DB
}

func NewPickupRepository(db *sql.DB) repository.PickupRepository {
	return &pickupRepository{db: db}
}

func scanPickup(row scanner) (*domain.PickupSchedule, error) {
	p := &domain.PickupSchedule{}
	err := row.Scan(&p.ID, &p.DonationID, &p.PickupDate, &p.PickupTime, &p.Staff, &p.Vehicle, &p.Notes, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *pickupRepository) Create(ctx context.Context, p *domain.PickupSchedule) error {
	query := `INSERT INTO pickup_schedules (donation_id, pickup_date, pickup_time, staff, vehicle, notes, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "pickup_schedules", "donationID", p.DonationID, "date", p.PickupDate)

	err := conn(ctx, r.db).QueryRowContext(ctx, query, p.DonationID, p.PickupDate, p.PickupTime, p.Staff, p.Vehicle, p.Notes,
		p.Status, time.Now().UTC()).Scan(&p.ID, &p.CreatedAt)
	err = mapError(err)
	logger.DatabaseResult("INSERT", 1, err, "pickupID", p.ID)
	return err
}

func (r *pickupRepository) GetByDonation(ctx context.Context, donationID int32) (*domain.PickupSchedule, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickup_schedules WHERE donation_id = $1`
	logger.DatabaseCall("SELECT", "pickup_schedules", "donationID", donationID)
	return scanPickup(conn(ctx, r.db).QueryRowContext(ctx, query, donationID))
}

func (r *pickupRepository) ListByDateRange(ctx context.Context, from, to string) ([]domain.PickupSchedule, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickup_schedules
	          WHERE status = $1 AND pickup_date BETWEEN $2 AND $3 ORDER BY pickup_date, pickup_time`
	logger.DatabaseCall("SELECT", "pickup_schedules", "from", from, "to", to)

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, domain.PickupStatusScheduled, from, to)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var pickups []domain.PickupSchedule
	for rows.Next() {
		p, err := scanPickup(rows)
		if err != nil {
			return nil, err
		}
		pickups = append(pickups, *p)
	}
	return pickups, mapError(rows.Err())
}

func (r *pickupRepository) UpdateStatus(ctx context.Context, id int32, status domain.PickupStatus) error {
	query := `UPDATE pickup_schedules SET status = $1 WHERE id = $2`
	logger.DatabaseCall("UPDATE", "pickup_schedules", "pickupID", id, "status", status)

	res, err := conn(ctx, r.db).ExecContext(ctx, query, status, id)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(res, repository.ErrNotFound)
}
