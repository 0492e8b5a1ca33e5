package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "recipientType", n.RecipientType, "recipientID", n.RecipientID, "kind", n.Kind)

	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "reason", "failed to marshal attributes")
		return err
	}

	query := `INSERT INTO notifications (recipient_type, recipient_id, kind, title, message, is_read, attributes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	logger.DatabaseCall("INSERT", "notifications", "recipientType", n.RecipientType, "recipientID", n.RecipientID)

	n.CreatedAt = time.Now().UTC()
	err = conn(ctx, r.db).QueryRowContext(ctx, query, n.RecipientType, n.RecipientID, n.Kind, n.Title, n.Message, n.IsRead,
		attrs, n.CreatedAt).Scan(&n.ID)
	err = mapError(err)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)

	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "recipientID", n.RecipientID)
		return err
	}
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, recipientType domain.ActorType, recipientID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE recipient_type = $1 AND recipient_id = $2`
	if err := conn(ctx, r.db).QueryRowContext(ctx, countQuery, recipientType, recipientID).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT id, recipient_type, recipient_id, kind, title, message, is_read, attributes, created_at
	          FROM notifications WHERE recipient_type = $1 AND recipient_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, recipientType, recipientID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.RecipientType, &n.RecipientID, &n.Kind, &n.Title, &n.Message, &n.IsRead, &attrs, &n.CreatedAt); err != nil {
			return nil, 0, mapError(err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, err
			}
		}
		notes = append(notes, n)
	}
	return notes, count, mapError(rows.Err())
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id int32, recipientType domain.ActorType, recipientID int32) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_type = $2 AND recipient_id = $3`
	logger.DatabaseCall("UPDATE", "notifications", "notificationID", id)

	res, err := conn(ctx, r.db).ExecContext(ctx, query, id, recipientType, recipientID)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(res, repository.ErrNotFound)
}
