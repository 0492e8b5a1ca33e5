package service

import (
	"context"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
	retry    repository.RetryPolicy
}

func NewNotificationService(noteRepo repository.NotificationRepository, retry repository.RetryPolicy) NotificationService {
	return &notificationService{noteRepo: noteRepo, retry: retry}
}

func (s *notificationService) GetNotifications(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	type result struct {
		items []domain.Notification
		total int32
	}
	r, err := repository.Read(ctx, s.retry, "notification.List", func() (result, error) {
		items, total, err := s.noteRepo.List(ctx, actor.Type, actor.ID, pageSize, offset)
		return result{items: items, total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return r.items, r.total, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, actor domain.Actor, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, actor.Type, actor.ID)
}
