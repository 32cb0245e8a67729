package service

import (
	"context"
	"fmt"

	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/repository"
)

var ErrNotificationNotFound = repository.ErrNotificationNotFound

type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) (domain.Notification, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

// NotificationService persists user-facing notifications. Callers on the
// admission path treat Send as fire-and-forget.
type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

func (s *NotificationService) Send(ctx context.Context, userID uint, category domain.NotificationCategory, title, body string, refID uint, refType string) error {
	_, err := s.repo.Create(ctx, domain.Notification{
		UserID:   userID,
		Category: category,
		Title:    title,
		Body:     body,
		RefID:    refID,
		RefType:  refType,
	})
	if err != nil {
		return fmt.Errorf("s.repo.Create -> %w", err)
	}

	return nil
}

func (s *NotificationService) ListByUser(ctx context.Context, userID uint) ([]domain.Notification, error) {
	notifications, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return notifications, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.CountUnread -> %w", err)
	}

	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllRead(ctx, userID)
}
