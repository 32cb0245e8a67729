package repository

import (
	"context"

	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/repository/dao"
)

var ErrNotificationNotFound = dao.ErrNotificationNotFound

type NotificationDAO interface {
	Insert(ctx context.Context, notification dao.Notification) (dao.Notification, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type NotificationRepository struct {
	dao NotificationDAO
}

func NewNotificationRepository(dao NotificationDAO) *NotificationRepository {
	return &NotificationRepository{
		dao: dao,
	}
}

func (r *NotificationRepository) daoToDomain(n dao.Notification) domain.Notification {
	return domain.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Category:  domain.NotificationCategory(n.Category),
		Title:     n.Title,
		Body:      n.Body,
		RefID:     n.RefID,
		RefType:   n.RefType,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	created, err := r.dao.Insert(ctx, dao.Notification{
		UserID:   notification.UserID,
		Category: string(notification.Category),
		Title:    notification.Title,
		Body:     notification.Body,
		RefID:    notification.RefID,
		RefType:  notification.RefType,
	})
	if err != nil {
		return domain.Notification{}, err
	}

	return r.daoToDomain(created), nil
}

func (r *NotificationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Notification, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, len(found))
	for i, n := range found {
		notifications[i] = r.daoToDomain(n)
	}

	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return r.dao.CountUnread(ctx, userID)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint) error {
	return r.dao.MarkRead(ctx, id, userID)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	return r.dao.MarkAllRead(ctx, userID)
}
