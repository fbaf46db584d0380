package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/repos"
	"github.com/questcoder/questcoder-backend/internal/types"
)

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	log  *logger.Logger
	repo repos.NotificationRepo
}

func NewNotificationService(baseLog *logger.Logger, repo repos.NotificationRepo) NotificationService {
	return &notificationService{
		log:  baseLog.With("service", "NotificationService"),
		repo: repo,
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error) {
	return s.repo.GetByUserID(ctx, nil, userID, unreadOnly, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	return s.repo.MarkRead(ctx, nil, userID, ids)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, nil, userID)
}
