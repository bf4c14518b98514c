package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
	"github.com/prasetyoadi/admin-directory/internal/domain/repository"
)

// MaxFeedLimit caps the notification feed; out-of-range limits fall back to
// it.
const MaxFeedLimit = 10

// NotificationService serves the unread feed. Reads always hit the store so
// a just-marked notification disappears from the next fetch immediately.
type NotificationService struct {
	repo   repository.NotificationRepository
	logger *logrus.Logger
}

func NewNotificationService(repo repository.NotificationRepository, logger *logrus.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// Unread returns the newest unread notifications, newest first.
func (s *NotificationService) Unread(ctx context.Context, limit int) ([]entity.Notification, error) {
	if limit < 1 || limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	notifs, err := s.repo.Unread(ctx, limit)
	if err != nil {
		s.logger.WithError(err).Error("unread notifications fetch failed")
		return nil, ErrOperationFailed
	}
	if notifs == nil {
		notifs = []entity.Notification{}
	}
	return notifs, nil
}

// MarkRead marks the given notifications read and returns the fresh unread
// feed so the caller can re-render without a second round trip. Unknown or
// already-read ids are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, ids []int64) ([]entity.Notification, error) {
	if len(ids) > 0 {
		if err := s.repo.MarkRead(ctx, ids); err != nil {
			s.logger.WithError(err).Error("mark notifications read failed")
			return nil, ErrOperationFailed
		}
	}
	return s.Unread(ctx, MaxFeedLimit)
}
