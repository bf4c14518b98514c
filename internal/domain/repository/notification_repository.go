package repository

import (
	"context"

	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
)

// NotificationRepository defines the storage operations for the notification
// feed. Reads are never cached; they must reflect near-real-time state.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	Unread(ctx context.Context, limit int) ([]entity.Notification, error)
	MarkRead(ctx context.Context, ids []int64) error
}
