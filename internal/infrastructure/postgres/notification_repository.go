package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
	"github.com/prasetyoadi/admin-directory/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	var data []byte
	if n.Data != nil {
		b, err := json.Marshal(n.Data)
		if err != nil {
			return err
		}
		data = b
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, message, data, read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, n.UserID, n.Type, n.Message, data, n.Read).Scan(&n.ID, &n.CreatedAt)
}

// Unread returns the newest unread notifications first. The (read, created_at)
// index keeps this cheap, which is why the feed is never cached.
func (r *NotificationRepository) Unread(ctx context.Context, limit int) ([]entity.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, message, data, read, read_at, created_at
		FROM notifications
		WHERE read = FALSE
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET read = TRUE, read_at = now()
		WHERE id = ANY($1)
	`, ids)
	return err
}

func collectNotifications(rows pgx.Rows) ([]entity.Notification, error) {
	notifs := make([]entity.Notification, 0)
	for rows.Next() {
		var n entity.Notification
		var data []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &data, &n.Read, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				return nil, err
			}
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
