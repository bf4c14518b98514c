package entity

import (
	"time"
)

// NotificationTypeUserUpdated is the only type the core emits today.
const NotificationTypeUserUpdated = "updated"

// Notification references a user by id only (weak reference, no ownership):
// it must survive deletion of the user it mentions.
type Notification struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Read      bool           `json:"read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
