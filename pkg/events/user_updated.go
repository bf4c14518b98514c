package events

import "time"

// UserUpdated is the message published to the user-events queue after a user
// mutation. The notification worker consumes it and persists a Notification
// row; delivery (email/push) is out of scope.
type UserUpdated struct {
	UserID    int64     `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName mirrors the display name used in notification messages.
func (e UserUpdated) FullName() string {
	return e.FirstName + " " + e.LastName
}
