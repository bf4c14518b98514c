package entity

import (
	"time"
)

// User is the aggregate root for the directory. Every user owns at most one
// Address; search results always carry the address inline, never a collection.
type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Address   *Address  `json:"address,omitempty"`
}

// FullName joins first and last name for display and notification messages.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Address belongs to exactly one User and is only ever created or updated
// alongside user mutations.
type Address struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	PostCode  string    `json:"post_code"`
	Street    string    `json:"street"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPage is one page of search results with pagination metadata. Search
// carries the original query string so repeated navigation keeps the filter.
type UserPage struct {
	Items      []User `json:"items"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"total_pages"`
	Search     string `json:"search"`
}
