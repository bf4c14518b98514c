package repository

import (
	"context"
	"errors"

	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
)

// ErrNotFound signals that the addressed entity does not exist. It is distinct
// from any other storage failure so callers can map it to a 404-class outcome.
var ErrNotFound = errors.New("not found")

// UserRepository defines the storage operations for users and their addresses.
// Search reads take an already-clamped size; a blank query means no filter.
type UserRepository interface {
	SearchPage(ctx context.Context, query string, perPage, page int) ([]entity.User, int64, error)
	SearchCollection(ctx context.Context, query string, limit int) ([]entity.User, error)
	// SearchAfter returns up to batch users with id > afterID in ascending id
	// order. It backs keyset iteration over the full matching set.
	SearchAfter(ctx context.Context, query string, afterID int64, batch int) ([]entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	CreateWithAddress(ctx context.Context, u *entity.User, a *entity.Address) (*entity.User, error)
	UpdateWithAddress(ctx context.Context, u *entity.User, a *entity.Address) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
}
