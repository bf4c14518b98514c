package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
	"github.com/prasetyoadi/admin-directory/internal/domain/repository"
)

const userSelect = `
	SELECT u.id, u.first_name, u.last_name, u.email, u.created_at, u.updated_at,
	       a.id, a.user_id, a.country, a.city, a.post_code, a.street, a.created_at, a.updated_at
	FROM users u
	LEFT JOIN addresses a ON a.user_id = u.id`

const userCount = `
	SELECT count(*)
	FROM users u
	LEFT JOIN addresses a ON a.user_id = u.id`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// searchFilter builds the OR predicate set for a free-text query. A record
// matches if ANY predicate matches: exact email, name prefixes, name/email
// substrings, address country/city prefixes, post code exact-or-prefix,
// street substring. A blank query yields no filter at all.
func searchFilter(query string) (string, []any) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", nil
	}

	prefix := escapeLike(q) + "%"
	sub := "%" + escapeLike(q) + "%"

	var clause strings.Builder
	var args []any
	// Substitutes the '?' with the next positional parameter.
	or := func(expr string, arg any) {
		if clause.Len() > 0 {
			clause.WriteString(" OR ")
		}
		args = append(args, arg)
		clause.WriteString(strings.Replace(expr, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	or("u.email = ?", q)
	or("u.first_name ILIKE ?", prefix)
	or("u.last_name ILIKE ?", prefix)
	or("u.first_name ILIKE ?", sub)
	or("u.last_name ILIKE ?", sub)
	or("u.email ILIKE ?", sub)
	or("a.country ILIKE ?", prefix)
	or("a.city ILIKE ?", prefix)
	or("a.post_code = ?", q)
	or("a.post_code ILIKE ?", prefix)
	or("a.street ILIKE ?", sub)

	return " WHERE (" + clause.String() + ")", args
}

// escapeLike neutralizes LIKE metacharacters in user input so the query text
// is matched literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (r *UserRepository) SearchPage(ctx context.Context, query string, perPage, page int) ([]entity.User, int64, error) {
	where, args := searchFilter(query)

	var total int64
	if err := r.pool.QueryRow(ctx, userCount+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	sql := fmt.Sprintf("%s%s ORDER BY u.id DESC LIMIT $%d OFFSET $%d", userSelect, where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, sql, append(args, perPage, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) SearchCollection(ctx context.Context, query string, limit int) ([]entity.User, error) {
	where, args := searchFilter(query)

	sql := fmt.Sprintf("%s%s ORDER BY u.id DESC LIMIT $%d", userSelect, where, len(args)+1)
	rows, err := r.pool.Query(ctx, sql, append(args, limit)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *UserRepository) SearchAfter(ctx context.Context, query string, afterID int64, batch int) ([]entity.User, error) {
	where, args := searchFilter(query)

	// Keyset pagination: the id bound keeps iteration memory-bounded and
	// resumable regardless of table size.
	cond := fmt.Sprintf("u.id > $%d", len(args)+1)
	if where == "" {
		where = " WHERE " + cond
	} else {
		where += " AND " + cond
	}
	args = append(args, afterID)

	sql := fmt.Sprintf("%s%s ORDER BY u.id ASC LIMIT $%d", userSelect, where, len(args)+1)
	rows, err := r.pool.Query(ctx, sql, append(args, batch)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, userSelect+" WHERE u.id = $1", id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) CreateWithAddress(ctx context.Context, u *entity.User, a *entity.Address) (*entity.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, u.FirstName, u.LastName, u.Email).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.UserID = u.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO addresses (user_id, country, city, post_code, street)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, a.UserID, a.Country, a.City, a.PostCode, a.Street).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	u.Address = a
	return u, nil
}

func (r *UserRepository) UpdateWithAddress(ctx context.Context, u *entity.User, a *entity.Address) (*entity.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u.UpdatedAt = time.Now()
	res, err := tx.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, updated_at = $4
		WHERE id = $5
	`, u.FirstName, u.LastName, u.Email, u.UpdatedAt, u.ID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}

	// Update the existing address or create one if absent; a user never ends
	// up with two.
	a.UserID = u.ID
	res, err = tx.Exec(ctx, `
		UPDATE addresses
		SET country = $1, city = $2, post_code = $3, street = $4, updated_at = now()
		WHERE user_id = $5
	`, a.Country, a.City, a.PostCode, a.Street, a.UserID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO addresses (user_id, country, city, post_code, street)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`, a.UserID, a.Country, a.City, a.PostCode, a.Street).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	u.Address = a
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The address row goes with the user via ON DELETE CASCADE.
	res, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return tx.Commit(ctx)
}

// scanUser reads one joined user+address row. Address columns come from a LEFT
// JOIN and may all be NULL.
func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var (
		addrID        *int64
		addrUserID    *int64
		country       *string
		city          *string
		postCode      *string
		street        *string
		addrCreatedAt *time.Time
		addrUpdatedAt *time.Time
	)
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt, &u.UpdatedAt,
		&addrID, &addrUserID, &country, &city, &postCode, &street, &addrCreatedAt, &addrUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if addrID != nil {
		u.Address = &entity.Address{
			ID:        *addrID,
			UserID:    *addrUserID,
			Country:   *country,
			City:      *city,
			PostCode:  *postCode,
			Street:    *street,
			CreatedAt: *addrCreatedAt,
			UpdatedAt: *addrUpdatedAt,
		}
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]entity.User, error) {
	users := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
