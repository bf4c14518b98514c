package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
	"github.com/prasetyoadi/admin-directory/internal/domain/repository"
)

// fakeUserRepo is an in-memory UserRepository. Matching is a naive substring
// scan, which is enough to exercise the service layer.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  []entity.User
	nextID int64

	searchPageCalls int
	lastPerPage     int
	lastPage        int
	lastLimit       int
	failAll         bool
}

func (f *fakeUserRepo) add(first, last, email string) entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u := entity.User{
		ID:        f.nextID,
		FirstName: first,
		LastName:  last,
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Address: &entity.Address{
			ID:       f.nextID,
			UserID:   f.nextID,
			Country:  "NL",
			City:     "Amsterdam",
			PostCode: "1011",
			Street:   "Damrak 1",
		},
	}
	f.users = append(f.users, u)
	return u
}

func (f *fakeUserRepo) match(query string) []entity.User {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []entity.User
	for _, u := range f.users {
		hay := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email)
		if q == "" || strings.Contains(hay, q) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeUserRepo) SearchPage(_ context.Context, query string, perPage, page int) ([]entity.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, 0, errors.New("storage down")
	}
	f.searchPageCalls++
	f.lastPerPage = perPage
	f.lastPage = page

	matched := f.match(query)
	total := int64(len(matched))
	offset := (page - 1) * perPage
	if offset >= len(matched) {
		return []entity.User{}, total, nil
	}
	end := offset + perPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeUserRepo) SearchCollection(_ context.Context, query string, limit int) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("storage down")
	}
	f.lastLimit = limit

	matched := f.match(query)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeUserRepo) SearchAfter(_ context.Context, query string, afterID int64, batch int) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("storage down")
	}

	matched := f.match(query)
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	var out []entity.User
	for _, u := range matched {
		if u.ID > afterID {
			out = append(out, u)
		}
		if len(out) == batch {
			break
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) CreateWithAddress(_ context.Context, user *entity.User, addr *entity.Address) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("storage down")
	}
	f.nextID++
	u := *user
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	a := *addr
	a.ID = f.nextID
	a.UserID = u.ID
	u.Address = &a
	f.users = append(f.users, u)
	return &u, nil
}

func (f *fakeUserRepo) UpdateWithAddress(_ context.Context, user *entity.User, addr *entity.Address) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("storage down")
	}
	for i := range f.users {
		if f.users[i].ID == user.ID {
			u := f.users[i]
			u.FirstName = user.FirstName
			u.LastName = user.LastName
			u.Email = user.Email
			u.UpdatedAt = time.Now()
			a := *addr
			a.UserID = u.ID
			u.Address = &a
			f.users[i] = u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeNotifRepo is an in-memory NotificationRepository.
type fakeNotifRepo struct {
	mu        sync.Mutex
	notifs    []entity.Notification
	nextID    int64
	clock     time.Time
	lastLimit int
	fail      bool
}

func (f *fakeNotifRepo) add(msg string) entity.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	n := entity.Notification{
		ID:        f.nextID,
		Type:      entity.NotificationTypeUserUpdated,
		Message:   msg,
		CreatedAt: f.clock,
	}
	f.notifs = append(f.notifs, n)
	return n
}

func (f *fakeNotifRepo) Create(_ context.Context, n *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("storage down")
	}
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	n.ID = f.nextID
	n.CreatedAt = f.clock
	f.notifs = append(f.notifs, *n)
	return nil
}

func (f *fakeNotifRepo) Unread(_ context.Context, limit int) ([]entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("storage down")
	}
	f.lastLimit = limit

	var out []entity.Notification
	for _, n := range f.notifs {
		if !n.Read {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotifRepo) MarkRead(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("storage down")
	}
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	now := time.Now()
	for i := range f.notifs {
		if wanted[f.notifs[i].ID] && !f.notifs[i].Read {
			f.notifs[i].Read = true
			f.notifs[i].ReadAt = &now
		}
	}
	return nil
}

// fakePublisher records published event payloads.
type fakePublisher struct {
	mu        sync.Mutex
	published []any
	fail      bool
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broker down")
	}
	f.published = append(f.published, body)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

// downCache fails every operation, standing in for an unreachable backend.
type downCache struct{}

func (downCache) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("cache down")
}

func (downCache) Set(context.Context, string, any, time.Duration, ...string) error {
	return errors.New("cache down")
}
