package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prasetyoadi/admin-directory/internal/cache"
	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
	"github.com/prasetyoadi/admin-directory/internal/domain/repository"
	"github.com/prasetyoadi/admin-directory/internal/monitoring"
	"github.com/prasetyoadi/admin-directory/pkg/events"
)

var (
	// ErrUserNotFound maps to 404 at the HTTP layer.
	ErrUserNotFound = errors.New("user not found")
	// ErrOperationFailed hides storage details from callers; the underlying
	// error is logged in full.
	ErrOperationFailed = errors.New("operation failed")
)

// EventPublisher pushes domain events onto the message broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserInput carries the mutable user fields for create and update.
type UserInput struct {
	FirstName string
	LastName  string
	Email     string
}

// AddressInput carries the address fields attached to a user mutation.
type AddressInput struct {
	Country  string
	City     string
	PostCode string
	Street   string
}

// DashboardData is the composite payload behind the admin landing page.
type DashboardData struct {
	Users         *entity.UserPage      `json:"users"`
	Search        string                `json:"search"`
	Notifications []entity.Notification `json:"notifications"`
}

// UserService owns user mutations and the dashboard read. Mutations
// invalidate the search cache synchronously before returning; updates
// additionally publish a UserUpdated event.
type UserService struct {
	users      repository.UserRepository
	notifs     repository.NotificationRepository
	search     *SearchService
	cache      cache.Cache
	events     EventPublisher
	logger     *logrus.Logger
	notifLimit int
}

func NewUserService(
	users repository.UserRepository,
	notifs repository.NotificationRepository,
	search *SearchService,
	c cache.Cache,
	publisher EventPublisher,
	logger *logrus.Logger,
	notifLimit int,
) *UserService {
	if notifLimit < 1 {
		notifLimit = 6
	}
	return &UserService{
		users:      users,
		notifs:     notifs,
		search:     search,
		cache:      c,
		events:     publisher,
		logger:     logger,
		notifLimit: notifLimit,
	}
}

// DashboardData assembles the paginated user list and the unread notification
// feed. It never fails: a broken cached path retries uncached with the same
// arguments, and any remaining failure degrades to an empty section so the
// page always renders.
func (s *UserService) DashboardData(ctx context.Context, query string, perPage, page int) *DashboardData {
	users, err := s.search.Paginated(ctx, query, perPage, page)
	if err != nil {
		s.logger.WithError(err).Warn("dashboard search failed, retrying uncached")
		users, err = s.search.paginatedDirect(ctx, query, clampPerPage(perPage), maxInt(page, 1))
	}
	if err != nil {
		s.logger.WithError(err).Error("dashboard search failed")
		users = &entity.UserPage{
			Items:   []entity.User{},
			Page:    maxInt(page, 1),
			PerPage: clampPerPage(perPage),
			Search:  query,
		}
	}

	notifs, err := s.notifs.Unread(ctx, s.notifLimit)
	if err != nil {
		s.logger.WithError(err).Error("dashboard notifications failed")
		notifs = []entity.Notification{}
	}
	if notifs == nil {
		notifs = []entity.Notification{}
	}

	return &DashboardData{
		Users:         users,
		Search:        users.Search,
		Notifications: notifs,
	}
}

// GetByID returns a single user with address.
func (s *UserService) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.WithError(err).WithField("user_id", id).Error("get user failed")
		return nil, ErrOperationFailed
	}
	return user, nil
}

// CreateWithAddress persists a user and its address in one transaction, then
// flushes the search cache. No event is published on create.
func (s *UserService) CreateWithAddress(ctx context.Context, input UserInput, addr AddressInput) (*entity.User, error) {
	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	}
	created, err := s.users.CreateWithAddress(ctx, user, addressFromInput(addr))
	if err != nil {
		s.logger.WithError(err).WithField("email", input.Email).Error("create user failed")
		return nil, ErrOperationFailed
	}

	s.invalidateSearchCache(ctx)
	return created, nil
}

// UpdateWithAddress overwrites the user and its address in one transaction,
// flushes the search cache, and publishes a UserUpdated event. Event publish
// failures are logged and do not fail the update.
func (s *UserService) UpdateWithAddress(ctx context.Context, id int64, input UserInput, addr AddressInput) (*entity.User, error) {
	user := &entity.User{
		ID:        id,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	}
	updated, err := s.users.UpdateWithAddress(ctx, user, addressFromInput(addr))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.WithError(err).WithField("user_id", id).Error("update user failed")
		return nil, ErrOperationFailed
	}

	s.invalidateSearchCache(ctx)
	s.publishUserUpdated(ctx, updated)
	return updated, nil
}

// Delete removes the user; the address row goes with it via cascade. The
// search cache is flushed afterwards.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.WithError(err).WithField("user_id", id).Error("delete user failed")
		return ErrOperationFailed
	}

	s.invalidateSearchCache(ctx)
	return nil
}

func (s *UserService) publishUserUpdated(ctx context.Context, user *entity.User) {
	if s.events == nil {
		return
	}
	evt := events.UserUpdated{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		UpdatedAt: user.UpdatedAt,
	}
	if evt.UpdatedAt.IsZero() {
		evt.UpdatedAt = time.Now()
	}
	if err := s.events.PublishJSON(ctx, evt); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("user updated event publish failed")
	}
}

func (s *UserService) invalidateSearchCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := cache.FlushTags(ctx, s.cache, cache.SearchTags()...); err != nil {
		s.logger.WithError(err).Warn("search cache invalidation failed")
		return
	}
	monitoring.ObserveCacheFlush()
}

func addressFromInput(addr AddressInput) *entity.Address {
	return &entity.Address{
		Country:  addr.Country,
		City:     addr.City,
		PostCode: addr.PostCode,
		Street:   addr.Street,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
