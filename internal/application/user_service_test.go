package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prasetyoadi/admin-directory/internal/cache"
	"github.com/prasetyoadi/admin-directory/pkg/events"
)

type userFixture struct {
	svc    *UserService
	search *SearchService
	users  *fakeUserRepo
	notifs *fakeNotifRepo
	broker *fakePublisher
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	users := &fakeUserRepo{}
	notifs := &fakeNotifRepo{}
	broker := &fakePublisher{}
	c := cache.NewMemory(100, 2, time.Minute, 10)
	logger := testLogger()
	search := NewSearchService(users, c, logger, time.Minute)
	svc := NewUserService(users, notifs, search, c, broker, logger, 6)
	return &userFixture{svc: svc, search: search, users: users, notifs: notifs, broker: broker}
}

func sampleInput(email string) (UserInput, AddressInput) {
	return UserInput{FirstName: "Grace", LastName: "Hopper", Email: email},
		AddressInput{Country: "US", City: "Arlington", PostCode: "22201", Street: "Wilson Blvd 1100"}
}

func TestDashboardDataShape(t *testing.T) {
	f := newUserFixture(t)
	f.users.add("Ada", "Lovelace", "ada@example.com")
	for i := 0; i < 9; i++ {
		f.notifs.add("user updated")
	}

	data := f.svc.DashboardData(context.Background(), " ada ", 10, 1)

	require.NotNil(t, data.Users)
	require.Equal(t, int64(1), data.Users.Total)
	require.Equal(t, "ada", data.Search)
	require.Len(t, data.Notifications, 6, "dashboard feed is capped")
}

func TestDashboardDataNeverFails(t *testing.T) {
	users := &fakeUserRepo{failAll: true}
	notifs := &fakeNotifRepo{fail: true}
	logger := testLogger()
	search := NewSearchService(users, nil, logger, time.Minute)
	svc := NewUserService(users, notifs, search, nil, nil, logger, 6)

	data := svc.DashboardData(context.Background(), "ada", 10, 1)

	require.NotNil(t, data.Users)
	require.NotNil(t, data.Users.Items)
	require.Empty(t, data.Users.Items)
	require.NotNil(t, data.Notifications)
	require.Empty(t, data.Notifications)
}

func TestCreateWithAddressPersistsBoth(t *testing.T) {
	f := newUserFixture(t)
	in, addr := sampleInput("grace@example.com")

	created, err := f.svc.CreateWithAddress(context.Background(), in, addr)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.NotNil(t, created.Address)
	require.Equal(t, "Arlington", created.Address.City)
	require.Equal(t, created.ID, created.Address.UserID)
}

func TestCreateDoesNotPublishEvent(t *testing.T) {
	f := newUserFixture(t)
	in, addr := sampleInput("grace@example.com")

	_, err := f.svc.CreateWithAddress(context.Background(), in, addr)
	require.NoError(t, err)
	require.Zero(t, f.broker.count())
}

func TestCreateInvalidatesSearchCache(t *testing.T) {
	f := newUserFixture(t)
	f.users.add("Grace", "Hopper", "grace@example.com")
	ctx := context.Background()

	first, err := f.search.Paginated(ctx, "grace", 10, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Total)

	in, addr := sampleInput("grace2@example.com")
	_, err = f.svc.CreateWithAddress(ctx, in, addr)
	require.NoError(t, err)

	second, err := f.search.Paginated(ctx, "grace", 10, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), second.Total, "mutation must be visible immediately")
}

func TestUpdatePublishesUserUpdatedEvent(t *testing.T) {
	f := newUserFixture(t)
	existing := f.users.add("Ada", "Lovelace", "ada@example.com")
	in, addr := sampleInput("ada.king@example.com")

	updated, err := f.svc.UpdateWithAddress(context.Background(), existing.ID, in, addr)
	require.NoError(t, err)
	require.Equal(t, "ada.king@example.com", updated.Email)

	require.Equal(t, 1, f.broker.count())
	evt, ok := f.broker.published[0].(events.UserUpdated)
	require.True(t, ok)
	require.Equal(t, existing.ID, evt.UserID)
	require.Equal(t, "ada.king@example.com", evt.Email)
}

func TestUpdatePublishFailureDoesNotFailUpdate(t *testing.T) {
	f := newUserFixture(t)
	f.broker.fail = true
	existing := f.users.add("Ada", "Lovelace", "ada@example.com")
	in, addr := sampleInput("ada.king@example.com")

	_, err := f.svc.UpdateWithAddress(context.Background(), existing.ID, in, addr)
	require.NoError(t, err)
}

func TestUpdateUnknownUser(t *testing.T) {
	f := newUserFixture(t)
	in, addr := sampleInput("nobody@example.com")

	_, err := f.svc.UpdateWithAddress(context.Background(), 9999, in, addr)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Zero(t, f.broker.count(), "no event for a failed update")
}

func TestUpdateInvalidatesSearchCache(t *testing.T) {
	f := newUserFixture(t)
	existing := f.users.add("Ada", "Lovelace", "ada@example.com")
	ctx := context.Background()

	first, err := f.search.Paginated(ctx, "lovelace", 10, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Total)

	in := UserInput{FirstName: "Ada", LastName: "King", Email: "ada@example.com"}
	_, err = f.svc.UpdateWithAddress(ctx, existing.ID, in, AddressInput{Country: "UK", City: "London", PostCode: "E1", Street: "Mile End Rd"})
	require.NoError(t, err)

	second, err := f.search.Paginated(ctx, "lovelace", 10, 1)
	require.NoError(t, err)
	require.Zero(t, second.Total, "renamed user must drop out of the old query")
}

func TestDeleteRemovesUser(t *testing.T) {
	f := newUserFixture(t)
	existing := f.users.add("Ada", "Lovelace", "ada@example.com")
	ctx := context.Background()

	require.NoError(t, f.svc.Delete(ctx, existing.ID))

	_, err := f.svc.GetByID(ctx, existing.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUnknownUser(t *testing.T) {
	f := newUserFixture(t)
	require.ErrorIs(t, f.svc.Delete(context.Background(), 9999), ErrUserNotFound)
}

func TestStorageErrorsAreMasked(t *testing.T) {
	users := &fakeUserRepo{failAll: true}
	logger := testLogger()
	search := NewSearchService(users, nil, logger, time.Minute)
	svc := NewUserService(users, &fakeNotifRepo{}, search, nil, nil, logger, 6)
	in, addr := sampleInput("grace@example.com")

	_, err := svc.CreateWithAddress(context.Background(), in, addr)
	require.ErrorIs(t, err, ErrOperationFailed)
}
