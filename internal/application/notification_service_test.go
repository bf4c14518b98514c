package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnreadClampsLimit(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo, testLogger())
	ctx := context.Background()

	_, err := svc.Unread(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, MaxFeedLimit, repo.lastLimit)

	_, err = svc.Unread(ctx, 50)
	require.NoError(t, err)
	require.Equal(t, MaxFeedLimit, repo.lastLimit)

	_, err = svc.Unread(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 3, repo.lastLimit)
}

func TestUnreadNewestFirst(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo, testLogger())
	repo.add("first")
	repo.add("second")
	repo.add("third")

	notifs, err := svc.Unread(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, notifs, 3)
	require.Equal(t, "third", notifs[0].Message)
	require.Equal(t, "first", notifs[2].Message)
}

func TestMarkReadReturnsFreshFeed(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo, testLogger())
	a := repo.add("a")
	repo.add("b")

	notifs, err := svc.MarkRead(context.Background(), []int64{a.ID})
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.Equal(t, "b", notifs[0].Message)

	require.True(t, repo.notifs[0].Read)
	require.NotNil(t, repo.notifs[0].ReadAt)
}

func TestMarkReadIgnoresUnknownIDs(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo, testLogger())
	repo.add("a")

	notifs, err := svc.MarkRead(context.Background(), []int64{42, 43})
	require.NoError(t, err)
	require.Len(t, notifs, 1, "unknown ids are a no-op")
}

func TestMarkReadEmptyIDs(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo, testLogger())
	repo.add("a")

	notifs, err := svc.MarkRead(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
}
