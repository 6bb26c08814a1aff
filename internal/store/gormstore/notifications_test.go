package gormstore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
)

func TestNotificationReadFlow(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")

	first := &models.Notification{UserID: alice.ID, Type: "connection_request", Title: "New request"}
	second := &models.Notification{UserID: alice.ID, Type: "new_message", Title: "New message"}
	require.NoError(t, s.CreateNotification(first))
	require.NoError(t, s.CreateNotification(second))

	require.NoError(t, s.MarkNotificationRead(first.ID, alice.ID))

	notifications, err := s.GetUserNotifications(alice.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	read := 0
	for _, n := range notifications {
		if n.IsRead {
			read++
		}
	}
	require.Equal(t, 1, read)

	require.NoError(t, s.MarkAllNotificationsRead(alice.ID))
	notifications, err = s.GetUserNotifications(alice.ID)
	require.NoError(t, err)
	for _, n := range notifications {
		require.True(t, n.IsRead)
	}
}

func TestNotificationOwnership(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	n := &models.Notification{UserID: alice.ID, Type: "new_message"}
	require.NoError(t, s.CreateNotification(n))

	// Another user cannot touch it.
	err := s.MarkNotificationRead(n.ID, bob.ID)
	require.ErrorIs(t, err, apperr.ErrNotificationNotFound)
	err = s.DeleteNotification(n.ID, bob.ID)
	require.ErrorIs(t, err, apperr.ErrNotificationNotFound)

	require.NoError(t, s.DeleteNotification(n.ID, alice.ID))
	err = s.DeleteNotification(uuid.New(), alice.ID)
	require.ErrorIs(t, err, apperr.ErrNotificationNotFound)
}
