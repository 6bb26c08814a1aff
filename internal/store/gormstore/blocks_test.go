package gormstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
)

func TestIsBlockedSymmetric(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	_, err := s.BlockUser(alice.ID, bob.ID)
	require.NoError(t, err)

	blocked, err := s.IsBlocked(alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, blocked)
	blocked, err = s.IsBlocked(bob.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, blocked)
}

func TestBlockUserIdempotent(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	first, err := s.BlockUser(alice.ID, bob.ID)
	require.NoError(t, err)
	second, err := s.BlockUser(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	_, err = s.BlockUser(alice.ID, alice.ID)
	require.ErrorIs(t, err, apperr.ErrSameUser)
}

func TestBlockSeversConnection(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	req, err := s.CreateConnectionRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.UpdateConnectionRequest(req.ID, bob.ID, models.ConnectionAccepted)
	require.NoError(t, err)
	connected, err := s.AreConnected(alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, connected)

	_, err = s.BlockUser(alice.ID, bob.ID)
	require.NoError(t, err)

	connected, err = s.AreConnected(alice.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, connected, "blocking must sever the connection")
}

func TestUnblockRestoresInteraction(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	_, err := s.BlockUser(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.CreateOrGetChat(alice.ID, bob.ID)
	require.ErrorIs(t, err, apperr.ErrUserBlocked)

	require.NoError(t, s.UnblockUser(alice.ID, bob.ID))
	_, err = s.CreateOrGetChat(alice.ID, bob.ID)
	require.NoError(t, err)
}

func TestGetBlockedUsers(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	carol := seedUser(t, s, "carol")

	_, err := s.BlockUser(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.BlockUser(alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = s.BlockUser(bob.ID, carol.ID)
	require.NoError(t, err)

	users, err := s.GetBlockedUsers(alice.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
}
