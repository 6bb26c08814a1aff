package gormstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
)

func TestCreateOrGetChatIdempotent(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	first, err := s.CreateOrGetChat(alice.ID, bob.ID)
	require.NoError(t, err)
	second, err := s.CreateOrGetChat(bob.ID, alice.ID)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID, "both orders must resolve to one chat")
	require.Less(t, first.User1ID, first.User2ID, "pair must be stored in canonical order")
	require.True(t, first.IsAccepted)
}

func TestCreateOrGetChatSelf(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")

	_, err := s.CreateOrGetChat(alice.ID, alice.ID)
	require.ErrorIs(t, err, apperr.ErrSameUser)
}

func TestCreateOrGetChatBlocked(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	_, err := s.BlockUser(bob.ID, alice.ID)
	require.NoError(t, err)

	// The blocked side cannot create the chat, and neither can the blocker.
	_, err = s.CreateOrGetChat(alice.ID, bob.ID)
	require.ErrorIs(t, err, apperr.ErrUserBlocked)
	_, err = s.CreateOrGetChat(bob.ID, alice.ID)
	require.ErrorIs(t, err, apperr.ErrUserBlocked)
}

func TestHandleChatActionDecline(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	chat, err := s.CreateOrGetChat(alice.ID, bob.ID)
	require.NoError(t, err)
	content := "hello"
	msg, err := s.SendMessage(store.SendMessageParams{ChatID: &chat.ID, SenderID: alice.ID, Content: &content})
	require.NoError(t, err)
	_, err = s.ReactToMessage(msg.ID, bob.ID, "👍")
	require.NoError(t, err)

	_, err = s.HandleChatAction(chat.ID, bob.ID, "decline")
	require.NoError(t, err)

	_, err = s.GetChat(chat.ID)
	require.ErrorIs(t, err, apperr.ErrChatNotFound)
	_, err = s.GetMessage(msg.ID)
	require.ErrorIs(t, err, apperr.ErrMessageNotFound)
	reactions, err := s.GetReactions(msg.ID)
	require.NoError(t, err)
	require.Empty(t, reactions)
}

func TestHandleChatActionBlock(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	chat, err := s.CreateOrGetChat(alice.ID, bob.ID)
	require.NoError(t, err)

	blocked, err := s.HandleChatAction(chat.ID, bob.ID, "block")
	require.NoError(t, err)
	require.NotNil(t, blocked.BlockedBy)
	require.Equal(t, bob.ID, *blocked.BlockedBy)

	// The blocker still sees the chat; the other party does not.
	bobChats, err := s.GetUserChats(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobChats, 1)
	aliceChats, err := s.GetUserChats(alice.ID)
	require.NoError(t, err)
	require.Empty(t, aliceChats)

	// The blocked party cannot send into the chat.
	content := "hi"
	_, err = s.SendMessage(store.SendMessageParams{ChatID: &chat.ID, SenderID: alice.ID, Content: &content})
	require.ErrorIs(t, err, apperr.ErrChatBlocked)

	// Accept clears the block and restores visibility for both.
	_, err = s.HandleChatAction(chat.ID, bob.ID, "accept")
	require.NoError(t, err)
	aliceChats, err = s.GetUserChats(alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceChats, 1)
}

func TestHandleChatActionValidation(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	mallory := seedUser(t, s, "mallory")

	chat, err := s.CreateOrGetChat(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = s.HandleChatAction(chat.ID, mallory.ID, "accept")
	require.ErrorIs(t, err, apperr.ErrNotChatMember)
	_, err = s.HandleChatAction(chat.ID, alice.ID, "archive")
	require.ErrorIs(t, err, apperr.ErrInvalidChatAction)
}

func TestCreateGroupDedupsMembers(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	carol := seedUser(t, s, "carol")

	group, err := s.CreateGroup("trip", alice.ID, []uint{bob.ID, carol.ID, alice.ID, bob.ID})
	require.NoError(t, err)

	for _, id := range []uint{alice.ID, bob.ID, carol.ID} {
		member, err := s.IsGroupMember(group.ID, id)
		require.NoError(t, err)
		require.True(t, member)
	}

	groups, err := s.GetUserGroups(bob.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, "trip", groups[0].Name)

	outsider := seedUser(t, s, "dave")
	member, err := s.IsGroupMember(group.ID, outsider.ID)
	require.NoError(t, err)
	require.False(t, member)
}
