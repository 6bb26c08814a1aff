package store

import (
	"time"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/google/uuid"
)

// ProfilePatch is a tagged-optional record: nil fields are left untouched.
type ProfilePatch struct {
	DisplayName     *string
	Bio             *string
	Location        *string
	ProfileImageURL *string
}

// MessageFilter narrows message listings. SearchText matches content
// case-insensitively as a substring.
type MessageFilter struct {
	SearchText string
	Type       models.MessageType
}

// SendMessageParams targets exactly one of ChatID / GroupID.
type SendMessageParams struct {
	ChatID      *uuid.UUID
	GroupID     *uuid.UUID
	SenderID    uint
	Content     *string
	MediaURL    *string
	MessageType models.MessageType
}

type Store interface {
	// User operations
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByPhone(countryCode, phoneNumber string) (*models.User, error)
	SearchUsers(query string, limit int) ([]models.User, error)
	TouchLastLogin(userID uint, at time.Time) error
	UpdateAccountType(userID uint, accountType models.AccountType) error

	// Profile operations
	CreateProfile(profile *models.UserProfile) error
	GetProfile(userID uint) (*models.UserProfile, error)
	PatchProfile(userID uint, patch ProfilePatch) (*models.UserProfile, error)

	// OTP operations
	CreateOTP(otp *models.OTP) error
	VerifyOTP(countryCode, phoneNumber, code, purpose string) error

	// Refresh token operations
	CreateRefreshToken(token *models.RefreshToken) error
	GetRefreshToken(token string) (*models.RefreshToken, error)
	RevokeRefreshToken(token string) error

	// Chat directory
	CreateOrGetChat(userA, userB uint) (*models.Chat, error)
	GetChat(chatID uuid.UUID) (*models.Chat, error)
	HandleChatAction(chatID uuid.UUID, actor uint, action string) (*models.Chat, error)
	GetUserChats(userID uint) ([]models.Chat, error)

	// Groups
	CreateGroup(name string, creatorID uint, memberIDs []uint) (*models.Group, error)
	GetGroup(groupID uuid.UUID) (*models.Group, error)
	GetUserGroups(userID uint) ([]models.Group, error)
	IsGroupMember(groupID uuid.UUID, userID uint) (bool, error)

	// Message engine
	SendMessage(p SendMessageParams) (*models.Message, error)
	GetMessage(messageID uuid.UUID) (*models.Message, error)
	MessageRecipients(msg *models.Message) ([]uint, error)
	EditMessage(messageID uuid.UUID, actor uint, content string) (*models.Message, error)
	DeleteMessageForUser(messageID uuid.UUID, actor uint) error
	DeleteMessageForAll(messageID uuid.UUID, actor uint) (*models.Message, error)
	UnsendMessage(messageID uuid.UUID, actor uint) (*models.Message, error)
	ReactToMessage(messageID uuid.UUID, actor uint, emoji string) (*models.Reaction, error)
	RemoveReaction(messageID uuid.UUID, actor uint) error
	ForwardMessage(messageID uuid.UUID, sender uint, targetChat, targetGroup *uuid.UUID) (*models.Message, error)
	GetChatMessages(chatID uuid.UUID, viewer uint, filter MessageFilter) ([]models.Message, error)
	GetGroupMessages(groupID uuid.UUID, viewer uint, filter MessageFilter) ([]models.Message, error)
	GetReactions(messageID uuid.UUID) ([]models.Reaction, error)

	// Blocking
	BlockUser(blockerID, blockedID uint) (*models.BlockedUser, error)
	UnblockUser(blockerID, blockedID uint) error
	IsBlocked(a, b uint) (bool, error)
	GetBlockedUsers(blockerID uint) ([]models.User, error)

	// Connections
	CreateConnectionRequest(requesterID, requesteeID uint) (*models.ConnectionRequest, error)
	GetReceivedConnectionRequests(userID uint) ([]models.ConnectionRequest, error)
	GetSentConnectionRequests(userID uint) ([]models.ConnectionRequest, error)
	UpdateConnectionRequest(requestID uint, actor uint, status models.ConnectionStatus) (*models.ConnectionRequest, error)
	GetUserConnections(userID uint) ([]models.Connection, error)
	AreConnected(a, b uint) (bool, error)

	// Posts
	CreatePost(post *models.Post) error
	GetUserPosts(userID uint, postType models.PostType) ([]models.Post, error)
	CountUserPosts(userID uint) (int64, error)

	// Notifications
	CreateNotification(n *models.Notification) error
	GetUserNotifications(userID uint) ([]models.Notification, error)
	MarkNotificationRead(id uuid.UUID, userID uint) error
	MarkAllNotificationsRead(userID uint) error
	DeleteNotification(id uuid.UUID, userID uint) error
}
