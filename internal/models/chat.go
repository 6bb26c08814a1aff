package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageEmoji MessageType = "emoji"
	MessageImage MessageType = "image"
	MessageAudio MessageType = "audio"
)

// Chat is a single direct thread between exactly two users. One row exists per
// unordered pair: User1ID < User2ID is enforced on create so lookups are
// order-independent.
type Chat struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	User1ID    uint      `gorm:"index:idx_chat_pair,unique;not null" json:"user1_id"`
	User2ID    uint      `gorm:"index:idx_chat_pair,unique;not null" json:"user2_id"`
	IsAccepted bool      `gorm:"default:true" json:"is_accepted"`
	BlockedBy  *uint     `json:"blocked_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// HasParticipant reports whether userID is one of the two chat members.
func (c *Chat) HasParticipant(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Peer returns the other participant of the chat.
func (c *Chat) Peer(userID uint) uint {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

type Group struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatorID uint      `gorm:"not null" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type GroupMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GroupID  uuid.UUID `gorm:"type:uuid;index:idx_group_member,unique;not null" json:"group_id"`
	UserID   uint      `gorm:"index:idx_group_member,unique;not null" json:"user_id"`
	IsAdmin  bool      `gorm:"default:false" json:"is_admin"`
	JoinedAt time.Time `json:"joined_at"`
}

// Message belongs to exactly one of a chat or a group. Content and MediaURL are
// nil after unsend; IsDeletedForAll is the terminal tombstone flag and is never
// cleared once set.
type Message struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID          *uuid.UUID  `gorm:"type:uuid;index" json:"chat_id,omitempty"`
	GroupID         *uuid.UUID  `gorm:"type:uuid;index" json:"group_id,omitempty"`
	SenderID        uint        `gorm:"index;not null" json:"sender_id"`
	Content         *string     `json:"content"`
	MediaURL        *string     `json:"media_url,omitempty"`
	MessageType     MessageType `gorm:"default:text" json:"message_type"`
	IsDeletedForAll bool        `gorm:"default:false" json:"is_deleted_for_all"`
	CreatedAt       time.Time   `json:"created_at"`
	EditedAt        *time.Time  `json:"edited_at,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MessageVisibility marks a message hidden for one user only ("delete for me").
// Rows are append-only; there is no unhide.
type MessageVisibility struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;index:idx_msg_visibility,unique;not null" json:"message_id"`
	UserID    uint      `gorm:"index:idx_msg_visibility,unique;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Reaction holds at most one emoji per (message, user); a second react
// overwrites the emoji.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;index:idx_reaction_pair,unique;not null" json:"message_id"`
	UserID    uint      `gorm:"index:idx_reaction_pair,unique;not null" json:"user_id"`
	Emoji     string    `gorm:"not null" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}
