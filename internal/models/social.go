package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlockedUser is a directed edge; enforcement is symmetric (a block in either
// direction disables new interactions between the pair).
type BlockedUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlockerID uint      `gorm:"index:idx_block_pair,unique;not null" json:"blocker_id"`
	BlockedID uint      `gorm:"index:idx_block_pair,unique;not null" json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

type ConnectionRequest struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"index:idx_conn_request,unique;not null" json:"requester_id"`
	RequesteeID uint             `gorm:"index:idx_conn_request,unique;not null" json:"requestee_id"`
	Status      ConnectionStatus `gorm:"default:pending" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Connection stores an accepted friendship, canonical order UserID1 < UserID2.
type Connection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID1   uint      `gorm:"index:idx_connection_pair,unique;not null" json:"user_id1"`
	UserID2   uint      `gorm:"index:idx_connection_pair,unique;not null" json:"user_id2"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Type        string    `gorm:"not null" json:"type"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ReferenceID *string   `json:"reference_id,omitempty"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
