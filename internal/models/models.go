package models

import "time"

type AccountType string

const (
	AccountPublic    AccountType = "public"
	AccountPrivate   AccountType = "private"
	AccountAnonymous AccountType = "anonymous"
)

type User struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	Username          string      `gorm:"uniqueIndex;not null" json:"username"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	CountryCode       string      `gorm:"not null" json:"country_code"`
	PhoneNumber       string      `gorm:"index;not null" json:"phone_number"`
	PasswordHash      string      `json:"-"`
	DateOfBirth       *time.Time  `json:"date_of_birth,omitempty"`
	ProfilePictureURL *string     `json:"profile_picture_url,omitempty"`
	AccountType       AccountType `gorm:"default:public" json:"account_type"`
	IsActive          bool        `gorm:"default:true" json:"is_active"`
	LastLoginAt       *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

type UserProfile struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName     string    `gorm:"size:50;not null" json:"display_name"`
	Bio             *string   `gorm:"size:250" json:"bio,omitempty"`
	Location        *string   `gorm:"size:255" json:"location,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type OTP struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"`
	CountryCode string    `gorm:"not null" json:"country_code"`
	PhoneNumber string    `gorm:"index;not null" json:"phone_number"`
	Code        string    `gorm:"not null" json:"-"`
	Purpose     string    `gorm:"not null" json:"purpose"`
	IsVerified  bool      `gorm:"default:false" json:"is_verified"`
	Attempts    int       `gorm:"default:0" json:"attempts"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	IsValid   bool      `gorm:"default:true" json:"is_valid"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type PostType string

const (
	PostTypePost PostType = "post"
	PostTypeClip PostType = "clip"
	PostTypeTag  PostType = "tag"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Caption   *string   `json:"caption,omitempty"`
	MediaURL  string    `gorm:"not null" json:"media_url"`
	Type      PostType  `gorm:"not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
