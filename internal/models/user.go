package models

import (
	"time"

	"gorm.io/gorm"
)

// User marketplace account (brand or influencer)
type User struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                     // primary key
	Email               string         `gorm:"uniqueIndex;not null" json:"email"`        // login email
	PasswordHash        string         `gorm:"not null" json:"-"`                        // bcrypt hash, never serialized
	DisplayName         string         `gorm:"default:''" json:"display_name"`           // public name
	Role                string         `gorm:"index;not null" json:"role"`               // brand / influencer
	Status              string         `gorm:"default:'active'" json:"status"`           // account status
	TokenVersion        uint64         `gorm:"not null;default:0" json:"-"`              // bumped to revoke every issued token
	TokenInvalidBefore  *time.Time     `gorm:"index" json:"-"`                           // tokens issued before this are rejected
	ReferredByCode      string         `gorm:"index" json:"referred_by,omitempty"`       // raw referral code entered at signup
	ReferredByProfileID *uint          `gorm:"index" json:"-"`                           // resolved referrer profile, survives code regeneration
	LastLoginAt         *time.Time     `json:"last_login_at"`                            // last successful login
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                  // creation time
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`                  // update time
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                           // soft delete
}

// TableName sets the table name
func (User) TableName() string {
	return "users"
}
