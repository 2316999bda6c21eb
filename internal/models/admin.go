package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin platform operator account
type Admin struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                 // primary key
	Username           string         `gorm:"uniqueIndex;not null" json:"username"` // login name
	PasswordHash       string         `gorm:"not null" json:"-"`                    // bcrypt hash
	IsSuper            bool           `gorm:"default:false" json:"is_super"`        // bypasses RBAC checks
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`          // bumped to revoke every issued token
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                       // tokens issued before this are rejected
	LastLoginAt        *time.Time     `json:"last_login_at"`                        // last successful login
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`              // creation time
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`              // update time
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                       // soft delete
}

// TableName sets the table name
func (Admin) TableName() string {
	return "admins"
}
