package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification per-user feed row created on status transitions
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // primary key
	UserID    uint           `gorm:"index;not null" json:"user_id"`          // receiving user
	Type      string         `gorm:"index;not null" json:"type"`             // notification type
	Title     string         `gorm:"not null" json:"title"`                  // short headline
	Body      string         `gorm:"type:text" json:"body,omitempty"`        // detail text
	Read      bool           `gorm:"index;not null;default:false" json:"read"` // read flag
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                // creation time
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                // update time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // soft delete
}

// TableName sets the table name
func (Notification) TableName() string {
	return "notifications"
}
