package models

import "time"

// UserLoginLog audit row for every login attempt
type UserLoginLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`              // primary key
	UserID     uint      `gorm:"index" json:"user_id"`              // matched user, 0 when unknown
	Email      string    `gorm:"index" json:"email"`                // attempted email
	Status     string    `gorm:"index;not null" json:"status"`      // success / failed
	FailReason string    `gorm:"index" json:"fail_reason,omitempty"` // failure detail
	ClientIP   string    `gorm:"type:varchar(64)" json:"client_ip"` // request origin
	UserAgent  string    `gorm:"type:text" json:"user_agent"`       // request user agent
	CreatedAt  time.Time `gorm:"index" json:"created_at"`           // attempt time
}

// TableName sets the table name
func (UserLoginLog) TableName() string {
	return "user_login_logs"
}
