package models

import (
	"time"

	"gorm.io/gorm"
)

// AffiliateProfile per-influencer referral record, created lazily on
// first access. Exactly one per user, enforced by the unique index.
type AffiliateProfile struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                      // primary key
	UserID       uint           `gorm:"not null;uniqueIndex" json:"user_id"`                       // owning influencer
	ReferralCode string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"referral_code"` // 8-char A-Z0-9 code
	Status       string         `gorm:"type:varchar(20);not null;index" json:"status"`             // profile status
	RewardAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"reward_amount"` // per-referral reward snapshot
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                   // creation time
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                   // update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                            // soft delete

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"` // owning influencer
}

// TableName sets the table name
func (AffiliateProfile) TableName() string {
	return "affiliate_profiles"
}
