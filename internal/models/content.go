package models

import (
	"time"

	"gorm.io/gorm"
)

// Content deliverable submitted by an influencer against a campaign
type Content struct {
	ID           uint           `gorm:"primarykey" json:"id"`                 // primary key
	CampaignID   uint           `gorm:"index;not null" json:"campaign_id"`    // target campaign
	InfluencerID uint           `gorm:"index;not null" json:"influencer_id"`  // submitting influencer
	Platform     string         `gorm:"index;not null" json:"platform"`       // social platform
	ContentType  string         `gorm:"not null" json:"content_type"`         // post / reel / video / story
	URL          string         `gorm:"type:text" json:"url,omitempty"`       // live post link
	Caption      string         `gorm:"type:text" json:"caption,omitempty"`   // post caption
	Status       string         `gorm:"index;not null" json:"status"`         // content review status
	ReviewNote   string         `gorm:"type:text" json:"review_note,omitempty"` // brand review note
	ReviewedAt   *time.Time     `gorm:"index" json:"reviewed_at,omitempty"`   // review time
	PublishedAt  *time.Time     `gorm:"index" json:"published_at,omitempty"`  // publish time
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`              // creation time
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`              // update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                       // soft delete

	// Engagement metrics, updated by the owning influencer.
	Views    int64 `gorm:"not null;default:0" json:"views"`
	Likes    int64 `gorm:"not null;default:0" json:"likes"`
	Comments int64 `gorm:"not null;default:0" json:"comments"`
	Shares   int64 `gorm:"not null;default:0" json:"shares"`

	Campaign   Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`     // target campaign
	Influencer User     `gorm:"foreignKey:InfluencerID" json:"influencer,omitempty"` // submitting influencer
}

// TableName sets the table name
func (Content) TableName() string {
	return "contents"
}
