package models

import (
	"time"

	"gorm.io/gorm"
)

// Invitation brand-initiated outreach to a specific influencer
type Invitation struct {
	ID           uint           `gorm:"primarykey" json:"id"`                      // primary key
	BrandID      uint           `gorm:"index;not null" json:"brand_id"`            // inviting brand
	InfluencerID uint           `gorm:"index;not null" json:"influencer_id"`       // invited influencer
	CampaignID   *uint          `gorm:"index" json:"campaign_id,omitempty"`        // optional campaign binding
	Message      string         `gorm:"type:text;not null" json:"message"`         // invitation text
	Terms        string         `gorm:"type:text" json:"terms,omitempty"`          // custom terms
	Status       string         `gorm:"index;not null" json:"status"`              // stored status; expiry is derived at read time
	ExpiresAt    time.Time      `gorm:"index;not null" json:"expires_at"`          // expiry timestamp
	RespondedAt  *time.Time     `gorm:"index" json:"responded_at,omitempty"`       // accept/decline time
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                   // creation time
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                   // update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                            // soft delete

	// Structured response, persisted on accept only.
	ResponseMessage  string `gorm:"type:text" json:"response_message,omitempty"`         // influencer reply
	ResponsePricing  *Money `gorm:"type:decimal(20,2)" json:"response_pricing,omitempty"` // counter pricing
	ResponseTimeline string `gorm:"type:text" json:"response_timeline,omitempty"`        // proposed timeline

	Brand      User      `gorm:"foreignKey:BrandID" json:"brand,omitempty"`           // inviting brand
	Influencer User      `gorm:"foreignKey:InfluencerID" json:"influencer,omitempty"` // invited influencer
	Campaign   *Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`     // bound campaign
}

// TableName sets the table name
func (Invitation) TableName() string {
	return "invitations"
}
