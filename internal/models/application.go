package models

import (
	"time"

	"gorm.io/gorm"
)

// Application influencer proposal against a campaign. Rows are never
// deleted, only status-transitioned.
type Application struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // primary key
	CampaignID     uint           `gorm:"index:idx_app_campaign_influencer,unique;not null" json:"campaign_id"` // target campaign
	InfluencerID   uint           `gorm:"index:idx_app_campaign_influencer,unique;not null" json:"influencer_id"` // applying influencer
	Message        string         `gorm:"type:text;not null" json:"message"`                            // proposal text
	ProposedBudget *Money         `gorm:"type:decimal(20,2)" json:"proposed_budget,omitempty"`          // optional counter-offer
	Status         string         `gorm:"index;not null" json:"status"`                                 // application status
	BrandResponse  string         `gorm:"type:text" json:"brand_response,omitempty"`                    // accept message / rejection reason
	AcceptedAt     *time.Time     `gorm:"index" json:"accepted_at,omitempty"`                           // accept time
	RejectedAt     *time.Time     `gorm:"index" json:"rejected_at,omitempty"`                           // reject time
	WithdrawnAt    *time.Time     `gorm:"index" json:"withdrawn_at,omitempty"`                          // withdraw time
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // creation time
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // update time
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // soft delete

	Campaign   Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`     // target campaign
	Influencer User     `gorm:"foreignKey:InfluencerID" json:"influencer,omitempty"` // applying influencer
}

// TableName sets the table name
func (Application) TableName() string {
	return "applications"
}
