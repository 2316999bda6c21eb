package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign brand-authored marketing request influencers apply to
type Campaign struct {
	ID          uint           `gorm:"primarykey" json:"id"`                            // primary key
	BrandID     uint           `gorm:"index;not null" json:"brand_id"`                  // owning brand user
	Title       string         `gorm:"not null" json:"title"`                           // campaign title
	Description string         `gorm:"type:text" json:"description"`                    // long form brief
	Budget      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"budget"` // monthly budget, INR
	Platforms   StringArray    `gorm:"type:text" json:"platforms"`                      // targeted platforms
	Hashtags    StringArray    `gorm:"type:text" json:"hashtags,omitempty"`             // required hashtags
	Task        string         `gorm:"type:text" json:"task,omitempty"`                 // deliverable description
	Status      string         `gorm:"index;not null" json:"status"`                    // campaign status
	StartsAt    *time.Time     `gorm:"index" json:"starts_at,omitempty"`                // optional run window start
	EndsAt      *time.Time     `gorm:"index" json:"ends_at,omitempty"`                  // optional run window end
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                         // creation time
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                         // update time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                  // soft delete

	// Aggregate counters. Adjusted in the same transaction as every
	// application transition and recomputable from the applications table.
	TotalApplications    int64 `gorm:"not null;default:0" json:"total_applications"`
	PendingApplications  int64 `gorm:"not null;default:0" json:"pending_applications"`
	AcceptedApplications int64 `gorm:"not null;default:0" json:"accepted_applications"`
	RejectedApplications int64 `gorm:"not null;default:0" json:"rejected_applications"`

	Brand User `gorm:"foreignKey:BrandID" json:"brand,omitempty"` // owning brand
}

// TableName sets the table name
func (Campaign) TableName() string {
	return "campaigns"
}
