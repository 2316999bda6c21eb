package models

import (
	"time"

	"gorm.io/gorm"
)

// Entitlements feature snapshot frozen when a plan is purchased
type Entitlements struct {
	MaxCampaigns     int    `gorm:"not null;default:0" json:"max_campaigns"`          // -1 means unlimited
	MaxBudget        Money  `gorm:"type:decimal(20,2);not null;default:0" json:"max_budget"` // per-campaign budget cap
	AnalyticsTier    string `gorm:"default:'basic'" json:"analytics_tier"`            // basic / advanced / full
	SupportTier      string `gorm:"default:'community'" json:"support_tier"`          // community / priority / dedicated
	VerificationTier string `gorm:"default:'none'" json:"verification_tier"`          // none / verified / premium
	CustomBranding   bool   `gorm:"default:false" json:"custom_branding"`             // custom branding flag
	APIAccess        bool   `gorm:"default:false" json:"api_access"`                  // API access flag
}

// Subscription brand billing plan record
type Subscription struct {
	ID        uint           `gorm:"primarykey" json:"id"`             // primary key
	BrandID   uint           `gorm:"index;not null" json:"brand_id"`   // owning brand user
	PlanType  string         `gorm:"index;not null" json:"plan_type"`  // free / growth / pro
	Status    string         `gorm:"index;not null" json:"status"`     // subscription status
	StartDate *time.Time     `gorm:"index" json:"start_date"`          // period start, set on activation
	EndDate   *time.Time     `gorm:"index" json:"end_date"`            // period end; cancelled keeps access until then
	PaymentID *uint          `gorm:"index" json:"payment_id,omitempty"` // activating payment
	Features  Entitlements   `gorm:"embedded;embeddedPrefix:feature_" json:"features"` // entitlement snapshot
	CreatedAt time.Time      `gorm:"index" json:"created_at"`          // creation time
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`          // update time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                   // soft delete

	Brand User `gorm:"foreignKey:BrandID" json:"brand,omitempty"` // owning brand
}

// TableName sets the table name
func (Subscription) TableName() string {
	return "subscriptions"
}
