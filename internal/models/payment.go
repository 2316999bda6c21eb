package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment one row per Razorpay order issued for a subscription upgrade
type Payment struct {
	ID              uint           `gorm:"primarykey" json:"id"`                         // primary key
	UserID          uint           `gorm:"index;not null" json:"user_id"`                // paying brand user
	SubscriptionID  uint           `gorm:"index;not null" json:"subscription_id"`        // pending subscription this order activates
	Provider        string         `gorm:"not null" json:"provider"`                     // gateway name (razorpay)
	ProviderOrderID string         `gorm:"index;not null" json:"provider_order_id"`      // gateway order id
	ProviderPayID   string         `gorm:"index" json:"provider_payment_id,omitempty"`   // gateway payment id, set on verify
	Amount          Money          `gorm:"type:decimal(20,2);not null" json:"amount"`    // charged amount
	Currency        string         `gorm:"not null" json:"currency"`                     // currency code
	Status          string         `gorm:"index;not null" json:"status"`                 // payment status
	ProviderPayload JSON           `gorm:"type:text" json:"provider_payload,omitempty"`  // raw verification payload
	PaidAt          *time.Time     `gorm:"index" json:"paid_at,omitempty"`               // verification time
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                      // creation time
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                      // update time
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                               // soft delete
}

// TableName sets the table name
func (Payment) TableName() string {
	return "payments"
}
