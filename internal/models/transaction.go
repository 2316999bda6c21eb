package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction ledger row. Earnings and reward totals are always derived
// by summing these rows, never read from a stored counter.
type Transaction struct {
	ID          uint           `gorm:"primarykey" json:"id"`                          // primary key
	UserID      uint           `gorm:"index;not null" json:"user_id"`                 // beneficiary user
	Type        string         `gorm:"index;not null" json:"type"`                    // referral_reward / subscription_payment / campaign_payout
	Status      string         `gorm:"index;not null" json:"status"`                  // pending / completed / failed
	Amount      Money          `gorm:"type:decimal(20,2);not null" json:"amount"`     // amount, INR
	Currency    string         `gorm:"not null;default:'INR'" json:"currency"`        // currency code
	ReferenceID *uint          `gorm:"index" json:"reference_id,omitempty"`           // related row (referred user, payment, campaign)
	Description string         `gorm:"type:text" json:"description,omitempty"`        // human readable context
	CompletedAt *time.Time     `gorm:"index" json:"completed_at,omitempty"`           // completion time
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                       // creation time
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                       // update time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                // soft delete
}

// TableName sets the table name
func (Transaction) TableName() string {
	return "transactions"
}
