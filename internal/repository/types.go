package repository

import "time"

// CampaignListFilter filters campaign listings.
type CampaignListFilter struct {
	Page        int
	PageSize    int
	BrandID     uint
	Status      string
	Platform    string
	Keyword     string
	OnlyActive  bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ApplicationListFilter filters application listings.
type ApplicationListFilter struct {
	Page         int
	PageSize     int
	CampaignID   uint
	InfluencerID uint
	BrandID      uint
	Status       string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// InvitationListFilter filters invitation listings.
type InvitationListFilter struct {
	Page         int
	PageSize     int
	BrandID      uint
	InfluencerID uint
	CampaignID   uint
	Status       string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// ContentListFilter filters content listings.
type ContentListFilter struct {
	Page         int
	PageSize     int
	CampaignID   uint
	InfluencerID uint
	BrandID      uint
	Platform     string
	Status       string
}

// SubscriptionListFilter filters subscription listings.
type SubscriptionListFilter struct {
	Page        int
	PageSize    int
	BrandID     uint
	PlanType    string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// TransactionListFilter filters ledger transaction listings.
type TransactionListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Type        string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PaymentListFilter filters payment listings.
type PaymentListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Provider    string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// NotificationListFilter filters notification listings.
type NotificationListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	Type       string
	OnlyUnread bool
}

// UserListFilter filters user listings.
type UserListFilter struct {
	Page          int
	PageSize      int
	Keyword       string
	Role          string
	Status        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	LastLoginFrom *time.Time
	LastLoginTo   *time.Time
}

// UserLoginLogListFilter filters login log listings.
type UserLoginLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Email       string
	Status      string
	FailReason  string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AffiliateProfileListFilter filters affiliate profile listings.
type AffiliateProfileListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Code     string
	Status   string
	Keyword  string
}
