package constants

// User role constants
const (
	UserRoleBrand      = "brand"
	UserRoleInfluencer = "influencer"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Campaign status constants
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// Application status constants
const (
	ApplicationStatusApplied   = "applied"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// Invitation status constants.
// InvitationStatusExpired is derived at read time from expires_at and is
// never written to storage.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
	InvitationStatusExpired  = "expired"
)

// Content status constants
const (
	ContentStatusSubmitted = "submitted"
	ContentStatusApproved  = "approved"
	ContentStatusRejected  = "rejected"
	ContentStatusPublished = "published"
)

// Content platform constants
const (
	ContentPlatformInstagram = "instagram"
	ContentPlatformYouTube   = "youtube"
	ContentPlatformTwitter   = "twitter"
	ContentPlatformFacebook  = "facebook"
)

// Subscription plan constants
const (
	SubscriptionPlanFree   = "free"
	SubscriptionPlanGrowth = "growth"
	SubscriptionPlanPro    = "pro"
)

// Subscription status constants
const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// Affiliate profile status constants
const (
	AffiliateProfileStatusActive   = "active"
	AffiliateProfileStatusDisabled = "disabled"
)

// Transaction type constants
const (
	TransactionTypeReferralReward      = "referral_reward"
	TransactionTypeSubscriptionPayment = "subscription_payment"
	TransactionTypeCampaignPayout      = "campaign_payout"
)

// Transaction status constants
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Payment status constants
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
)

// Payment provider constants
const (
	PaymentProviderRazorpay = "razorpay"
)

// Notification type constants
const (
	NotificationTypeApplicationReceived = "application_received"
	NotificationTypeApplicationAccepted = "application_accepted"
	NotificationTypeApplicationRejected = "application_rejected"
	NotificationTypeInvitationReceived  = "invitation_received"
	NotificationTypeInvitationResponded = "invitation_responded"
	NotificationTypeContentSubmitted    = "content_submitted"
	NotificationTypeContentReviewed     = "content_reviewed"
	NotificationTypeSubscriptionChanged = "subscription_changed"
	NotificationTypeReferralReward      = "referral_reward"
)

// Login log constants
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"

	LoginLogFailReasonBadCredentials = "bad_credentials"
	LoginLogFailReasonUserDisabled   = "user_disabled"
	LoginLogFailReasonRateLimited    = "rate_limited"
	LoginLogFailReasonCaptcha        = "captcha_failed"
	LoginLogFailReasonInternalError  = "internal_error"
)

// Captcha provider constants
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// Captcha scene constants
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// Queue constants
const (
	QueueDefault           = "default"
	TaskNotificationEmail  = "notification:email"
	TaskInvitationExpire   = "invitation:expire_sweep"
	TaskSubscriptionExpire = "subscription:expire_sweep"
)

// Cache defaults
const (
	RedisPrefixDefault = "sz"
)

// Currency constants
const (
	SiteCurrencyDefault = "INR"
)

// Referral code constants
const (
	ReferralCodeLength   = 8
	ReferralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)
