package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto
// response codes.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password too weak")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserDisabled       = errors.New("account disabled")
	ErrInvalidRole        = errors.New("invalid role")
	ErrForbidden          = errors.New("operation not allowed")

	ErrCampaignNotActive     = errors.New("campaign is not active")
	ErrCampaignNotEditable   = errors.New("campaign can no longer be edited")
	ErrCampaignLimitReached  = errors.New("campaign limit reached for current plan")
	ErrBudgetLimitExceeded   = errors.New("budget exceeds current plan limit")
	ErrInvalidStatusChange   = errors.New("invalid status transition")
	ErrDuplicateApplication  = errors.New("already applied to this campaign")
	ErrApplicationNotPending = errors.New("application already decided")
	ErrInvitationNotPending  = errors.New("invitation already responded or expired")
	ErrInvitationExpired     = errors.New("invitation expired")
	ErrDuplicateInvitation   = errors.New("a pending invitation already exists")
	ErrSelfInvitation        = errors.New("cannot invite yourself")

	ErrReferralDisabled     = errors.New("referral profile disabled")
	ErrReferralCodeInvalid  = errors.New("referral code not recognized")
	ErrReferralCodeConflict = errors.New("could not allocate a unique referral code")
	ErrSelfReferral         = errors.New("cannot use your own referral code")

	ErrPlanUnknown           = errors.New("unknown subscription plan")
	ErrPlanIsFree            = errors.New("free plan does not require payment")
	ErrSubscriptionNotFound  = errors.New("no subscription awaiting payment")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentSignature      = errors.New("payment signature mismatch")
	ErrPaymentAlreadyHandled = errors.New("payment already processed")
	ErrPaymentGatewayFailed  = errors.New("payment gateway request failed")
	ErrSubscriptionNotActive = errors.New("subscription is not active")

	ErrContentNotReviewable  = errors.New("content cannot be reviewed in its current state")
	ErrContentNotPublishable = errors.New("content must be approved before publishing")

	ErrCaptchaRequired = errors.New("captcha required")
	ErrCaptchaInvalid  = errors.New("captcha invalid")

	ErrEmailServiceNotConfigured = errors.New("email delivery not configured")
	ErrProfileEmpty              = errors.New("nothing to update")
	ErrTooManyAttempts           = errors.New("too many attempts, try again later")
)
