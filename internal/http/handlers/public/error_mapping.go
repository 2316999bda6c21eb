package public

import (
	"errors"

	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a service sentinel onto an envelope response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// Ownership and lookup failures shared by every resource handler.
var resourceAccessErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "resource not found"},
	{target: service.ErrForbidden, code: response.CodeForbidden, msg: "you do not own this resource"},
}

var campaignWriteErrorRules = []mappedHandlerError{
	{target: service.ErrProfileEmpty, code: response.CodeBadRequest, msg: "campaign title is required"},
	{target: service.ErrCampaignLimitReached, code: response.CodeForbidden, msg: "campaign limit reached for current plan"},
	{target: service.ErrBudgetLimitExceeded, code: response.CodeForbidden, msg: "budget exceeds current plan limit"},
	{target: service.ErrCampaignNotEditable, code: response.CodeConflict, msg: "campaign can no longer be edited"},
	{target: service.ErrInvalidStatusChange, code: response.CodeConflict, msg: "invalid status transition"},
}

var applicationErrorRules = []mappedHandlerError{
	{target: service.ErrCampaignNotActive, code: response.CodeBadRequest, msg: "campaign is not accepting applications"},
	{target: service.ErrProfileEmpty, code: response.CodeBadRequest, msg: "application message is required"},
	{target: service.ErrDuplicateApplication, code: response.CodeConflict, msg: "already applied to this campaign"},
	{target: service.ErrApplicationNotPending, code: response.CodeConflict, msg: "application already decided"},
}

var invitationErrorRules = []mappedHandlerError{
	{target: service.ErrSelfInvitation, code: response.CodeBadRequest, msg: "cannot invite yourself"},
	{target: service.ErrProfileEmpty, code: response.CodeBadRequest, msg: "invitation message is required"},
	{target: service.ErrInvalidRole, code: response.CodeBadRequest, msg: "invitations can only target influencers"},
	{target: service.ErrUserDisabled, code: response.CodeBadRequest, msg: "influencer account is disabled"},
	{target: service.ErrDuplicateInvitation, code: response.CodeConflict, msg: "a pending invitation already exists"},
	{target: service.ErrInvitationExpired, code: response.CodeConflict, msg: "invitation has expired"},
	{target: service.ErrInvitationNotPending, code: response.CodeConflict, msg: "invitation already responded"},
}

var contentErrorRules = []mappedHandlerError{
	{target: service.ErrProfileEmpty, code: response.CodeBadRequest, msg: "content type, platform or metrics invalid"},
	{target: service.ErrContentNotReviewable, code: response.CodeConflict, msg: "content cannot be reviewed in its current state"},
	{target: service.ErrContentNotPublishable, code: response.CodeConflict, msg: "content must be approved before publishing"},
}

var subscriptionOrderErrorRules = []mappedHandlerError{
	{target: service.ErrPlanUnknown, code: response.CodeBadRequest, msg: "unknown subscription plan"},
	{target: service.ErrPlanIsFree, code: response.CodeBadRequest, msg: "free plan does not require payment"},
	{target: service.ErrPaymentGatewayFailed, code: response.CodeServerError, msg: "payment gateway request failed"},
}

var subscriptionVerifyErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound, msg: "payment not found"},
	{target: service.ErrPaymentSignature, code: response.CodeBadRequest, msg: "payment signature mismatch"},
	{target: service.ErrPaymentAlreadyHandled, code: response.CodeConflict, msg: "payment already processed"},
	{target: service.ErrSubscriptionNotFound, code: response.CodeNotFound, msg: "no subscription awaiting payment"},
}

var subscriptionCancelErrorRules = []mappedHandlerError{
	{target: service.ErrSubscriptionNotActive, code: response.CodeConflict, msg: "subscription is not active"},
}

var referralErrorRules = []mappedHandlerError{
	{target: service.ErrReferralDisabled, code: response.CodeForbidden, msg: "referral profile is disabled"},
	{target: service.ErrReferralCodeConflict, code: response.CodeServerError, msg: "could not allocate a unique referral code"},
}

func respondCampaignError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(resourceAccessErrorRules, campaignWriteErrorRules), response.CodeServerError, "campaign operation failed")
}

func respondApplicationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(resourceAccessErrorRules, applicationErrorRules), response.CodeServerError, "application operation failed")
}

func respondInvitationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(resourceAccessErrorRules, invitationErrorRules), response.CodeServerError, "invitation operation failed")
}

func respondContentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(resourceAccessErrorRules, contentErrorRules), response.CodeServerError, "content operation failed")
}

func respondSubscriptionOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(resourceAccessErrorRules, subscriptionOrderErrorRules), response.CodeServerError, "could not start checkout")
}

func respondSubscriptionVerifyError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(resourceAccessErrorRules, subscriptionVerifyErrorRules), response.CodeServerError, "payment verification failed")
}

func respondSubscriptionCancelError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(resourceAccessErrorRules, subscriptionCancelErrorRules), response.CodeServerError, "could not cancel subscription")
}

func respondReferralError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(resourceAccessErrorRules, referralErrorRules), response.CodeServerError, "referral operation failed")
}
