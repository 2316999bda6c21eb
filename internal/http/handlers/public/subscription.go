package public

import (
	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPlans exposes the plan catalog.
func (h *Handler) ListPlans(c *gin.Context) {
	response.Success(c, h.SubscriptionService.Plans())
}

// GetMySubscription returns the brand's current subscription. Brands
// without a paid plan get the synthesized free one.
func (h *Handler) GetMySubscription(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}

	subscription, err := h.SubscriptionService.Current(brandID)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load subscription", err)
		return
	}

	response.Success(c, subscription)
}

// CreateSubscriptionOrderRequest checkout start payload.
type CreateSubscriptionOrderRequest struct {
	PlanType string `json:"plan_type" binding:"required"`
}

// CreateSubscriptionOrder starts checkout for a paid plan.
func (h *Handler) CreateSubscriptionOrder(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateSubscriptionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.SubscriptionService.CreateOrder(c.Request.Context(), brandID, req.PlanType)
	if err != nil {
		respondSubscriptionOrderError(c, err)
		return
	}

	response.Success(c, result)
}

// VerifySubscriptionPaymentRequest checkout completion payload.
type VerifySubscriptionPaymentRequest struct {
	ProviderOrderID   string `json:"provider_order_id" binding:"required"`
	ProviderPaymentID string `json:"provider_payment_id" binding:"required"`
	Signature         string `json:"signature" binding:"required"`
}

// VerifySubscriptionPayment checks the gateway signature and activates
// the subscription. Safe to retry.
func (h *Handler) VerifySubscriptionPayment(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}

	var req VerifySubscriptionPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	subscription, err := h.SubscriptionService.VerifyPayment(brandID, service.VerifyPaymentInput{
		ProviderOrderID:   req.ProviderOrderID,
		ProviderPaymentID: req.ProviderPaymentID,
		Signature:         req.Signature,
	})
	if err != nil {
		respondSubscriptionVerifyError(c, err)
		return
	}

	response.Success(c, subscription)
}

// CancelSubscription stops renewal. Entitlements survive until the
// period ends.
func (h *Handler) CancelSubscription(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}

	subscription, err := h.SubscriptionService.Cancel(brandID)
	if err != nil {
		respondSubscriptionCancelError(c, err)
		return
	}

	response.Success(c, subscription)
}

// GetMyEntitlements returns the feature set currently in effect.
func (h *Handler) GetMyEntitlements(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}

	entitlements, err := h.SubscriptionService.EffectiveEntitlements(brandID)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load entitlements", err)
		return
	}

	response.Success(c, entitlements)
}
