package public

import (
	"github.com/sponza-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetMyReferralProfile returns the caller's referral profile, creating
// it on first access.
func (h *Handler) GetMyReferralProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	profile, err := h.ReferralService.GetOrCreateProfile(userID)
	if err != nil {
		respondReferralError(c, err)
		return
	}

	response.Success(c, profile)
}

// RegenerateReferralCode rotates the caller's referral code. Existing
// attributions keep pointing at the profile.
func (h *Handler) RegenerateReferralCode(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	profile, err := h.ReferralService.RegenerateCode(userID)
	if err != nil {
		respondReferralError(c, err)
		return
	}

	response.Success(c, profile)
}

// GetMyReferralMetrics returns derived referral counters and earnings.
func (h *Handler) GetMyReferralMetrics(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	metrics, err := h.ReferralService.Metrics(userID)
	if err != nil {
		respondReferralError(c, err)
		return
	}

	response.Success(c, metrics)
}

// ListMyReferralRewards lists reward ledger entries, newest first.
func (h *Handler) ListMyReferralRewards(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)
	rewards, total, err := h.ReferralService.ListRewards(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load referral rewards", err)
		return
	}

	response.SuccessWithPage(c, rewards, pageMeta(page, pageSize, total))
}
