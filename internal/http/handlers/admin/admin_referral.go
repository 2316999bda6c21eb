package admin

import (
	"errors"
	"strings"

	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/repository"
	"github.com/sponza-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminReferralProfiles lists referral profiles.
func (h *Handler) GetAdminReferralProfiles(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.AffiliateProfileListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uintQuery(c, "user_id"),
		Code:     strings.TrimSpace(c.Query("code")),
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("search")),
	}

	profiles, total, err := h.ReferralService.ListProfiles(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load referral profiles", err)
		return
	}

	response.SuccessWithPage(c, profiles, pageMeta(page, pageSize, total))
}

// SetReferralProfileStatusRequest moderation payload.
type SetReferralProfileStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetReferralProfileStatus enables or disables a referral profile.
// Disabled profiles stop resolving at signup but keep their history.
func (h *Handler) SetReferralProfileStatus(c *gin.Context) {
	profileID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req SetReferralProfileStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.ReferralService.SetProfileStatus(profileID, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatusChange):
			respondError(c, response.CodeBadRequest, "status must be active or disabled", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "referral profile not found", nil)
		default:
			respondError(c, response.CodeServerError, "could not update referral profile", err)
		}
		return
	}

	logger.Infow("admin_referral_profile_status_updated",
		"operator_admin_id", currentAdminID(c),
		"profile_id", profileID,
		"status", req.Status,
	)

	response.Success(c, nil)
}
