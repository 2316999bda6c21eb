package admin

import (
	"strings"

	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminApplications lists applications across all campaigns.
func (h *Handler) GetAdminApplications(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.ApplicationListFilter{
		Page:         page,
		PageSize:     pageSize,
		CampaignID:   uintQuery(c, "campaign_id"),
		InfluencerID: uintQuery(c, "influencer_id"),
		Status:       strings.TrimSpace(c.Query("status")),
		CreatedFrom:  timeQuery(c, "created_from"),
		CreatedTo:    timeQuery(c, "created_to"),
	}

	applications, total, err := h.ApplicationService.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load applications", err)
		return
	}

	response.SuccessWithPage(c, applications, pageMeta(page, pageSize, total))
}

// GetAdminInvitations lists invitations across all brands. Pending
// rows past their expiry are reported as expired.
func (h *Handler) GetAdminInvitations(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.InvitationListFilter{
		Page:         page,
		PageSize:     pageSize,
		BrandID:      uintQuery(c, "brand_id"),
		InfluencerID: uintQuery(c, "influencer_id"),
		CampaignID:   uintQuery(c, "campaign_id"),
		Status:       strings.TrimSpace(c.Query("status")),
		CreatedFrom:  timeQuery(c, "created_from"),
		CreatedTo:    timeQuery(c, "created_to"),
	}

	invitations, total, err := h.InvitationService.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load invitations", err)
		return
	}

	response.SuccessWithPage(c, invitations, pageMeta(page, pageSize, total))
}

// GetAdminContents lists deliverables across all campaigns.
func (h *Handler) GetAdminContents(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.ContentListFilter{
		Page:         page,
		PageSize:     pageSize,
		CampaignID:   uintQuery(c, "campaign_id"),
		InfluencerID: uintQuery(c, "influencer_id"),
		Platform:     strings.TrimSpace(c.Query("platform")),
		Status:       strings.TrimSpace(c.Query("status")),
	}

	contents, total, err := h.ContentService.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load content", err)
		return
	}

	response.SuccessWithPage(c, contents, pageMeta(page, pageSize, total))
}
