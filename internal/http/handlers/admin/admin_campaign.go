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

// GetAdminCampaigns lists campaigns across all brands.
func (h *Handler) GetAdminCampaigns(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.CampaignListFilter{
		Page:        page,
		PageSize:    pageSize,
		BrandID:     uintQuery(c, "brand_id"),
		Status:      strings.TrimSpace(c.Query("status")),
		Platform:    strings.TrimSpace(c.Query("platform")),
		Keyword:     strings.TrimSpace(c.Query("search")),
		CreatedFrom: timeQuery(c, "created_from"),
		CreatedTo:   timeQuery(c, "created_to"),
	}

	campaigns, total, err := h.CampaignService.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load campaigns", err)
		return
	}

	response.SuccessWithPage(c, campaigns, pageMeta(page, pageSize, total))
}

// ReconcileCampaignCounters recounts application rows and overwrites
// the stored counters.
func (h *Handler) ReconcileCampaignCounters(c *gin.Context) {
	campaignID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.CampaignService.ReconcileCounters(campaignID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "campaign not found", nil)
			return
		}
		respondError(c, response.CodeServerError, "could not reconcile counters", err)
		return
	}

	logger.Infow("admin_campaign_counters_reconciled",
		"operator_admin_id", currentAdminID(c),
		"campaign_id", campaignID,
	)

	response.Success(c, campaign)
}
