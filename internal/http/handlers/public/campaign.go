package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"
	"github.com/sponza-next/internal/service"

	"github.com/gin-gonic/gin"
)

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}

// BrowseCampaigns lists active campaigns for the discovery feed.
func (h *Handler) BrowseCampaigns(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.CampaignListFilter{
		Page:     page,
		PageSize: pageSize,
		Platform: strings.TrimSpace(c.Query("platform")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	}

	campaigns, total, err := h.CampaignService.Browse(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load campaigns", err)
		return
	}

	response.SuccessWithPage(c, campaigns, pageMeta(page, pageSize, total))
}

// GetPublicCampaign shows one active campaign.
func (h *Handler) GetPublicCampaign(c *gin.Context) {
	campaignID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.CampaignService.GetPublic(campaignID)
	if err != nil {
		respondCampaignError(c, err)
		return
	}

	response.Success(c, campaign)
}

// CampaignRequest create payload.
type CampaignRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	Budget      models.Money `json:"budget"`
	Platforms   []string     `json:"platforms"`
	Hashtags    []string     `json:"hashtags"`
	Task        string       `json:"task"`
	StartsAt    *time.Time   `json:"starts_at"`
	EndsAt      *time.Time   `json:"ends_at"`
}

// CreateCampaign drafts a campaign for the signed-in brand.
func (h *Handler) CreateCampaign(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	campaign, err := h.CampaignService.Create(brandID, service.CreateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Platforms:   req.Platforms,
		Hashtags:    req.Hashtags,
		Task:        req.Task,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		respondCampaignError(c, err)
		return
	}

	response.Success(c, campaign)
}

// UpdateCampaignRequest partial edit payload.
type UpdateCampaignRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Budget      *models.Money `json:"budget"`
	Platforms   []string      `json:"platforms"`
	Hashtags    []string      `json:"hashtags"`
	Task        *string       `json:"task"`
	StartsAt    *time.Time    `json:"starts_at"`
	EndsAt      *time.Time    `json:"ends_at"`
}

// UpdateCampaign edits a campaign the brand owns.
func (h *Handler) UpdateCampaign(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}
	campaignID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	campaign, err := h.CampaignService.Update(brandID, campaignID, service.UpdateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Platforms:   req.Platforms,
		Hashtags:    req.Hashtags,
		Task:        req.Task,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		respondCampaignError(c, err)
		return
	}

	response.Success(c, campaign)
}

// ChangeCampaignStatusRequest lifecycle transition payload.
type ChangeCampaignStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeCampaignStatus moves a campaign along its lifecycle.
func (h *Handler) ChangeCampaignStatus(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}
	campaignID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ChangeCampaignStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	campaign, err := h.CampaignService.ChangeStatus(brandID, campaignID, req.Status)
	if err != nil {
		respondCampaignError(c, err)
		return
	}

	response.Success(c, campaign)
}

// DeleteCampaign removes a draft.
func (h *Handler) DeleteCampaign(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}
	campaignID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.CampaignService.Delete(brandID, campaignID); err != nil {
		respondCampaignError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// GetMyCampaign shows one campaign the brand owns, any status.
func (h *Handler) GetMyCampaign(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}
	campaignID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.CampaignService.GetForBrand(brandID, campaignID)
	if err != nil {
		respondCampaignError(c, err)
		return
	}

	response.Success(c, campaign)
}

// ListMyCampaigns lists the brand's own campaigns.
func (h *Handler) ListMyCampaigns(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)
	filter := repository.CampaignListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	}

	campaigns, total, err := h.CampaignService.ListForBrand(brandID, filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load campaigns", err)
		return
	}

	response.SuccessWithPage(c, campaigns, pageMeta(page, pageSize, total))
}

// GetCampaignAnalytics aggregates application counters and content
// engagement for one campaign.
func (h *Handler) GetCampaignAnalytics(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}
	campaignID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	analytics, err := h.CampaignService.Analytics(brandID, campaignID)
	if err != nil {
		respondCampaignError(c, err)
		return
	}

	response.Success(c, analytics)
}
