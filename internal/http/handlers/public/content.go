package public

import (
	"strings"

	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/repository"
	"github.com/sponza-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitContentRequest deliverable payload.
type SubmitContentRequest struct {
	CampaignID  uint   `json:"campaign_id" binding:"required"`
	Platform    string `json:"platform" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	URL         string `json:"url"`
	Caption     string `json:"caption"`
}

// SubmitContent submits a deliverable on a campaign the influencer was
// accepted into.
func (h *Handler) SubmitContent(c *gin.Context) {
	influencerID, ok := getUserID(c)
	if !ok {
		return
	}

	var req SubmitContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	content, err := h.ContentService.Submit(influencerID, service.SubmitContentInput{
		CampaignID:  req.CampaignID,
		Platform:    req.Platform,
		ContentType: req.ContentType,
		URL:         req.URL,
		Caption:     req.Caption,
	})
	if err != nil {
		respondContentError(c, err)
		return
	}

	response.Success(c, content)
}

// ReviewContentRequest brand review payload.
type ReviewContentRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// ReviewContent approves or rejects submitted content.
func (h *Handler) ReviewContent(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}
	contentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ReviewContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	content, err := h.ContentService.Review(brandID, contentID, req.Approve, req.Note)
	if err != nil {
		respondContentError(c, err)
		return
	}

	response.Success(c, content)
}

// PublishContentRequest go-live payload.
type PublishContentRequest struct {
	URL string `json:"url"`
}

// PublishContent marks approved content as live.
func (h *Handler) PublishContent(c *gin.Context) {
	influencerID, ok := getUserID(c)
	if !ok {
		return
	}
	contentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req PublishContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	content, err := h.ContentService.Publish(influencerID, contentID, req.URL)
	if err != nil {
		respondContentError(c, err)
		return
	}

	response.Success(c, content)
}

// UpdateContentMetricsRequest engagement snapshot payload.
type UpdateContentMetricsRequest struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
}

// UpdateContentMetrics records engagement on published content.
func (h *Handler) UpdateContentMetrics(c *gin.Context) {
	influencerID, ok := getUserID(c)
	if !ok {
		return
	}
	contentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateContentMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	content, err := h.ContentService.UpdateMetrics(influencerID, contentID, service.UpdateMetricsInput{
		Views:    req.Views,
		Likes:    req.Likes,
		Comments: req.Comments,
		Shares:   req.Shares,
	})
	if err != nil {
		respondContentError(c, err)
		return
	}

	response.Success(c, content)
}

// ListMyContent lists the influencer's deliverables.
func (h *Handler) ListMyContent(c *gin.Context) {
	influencerID, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)
	filter := repository.ContentListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Platform: strings.TrimSpace(c.Query("platform")),
	}

	contents, total, err := h.ContentService.ListForInfluencer(influencerID, filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load content", err)
		return
	}

	response.SuccessWithPage(c, contents, pageMeta(page, pageSize, total))
}

// ListCampaignContent lists deliverables on a campaign the brand owns.
func (h *Handler) ListCampaignContent(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}
	campaignID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)
	filter := repository.ContentListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Platform: strings.TrimSpace(c.Query("platform")),
	}

	contents, total, err := h.ContentService.ListForBrandCampaign(brandID, campaignID, filter)
	if err != nil {
		respondContentError(c, err)
		return
	}

	response.SuccessWithPage(c, contents, pageMeta(page, pageSize, total))
}
