package public

import (
	"strings"

	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"
	"github.com/sponza-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ApplyRequest influencer proposal payload.
type ApplyRequest struct {
	CampaignID     uint          `json:"campaign_id" binding:"required"`
	Message        string        `json:"message" binding:"required"`
	ProposedBudget *models.Money `json:"proposed_budget"`
}

// ApplyToCampaign submits a proposal against an active campaign.
func (h *Handler) ApplyToCampaign(c *gin.Context) {
	influencerID, ok := getUserID(c)
	if !ok {
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	application, err := h.ApplicationService.Apply(influencerID, service.ApplyInput{
		CampaignID:     req.CampaignID,
		Message:        req.Message,
		ProposedBudget: req.ProposedBudget,
	})
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	response.Success(c, application)
}

// WithdrawApplication pulls a pending proposal back.
func (h *Handler) WithdrawApplication(c *gin.Context) {
	influencerID, ok := getUserID(c)
	if !ok {
		return
	}
	applicationID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	application, err := h.ApplicationService.Withdraw(influencerID, applicationID)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	response.Success(c, application)
}

// GetMyApplication shows one of the influencer's applications.
func (h *Handler) GetMyApplication(c *gin.Context) {
	influencerID, ok := getUserID(c)
	if !ok {
		return
	}
	applicationID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	application, err := h.ApplicationService.GetForInfluencer(influencerID, applicationID)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	response.Success(c, application)
}

// ListMyApplications lists the influencer's applications.
func (h *Handler) ListMyApplications(c *gin.Context) {
	influencerID, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)
	filter := repository.ApplicationListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}

	applications, total, err := h.ApplicationService.ListForInfluencer(influencerID, filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load applications", err)
		return
	}

	response.SuccessWithPage(c, applications, pageMeta(page, pageSize, total))
}

// ListCampaignApplications lists applications on a campaign the brand owns.
func (h *Handler) ListCampaignApplications(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}
	campaignID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)
	filter := repository.ApplicationListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}

	applications, total, err := h.ApplicationService.ListForBrandCampaign(brandID, campaignID, filter)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	response.SuccessWithPage(c, applications, pageMeta(page, pageSize, total))
}

// ReviewApplicationRequest brand decision payload.
type ReviewApplicationRequest struct {
	Response string `json:"response"`
}

// AcceptApplication approves a pending proposal.
func (h *Handler) AcceptApplication(c *gin.Context) {
	h.reviewApplication(c, true)
}

// RejectApplication declines a pending proposal.
func (h *Handler) RejectApplication(c *gin.Context) {
	h.reviewApplication(c, false)
}

func (h *Handler) reviewApplication(c *gin.Context, accept bool) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}
	applicationID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	var (
		application *models.Application
		err         error
	)
	if accept {
		application, err = h.ApplicationService.Accept(brandID, applicationID, req.Response)
	} else {
		application, err = h.ApplicationService.Reject(brandID, applicationID, req.Response)
	}
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	response.Success(c, application)
}
