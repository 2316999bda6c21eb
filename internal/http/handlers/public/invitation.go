package public

import (
	"strings"

	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"
	"github.com/sponza-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateInvitationRequest brand outreach payload.
type CreateInvitationRequest struct {
	InfluencerID  uint   `json:"influencer_id" binding:"required"`
	CampaignID    *uint  `json:"campaign_id"`
	Message       string `json:"message" binding:"required"`
	Terms         string `json:"terms"`
	ExpiresInDays int    `json:"expires_in_days"`
}

// CreateInvitation sends an invitation to an influencer.
func (h *Handler) CreateInvitation(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	invitation, err := h.InvitationService.Create(brandID, service.CreateInvitationInput{
		InfluencerID:  req.InfluencerID,
		CampaignID:    req.CampaignID,
		Message:       req.Message,
		Terms:         req.Terms,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	response.Success(c, invitation)
}

// RespondInvitationRequest influencer answer payload.
type RespondInvitationRequest struct {
	Accept   bool          `json:"accept"`
	Message  string        `json:"message"`
	Pricing  *models.Money `json:"pricing"`
	Timeline string        `json:"timeline"`
}

// RespondInvitation accepts or declines a pending invitation.
func (h *Handler) RespondInvitation(c *gin.Context) {
	influencerID, ok := getUserID(c)
	if !ok {
		return
	}
	invitationID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req RespondInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	invitation, err := h.InvitationService.Respond(influencerID, invitationID, service.RespondInput{
		Accept:   req.Accept,
		Message:  req.Message,
		Pricing:  req.Pricing,
		Timeline: req.Timeline,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	response.Success(c, invitation)
}

// GetInvitation shows one invitation to either party.
func (h *Handler) GetInvitation(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	invitationID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	invitation, err := h.InvitationService.GetForUser(userID, invitationID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	response.Success(c, invitation)
}

// ListSentInvitations lists invitations the brand has sent.
func (h *Handler) ListSentInvitations(c *gin.Context) {
	brandID, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)
	filter := repository.InvitationListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}

	invitations, total, err := h.InvitationService.ListForBrand(brandID, filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load invitations", err)
		return
	}

	response.SuccessWithPage(c, invitations, pageMeta(page, pageSize, total))
}

// ListReceivedInvitations lists invitations sent to the influencer.
func (h *Handler) ListReceivedInvitations(c *gin.Context) {
	influencerID, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)
	filter := repository.InvitationListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}

	invitations, total, err := h.InvitationService.ListForInfluencer(influencerID, filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load invitations", err)
		return
	}

	response.SuccessWithPage(c, invitations, pageMeta(page, pageSize, total))
}
