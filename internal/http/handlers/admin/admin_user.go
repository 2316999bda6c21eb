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

// GetAdminUsers lists marketplace accounts.
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.UserListFilter{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     strings.TrimSpace(c.Query("search")),
		Role:        strings.TrimSpace(c.Query("role")),
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: timeQuery(c, "created_from"),
		CreatedTo:   timeQuery(c, "created_to"),
	}

	users, total, err := h.UserAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load users", err)
		return
	}

	response.SuccessWithPage(c, users, pageMeta(page, pageSize, total))
}

// GetAdminUser shows one account.
func (h *Handler) GetAdminUser(c *gin.Context) {
	userID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	user, err := h.UserAdminService.Get(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeServerError, "could not load user", err)
		return
	}

	response.Success(c, user)
}

// BatchUpdateUserStatusRequest moderation payload.
type BatchUpdateUserStatusRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// BatchUpdateUserStatus enables or disables accounts in bulk. Disabled
// accounts lose their cached auth state immediately.
func (h *Handler) BatchUpdateUserStatus(c *gin.Context) {
	var req BatchUpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if len(req.UserIDs) == 0 {
		respondError(c, response.CodeBadRequest, "user_ids required", nil)
		return
	}

	if err := h.UserAdminService.SetStatus(req.UserIDs, req.Status); err != nil {
		if errors.Is(err, service.ErrInvalidStatusChange) {
			respondError(c, response.CodeBadRequest, "status must be active or disabled", nil)
			return
		}
		respondError(c, response.CodeServerError, "could not update user status", err)
		return
	}

	logger.Infow("admin_users_status_updated",
		"operator_admin_id", currentAdminID(c),
		"user_ids", req.UserIDs,
		"status", req.Status,
	)

	response.Success(c, gin.H{"updated": len(req.UserIDs)})
}
