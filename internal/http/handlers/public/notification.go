package public

import (
	"github.com/sponza-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetMyNotifications lists notifications, newest first.
func (h *Handler) GetMyNotifications(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)
	onlyUnread := c.Query("unread") == "true"

	notifications, total, err := h.NotificationService.List(userID, onlyUnread, page, pageSize)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load notifications", err)
		return
	}

	response.SuccessWithPage(c, notifications, pageMeta(page, pageSize, total))
}

// GetUnreadNotificationCount returns the unread badge count.
func (h *Handler) GetUnreadNotificationCount(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	count, err := h.NotificationService.UnreadCount(userID)
	if err != nil {
		respondError(c, response.CodeServerError, "could not count notifications", err)
		return
	}

	response.Success(c, gin.H{"unread": count})
}

// MarkNotificationsReadRequest read receipt payload.
type MarkNotificationsReadRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// MarkNotificationsRead marks the given notifications as read.
func (h *Handler) MarkNotificationsRead(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req MarkNotificationsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	updated, err := h.NotificationService.MarkRead(userID, req.IDs)
	if err != nil {
		respondError(c, response.CodeServerError, "could not mark notifications read", err)
		return
	}

	response.Success(c, gin.H{"updated": updated})
}

// MarkAllNotificationsRead clears the unread set.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	updated, err := h.NotificationService.MarkAllRead(userID)
	if err != nil {
		respondError(c, response.CodeServerError, "could not mark notifications read", err)
		return
	}

	response.Success(c, gin.H{"updated": updated})
}
