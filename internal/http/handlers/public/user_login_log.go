package public

import (
	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) recordUserLogin(c *gin.Context, email string, userID uint, status, failReason string) {
	if h.UserLoginLogService == nil {
		return
	}
	if err := h.UserLoginLogService.Record(service.RecordUserLoginInput{
		UserID:     userID,
		Email:      email,
		Status:     status,
		FailReason: failReason,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}); err != nil {
		requestLog(c).Warnw("user_login_log_record_failed", "error", err)
	}
}

// GetMyLoginLogs lists the signed-in user's login history.
func (h *Handler) GetMyLoginLogs(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)
	logs, total, err := h.UserLoginLogService.ListByUser(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load login history", err)
		return
	}

	response.SuccessWithPage(c, logs, pageMeta(page, pageSize, total))
}
