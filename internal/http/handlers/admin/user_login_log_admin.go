package admin

import (
	"strings"

	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminUserLoginLogs lists login audit rows.
func (h *Handler) GetAdminUserLoginLogs(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.UserLoginLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      uintQuery(c, "user_id"),
		Email:       strings.TrimSpace(c.Query("email")),
		Status:      strings.TrimSpace(c.Query("status")),
		FailReason:  strings.TrimSpace(c.Query("fail_reason")),
		ClientIP:    strings.TrimSpace(c.Query("client_ip")),
		CreatedFrom: timeQuery(c, "created_from"),
		CreatedTo:   timeQuery(c, "created_to"),
	}

	logs, total, err := h.UserLoginLogService.ListForAdmin(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load login logs", err)
		return
	}

	response.SuccessWithPage(c, logs, pageMeta(page, pageSize, total))
}
