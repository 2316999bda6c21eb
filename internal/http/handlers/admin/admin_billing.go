package admin

import (
	"strings"

	"github.com/sponza-next/internal/http/response"
	"github.com/sponza-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminSubscriptions lists subscriptions across all brands.
func (h *Handler) GetAdminSubscriptions(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.SubscriptionListFilter{
		Page:        page,
		PageSize:    pageSize,
		BrandID:     uintQuery(c, "brand_id"),
		PlanType:    strings.TrimSpace(c.Query("plan_type")),
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: timeQuery(c, "created_from"),
		CreatedTo:   timeQuery(c, "created_to"),
	}

	subscriptions, total, err := h.SubscriptionService.List(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load subscriptions", err)
		return
	}

	response.SuccessWithPage(c, subscriptions, pageMeta(page, pageSize, total))
}

// GetAdminPayments lists gateway payments.
func (h *Handler) GetAdminPayments(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.PaymentListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      uintQuery(c, "user_id"),
		Provider:    strings.TrimSpace(c.Query("provider")),
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: timeQuery(c, "created_from"),
		CreatedTo:   timeQuery(c, "created_to"),
	}

	payments, total, err := h.PaymentRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load payments", err)
		return
	}

	response.SuccessWithPage(c, payments, pageMeta(page, pageSize, total))
}

// GetAdminTransactions lists ledger entries.
func (h *Handler) GetAdminTransactions(c *gin.Context) {
	page, pageSize := pageQuery(c)
	filter := repository.TransactionListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      uintQuery(c, "user_id"),
		Type:        strings.TrimSpace(c.Query("type")),
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: timeQuery(c, "created_from"),
		CreatedTo:   timeQuery(c, "created_to"),
	}

	transactions, total, err := h.TransactionRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeServerError, "could not load transactions", err)
		return
	}

	response.SuccessWithPage(c, transactions, pageMeta(page, pageSize, total))
}
