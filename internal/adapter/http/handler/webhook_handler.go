package handler

import (
	"payment-gateway/internal/adapter/http/dto"
	"payment-gateway/internal/adapter/http/middleware"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"
	"payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookHandler exposes the delivery log dashboard.
type WebhookHandler struct {
	webhookSvc ports.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookSvc ports.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc}
}

// List handles GET /api/v1/webhooks.
func (h *WebhookHandler) List(c *gin.Context) {
	merchantID, ok := middleware.MerchantID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	limit, offset := pagination(c)
	logs, total, err := h.webhookSvc.ListLogs(c.Request.Context(), merchantID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WebhookLogListResponse{
		Items:  logs,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// Retry handles POST /api/v1/webhooks/:id/retry.
func (h *WebhookHandler) Retry(c *gin.Context) {
	merchantID, ok := middleware.MerchantID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid webhook log id"))
		return
	}

	wlog, err := h.webhookSvc.RetryDelivery(c.Request.Context(), merchantID, logID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, wlog)
}
