package handler

import (
	"payment-gateway/internal/adapter/http/dto"
	"payment-gateway/internal/adapter/http/middleware"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"
	"payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// MerchantHandler handles merchant self-management endpoints.
type MerchantHandler struct {
	merchantSvc ports.MerchantService
}

// NewMerchantHandler creates a new MerchantHandler.
func NewMerchantHandler(merchantSvc ports.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchantSvc: merchantSvc}
}

// Profile handles GET /api/v1/merchants/me.
func (h *MerchantHandler) Profile(c *gin.Context) {
	merchantID, ok := middleware.MerchantID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	merchant, err := h.merchantSvc.GetProfile(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, merchant)
}

// UpdateWebhookURL handles PUT /api/v1/merchants/me/webhook. An empty URL
// disables delivery without discarding the signing secret.
func (h *MerchantHandler) UpdateWebhookURL(c *gin.Context) {
	merchantID, ok := middleware.MerchantID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.UpdateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	merchant, err := h.merchantSvc.UpdateWebhookURL(c.Request.Context(), merchantID, req.URL)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, merchant)
}

// RotateWebhookSecret handles POST /api/v1/merchants/me/webhook/secret.
func (h *MerchantHandler) RotateWebhookSecret(c *gin.Context) {
	merchantID, ok := middleware.MerchantID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	secret, err := h.merchantSvc.RotateWebhookSecret(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RotateSecretResponse{WebhookSecret: secret})
}
