package handler

import (
	"net/http"
	"strconv"

	"payment-gateway/internal/adapter/http/dto"
	"payment-gateway/internal/adapter/http/middleware"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"
	"payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// Create handles POST /api/v1/payments. An X-Idempotency-Key header makes
// the request safely retryable: a repeat within the key's lifetime replays
// the stored response bytes verbatim.
func (h *PaymentHandler) Create(c *gin.Context) {
	merchant, ok := middleware.Merchant(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAPIKey())
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	params, err := req.ToParams()
	if err != nil {
		response.Error(c, err)
		return
	}

	idempotencyKey := c.GetHeader(middleware.HeaderIdempotencyKey)
	payment, replay, err := h.paymentSvc.CreatePayment(c.Request.Context(), merchant, params, idempotencyKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	if replay != nil {
		response.Raw(c, http.StatusOK, replay)
		return
	}

	response.Created(c, payment)
}

// Get handles GET /api/v1/payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	merchantID, ok := middleware.MerchantID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAPIKey())
		return
	}

	payment, err := h.paymentSvc.GetPayment(c.Request.Context(), merchantID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, payment)
}

// List handles GET /api/v1/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	merchantID, ok := middleware.MerchantID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAPIKey())
		return
	}

	limit, offset := pagination(c)
	payments, err := h.paymentSvc.ListPayments(c.Request.Context(), merchantID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"items": payments, "limit": limit, "offset": offset})
}

// Capture handles POST /api/v1/payments/:id/capture.
func (h *PaymentHandler) Capture(c *gin.Context) {
	merchantID, ok := middleware.MerchantID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAPIKey())
		return
	}

	payment, err := h.paymentSvc.CapturePayment(c.Request.Context(), merchantID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, payment)
}

// pagination parses limit/offset query params with sane bounds.
func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
