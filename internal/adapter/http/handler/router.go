package handler

import (
	"payment-gateway/internal/adapter/http/middleware"
	"payment-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc      ports.AuthService
	OrderSvc     ports.OrderService
	PaymentSvc   ports.PaymentService
	RefundSvc    ports.RefundService
	WebhookSvc   ports.WebhookService
	MerchantSvc  ports.MerchantService
	JobStatusSvc ports.JobStatusService
	MerchantRepo ports.MerchantRepository
	TokenSvc     ports.TokenService

	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// --- API-key-authenticated routes (merchant API) ---
	apiKeyAuth := middleware.APIKeyAuth(deps.MerchantRepo, deps.Logger)

	orderHandler := NewOrderHandler(deps.OrderSvc)
	orders := v1.Group("/orders", apiKeyAuth)
	{
		orders.POST("", orderHandler.Create)
		orders.GET("/:id", orderHandler.Get)
	}

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	refundHandler := NewRefundHandler(deps.RefundSvc)
	payments := v1.Group("/payments", apiKeyAuth)
	{
		payments.POST("", paymentHandler.Create)
		payments.GET("", paymentHandler.List)
		payments.GET("/:id", paymentHandler.Get)
		payments.POST("/:id/capture", paymentHandler.Capture)
		payments.POST("/:id/refunds", refundHandler.Create)
	}

	refunds := v1.Group("/refunds", apiKeyAuth)
	{
		refunds.GET("/:id", refundHandler.Get)
	}

	// --- JWT-authenticated routes (dashboard) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	webhookHandler := NewWebhookHandler(deps.WebhookSvc)
	webhooks := v1.Group("/webhooks", jwtAuth)
	{
		webhooks.GET("", webhookHandler.List)
		webhooks.POST("/:id/retry", webhookHandler.Retry)
	}

	merchantHandler := NewMerchantHandler(deps.MerchantSvc)
	merchants := v1.Group("/merchants/me", jwtAuth)
	{
		merchants.GET("", merchantHandler.Profile)
		merchants.PUT("/webhook", merchantHandler.UpdateWebhookURL)
		merchants.POST("/webhook/secret", merchantHandler.RotateWebhookSecret)
	}

	// --- Operational introspection ---
	jobsHandler := NewJobsHandler(deps.JobStatusSvc)
	v1.GET("/test/jobs/status", jobsHandler.Status)

	return r
}
