package handler

import (
	"payment-gateway/internal/adapter/http/dto"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// JobsHandler exposes queue introspection for operational checks.
type JobsHandler struct {
	jobStatusSvc ports.JobStatusService
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(jobStatusSvc ports.JobStatusService) *JobsHandler {
	return &JobsHandler{jobStatusSvc: jobStatusSvc}
}

// Status handles GET /api/v1/test/jobs/status.
func (h *JobsHandler) Status(c *gin.Context) {
	depths, err := h.jobStatusSvc.QueueDepths(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.QueueDepthsResponse{Queues: depths})
}
