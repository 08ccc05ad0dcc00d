package service

import (
	"context"
	"testing"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports/mocks"
	"payment-gateway/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestJobStatusService_QueueDepths(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := mocks.NewMockJobQueue(ctrl)
	svc := NewJobStatusService(queue)
	ctx := context.Background()

	queue.EXPECT().Len(ctx, domain.QueuePayments).Return(int64(3), nil)
	queue.EXPECT().Len(ctx, domain.QueueRefunds).Return(int64(0), nil)
	queue.EXPECT().Len(ctx, domain.QueueWebhooks).Return(int64(12), nil)

	depths, err := svc.QueueDepths(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), depths[domain.QueuePayments])
	assert.Equal(t, int64(0), depths[domain.QueueRefunds])
	assert.Equal(t, int64(12), depths[domain.QueueWebhooks])
}

func TestJobStatusService_QueueDepths_BrokerDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := mocks.NewMockJobQueue(ctrl)
	svc := NewJobStatusService(queue)
	ctx := context.Background()

	queue.EXPECT().Len(ctx, domain.QueuePayments).Return(int64(0), assert.AnError)

	_, err := svc.QueueDepths(ctx)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "QUEUE_001", appErr.Code)
}
