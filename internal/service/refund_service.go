package service

import (
	"context"
	"fmt"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RefundServiceImpl implements ports.RefundService. Admission happens here;
// settlement happens in the refund worker.
type RefundServiceImpl struct {
	refundRepo  ports.RefundRepository
	paymentRepo ports.PaymentRepository
	producer    ports.JobProducer
	log         zerolog.Logger
}

// NewRefundService creates a new RefundServiceImpl.
func NewRefundService(
	refundRepo ports.RefundRepository,
	paymentRepo ports.PaymentRepository,
	producer ports.JobProducer,
	log zerolog.Logger,
) *RefundServiceImpl {
	return &RefundServiceImpl{
		refundRepo:  refundRepo,
		paymentRepo: paymentRepo,
		producer:    producer,
		log:         log,
	}
}

// CreateRefund admits a refund against a successful payment. A nil amount
// means full refund of the remaining balance. The admission rule counts
// pending refunds as committed: amount + sum(active refunds) must not
// exceed the payment amount.
func (s *RefundServiceImpl) CreateRefund(ctx context.Context, merchantID uuid.UUID, paymentID string, amount *int64, reason *string) (*domain.Refund, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get payment: %w", err))
	}
	if payment == nil || payment.MerchantID != merchantID {
		return nil, apperror.ErrNotFound("payment")
	}
	if !payment.IsRefundable() {
		return nil, apperror.ErrPaymentNotRefundable()
	}

	refunded, err := s.refundRepo.SumActiveByPayment(ctx, paymentID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("sum refunds: %w", err))
	}

	refundAmount := payment.Amount - refunded
	if amount != nil {
		refundAmount = *amount
	}
	if refundAmount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if refunded+refundAmount > payment.Amount {
		return nil, apperror.ErrRefundExceedsPayment()
	}

	refund := &domain.Refund{
		ID:         domain.NewRefundID(),
		PaymentID:  payment.ID,
		MerchantID: merchantID,
		Amount:     refundAmount,
		Reason:     reason,
		Status:     domain.RefundStatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.refundRepo.Create(ctx, refund); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create refund: %w", err))
	}

	if err := s.producer.EnqueueRefund(ctx, domain.RefundJob{RefundID: refund.ID}); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("refund_id", refund.ID).
		Str("payment_id", payment.ID).
		Int64("amount", refund.Amount).
		Msg("refund accepted")

	return refund, nil
}

// GetRefund fetches a refund scoped to the owning merchant.
func (s *RefundServiceImpl) GetRefund(ctx context.Context, merchantID uuid.UUID, refundID string) (*domain.Refund, error) {
	refund, err := s.refundRepo.GetByID(ctx, refundID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get refund: %w", err))
	}
	if refund == nil || refund.MerchantID != merchantID {
		return nil, apperror.ErrNotFound("refund")
	}
	return refund, nil
}
