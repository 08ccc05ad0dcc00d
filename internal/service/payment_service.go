package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentServiceImpl implements ports.PaymentService. The synchronous half
// of payment processing: accept, persist pending, hand off to the queue.
// Settlement happens in the payment worker.
type PaymentServiceImpl struct {
	paymentRepo ports.PaymentRepository
	orderRepo   ports.OrderRepository
	producer    ports.JobProducer
	idemSvc     ports.IdempotencyService
	log         zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	paymentRepo ports.PaymentRepository,
	orderRepo ports.OrderRepository,
	producer ports.JobProducer,
	idemSvc ports.IdempotencyService,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		producer:    producer,
		idemSvc:     idemSvc,
		log:         log,
	}
}

// CreatePayment accepts a payment against an existing order, persists it
// pending and enqueues the settlement job. When idempotencyKey matches a
// live record the stored response bytes are returned instead (payment nil)
// and must be replayed verbatim.
func (s *PaymentServiceImpl) CreatePayment(ctx context.Context, merchant *domain.Merchant, params ports.CreatePaymentParams, idempotencyKey string) (*domain.Payment, []byte, error) {
	if idempotencyKey != "" {
		replay, err := s.idemSvc.CheckAndReturn(ctx, merchant.ID, idempotencyKey)
		if err != nil {
			return nil, nil, err
		}
		if replay != nil {
			s.log.Debug().
				Str("merchant_id", merchant.ID.String()).
				Str("idempotency_key", idempotencyKey).
				Msg("replaying stored idempotent response")
			return nil, replay, nil
		}
	}

	order, err := s.orderRepo.GetByID(ctx, params.OrderID)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("get order: %w", err))
	}
	if order == nil || order.MerchantID != merchant.ID {
		return nil, nil, apperror.ErrNotFound("order")
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:          domain.NewPaymentID(),
		OrderID:     order.ID,
		MerchantID:  merchant.ID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Method:      params.Method,
		VPA:         params.VPA,
		CardNetwork: params.CardNetwork,
		CardLast4:   params.CardLast4,
		Status:      domain.PaymentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("create payment: %w", err))
	}

	// Hand off to the worker. An enqueue failure surfaces to the caller:
	// the pending row exists but nothing will ever settle it.
	if err := s.producer.EnqueuePayment(ctx, domain.PaymentJob{PaymentID: payment.ID}); err != nil {
		return nil, nil, err
	}

	if idempotencyKey != "" {
		response, err := json.Marshal(payment)
		if err != nil {
			return nil, nil, apperror.ErrSerializationFailure(err)
		}
		if err := s.idemSvc.Store(ctx, merchant.ID, idempotencyKey, response); err != nil {
			return nil, nil, err
		}
	}

	s.log.Info().
		Str("payment_id", payment.ID).
		Str("order_id", order.ID).
		Str("method", string(payment.Method)).
		Int64("amount", payment.Amount).
		Msg("payment accepted")

	return payment, nil, nil
}

// GetPayment fetches a payment scoped to the owning merchant.
func (s *PaymentServiceImpl) GetPayment(ctx context.Context, merchantID uuid.UUID, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get payment: %w", err))
	}
	if payment == nil || payment.MerchantID != merchantID {
		return nil, apperror.ErrNotFound("payment")
	}
	return payment, nil
}

// ListPayments returns the merchant's payments, newest first.
func (s *PaymentServiceImpl) ListPayments(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.ListByMerchant(ctx, merchantID, limit, offset)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list payments: %w", err))
	}
	return payments, nil
}

// CapturePayment marks a successful payment as captured. Capturing an
// already-captured payment is an idempotent no-op.
func (s *PaymentServiceImpl) CapturePayment(ctx context.Context, merchantID uuid.UUID, paymentID string) (*domain.Payment, error) {
	payment, err := s.GetPayment(ctx, merchantID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Captured {
		return payment, nil
	}
	if payment.Status != domain.PaymentStatusSuccess {
		return nil, apperror.ErrPaymentNotCapturable()
	}

	payment.Captured = true
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("capture payment: %w", err))
	}
	return payment, nil
}
