package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/internal/core/ports/mocks"
	"payment-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type paymentTestDeps struct {
	svc         *PaymentServiceImpl
	paymentRepo *mocks.MockPaymentRepository
	orderRepo   *mocks.MockOrderRepository
	producer    *mocks.MockJobProducer
	idemSvc     *mocks.MockIdempotencyService
	ctrl        *gomock.Controller
}

func setupPaymentService(t *testing.T) *paymentTestDeps {
	ctrl := gomock.NewController(t)
	d := &paymentTestDeps{
		paymentRepo: mocks.NewMockPaymentRepository(ctrl),
		orderRepo:   mocks.NewMockOrderRepository(ctrl),
		producer:    mocks.NewMockJobProducer(ctrl),
		idemSvc:     mocks.NewMockIdempotencyService(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewPaymentService(d.paymentRepo, d.orderRepo, d.producer, d.idemSvc, zerolog.Nop())
	return d
}

func testMerchant() *domain.Merchant {
	return &domain.Merchant{
		ID:     uuid.New(),
		Name:   "Test Shop",
		Email:  "owner@testshop.example",
		APIKey: domain.NewAPIKey(),
	}
}

func testOrder(merchantID uuid.UUID) *domain.Order {
	return &domain.Order{
		ID:         domain.NewOrderID(),
		MerchantID: merchantID,
		Amount:     50000,
		Currency:   "INR",
		CreatedAt:  time.Now().UTC(),
	}
}

func vpaParams(orderID string) ports.CreatePaymentParams {
	vpa := "alice@upi"
	return ports.CreatePaymentParams{
		OrderID: orderID,
		Method:  domain.PaymentMethodUPI,
		VPA:     &vpa,
	}
}

func TestPaymentService_CreatePayment_Success(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := testMerchant()
	order := testOrder(merchant.ID)

	d.orderRepo.EXPECT().GetByID(ctx, order.ID).Return(order, nil)
	d.paymentRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Payment) error {
			assert.Equal(t, domain.PaymentStatusPending, p.Status)
			assert.Equal(t, order.Amount, p.Amount)
			assert.Equal(t, order.Currency, p.Currency)
			assert.Regexp(t, `^pay_[0-9a-zA-Z]{16}$`, p.ID)
			return nil
		})
	d.producer.EXPECT().EnqueuePayment(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, job domain.PaymentJob) error {
			assert.NotEmpty(t, job.PaymentID)
			return nil
		})

	payment, replay, err := d.svc.CreatePayment(ctx, merchant, vpaParams(order.ID), "")
	require.NoError(t, err)
	assert.Nil(t, replay)
	require.NotNil(t, payment)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
}

func TestPaymentService_CreatePayment_IdempotentReplay(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := testMerchant()
	stored := []byte(`{"id":"pay_original","status":"pending"}`)

	d.idemSvc.EXPECT().CheckAndReturn(ctx, merchant.ID, "idem-1").Return(stored, nil)

	payment, replay, err := d.svc.CreatePayment(ctx, merchant, vpaParams("order_x"), "idem-1")
	require.NoError(t, err)
	assert.Nil(t, payment)
	assert.Equal(t, stored, replay, "stored response must be replayed byte for byte")
}

func TestPaymentService_CreatePayment_FreshKeyStoresResponse(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := testMerchant()
	order := testOrder(merchant.ID)

	d.idemSvc.EXPECT().CheckAndReturn(ctx, merchant.ID, "idem-2").Return(nil, nil)
	d.orderRepo.EXPECT().GetByID(ctx, order.ID).Return(order, nil)
	d.paymentRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.producer.EXPECT().EnqueuePayment(ctx, gomock.Any()).Return(nil)
	d.idemSvc.EXPECT().Store(ctx, merchant.ID, "idem-2", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, _ string, response []byte) error {
			var p domain.Payment
			require.NoError(t, json.Unmarshal(response, &p))
			assert.Equal(t, domain.PaymentStatusPending, p.Status)
			return nil
		})

	payment, replay, err := d.svc.CreatePayment(ctx, merchant, vpaParams(order.ID), "idem-2")
	require.NoError(t, err)
	assert.Nil(t, replay)
	assert.NotNil(t, payment)
}

func TestPaymentService_CreatePayment_OrderNotFound(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := testMerchant()

	d.orderRepo.EXPECT().GetByID(ctx, "order_missing").Return(nil, nil)

	_, _, err := d.svc.CreatePayment(ctx, merchant, vpaParams("order_missing"), "")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND_ERROR", appErr.Code)
}

func TestPaymentService_CreatePayment_ForeignOrderLooksMissing(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := testMerchant()
	foreignOrder := testOrder(uuid.New()) // another merchant's order

	d.orderRepo.EXPECT().GetByID(ctx, foreignOrder.ID).Return(foreignOrder, nil)

	_, _, err := d.svc.CreatePayment(ctx, merchant, vpaParams(foreignOrder.ID), "")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND_ERROR", appErr.Code, "cross-merchant access must look like 404, not 403")
}

func TestPaymentService_CreatePayment_EnqueueFailureSurfaces(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := testMerchant()
	order := testOrder(merchant.ID)

	d.orderRepo.EXPECT().GetByID(ctx, order.ID).Return(order, nil)
	d.paymentRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.producer.EXPECT().EnqueuePayment(ctx, gomock.Any()).
		Return(apperror.ErrQueueUnavailable(assert.AnError))

	_, _, err := d.svc.CreatePayment(ctx, merchant, vpaParams(order.ID), "")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "QUEUE_001", appErr.Code)
}

func TestPaymentService_CapturePayment_Success(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	payment := &domain.Payment{
		ID:         domain.NewPaymentID(),
		MerchantID: merchantID,
		Status:     domain.PaymentStatusSuccess,
	}

	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(payment, nil)
	d.paymentRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Payment) error {
			assert.True(t, p.Captured)
			return nil
		})

	result, err := d.svc.CapturePayment(ctx, merchantID, payment.ID)
	require.NoError(t, err)
	assert.True(t, result.Captured)
}

func TestPaymentService_CapturePayment_AlreadyCapturedIsNoOp(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	payment := &domain.Payment{
		ID:         domain.NewPaymentID(),
		MerchantID: merchantID,
		Status:     domain.PaymentStatusSuccess,
		Captured:   true,
	}

	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(payment, nil)
	// No Update expected.

	result, err := d.svc.CapturePayment(ctx, merchantID, payment.ID)
	require.NoError(t, err)
	assert.True(t, result.Captured)
}

func TestPaymentService_CapturePayment_PendingNotCapturable(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	payment := &domain.Payment{
		ID:         domain.NewPaymentID(),
		MerchantID: merchantID,
		Status:     domain.PaymentStatusPending,
	}

	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(payment, nil)

	_, err := d.svc.CapturePayment(ctx, merchantID, payment.ID)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_001", appErr.Code)
}

func TestPaymentService_GetPayment_ScopedToMerchant(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	payment := &domain.Payment{
		ID:         domain.NewPaymentID(),
		MerchantID: uuid.New(),
	}

	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(payment, nil)

	_, err := d.svc.GetPayment(ctx, uuid.New(), payment.ID)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND_ERROR", appErr.Code)
}
