package service

import (
	"context"
	"fmt"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"

	"github.com/google/uuid"
)

// OrderServiceImpl implements ports.OrderService.
type OrderServiceImpl struct {
	orderRepo ports.OrderRepository
}

// NewOrderService creates a new OrderServiceImpl.
func NewOrderService(orderRepo ports.OrderRepository) *OrderServiceImpl {
	return &OrderServiceImpl{orderRepo: orderRepo}
}

// CreateOrder validates and persists a new order.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, merchantID uuid.UUID, params ports.CreateOrderParams) (*domain.Order, error) {
	if params.Amount < 100 {
		return nil, apperror.ErrInvalidAmount()
	}
	if params.Currency == "" {
		return nil, apperror.Validation("currency is required")
	}

	order := &domain.Order{
		ID:         domain.NewOrderID(),
		MerchantID: merchantID,
		Amount:     params.Amount,
		Currency:   params.Currency,
		Receipt:    params.Receipt,
		Notes:      params.Notes,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create order: %w", err))
	}
	return order, nil
}

// GetOrder fetches an order scoped to the owning merchant.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, merchantID uuid.UUID, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get order: %w", err))
	}
	if order == nil || order.MerchantID != merchantID {
		return nil, apperror.ErrNotFound("order")
	}
	return order, nil
}
