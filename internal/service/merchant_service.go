package service

import (
	"context"
	"fmt"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"

	"github.com/google/uuid"
)

// MerchantServiceImpl implements ports.MerchantService.
type MerchantServiceImpl struct {
	merchantRepo ports.MerchantRepository
}

// NewMerchantService creates a new MerchantServiceImpl.
func NewMerchantService(merchantRepo ports.MerchantRepository) *MerchantServiceImpl {
	return &MerchantServiceImpl{merchantRepo: merchantRepo}
}

// GetProfile fetches the merchant's own account.
func (s *MerchantServiceImpl) GetProfile(ctx context.Context, merchantID uuid.UUID) (*domain.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get merchant: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrNotFound("merchant")
	}
	return merchant, nil
}

// UpdateWebhookURL sets the merchant's delivery endpoint. An empty URL
// disables webhook delivery without discarding the signing secret.
func (s *MerchantServiceImpl) UpdateWebhookURL(ctx context.Context, merchantID uuid.UUID, url string) (*domain.Merchant, error) {
	merchant, err := s.GetProfile(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	if url == "" {
		merchant.WebhookURL = nil
	} else {
		merchant.WebhookURL = &url
	}

	if err := s.merchantRepo.Update(ctx, merchant); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update merchant: %w", err))
	}
	return merchant, nil
}

// RotateWebhookSecret replaces the signing secret and returns the new value.
// Deliveries already in flight were signed with the old secret.
func (s *MerchantServiceImpl) RotateWebhookSecret(ctx context.Context, merchantID uuid.UUID) (string, error) {
	merchant, err := s.GetProfile(ctx, merchantID)
	if err != nil {
		return "", err
	}

	merchant.WebhookSecret = domain.NewWebhookSecret()
	if err := s.merchantRepo.Update(ctx, merchant); err != nil {
		return "", apperror.ErrDatabaseError(fmt.Errorf("update merchant: %w", err))
	}
	return merchant.WebhookSecret, nil
}
