package postgres

import (
	"context"
	"errors"
	"fmt"

	"payment-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MerchantRepo implements ports.MerchantRepository.
type MerchantRepo struct {
	pool Pool
}

// NewMerchantRepo creates a new MerchantRepo.
func NewMerchantRepo(pool Pool) *MerchantRepo {
	return &MerchantRepo{pool: pool}
}

// Create inserts a new merchant into the database.
func (r *MerchantRepo) Create(ctx context.Context, m *domain.Merchant) error {
	query := `INSERT INTO merchants (id, name, email, password_hash, api_key, webhook_url, webhook_secret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.Name, m.Email, m.PasswordHash,
		m.APIKey, m.WebhookURL, m.WebhookSecret,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert merchant: %w", err)
	}
	return nil
}

// GetByID fetches a merchant by its UUID.
func (r *MerchantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	query := `SELECT id, name, email, password_hash, api_key, webhook_url, webhook_secret, created_at, updated_at
		FROM merchants WHERE id = $1`

	m := &domain.Merchant{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Email, &m.PasswordHash,
		&m.APIKey, &m.WebhookURL, &m.WebhookSecret,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get merchant by id: %w", err)
	}
	return m, nil
}

// GetByAPIKey fetches a merchant by its API key.
func (r *MerchantRepo) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Merchant, error) {
	query := `SELECT id, name, email, password_hash, api_key, webhook_url, webhook_secret, created_at, updated_at
		FROM merchants WHERE api_key = $1`

	m := &domain.Merchant{}
	err := r.pool.QueryRow(ctx, query, apiKey).Scan(
		&m.ID, &m.Name, &m.Email, &m.PasswordHash,
		&m.APIKey, &m.WebhookURL, &m.WebhookSecret,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get merchant by api_key: %w", err)
	}
	return m, nil
}

// GetByEmail fetches a merchant by email.
func (r *MerchantRepo) GetByEmail(ctx context.Context, email string) (*domain.Merchant, error) {
	query := `SELECT id, name, email, password_hash, api_key, webhook_url, webhook_secret, created_at, updated_at
		FROM merchants WHERE email = $1`

	m := &domain.Merchant{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&m.ID, &m.Name, &m.Email, &m.PasswordHash,
		&m.APIKey, &m.WebhookURL, &m.WebhookSecret,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get merchant by email: %w", err)
	}
	return m, nil
}

// Update updates a merchant record.
func (r *MerchantRepo) Update(ctx context.Context, m *domain.Merchant) error {
	query := `UPDATE merchants
		SET name=$1, webhook_url=$2, webhook_secret=$3, updated_at=NOW()
		WHERE id=$4`
	_, err := r.pool.Exec(ctx, query,
		m.Name, m.WebhookURL, m.WebhookSecret, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update merchant: %w", err)
	}
	return nil
}
