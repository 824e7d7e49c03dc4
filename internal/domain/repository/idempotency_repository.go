package repository

import (
	"context"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/google/uuid"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves a live idempotency key by its key string and user ID
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Reserve stores a pending key. It returns ErrDuplicateKey when a live key
	// with the same key and user already exists.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Complete records the response of a reserved key
	Complete(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Release drops a reserved key so the request may be sent again
	Release(ctx context.Context, key string, userID uuid.UUID) error
	// DeleteExpired removes expired idempotency keys (for cleanup)
	DeleteExpired(ctx context.Context) error
}
