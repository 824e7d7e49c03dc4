package repository

import (
	"context"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/google/uuid"
)

// UserRepository defines the interface for back office accounts
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Count(ctx context.Context) (int64, error)
}
