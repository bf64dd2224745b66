package user

import (
	"context"

	"medistore/internal/domain"
)

// Repository persists accounts and their single role assignment.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Count(ctx context.Context) (int, error)
	// GetRole returns domain.ErrNotFound when no role row exists.
	GetRole(ctx context.Context, userID string) (domain.Role, error)
	SetRole(ctx context.Context, userID string, role domain.Role) error
}
