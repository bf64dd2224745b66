package order

import (
	"context"

	"medistore/internal/domain"
)

type Repository interface {
	// Create is idempotent on RequestID.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Count(ctx context.Context) (int, error)
}
