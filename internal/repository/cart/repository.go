package cart

import (
	"context"

	"medistore/internal/domain"
)

// Repository persists per-user cart lines. Each call is a single statement.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	Insert(ctx context.Context, userID, medicineID string, quantity int) (string, error)
	UpdateQuantity(ctx context.Context, userID, medicineID string, quantity int) error
	Delete(ctx context.Context, userID, medicineID string) error
	DeleteAll(ctx context.Context, userID string) error
}
