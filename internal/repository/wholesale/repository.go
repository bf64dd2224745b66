package wholesale

import (
	"context"

	"medistore/internal/domain"
)

type Repository interface {
	Profile(ctx context.Context, userID string) (*domain.WholesaleProfile, error)
	UpsertProfile(ctx context.Context, p domain.WholesaleProfile) (*domain.WholesaleProfile, error)
	SetVerified(ctx context.Context, userID string, verified bool) error

	Products(ctx context.Context, query string, limit int) ([]domain.WholesaleProduct, error)
	CreateProduct(ctx context.Context, p domain.WholesaleProduct) (*domain.WholesaleProduct, error)

	// CreateQuote is idempotent on RequestID.
	CreateQuote(ctx context.Context, q domain.QuoteRequest) (*domain.QuoteRequest, error)
	QuotesByUser(ctx context.Context, userID string) ([]domain.QuoteRequest, error)
	CountQuotes(ctx context.Context, status string) (int, error)
}
