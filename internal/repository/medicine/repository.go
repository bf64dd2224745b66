package medicine

import (
	"context"

	"medistore/internal/domain"
)

// Filter narrows a catalog read. Zero values mean "no filter"; Limit must be
// positive.
type Filter struct {
	Query    string
	Category string
	Limit    int
}

type Repository interface {
	Search(ctx context.Context, f Filter) ([]domain.Medicine, error)
	GetByID(ctx context.Context, id string) (*domain.Medicine, error)
	ListAll(ctx context.Context) ([]domain.Medicine, error)
	Upsert(ctx context.Context, sku string, m domain.Medicine) (*domain.Medicine, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	UpsertCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
}
