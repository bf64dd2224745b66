package settings

import (
	"context"

	"medistore/internal/domain"
)

// Repository reads and writes the single admin settings row.
type Repository interface {
	Get(ctx context.Context) (*domain.AdminSettings, error)
	Upsert(ctx context.Context, s domain.AdminSettings) (*domain.AdminSettings, error)
}
