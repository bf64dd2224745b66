package medicine

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

const medicineColumns = `id::text, name, brand, generic_name, COALESCE(category_slug, ''), COALESCE(description, ''),
       price_cents, discount_percent, image_url, requires_prescription, is_active, stock_quantity, created_at`

func (r *postgresRepo) Search(ctx context.Context, f Filter) ([]domain.Medicine, error) {
	q := `SELECT ` + medicineColumns + `
FROM medicines
WHERE is_active
  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR brand ILIKE '%' || $1 || '%' OR generic_name ILIKE '%' || $1 || '%')
  AND ($2 = '' OR category_slug = $2)
ORDER BY name ASC
LIMIT $3
`
	query := escapeLike(strings.TrimSpace(f.Query))
	rows, err := r.pool.Query(ctx, q, query, f.Category, f.Limit)
	if err != nil {
		r.logger.Error("medicine repo: search", zap.String("query", f.Query), zap.String("category", f.Category), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result, err := scanMedicines(rows)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("medicine repo: search", zap.String("query", f.Query), zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	q := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list, err := scanMedicines(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return &list[0], nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Medicine, error) {
	q := `SELECT ` + medicineColumns + ` FROM medicines ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMedicines(rows)
}

func (r *postgresRepo) Upsert(ctx context.Context, sku string, m domain.Medicine) (*domain.Medicine, error) {
	const q = `
INSERT INTO medicines (sku, name, brand, generic_name, category_slug, description, price_cents,
                       discount_percent, image_url, requires_prescription, is_active, stock_quantity)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11, $12)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    brand = EXCLUDED.brand,
    generic_name = EXCLUDED.generic_name,
    category_slug = EXCLUDED.category_slug,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    discount_percent = EXCLUDED.discount_percent,
    image_url = EXCLUDED.image_url,
    requires_prescription = EXCLUDED.requires_prescription,
    is_active = EXCLUDED.is_active,
    stock_quantity = EXCLUDED.stock_quantity
RETURNING id::text, created_at
`
	out := m
	err := r.pool.QueryRow(ctx, q,
		sku,
		m.Name,
		m.Brand,
		m.GenericName,
		m.CategorySlug,
		m.Description,
		m.PriceCents,
		m.DiscountPercent,
		m.ImageURL,
		m.RequiresPrescription,
		m.IsActive,
		m.StockQuantity,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.logger.Error("medicine repo: upsert", zap.String("sku", sku), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("medicine repo: upserted", zap.String("sku", sku), zap.String("id", out.ID))
	return &out, nil
}

func (r *postgresRepo) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name, slug FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) UpsertCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	out := c
	if err := r.pool.QueryRow(ctx, q, c.Name, c.Slug).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

func scanMedicines(rows pgx.Rows) ([]domain.Medicine, error) {
	result := []domain.Medicine{}
	for rows.Next() {
		var m domain.Medicine
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Brand,
			&m.GenericName,
			&m.CategorySlug,
			&m.Description,
			&m.PriceCents,
			&m.DiscountPercent,
			&m.ImageURL,
			&m.RequiresPrescription,
			&m.IsActive,
			&m.StockQuantity,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return result, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
