package wholesale

import (
	"context"
	"encoding/json"
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

func (r *postgresRepo) Profile(ctx context.Context, userID string) (*domain.WholesaleProfile, error) {
	const q = `
SELECT id::text, user_id::text, business_name, license_number, gst_number, address, is_verified, created_at
FROM wholesale_profiles
WHERE user_id = $1
`
	var p domain.WholesaleProfile
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.BusinessName,
		&p.LicenseNumber,
		&p.GSTNumber,
		&p.Address,
		&p.IsVerified,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("wholesale repo: profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) UpsertProfile(ctx context.Context, p domain.WholesaleProfile) (*domain.WholesaleProfile, error) {
	const q = `
INSERT INTO wholesale_profiles (user_id, business_name, license_number, gst_number, address)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
    business_name = EXCLUDED.business_name,
    license_number = EXCLUDED.license_number,
    gst_number = EXCLUDED.gst_number,
    address = EXCLUDED.address
RETURNING id::text, is_verified, created_at
`
	out := p
	if err := r.pool.QueryRow(ctx, q, p.UserID, p.BusinessName, p.LicenseNumber, p.GSTNumber, p.Address).
		Scan(&out.ID, &out.IsVerified, &out.CreatedAt); err != nil {
		r.logger.Error("wholesale repo: upsert profile", zap.String("user_id", p.UserID), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) SetVerified(ctx context.Context, userID string, verified bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE wholesale_profiles SET is_verified = $2 WHERE user_id = $1`, userID, verified)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Products(ctx context.Context, query string, limit int) ([]domain.WholesaleProduct, error) {
	const q = `
SELECT id::text, name, sku, manufacturer, price_cents, min_order_qty, stock_quantity
FROM products
WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR manufacturer ILIKE '%' || $1 || '%'
ORDER BY name ASC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.WholesaleProduct{}
	for rows.Next() {
		var p domain.WholesaleProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Manufacturer, &p.PriceCents, &p.MinOrderQty, &p.StockQuantity); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *postgresRepo) CreateProduct(ctx context.Context, p domain.WholesaleProduct) (*domain.WholesaleProduct, error) {
	const q = `
INSERT INTO products (name, sku, manufacturer, price_cents, min_order_qty, stock_quantity)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`
	out := p
	if err := r.pool.QueryRow(ctx, q, p.Name, p.SKU, p.Manufacturer, p.PriceCents, p.MinOrderQty, p.StockQuantity).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

const quoteSelect = `
SELECT id::text, request_id::text, user_id::text, items, COALESCE(notes, ''), status, created_at
FROM quote_requests
`

func (r *postgresRepo) CreateQuote(ctx context.Context, qr domain.QuoteRequest) (*domain.QuoteRequest, error) {
	itemsJSON, err := json.Marshal(qr.Items)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO quote_requests (request_id, user_id, items, notes, status)
VALUES ($1, $2, $3, NULLIF($4, ''), $5)
ON CONFLICT (request_id) DO NOTHING
`
	if _, err := r.pool.Exec(ctx, q, qr.RequestID, qr.UserID, itemsJSON, qr.Notes, qr.Status); err != nil {
		r.logger.Error("wholesale repo: create quote", zap.String("user_id", qr.UserID), zap.Error(err))
		return nil, err
	}
	list, err := r.queryQuotes(ctx, quoteSelect+`WHERE request_id = $1`, qr.RequestID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	if list[0].UserID != qr.UserID {
		return nil, domain.ErrAlreadyExists
	}
	return &list[0], nil
}

func (r *postgresRepo) QuotesByUser(ctx context.Context, userID string) ([]domain.QuoteRequest, error) {
	return r.queryQuotes(ctx, quoteSelect+`WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepo) CountQuotes(ctx context.Context, status string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM quote_requests WHERE $1 = '' OR status = $1`, status).Scan(&n)
	return n, err
}

func (r *postgresRepo) queryQuotes(ctx context.Context, q string, arg string) ([]domain.QuoteRequest, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		r.logger.Error("wholesale repo: quotes", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.QuoteRequest{}
	for rows.Next() {
		var (
			qr        domain.QuoteRequest
			itemsJSON []byte
		)
		if err := rows.Scan(&qr.ID, &qr.RequestID, &qr.UserID, &itemsJSON, &qr.Notes, &qr.Status, &qr.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(itemsJSON, &qr.Items); err != nil {
			return nil, err
		}
		result = append(result, qr)
	}
	return result, rows.Err()
}
