package order

import (
	"context"
	"encoding/json"

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

const orderSelect = `
SELECT id::text, request_id::text, user_id::text, items, subtotal_cents, shipping_address,
       payment_method, status, payment_status, created_at
FROM orders
`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	itemsJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO orders (request_id, user_id, items, subtotal_cents, shipping_address, payment_method, status, payment_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (request_id) DO NOTHING
`
	if _, err := r.pool.Exec(ctx, q,
		o.RequestID,
		o.UserID,
		itemsJSON,
		o.SubtotalCents,
		o.Address,
		o.PaymentMethod,
		o.Status,
		o.PaymentStatus,
	); err != nil {
		r.logger.Error("order repo: create", zap.String("user_id", o.UserID), zap.Error(err))
		return nil, err
	}

	list, err := r.query(ctx, orderSelect+`WHERE request_id = $1`, o.RequestID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	if list[0].UserID != o.UserID {
		return nil, domain.ErrAlreadyExists
	}
	return &list[0], nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.query(ctx, orderSelect+`WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&n)
	return n, err
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("order repo: query", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		var (
			o         domain.Order
			itemsJSON []byte
		)
		if err := rows.Scan(
			&o.ID,
			&o.RequestID,
			&o.UserID,
			&itemsJSON,
			&o.SubtotalCents,
			&o.Address,
			&o.PaymentMethod,
			&o.Status,
			&o.PaymentStatus,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(itemsJSON, &o.Lines); err != nil {
			r.logger.Error("order repo: decode items", zap.String("id", o.ID), zap.Error(err))
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}
