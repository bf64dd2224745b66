package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
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

// ListByUser returns the user's lines joined with current catalog data, in
// insertion order.
func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	const q = `
SELECT ci.id::text, ci.medicine_id::text, ci.quantity, ci.created_at,
       COALESCE(m.name, ''), COALESCE(m.brand, ''), COALESCE(m.price_cents, 0),
       COALESCE(m.discount_percent, 0), COALESCE(m.image_url, ''), COALESCE(m.requires_prescription, false)
FROM cart_items ci
LEFT JOIN medicines m ON m.id = ci.medicine_id
WHERE ci.user_id = $1
ORDER BY ci.created_at ASC, ci.id ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Error("cart repo: list", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var (
			line     domain.CartLine
			discount int
		)
		if err := rows.Scan(
			&line.LineID,
			&line.ProductID,
			&line.Quantity,
			&line.CreatedAt,
			&line.Name,
			&line.Brand,
			&line.UnitPriceCents,
			&discount,
			&line.ImageRef,
			&line.RequiresPrescription,
		); err != nil {
			return nil, err
		}
		if line.Name == "" {
			line.Name = "Unknown"
		}
		line.ListPriceCents = domain.ListPriceCents(line.UnitPriceCents, discount)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) Insert(ctx context.Context, userID, medicineID string, quantity int) (string, error) {
	const q = `
INSERT INTO cart_items (user_id, medicine_id, quantity)
VALUES ($1, $2, $3)
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, userID, medicineID, quantity).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", domain.ErrAlreadyExists
		}
		return "", err
	}
	return id, nil
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, userID, medicineID string, quantity int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items
SET quantity = $3
WHERE user_id = $1 AND medicine_id = $2
`, userID, medicineID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, medicineID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE user_id = $1 AND medicine_id = $2
`, userID, medicineID)
	return err
}

func (r *postgresRepo) DeleteAll(ctx context.Context, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	r.logger.Debug("cart repo: cleared", zap.String("user_id", userID), zap.Int64("rows", cmd.RowsAffected()))
	return nil
}
