package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medistore/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const settingsColumns = `store_name, support_email, payment_public_key, payment_secret_key,
       delivery_fee_cents, free_delivery_above_cents, maintenance_message, updated_at`

func (r *postgresRepo) Get(ctx context.Context) (*domain.AdminSettings, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+settingsColumns+` FROM admin_settings WHERE id = $1`, domain.SettingsID)
	s, err := scanSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, s domain.AdminSettings) (*domain.AdminSettings, error) {
	const q = `
INSERT INTO admin_settings (id, store_name, support_email, payment_public_key, payment_secret_key,
                            delivery_fee_cents, free_delivery_above_cents, maintenance_message, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
ON CONFLICT (id) DO UPDATE SET
    store_name = EXCLUDED.store_name,
    support_email = EXCLUDED.support_email,
    payment_public_key = EXCLUDED.payment_public_key,
    payment_secret_key = EXCLUDED.payment_secret_key,
    delivery_fee_cents = EXCLUDED.delivery_fee_cents,
    free_delivery_above_cents = EXCLUDED.free_delivery_above_cents,
    maintenance_message = EXCLUDED.maintenance_message,
    updated_at = now()
RETURNING ` + settingsColumns
	return scanSettings(r.pool.QueryRow(ctx, q,
		domain.SettingsID,
		s.StoreName,
		s.SupportEmail,
		s.PaymentPublicKey,
		s.PaymentSecretKey,
		s.DeliveryFeeCents,
		s.FreeDeliveryAboveCents,
		s.MaintenanceMessage,
	))
}

func scanSettings(row pgx.Row) (*domain.AdminSettings, error) {
	var s domain.AdminSettings
	if err := row.Scan(
		&s.StoreName,
		&s.SupportEmail,
		&s.PaymentPublicKey,
		&s.PaymentSecretKey,
		&s.DeliveryFeeCents,
		&s.FreeDeliveryAboveCents,
		&s.MaintenanceMessage,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
