package catalog

import (
	"context"
	"encoding/json"
	"errors"

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

const doctorColumns = `id::text, user_id::text, name, specialty, qualification, experience_years,
       consultation_fee_cents, rating::float8, is_available, profile_image, created_at`

func (r *postgresRepo) Doctors(ctx context.Context, specialty string) ([]domain.Doctor, error) {
	q := `SELECT ` + doctorColumns + `
FROM doctors
WHERE is_available AND ($1 = '' OR specialty = $1)
ORDER BY rating DESC, name ASC
`
	return r.queryDoctors(ctx, q, specialty)
}

func (r *postgresRepo) AllDoctors(ctx context.Context) ([]domain.Doctor, error) {
	return r.queryDoctors(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY created_at DESC`)
}

func (r *postgresRepo) DoctorByID(ctx context.Context, id string) (*domain.Doctor, error) {
	return r.oneDoctor(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id)
}

func (r *postgresRepo) DoctorByUser(ctx context.Context, userID string) (*domain.Doctor, error) {
	return r.oneDoctor(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE user_id = $1 LIMIT 1`, userID)
}

func (r *postgresRepo) CreateDoctor(ctx context.Context, d domain.Doctor) (*domain.Doctor, error) {
	const q = `
INSERT INTO doctors (user_id, name, specialty, qualification, experience_years,
                     consultation_fee_cents, rating, is_available, profile_image)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id::text, created_at
`
	out := d
	err := r.pool.QueryRow(ctx, q,
		d.UserID,
		d.Name,
		d.Specialty,
		d.Qualification,
		d.ExperienceYears,
		d.ConsultationFeeCents,
		d.Rating,
		d.IsAvailable,
		d.ProfileImage,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.logger.Error("catalog repo: create doctor", zap.String("name", d.Name), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) DeleteDoctor(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) queryDoctors(ctx context.Context, q string, args ...any) ([]domain.Doctor, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("catalog repo: doctors", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

func (r *postgresRepo) oneDoctor(ctx context.Context, q string, arg string) (*domain.Doctor, error) {
	d, err := scanDoctor(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func scanDoctor(row pgx.Row) (*domain.Doctor, error) {
	var d domain.Doctor
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Specialty,
		&d.Qualification,
		&d.ExperienceYears,
		&d.ConsultationFeeCents,
		&d.Rating,
		&d.IsAvailable,
		&d.ProfileImage,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *postgresRepo) LabTests(ctx context.Context, category string) ([]domain.LabTest, error) {
	const q = `
SELECT id::text, name, category, description, price_cents, is_active
FROM lab_tests
WHERE is_active AND ($1 = '' OR category = $1)
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.LabTest{}
	for rows.Next() {
		var t domain.LabTest
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.PriceCents, &t.IsActive); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *postgresRepo) LabTestByID(ctx context.Context, id string) (*domain.LabTest, error) {
	const q = `SELECT id::text, name, category, description, price_cents, is_active FROM lab_tests WHERE id = $1`
	var t domain.LabTest
	if err := r.pool.QueryRow(ctx, q, id).Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.PriceCents, &t.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepo) CreateLabTest(ctx context.Context, t domain.LabTest) (*domain.LabTest, error) {
	const q = `
INSERT INTO lab_tests (name, category, description, price_cents, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`
	out := t
	if err := r.pool.QueryRow(ctx, q, t.Name, t.Category, t.Description, t.PriceCents, t.IsActive).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) ScanTests(ctx context.Context, scanType string) ([]domain.ScanTest, error) {
	const q = `
SELECT id::text, name, type, description, price_cents, is_active
FROM scan_tests
WHERE is_active AND ($1 = '' OR type = $1)
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q, scanType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ScanTest{}
	for rows.Next() {
		var t domain.ScanTest
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.Description, &t.PriceCents, &t.IsActive); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *postgresRepo) ScanTestByID(ctx context.Context, id string) (*domain.ScanTest, error) {
	const q = `SELECT id::text, name, type, description, price_cents, is_active FROM scan_tests WHERE id = $1`
	var t domain.ScanTest
	if err := r.pool.QueryRow(ctx, q, id).Scan(&t.ID, &t.Name, &t.Type, &t.Description, &t.PriceCents, &t.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepo) CreateScanTest(ctx context.Context, t domain.ScanTest) (*domain.ScanTest, error) {
	const q = `
INSERT INTO scan_tests (name, type, description, price_cents, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`
	out := t
	if err := r.pool.QueryRow(ctx, q, t.Name, t.Type, t.Description, t.PriceCents, t.IsActive).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) HealthPackages(ctx context.Context) ([]domain.HealthPackage, error) {
	const q = `
SELECT id::text, name, description, tests, price_cents, is_popular, is_active
FROM health_packages
WHERE is_active
ORDER BY is_popular DESC, name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.HealthPackage{}
	for rows.Next() {
		p, err := r.scanPackage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *postgresRepo) HealthPackageByID(ctx context.Context, id string) (*domain.HealthPackage, error) {
	const q = `
SELECT id::text, name, description, tests, price_cents, is_popular, is_active
FROM health_packages
WHERE id = $1
`
	p, err := r.scanPackage(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) CreateHealthPackage(ctx context.Context, p domain.HealthPackage) (*domain.HealthPackage, error) {
	tests := p.Tests
	if tests == nil {
		tests = []string{}
	}
	testsJSON, err := json.Marshal(tests)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO health_packages (name, description, tests, price_cents, is_popular, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`
	out := p
	if err := r.pool.QueryRow(ctx, q, p.Name, p.Description, testsJSON, p.PriceCents, p.IsPopular, p.IsActive).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) scanPackage(row pgx.Row) (*domain.HealthPackage, error) {
	var (
		p         domain.HealthPackage
		testsJSON []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &testsJSON, &p.PriceCents, &p.IsPopular, &p.IsActive); err != nil {
		return nil, err
	}
	if len(testsJSON) > 0 {
		if err := json.Unmarshal(testsJSON, &p.Tests); err != nil {
			r.logger.Error("catalog repo: decode package tests", zap.String("id", p.ID), zap.Error(err))
			return nil, err
		}
	}
	return &p, nil
}
