package catalog

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"medistore/internal/domain"
	"medistore/internal/migrate"
)

func TestPostgres_DoctorsOrderedByRating(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)
	for _, d := range []domain.Doctor{
		{Name: "Dr. Low", Specialty: "Cardiology", Rating: 3.9, IsAvailable: true},
		{Name: "Dr. High", Specialty: "Cardiology", Rating: 4.8, IsAvailable: true},
		{Name: "Dr. Away", Specialty: "Cardiology", Rating: 5.0, IsAvailable: false},
		{Name: "Dr. Skin", Specialty: "Dermatology", Rating: 4.1, IsAvailable: true},
	} {
		if _, err := repo.CreateDoctor(ctx, d); err != nil {
			t.Fatalf("CreateDoctor: %v", err)
		}
	}

	list, err := repo.Doctors(ctx, "Cardiology")
	if err != nil {
		t.Fatalf("Doctors: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Dr. High" {
		t.Fatalf("unexpected doctors %+v", list)
	}

	all, err := repo.AllDoctors(ctx)
	if err != nil {
		t.Fatalf("AllDoctors: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 doctors, got %d", len(all))
	}

	if err := repo.DeleteDoctor(ctx, list[0].ID); err != nil {
		t.Fatalf("DeleteDoctor: %v", err)
	}
	if _, err := repo.DoctorByID(ctx, list[0].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgres_PackagesPopularFirst(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)
	if _, err := repo.CreateHealthPackage(ctx, domain.HealthPackage{Name: "Basic", PriceCents: 99900, IsActive: true}); err != nil {
		t.Fatalf("create basic: %v", err)
	}
	if _, err := repo.CreateHealthPackage(ctx, domain.HealthPackage{Name: "Full Body", Tests: []string{"CBC", "Lipid"}, PriceCents: 299900, IsPopular: true, IsActive: true}); err != nil {
		t.Fatalf("create full body: %v", err)
	}

	list, err := repo.HealthPackages(ctx)
	if err != nil {
		t.Fatalf("HealthPackages: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Full Body" || len(list[0].Tests) != 2 {
		t.Fatalf("unexpected packages %+v", list)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE doctors, lab_tests, scan_tests, health_packages RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}
