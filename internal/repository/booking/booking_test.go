package booking

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"medistore/internal/domain"
	"medistore/internal/migrate"
)

func TestPostgres_CreatePrescriptionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	owner := insertUser(ctx, t, pool, "owner@example.com")
	other := insertUser(ctx, t, pool, "other@example.com")

	repo := NewPostgres(pool, nil)
	req := domain.Prescription{
		RequestID: uuid.NewString(),
		UserID:    owner,
		ImageURL:  "http://localhost:8080/uploads/prescriptions/x.png",
		Status:    domain.StatusPending,
	}
	first, err := repo.CreatePrescription(ctx, req)
	if err != nil {
		t.Fatalf("CreatePrescription: %v", err)
	}
	second, err := repo.CreatePrescription(ctx, req)
	if err != nil {
		t.Fatalf("CreatePrescription retry: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected retry to return the same row, got %s and %s", first.ID, second.ID)
	}

	list, err := repo.PrescriptionsByUser(ctx, owner)
	if err != nil {
		t.Fatalf("PrescriptionsByUser: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 prescription, got %d", len(list))
	}

	req.UserID = other
	if _, err := repo.CreatePrescription(ctx, req); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for foreign request id, got %v", err)
	}

	n, err := repo.CountPrescriptions(ctx, domain.StatusPending)
	if err != nil || n != 1 {
		t.Fatalf("CountPrescriptions: %d %v", n, err)
	}
}

func TestPostgres_CreateAppointmentJoinsDoctor(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	user := insertUser(ctx, t, pool, "patient@example.com")
	var doctorID string
	if err := pool.QueryRow(ctx, `INSERT INTO doctors (name, specialty) VALUES ('Dr. Rao', 'ENT') RETURNING id::text`).Scan(&doctorID); err != nil {
		t.Fatalf("insert doctor: %v", err)
	}

	repo := NewPostgres(pool, nil)
	a, err := repo.CreateAppointment(ctx, domain.Appointment{
		RequestID:            uuid.NewString(),
		UserID:               user,
		DoctorID:             doctorID,
		Date:                 "2030-01-02",
		Time:                 "10:30 AM",
		Mode:                 domain.ModeAudio,
		ConsultationFeeCents: domain.DefaultConsultationFeeCents,
		Status:               domain.StatusPending,
		PaymentStatus:        domain.StatusPending,
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if a.DoctorName != "Dr. Rao" || a.Date != "2030-01-02" || a.Mode != domain.ModeAudio {
		t.Fatalf("unexpected appointment %+v", a)
	}

	byDoctor, err := repo.AppointmentsByDoctor(ctx, doctorID)
	if err != nil || len(byDoctor) != 1 {
		t.Fatalf("AppointmentsByDoctor: %v %+v", err, byDoctor)
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
	if _, err := pool.Exec(ctx, `TRUNCATE appointments, lab_bookings, prescriptions, doctors, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	if err := pool.QueryRow(ctx, `INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id::text`, email).Scan(&id); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}
