package booking

import (
	"context"

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

const appointmentSelect = `
SELECT a.id::text, a.request_id::text, a.user_id::text, a.doctor_id::text,
       COALESCE(d.name, ''), COALESCE(d.specialty, ''),
       a.appointment_date::text, a.appointment_time, a.consultation_mode,
       a.consultation_fee_cents, COALESCE(a.symptoms, ''), a.status, a.payment_status, a.created_at
FROM appointments a
LEFT JOIN doctors d ON d.id = a.doctor_id
`

func (r *postgresRepo) CreateAppointment(ctx context.Context, a domain.Appointment) (*domain.Appointment, error) {
	const q = `
INSERT INTO appointments (request_id, user_id, doctor_id, appointment_date, appointment_time,
                          consultation_mode, consultation_fee_cents, symptoms, status, payment_status)
VALUES ($1, $2, $3, $4::date, $5, $6, $7, NULLIF($8, ''), $9, $10)
ON CONFLICT (request_id) DO NOTHING
`
	if _, err := r.pool.Exec(ctx, q,
		a.RequestID,
		a.UserID,
		a.DoctorID,
		a.Date,
		a.Time,
		string(a.Mode),
		a.ConsultationFeeCents,
		a.Symptoms,
		a.Status,
		a.PaymentStatus,
	); err != nil {
		r.logger.Error("booking repo: create appointment", zap.String("user_id", a.UserID), zap.Error(err))
		return nil, err
	}
	list, err := r.queryAppointments(ctx, appointmentSelect+`WHERE a.request_id = $1`, a.RequestID)
	if err != nil {
		return nil, err
	}
	return ownedFirst(list, a.UserID, func(x domain.Appointment) string { return x.UserID })
}

func (r *postgresRepo) AppointmentsByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	return r.queryAppointments(ctx, appointmentSelect+`WHERE a.user_id = $1 ORDER BY a.appointment_date DESC, a.created_at DESC`, userID)
}

func (r *postgresRepo) AppointmentsByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	return r.queryAppointments(ctx, appointmentSelect+`WHERE a.doctor_id = $1 ORDER BY a.appointment_date ASC, a.appointment_time ASC`, doctorID)
}

func (r *postgresRepo) queryAppointments(ctx context.Context, q string, arg string) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		r.logger.Error("booking repo: appointments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Appointment{}
	for rows.Next() {
		var (
			a    domain.Appointment
			mode string
		)
		if err := rows.Scan(
			&a.ID,
			&a.RequestID,
			&a.UserID,
			&a.DoctorID,
			&a.DoctorName,
			&a.Specialty,
			&a.Date,
			&a.Time,
			&mode,
			&a.ConsultationFeeCents,
			&a.Symptoms,
			&a.Status,
			&a.PaymentStatus,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.Mode = domain.ConsultationMode(mode)
		result = append(result, a)
	}
	return result, rows.Err()
}

const labBookingSelect = `
SELECT b.id::text, b.request_id::text, b.user_id::text,
       b.lab_test_id::text, b.scan_test_id::text, b.health_package_id::text,
       COALESCE(lt.name, st.name, hp.name, ''),
       b.booking_date::text, b.time_slot, COALESCE(b.address, ''), b.status, b.created_at
FROM lab_bookings b
LEFT JOIN lab_tests lt ON lt.id = b.lab_test_id
LEFT JOIN scan_tests st ON st.id = b.scan_test_id
LEFT JOIN health_packages hp ON hp.id = b.health_package_id
`

func (r *postgresRepo) CreateLabBooking(ctx context.Context, b domain.LabBooking) (*domain.LabBooking, error) {
	const q = `
INSERT INTO lab_bookings (request_id, user_id, lab_test_id, scan_test_id, health_package_id,
                          booking_date, time_slot, address, status)
VALUES ($1, $2, $3, $4, $5, $6::date, $7, NULLIF($8, ''), $9)
ON CONFLICT (request_id) DO NOTHING
`
	if _, err := r.pool.Exec(ctx, q,
		b.RequestID,
		b.UserID,
		b.LabTestID,
		b.ScanTestID,
		b.HealthPackageID,
		b.BookingDate,
		b.TimeSlot,
		b.Address,
		b.Status,
	); err != nil {
		r.logger.Error("booking repo: create lab booking", zap.String("user_id", b.UserID), zap.Error(err))
		return nil, err
	}
	list, err := r.queryLabBookings(ctx, labBookingSelect+`WHERE b.request_id = $1`, b.RequestID)
	if err != nil {
		return nil, err
	}
	return ownedFirst(list, b.UserID, func(x domain.LabBooking) string { return x.UserID })
}

func (r *postgresRepo) LabBookingsByUser(ctx context.Context, userID string) ([]domain.LabBooking, error) {
	return r.queryLabBookings(ctx, labBookingSelect+`WHERE b.user_id = $1 ORDER BY b.booking_date DESC, b.created_at DESC`, userID)
}

func (r *postgresRepo) queryLabBookings(ctx context.Context, q string, arg string) ([]domain.LabBooking, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		r.logger.Error("booking repo: lab bookings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.LabBooking{}
	for rows.Next() {
		var b domain.LabBooking
		if err := rows.Scan(
			&b.ID,
			&b.RequestID,
			&b.UserID,
			&b.LabTestID,
			&b.ScanTestID,
			&b.HealthPackageID,
			&b.ItemName,
			&b.BookingDate,
			&b.TimeSlot,
			&b.Address,
			&b.Status,
			&b.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

const prescriptionSelect = `
SELECT id::text, request_id::text, user_id::text, image_url, COALESCE(notes, ''), status, created_at
FROM prescriptions
`

func (r *postgresRepo) CreatePrescription(ctx context.Context, p domain.Prescription) (*domain.Prescription, error) {
	const q = `
INSERT INTO prescriptions (request_id, user_id, image_url, notes, status)
VALUES ($1, $2, $3, NULLIF($4, ''), $5)
ON CONFLICT (request_id) DO NOTHING
`
	if _, err := r.pool.Exec(ctx, q, p.RequestID, p.UserID, p.ImageURL, p.Notes, p.Status); err != nil {
		r.logger.Error("booking repo: create prescription", zap.String("user_id", p.UserID), zap.Error(err))
		return nil, err
	}
	list, err := r.queryPrescriptions(ctx, prescriptionSelect+`WHERE request_id = $1`, p.RequestID)
	if err != nil {
		return nil, err
	}
	return ownedFirst(list, p.UserID, func(x domain.Prescription) string { return x.UserID })
}

func (r *postgresRepo) PrescriptionsByUser(ctx context.Context, userID string) ([]domain.Prescription, error) {
	return r.queryPrescriptions(ctx, prescriptionSelect+`WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepo) CountPrescriptions(ctx context.Context, status string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM prescriptions WHERE $1 = '' OR status = $1`, status).Scan(&n)
	return n, err
}

func (r *postgresRepo) queryPrescriptions(ctx context.Context, q string, arg string) ([]domain.Prescription, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		r.logger.Error("booking repo: prescriptions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Prescription{}
	for rows.Next() {
		var p domain.Prescription
		if err := rows.Scan(&p.ID, &p.RequestID, &p.UserID, &p.ImageURL, &p.Notes, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ownedFirst returns the row stored under a request id, rejecting ids that
// were already used by another user.
func ownedFirst[T any](list []T, userID string, owner func(T) string) (*T, error) {
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	if owner(list[0]) != userID {
		return nil, domain.ErrAlreadyExists
	}
	return &list[0], nil
}
