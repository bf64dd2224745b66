package booking

import (
	"context"

	"medistore/internal/domain"
)

// Repository stores the three booking kinds. Create methods are idempotent
// on RequestID: a second call with the same id returns the stored row.
type Repository interface {
	CreateAppointment(ctx context.Context, a domain.Appointment) (*domain.Appointment, error)
	AppointmentsByUser(ctx context.Context, userID string) ([]domain.Appointment, error)
	AppointmentsByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error)

	CreateLabBooking(ctx context.Context, b domain.LabBooking) (*domain.LabBooking, error)
	LabBookingsByUser(ctx context.Context, userID string) ([]domain.LabBooking, error)

	CreatePrescription(ctx context.Context, p domain.Prescription) (*domain.Prescription, error)
	PrescriptionsByUser(ctx context.Context, userID string) ([]domain.Prescription, error)
	CountPrescriptions(ctx context.Context, status string) (int, error)
}
