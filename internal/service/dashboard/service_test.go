package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistore/internal/domain"
)

type stubOrders struct{ err error }

func (s stubOrders) ListByUser(context.Context, string) ([]domain.Order, error) {
	return []domain.Order{{ID: "o1"}}, s.err
}
func (stubOrders) Count(context.Context) (int, error) { return 7, nil }

type stubBookings struct{ doctorID string }

func (stubBookings) AppointmentsByUser(context.Context, string) ([]domain.Appointment, error) {
	return []domain.Appointment{{ID: "a1"}}, nil
}
func (s *stubBookings) AppointmentsByDoctor(_ context.Context, doctorID string) ([]domain.Appointment, error) {
	s.doctorID = doctorID
	return []domain.Appointment{{ID: "a2"}}, nil
}
func (stubBookings) LabBookingsByUser(context.Context, string) ([]domain.LabBooking, error) {
	return []domain.LabBooking{{ID: "l1"}}, nil
}
func (stubBookings) PrescriptionsByUser(context.Context, string) ([]domain.Prescription, error) {
	return []domain.Prescription{{ID: "p1"}}, nil
}
func (stubBookings) CountPrescriptions(_ context.Context, status string) (int, error) {
	if status != domain.StatusPending {
		return 0, errors.New("unexpected status")
	}
	return 3, nil
}

type stubDoctors struct{ doctor *domain.Doctor }

func (s stubDoctors) DoctorByUser(context.Context, string) (*domain.Doctor, error) {
	if s.doctor == nil {
		return nil, domain.ErrNotFound
	}
	return s.doctor, nil
}

type stubWholesale struct{ profile *domain.WholesaleProfile }

func (s stubWholesale) Profile(context.Context, string) (*domain.WholesaleProfile, error) {
	if s.profile == nil {
		return nil, domain.ErrNotFound
	}
	return s.profile, nil
}
func (stubWholesale) QuotesByUser(context.Context, string) ([]domain.QuoteRequest, error) {
	return []domain.QuoteRequest{{ID: "q1"}}, nil
}
func (stubWholesale) CountQuotes(context.Context, string) (int, error) { return 2, nil }

type stubUsers struct{}

func (stubUsers) Count(context.Context) (int, error) { return 11, nil }

type stubSettings struct{ settings *domain.AdminSettings }

func (s stubSettings) Get(context.Context) (*domain.AdminSettings, error) {
	if s.settings == nil {
		return nil, domain.ErrNotFound
	}
	return s.settings, nil
}

func newService(deps Deps) *Service {
	if deps.Orders == nil {
		deps.Orders = stubOrders{}
	}
	if deps.Bookings == nil {
		deps.Bookings = &stubBookings{}
	}
	if deps.Doctors == nil {
		deps.Doctors = stubDoctors{}
	}
	if deps.Wholesale == nil {
		deps.Wholesale = stubWholesale{}
	}
	if deps.Users == nil {
		deps.Users = stubUsers{}
	}
	if deps.Settings == nil {
		deps.Settings = stubSettings{}
	}
	return New(deps, nil)
}

var ctx = context.Background()

func TestCustomerDashboard(t *testing.T) {
	svc := newService(Deps{})

	_, err := svc.Customer(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	got, err := svc.Customer(ctx, &domain.Session{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, got.Orders, 1)
	assert.Len(t, got.Appointments, 1)
	assert.Len(t, got.LabBookings, 1)
	assert.Len(t, got.Prescriptions, 1)
}

func TestCustomerDashboardPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	svc := newService(Deps{Orders: stubOrders{err: boom}})

	_, err := svc.Customer(ctx, &domain.Session{UserID: "u1"})
	assert.ErrorIs(t, err, boom)
}

func TestDoctorDashboard(t *testing.T) {
	bookings := &stubBookings{}
	svc := newService(Deps{Bookings: bookings, Doctors: stubDoctors{doctor: &domain.Doctor{ID: "d1"}}})

	got, err := svc.Doctor(ctx, &domain.Session{UserID: "u9", Role: domain.RoleDoctor})
	require.NoError(t, err)
	assert.Equal(t, "d1", bookings.doctorID)
	assert.Equal(t, "a2", got.Appointments[0].ID)

	_, err = newService(Deps{}).Doctor(ctx, &domain.Session{UserID: "u9"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWholesaleDashboardTab(t *testing.T) {
	sess := &domain.Session{UserID: "w1", Role: domain.RoleWholesale}

	got, err := newService(Deps{}).Wholesale(ctx, sess, "products")
	require.NoError(t, err)
	assert.Nil(t, got.Profile)
	assert.Equal(t, domain.TabDashboard, got.Tab)

	verified := stubWholesale{profile: &domain.WholesaleProfile{IsVerified: true}}
	got, err = newService(Deps{Wholesale: verified}).Wholesale(ctx, sess, "products")
	require.NoError(t, err)
	assert.Equal(t, domain.TabProducts, got.Tab)
	assert.Len(t, got.Quotes, 1)
}

func TestAdminDashboard(t *testing.T) {
	settings := stubSettings{settings: &domain.AdminSettings{StoreName: "MediStore", PaymentSecretKey: "sk_live_abcdef1234"}}
	svc := newService(Deps{Settings: settings})

	_, err := svc.Admin(ctx, &domain.Session{UserID: "u1", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.Admin(ctx, &domain.Session{UserID: "a1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 11, got.Users)
	assert.Equal(t, 7, got.Orders)
	assert.Equal(t, 3, got.PendingPrescriptions)
	assert.Equal(t, 2, got.PendingQuotes)
	require.NotNil(t, got.Settings)
	assert.Equal(t, "****1234", got.Settings.PaymentSecretKey)
}
