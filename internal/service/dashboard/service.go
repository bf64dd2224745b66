// Package dashboard assembles the per-role dashboard views.
package dashboard

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"medistore/internal/domain"
	"medistore/internal/logging"
	"medistore/internal/service/wholesale"
)

type orderReader interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Count(ctx context.Context) (int, error)
}

type bookingReader interface {
	AppointmentsByUser(ctx context.Context, userID string) ([]domain.Appointment, error)
	AppointmentsByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error)
	LabBookingsByUser(ctx context.Context, userID string) ([]domain.LabBooking, error)
	PrescriptionsByUser(ctx context.Context, userID string) ([]domain.Prescription, error)
	CountPrescriptions(ctx context.Context, status string) (int, error)
}

type doctorReader interface {
	DoctorByUser(ctx context.Context, userID string) (*domain.Doctor, error)
}

type wholesaleReader interface {
	Profile(ctx context.Context, userID string) (*domain.WholesaleProfile, error)
	QuotesByUser(ctx context.Context, userID string) ([]domain.QuoteRequest, error)
	CountQuotes(ctx context.Context, status string) (int, error)
}

type userCounter interface {
	Count(ctx context.Context) (int, error)
}

type settingsReader interface {
	Get(ctx context.Context) (*domain.AdminSettings, error)
}

// Deps lists the stores the dashboards read from.
type Deps struct {
	Orders    orderReader
	Bookings  bookingReader
	Doctors   doctorReader
	Wholesale wholesaleReader
	Users     userCounter
	Settings  settingsReader
}

type Service struct {
	deps   Deps
	logger *zap.Logger
}

func New(deps Deps, logger *zap.Logger) *Service {
	return &Service{deps: deps, logger: logging.OrNop(logger)}
}

type Customer struct {
	Orders        []domain.Order        `json:"orders"`
	Appointments  []domain.Appointment  `json:"appointments"`
	LabBookings   []domain.LabBooking   `json:"labBookings"`
	Prescriptions []domain.Prescription `json:"prescriptions"`
}

// Customer reads the four customer histories in parallel.
func (s *Service) Customer(ctx context.Context, sess *domain.Session) (*Customer, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	var out Customer
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Orders, err = s.deps.Orders.ListByUser(gctx, sess.UserID)
		return err
	})
	g.Go(func() (err error) {
		out.Appointments, err = s.deps.Bookings.AppointmentsByUser(gctx, sess.UserID)
		return err
	})
	g.Go(func() (err error) {
		out.LabBookings, err = s.deps.Bookings.LabBookingsByUser(gctx, sess.UserID)
		return err
	})
	g.Go(func() (err error) {
		out.Prescriptions, err = s.deps.Bookings.PrescriptionsByUser(gctx, sess.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard: customer", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

type Doctor struct {
	Profile      *domain.Doctor       `json:"profile"`
	Appointments []domain.Appointment `json:"appointments"`
}

// Doctor lists appointments addressed to the doctor profile linked to the
// caller. Returns domain.ErrNotFound when no profile is linked.
func (s *Service) Doctor(ctx context.Context, sess *domain.Session) (*Doctor, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	profile, err := s.deps.Doctors.DoctorByUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	appts, err := s.deps.Bookings.AppointmentsByDoctor(ctx, profile.ID)
	if err != nil {
		s.logger.Error("dashboard: doctor appointments", zap.String("doctor_id", profile.ID), zap.Error(err))
		return nil, err
	}
	return &Doctor{Profile: profile, Appointments: appts}, nil
}

type Wholesale struct {
	Profile *domain.WholesaleProfile `json:"profile"`
	Quotes  []domain.QuoteRequest    `json:"quotes"`
	Tab     domain.WholesaleTab      `json:"tab"`
}

// Wholesale returns the caller's profile, quotes and the tab they may see.
// A missing profile is not an error; the view then shows the dashboard tab.
func (s *Service) Wholesale(ctx context.Context, sess *domain.Session, tab string) (*Wholesale, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	var out Wholesale
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.deps.Wholesale.Profile(gctx, sess.UserID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		out.Profile = p
		return nil
	})
	g.Go(func() (err error) {
		out.Quotes, err = s.deps.Wholesale.QuotesByUser(gctx, sess.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard: wholesale", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, err
	}
	out.Tab = wholesale.VisibleTab(out.Profile, tab)
	return &out, nil
}

type Admin struct {
	Users                int                   `json:"users"`
	Orders               int                   `json:"orders"`
	PendingPrescriptions int                   `json:"pendingPrescriptions"`
	PendingQuotes        int                   `json:"pendingQuotes"`
	Settings             *domain.AdminSettings `json:"settings,omitempty"`
}

// Admin returns store-wide counters and the redacted settings.
func (s *Service) Admin(ctx context.Context, sess *domain.Session) (*Admin, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	if sess.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	var out Admin
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Users, err = s.deps.Users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Orders, err = s.deps.Orders.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.PendingPrescriptions, err = s.deps.Bookings.CountPrescriptions(gctx, domain.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		out.PendingQuotes, err = s.deps.Wholesale.CountQuotes(gctx, domain.StatusPending)
		return err
	})
	g.Go(func() error {
		st, err := s.deps.Settings.Get(gctx)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if st != nil {
			redacted := st.Redacted()
			out.Settings = &redacted
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard: admin", zap.Error(err))
		return nil, err
	}
	return &out, nil
}
