// Package booking submits appointments, lab bookings and prescription
// uploads. Every submission carries a request id so a retried submit returns
// the record created by the first attempt.
package booking

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
)

type bookingRepo interface {
	CreateAppointment(ctx context.Context, a domain.Appointment) (*domain.Appointment, error)
	CreateLabBooking(ctx context.Context, b domain.LabBooking) (*domain.LabBooking, error)
	CreatePrescription(ctx context.Context, p domain.Prescription) (*domain.Prescription, error)
}

type catalogReader interface {
	DoctorByID(ctx context.Context, id string) (*domain.Doctor, error)
	LabTestByID(ctx context.Context, id string) (*domain.LabTest, error)
	ScanTestByID(ctx context.Context, id string) (*domain.ScanTest, error)
	HealthPackageByID(ctx context.Context, id string) (*domain.HealthPackage, error)
}

// ObjectStore is where prescription files go.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, r io.Reader) (string, error)
	PublicURL(objectPath string) string
}

const dashboardRoute = "/dashboard"

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".pdf": true,
}

type Service struct {
	repo      bookingRepo
	catalog   catalogReader
	objects   ObjectStore
	maxUpload int64
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a Service. maxUpload defaults to 5 MiB.
func New(repo bookingRepo, catalog catalogReader, objects ObjectStore, maxUpload int64, logger *zap.Logger) *Service {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &Service{
		repo:      repo,
		catalog:   catalog,
		objects:   objects,
		maxUpload: maxUpload,
		now:       time.Now,
		logger:    logging.OrNop(logger),
	}
}

type AppointmentInput struct {
	RequestID string `json:"requestId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"appointmentDate"`
	Time      string `json:"appointmentTime"`
	Mode      string `json:"consultationMode"`
	Symptoms  string `json:"symptoms"`
}

// BookAppointment books a consultation with a doctor.
func (s *Service) BookAppointment(ctx context.Context, sess *domain.Session, in AppointmentInput) (*domain.Confirmation, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	requestID, err := domain.NormalizeRequestID(in.RequestID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.DoctorID) == "" {
		return nil, domain.Invalid("doctorId", "doctor required")
	}
	date, err := s.validateDate(in.Date)
	if err != nil {
		return nil, err
	}
	slot := strings.TrimSpace(in.Time)
	if slot == "" {
		return nil, domain.Invalid("appointmentTime", "please select date and time")
	}
	if !domain.ValidTimeSlot(slot) {
		return nil, domain.Invalid("appointmentTime", "unknown time slot")
	}
	mode := domain.ModeVideo
	if m := strings.TrimSpace(strings.ToLower(in.Mode)); m != "" {
		mode = domain.ConsultationMode(m)
		if !mode.Valid() {
			return nil, domain.Invalid("consultationMode", "unknown consultation mode")
		}
	}

	doctor, err := s.catalog.DoctorByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsAvailable {
		return nil, domain.Invalid("doctorId", "doctor is not available")
	}
	fee := doctor.ConsultationFeeCents
	if fee <= 0 {
		fee = domain.DefaultConsultationFeeCents
	}

	a, err := s.repo.CreateAppointment(ctx, domain.Appointment{
		RequestID:            requestID,
		UserID:               sess.UserID,
		DoctorID:             doctor.ID,
		Date:                 date,
		Time:                 slot,
		Mode:                 mode,
		ConsultationFeeCents: fee,
		Symptoms:             strings.TrimSpace(in.Symptoms),
		Status:               domain.StatusPending,
		PaymentStatus:        domain.StatusPending,
	})
	if err != nil {
		s.logger.Error("booking: create appointment", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, fmt.Errorf("book appointment: %w", err)
	}
	return &domain.Confirmation{ID: a.ID, Redirect: dashboardRoute, Message: "Appointment booked successfully"}, nil
}

type LabBookingInput struct {
	RequestID       string `json:"requestId"`
	LabTestID       string `json:"labTestId"`
	ScanTestID      string `json:"scanTestId"`
	HealthPackageID string `json:"healthPackageId"`
	Date            string `json:"bookingDate"`
	TimeSlot        string `json:"timeSlot"`
	Address         string `json:"address"`
}

// BookLabTest books exactly one lab test, scan or health package.
func (s *Service) BookLabTest(ctx context.Context, sess *domain.Session, in LabBookingInput) (*domain.Confirmation, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	requestID, err := domain.NormalizeRequestID(in.RequestID)
	if err != nil {
		return nil, err
	}
	b := domain.LabBooking{
		RequestID: requestID,
		UserID:    sess.UserID,
		Address:   strings.TrimSpace(in.Address),
		Status:    domain.StatusPending,
	}
	picked := 0
	if id := strings.TrimSpace(in.LabTestID); id != "" {
		b.LabTestID = &id
		picked++
	}
	if id := strings.TrimSpace(in.ScanTestID); id != "" {
		b.ScanTestID = &id
		picked++
	}
	if id := strings.TrimSpace(in.HealthPackageID); id != "" {
		b.HealthPackageID = &id
		picked++
	}
	if picked != 1 {
		return nil, domain.Invalid("", "select exactly one test, scan or package")
	}
	if b.BookingDate, err = s.validateDate(in.Date); err != nil {
		return nil, err
	}
	b.TimeSlot = strings.TrimSpace(in.TimeSlot)
	if b.TimeSlot == "" {
		return nil, domain.Invalid("timeSlot", "please select date and time")
	}
	if !domain.ValidTimeSlot(b.TimeSlot) {
		return nil, domain.Invalid("timeSlot", "unknown time slot")
	}
	if err := s.checkBookable(ctx, b); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateLabBooking(ctx, b)
	if err != nil {
		s.logger.Error("booking: create lab booking", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, fmt.Errorf("book lab test: %w", err)
	}
	return &domain.Confirmation{ID: created.ID, Redirect: dashboardRoute, Message: "Test booked successfully"}, nil
}

func (s *Service) checkBookable(ctx context.Context, b domain.LabBooking) error {
	switch {
	case b.LabTestID != nil:
		t, err := s.catalog.LabTestByID(ctx, *b.LabTestID)
		if err != nil {
			return err
		}
		if !t.IsActive {
			return domain.ErrNotFound
		}
	case b.ScanTestID != nil:
		t, err := s.catalog.ScanTestByID(ctx, *b.ScanTestID)
		if err != nil {
			return err
		}
		if !t.IsActive {
			return domain.ErrNotFound
		}
	case b.HealthPackageID != nil:
		p, err := s.catalog.HealthPackageByID(ctx, *b.HealthPackageID)
		if err != nil {
			return err
		}
		if !p.IsActive {
			return domain.ErrNotFound
		}
	}
	return nil
}

// PrescriptionFile is an uploaded prescription image or PDF.
type PrescriptionFile struct {
	Name string
	Size int64
	Body io.Reader
}

type PrescriptionInput struct {
	RequestID string
	Notes     string
	File      *PrescriptionFile
}

// UploadPrescription stores the file at <userID>/<unixMillis>.<ext> and
// records it for pharmacist review. Nothing is sent anywhere when no file is
// attached.
func (s *Service) UploadPrescription(ctx context.Context, sess *domain.Session, in PrescriptionInput) (*domain.Confirmation, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	if in.File == nil || in.File.Body == nil {
		return nil, domain.Invalid("file", "please select a prescription image")
	}
	requestID, err := domain.NormalizeRequestID(in.RequestID)
	if err != nil {
		return nil, err
	}
	if in.File.Size > s.maxUpload {
		return nil, domain.Invalid("file", fmt.Sprintf("file must be at most %d MB", s.maxUpload>>20))
	}
	ext := strings.ToLower(filepath.Ext(in.File.Name))
	if !allowedExtensions[ext] {
		return nil, domain.Invalid("file", "only image or PDF files are accepted")
	}

	objectPath := fmt.Sprintf("%s/%d%s", sess.UserID, s.now().UnixMilli(), ext)
	stored, err := s.objects.Upload(ctx, objectPath, io.LimitReader(in.File.Body, s.maxUpload))
	if err != nil {
		s.logger.Error("booking: upload prescription", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, fmt.Errorf("upload prescription: %w", err)
	}

	p, err := s.repo.CreatePrescription(ctx, domain.Prescription{
		RequestID: requestID,
		UserID:    sess.UserID,
		ImageURL:  s.objects.PublicURL(stored),
		Notes:     strings.TrimSpace(in.Notes),
		Status:    domain.StatusPending,
	})
	if err != nil {
		s.logger.Error("booking: create prescription", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, fmt.Errorf("record prescription: %w", err)
	}
	return &domain.Confirmation{ID: p.ID, Redirect: dashboardRoute, Message: "Prescription uploaded successfully"}, nil
}

func (s *Service) validateDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.Invalid("date", "please select date and time")
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return "", domain.Invalid("date", "date must be YYYY-MM-DD")
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return "", domain.Invalid("date", "date must not be in the past")
	}
	return d.Format(time.DateOnly), nil
}
