// Package admin implements the admin console: store settings, the doctor
// roster, staff account creation and the catalog spreadsheet export.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
	"medistore/internal/service/identity"
)

type settingsRepo interface {
	Get(ctx context.Context) (*domain.AdminSettings, error)
	Upsert(ctx context.Context, s domain.AdminSettings) (*domain.AdminSettings, error)
}

type doctorRepo interface {
	AllDoctors(ctx context.Context) ([]domain.Doctor, error)
	CreateDoctor(ctx context.Context, d domain.Doctor) (*domain.Doctor, error)
	DeleteDoctor(ctx context.Context, id string) error
}

type medicineLister interface {
	ListAll(ctx context.Context) ([]domain.Medicine, error)
}

type userCreator interface {
	CreateUser(ctx context.Context, caller *domain.Session, in identity.CreateUserInput) (string, error)
}

type Service struct {
	settings  settingsRepo
	doctors   doctorRepo
	medicines medicineLister
	users     userCreator
	logger    *zap.Logger
}

func New(settings settingsRepo, doctors doctorRepo, medicines medicineLister, users userCreator, logger *zap.Logger) *Service {
	return &Service{
		settings:  settings,
		doctors:   doctors,
		medicines: medicines,
		users:     users,
		logger:    logging.OrNop(logger),
	}
}

func requireAdmin(sess *domain.Session) error {
	if !sess.SignedIn() {
		return domain.ErrAuthRequired
	}
	if sess.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// Settings returns the store settings with the payment secret masked. A store
// that was never configured yields zero-valued settings.
func (s *Service) Settings(ctx context.Context, sess *domain.Session) (*domain.AdminSettings, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	cur, err := s.settings.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.AdminSettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := cur.Redacted()
	return &out, nil
}

type SettingsInput struct {
	StoreName              string `json:"storeName"`
	SupportEmail           string `json:"supportEmail"`
	PaymentPublicKey       string `json:"paymentPublicKey"`
	PaymentSecretKey       string `json:"paymentSecretKey"`
	DeliveryFeeCents       int64  `json:"deliveryFeeCents"`
	FreeDeliveryAboveCents int64  `json:"freeDeliveryAboveCents"`
	MaintenanceMessage     string `json:"maintenanceMessage"`
}

// SaveSettings replaces the settings row. An empty or masked secret keeps the
// stored one, so a form echoing the redacted value does not wipe it.
func (s *Service) SaveSettings(ctx context.Context, sess *domain.Session, in SettingsInput) (*domain.AdminSettings, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.StoreName) == "" {
		return nil, domain.Invalid("storeName", "store name is required")
	}
	if email := strings.TrimSpace(in.SupportEmail); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.Invalid("supportEmail", "invalid email address")
		}
	}
	if in.DeliveryFeeCents < 0 || in.FreeDeliveryAboveCents < 0 {
		return nil, domain.Invalid("deliveryFeeCents", "amounts cannot be negative")
	}

	secret := strings.TrimSpace(in.PaymentSecretKey)
	if secret == "" || strings.HasPrefix(secret, "****") {
		cur, err := s.settings.Get(ctx)
		switch {
		case err == nil:
			secret = cur.PaymentSecretKey
		case errors.Is(err, domain.ErrNotFound):
			secret = ""
		default:
			return nil, err
		}
	}

	saved, err := s.settings.Upsert(ctx, domain.AdminSettings{
		StoreName:              strings.TrimSpace(in.StoreName),
		SupportEmail:           strings.TrimSpace(in.SupportEmail),
		PaymentPublicKey:       strings.TrimSpace(in.PaymentPublicKey),
		PaymentSecretKey:       secret,
		DeliveryFeeCents:       in.DeliveryFeeCents,
		FreeDeliveryAboveCents: in.FreeDeliveryAboveCents,
		MaintenanceMessage:     strings.TrimSpace(in.MaintenanceMessage),
	})
	if err != nil {
		s.logger.Error("admin: save settings", zap.Error(err))
		return nil, err
	}
	s.logger.Info("admin: settings saved", zap.String("admin_id", sess.UserID))
	out := saved.Redacted()
	return &out, nil
}

func (s *Service) Doctors(ctx context.Context, sess *domain.Session) ([]domain.Doctor, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.doctors.AllDoctors(ctx)
}

type DoctorInput struct {
	Name                 string  `json:"name"`
	Specialty            string  `json:"specialty"`
	Qualification        string  `json:"qualification"`
	ExperienceYears      int     `json:"experienceYears"`
	ConsultationFeeCents int64   `json:"consultationFeeCents"`
	Rating               float64 `json:"rating"`
	IsAvailable          *bool   `json:"isAvailable"`
	ProfileImage         string  `json:"profileImage"`
	UserID               string  `json:"userId"`
}

// AddDoctor creates a doctor profile. Doctors are available unless the input
// says otherwise.
func (s *Service) AddDoctor(ctx context.Context, sess *domain.Session, in DoctorInput) (*domain.Doctor, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	specialty := strings.TrimSpace(in.Specialty)
	switch {
	case name == "":
		return nil, domain.Invalid("name", "name is required")
	case specialty == "":
		return nil, domain.Invalid("specialty", "specialty is required")
	case in.ExperienceYears < 0:
		return nil, domain.Invalid("experienceYears", "experience cannot be negative")
	case in.ConsultationFeeCents < 0:
		return nil, domain.Invalid("consultationFeeCents", "fee cannot be negative")
	case in.Rating < 0 || in.Rating > 5:
		return nil, domain.Invalid("rating", "rating must be between 0 and 5")
	}
	d := domain.Doctor{
		Name:                 name,
		Specialty:            specialty,
		Qualification:        strings.TrimSpace(in.Qualification),
		ExperienceYears:      in.ExperienceYears,
		ConsultationFeeCents: in.ConsultationFeeCents,
		Rating:               in.Rating,
		IsAvailable:          in.IsAvailable == nil || *in.IsAvailable,
		ProfileImage:         strings.TrimSpace(in.ProfileImage),
	}
	if uid := strings.TrimSpace(in.UserID); uid != "" {
		d.UserID = &uid
	}
	created, err := s.doctors.CreateDoctor(ctx, d)
	if err != nil {
		s.logger.Error("admin: create doctor", zap.Error(err))
		return nil, err
	}
	s.logger.Info("admin: doctor added", zap.String("doctor_id", created.ID))
	return created, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, sess *domain.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.doctors.DeleteDoctor(ctx, id); err != nil {
		return err
	}
	s.logger.Info("admin: doctor removed", zap.String("doctor_id", id))
	return nil
}

// CreateUser provisions an account with an explicit role. The identity
// service repeats the admin check against the stored role.
func (s *Service) CreateUser(ctx context.Context, sess *domain.Session, in identity.CreateUserInput) (string, error) {
	if err := requireAdmin(sess); err != nil {
		return "", err
	}
	return s.users.CreateUser(ctx, sess, in)
}

var exportHeader = []string{
	"ID", "Name", "Brand", "Generic Name", "Category", "Price", "List Price",
	"Discount %", "Stock", "Requires Prescription", "Active", "Created At",
}

// ExportCatalog writes every medicine, active or not, as an xlsx workbook.
func (s *Service) ExportCatalog(ctx context.Context, sess *domain.Session, w io.Writer) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	meds, err := s.medicines.ListAll(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Medicines")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	header := sheet.AddRow()
	for _, h := range exportHeader {
		header.AddCell().SetValue(h)
	}
	for _, m := range meds {
		row := sheet.AddRow()
		row.AddCell().SetValue(m.ID)
		row.AddCell().SetValue(m.Name)
		row.AddCell().SetValue(m.Brand)
		row.AddCell().SetValue(m.GenericName)
		row.AddCell().SetValue(m.CategorySlug)
		row.AddCell().SetValue(domain.FormatCents(m.PriceCents))
		row.AddCell().SetValue(domain.FormatCents(m.ListPriceCents()))
		row.AddCell().SetValue(m.DiscountPercent)
		row.AddCell().SetValue(m.StockQuantity)
		row.AddCell().SetValue(m.RequiresPrescription)
		row.AddCell().SetValue(m.IsActive)
		row.AddCell().SetValue(m.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("admin: catalog exported", zap.Int("rows", len(meds)))
	return nil
}
