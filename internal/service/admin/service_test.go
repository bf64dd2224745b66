package admin

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"medistore/internal/domain"
	"medistore/internal/service/identity"
)

type memSettings struct {
	cur   *domain.AdminSettings
	saves int
}

func (m *memSettings) Get(context.Context) (*domain.AdminSettings, error) {
	if m.cur == nil {
		return nil, domain.ErrNotFound
	}
	c := *m.cur
	return &c, nil
}

func (m *memSettings) Upsert(_ context.Context, s domain.AdminSettings) (*domain.AdminSettings, error) {
	m.saves++
	m.cur = &s
	c := s
	return &c, nil
}

type memDoctors struct {
	created []domain.Doctor
	deleted []string
}

func (m *memDoctors) AllDoctors(context.Context) ([]domain.Doctor, error) { return m.created, nil }

func (m *memDoctors) CreateDoctor(_ context.Context, d domain.Doctor) (*domain.Doctor, error) {
	d.ID = "doc-1"
	m.created = append(m.created, d)
	return &d, nil
}

func (m *memDoctors) DeleteDoctor(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type stubMedicines []domain.Medicine

func (s stubMedicines) ListAll(context.Context) ([]domain.Medicine, error) { return s, nil }

type stubUsers struct{ got identity.CreateUserInput }

func (s *stubUsers) CreateUser(_ context.Context, _ *domain.Session, in identity.CreateUserInput) (string, error) {
	s.got = in
	return "new-user", nil
}

var (
	ctx      = context.Background()
	admin    = &domain.Session{UserID: "a1", Role: domain.RoleAdmin}
	customer = &domain.Session{UserID: "c1", Role: domain.RoleCustomer}
)

func TestRequiresAdmin(t *testing.T) {
	svc := New(&memSettings{}, &memDoctors{}, stubMedicines{}, &stubUsers{}, nil)

	_, err := svc.Settings(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	_, err = svc.Settings(ctx, customer)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.AddDoctor(ctx, customer, DoctorInput{Name: "x", Specialty: "y"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.CreateUser(ctx, customer, identity.CreateUserInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, svc.ExportCatalog(ctx, customer, &bytes.Buffer{}), domain.ErrForbidden)
}

func TestSaveSettingsKeepsSecret(t *testing.T) {
	repo := &memSettings{cur: &domain.AdminSettings{StoreName: "Old", PaymentSecretKey: "sk_test_98765432"}}
	svc := New(repo, &memDoctors{}, stubMedicines{}, &stubUsers{}, nil)

	got, err := svc.SaveSettings(ctx, admin, SettingsInput{StoreName: "MediStore", PaymentSecretKey: "****5432"})
	require.NoError(t, err)
	assert.Equal(t, "****5432", got.PaymentSecretKey)
	assert.Equal(t, "sk_test_98765432", repo.cur.PaymentSecretKey)
	assert.Equal(t, "MediStore", repo.cur.StoreName)

	_, err = svc.SaveSettings(ctx, admin, SettingsInput{StoreName: "MediStore"})
	require.NoError(t, err)
	assert.Equal(t, "sk_test_98765432", repo.cur.PaymentSecretKey)

	_, err = svc.SaveSettings(ctx, admin, SettingsInput{StoreName: "MediStore", PaymentSecretKey: "sk_live_new00001"})
	require.NoError(t, err)
	assert.Equal(t, "sk_live_new00001", repo.cur.PaymentSecretKey)
}

func TestSaveSettingsValidation(t *testing.T) {
	repo := &memSettings{}
	svc := New(repo, &memDoctors{}, stubMedicines{}, &stubUsers{}, nil)

	_, err := svc.SaveSettings(ctx, admin, SettingsInput{})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.SaveSettings(ctx, admin, SettingsInput{StoreName: "S", SupportEmail: "not-an-email"})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.SaveSettings(ctx, admin, SettingsInput{StoreName: "S", DeliveryFeeCents: -1})
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, repo.saves)
}

func TestAddDoctor(t *testing.T) {
	doctors := &memDoctors{}
	svc := New(&memSettings{}, doctors, stubMedicines{}, &stubUsers{}, nil)

	_, err := svc.AddDoctor(ctx, admin, DoctorInput{Name: "Dr. Rao", Specialty: "Cardiology", Rating: 6})
	assert.True(t, domain.IsValidation(err))

	d, err := svc.AddDoctor(ctx, admin, DoctorInput{Name: " Dr. Rao ", Specialty: "Cardiology", Rating: 4.5, UserID: "u7"})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", d.Name)
	assert.True(t, d.IsAvailable)
	require.NotNil(t, d.UserID)
	assert.Equal(t, "u7", *d.UserID)

	require.NoError(t, svc.DeleteDoctor(ctx, admin, "doc-1"))
	assert.Equal(t, []string{"doc-1"}, doctors.deleted)
}

func TestCreateUserDelegates(t *testing.T) {
	users := &stubUsers{}
	svc := New(&memSettings{}, &memDoctors{}, stubMedicines{}, users, nil)

	id, err := svc.CreateUser(ctx, admin, identity.CreateUserInput{Email: "doc@example.com", Role: "doctor"})
	require.NoError(t, err)
	assert.Equal(t, "new-user", id)
	assert.Equal(t, "doctor", users.got.Role)
}

func TestExportCatalog(t *testing.T) {
	meds := stubMedicines{
		{ID: "m1", Name: "Paracetamol", PriceCents: 4500, DiscountPercent: 10, StockQuantity: 20, IsActive: true, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: "m2", Name: "Ibuprofen", PriceCents: 9900, IsActive: false},
	}
	svc := New(&memSettings{}, &memDoctors{}, meds, &stubUsers{}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCatalog(ctx, admin, &buf))

	book, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, book.Sheets, 1)
	sheet := book.Sheets[0]
	assert.Equal(t, "Medicines", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Name", sheet.Rows[0].Cells[1].String())
	assert.Equal(t, "Paracetamol", sheet.Rows[1].Cells[1].String())
	assert.Equal(t, "45.00", sheet.Rows[1].Cells[5].String())
	assert.Equal(t, "50.00", sheet.Rows[1].Cells[6].String())
	assert.Equal(t, "2026-01-02 03:04:05", sheet.Rows[1].Cells[11].String())
}
