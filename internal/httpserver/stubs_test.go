package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/service/auth"
	"medistore/internal/service/booking"
	"medistore/internal/service/catalog"
	"medistore/internal/service/identity"
)

func logDiscard() *zap.Logger {
	return zap.NewNop()
}

type stubIdentity struct {
	sessions map[string]*domain.Session
	revoked  []string
}

func (s *stubIdentity) Current(_ context.Context, token string) (*domain.Session, error) {
	if sess, ok := s.sessions[token]; ok {
		return sess, nil
	}
	return nil, domain.ErrAuthRequired
}

func (s *stubIdentity) SignOut(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func (s *stubIdentity) TTLSeconds() int { return 3600 }

type stubAuth struct {
	landing *auth.Landing
	err     error
}

func (s *stubAuth) Login(context.Context, string, string) (*auth.Landing, error) {
	return s.landing, s.err
}

func (s *stubAuth) Register(context.Context, identity.SignUpInput) (*auth.Landing, error) {
	return s.landing, s.err
}

type stubCatalog struct {
	catalogService
	medicines map[string]domain.Medicine
	lastQuery catalog.SearchInput
	err       error
}

func (s *stubCatalog) SearchMedicines(_ context.Context, in catalog.SearchInput) ([]domain.Medicine, error) {
	s.lastQuery = in
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Medicine
	for _, m := range s.medicines {
		out = append(out, m)
	}
	return out, nil
}

func (s *stubCatalog) Medicine(_ context.Context, id string) (*domain.Medicine, error) {
	m, ok := s.medicines[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

type stubCart struct {
	lines []domain.CartLine
	err   error
}

func (s *stubCart) Load(context.Context) domain.CartProjection { return s.Projection() }

func (s *stubCart) Projection() domain.CartProjection { return domain.NewCartProjection(s.lines) }

func (s *stubCart) AddItem(_ context.Context, m domain.Medicine) (domain.CartProjection, error) {
	if s.err != nil {
		return s.Projection(), s.err
	}
	for i := range s.lines {
		if s.lines[i].ProductID == m.ID {
			s.lines[i].Quantity++
			return s.Projection(), nil
		}
	}
	s.lines = append(s.lines, domain.CartLine{LineID: "l-" + m.ID, ProductID: m.ID, Name: m.Name, Quantity: 1, UnitPriceCents: m.PriceCents})
	return s.Projection(), nil
}

func (s *stubCart) RemoveItem(_ context.Context, id string) (domain.CartProjection, error) {
	return s.SetQuantity(context.Background(), id, 0)
}

func (s *stubCart) SetQuantity(_ context.Context, id string, q int) (domain.CartProjection, error) {
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.ProductID == id {
			if q < 1 {
				continue
			}
			l.Quantity = q
		}
		kept = append(kept, l)
	}
	s.lines = kept
	return s.Projection(), nil
}

func (s *stubCart) Clear(context.Context) (domain.CartProjection, error) {
	s.lines = nil
	return s.Projection(), nil
}

type stubCarts struct {
	cart     *stubCart
	released []string
}

func (s *stubCarts) For(_ context.Context, sess *domain.Session) (CartSession, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	return s.cart, nil
}

func (s *stubCarts) Release(userID string) { s.released = append(s.released, userID) }

type stubBookings struct {
	prescription booking.PrescriptionInput
	calls        int
}

func (s *stubBookings) BookAppointment(context.Context, *domain.Session, booking.AppointmentInput) (*domain.Confirmation, error) {
	s.calls++
	return &domain.Confirmation{ID: "appt-1", Redirect: "/dashboard"}, nil
}

func (s *stubBookings) BookLabTest(context.Context, *domain.Session, booking.LabBookingInput) (*domain.Confirmation, error) {
	s.calls++
	return &domain.Confirmation{ID: "lab-1", Redirect: "/dashboard"}, nil
}

func (s *stubBookings) UploadPrescription(_ context.Context, _ *domain.Session, in booking.PrescriptionInput) (*domain.Confirmation, error) {
	if in.File == nil {
		return nil, domain.Invalid("file", "please select a prescription image")
	}
	s.calls++
	s.prescription = in
	return &domain.Confirmation{ID: "rx-1", Redirect: "/dashboard"}, nil
}

var (
	customerSess = &domain.Session{UserID: "u1", Email: "me@example.com", Role: domain.RoleCustomer}
	adminSess    = &domain.Session{UserID: "a1", Email: "admin@example.com", Role: domain.RoleAdmin}
)

type testEnv struct {
	router   *gin.Engine
	identity *stubIdentity
	auth     *stubAuth
	catalog  *stubCatalog
	carts    *stubCarts
	bookings *stubBookings
}

func newTestEnv(t *testing.T, mutate func(*Deps)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		identity: &stubIdentity{sessions: map[string]*domain.Session{
			"customer-token": customerSess,
			"admin-token":    adminSess,
		}},
		auth: &stubAuth{},
		catalog: &stubCatalog{medicines: map[string]domain.Medicine{
			"m1": {ID: "m1", Name: "Paracetamol 500mg", PriceCents: 4500, DiscountPercent: 10, IsActive: true, StockQuantity: 3},
		}},
		carts:    &stubCarts{cart: &stubCart{}},
		bookings: &stubBookings{},
	}
	deps := Deps{
		Identity: env.identity,
		Auth:     env.auth,
		Catalog:  env.catalog,
		Carts:    env.carts,
		Bookings: env.bookings,
	}
	if mutate != nil {
		mutate(&deps)
	}
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	env.router = router
	return env
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
