package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistore/internal/domain"
	"medistore/internal/service/auth"
	"medistore/internal/service/dashboard"
)

func TestBuildRouter_RequiresCoreServices(t *testing.T) {
	if _, err := buildRouter(logDiscard(), nil, Deps{}); err == nil {
		t.Fatalf("expected error for missing services")
	}
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, nil)

	if rec := env.do(http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/readyz", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz without db: expected 503, got %d", rec.Code)
	}
}

func TestNoRoute(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/nowhere", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"error":"not found"}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestProtectedRouteRedirectsToAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, token := range []string{"", "expired-token"} {
		rec := env.do(http.MethodGet, "/api/cart", token, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected 401, got %d", token, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"redirect":"/auth"`) {
			t.Fatalf("token %q: missing redirect: %s", token, rec.Body.String())
		}
	}
}

type stubDashboard struct {
	dashboardService
}

func (stubDashboard) Admin(context.Context, *domain.Session) (*dashboard.Admin, error) {
	return &dashboard.Admin{Users: 4}, nil
}

func TestRoleGate(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) { d.Dashboard = stubDashboard{} })

	rec := env.do(http.MethodGet, "/api/admin/dashboard", "customer-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/api/admin/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/admin/dashboard", "admin-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"users":4`)
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	env.auth.landing = &auth.Landing{
		Session: &domain.Session{UserID: "u9", Email: "new@example.com", Token: "tok"},
		Role:    domain.RoleWholesale,
		Route:   "/wholesale/dashboard",
	}

	rec := env.do(http.MethodPost, "/api/auth/signup", "", `{"email":"new@example.com","password":"Abcdefg1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body landingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tok", body.AccessToken)
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Equal(t, 3600, body.ExpiresIn)
	assert.Equal(t, "/wholesale/dashboard", body.Redirect)

	env.auth.err = domain.ErrInvalidCredentials
	rec = env.do(http.MethodPost, "/api/auth/login", "", `{"email":"new@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/login", "", `{"email":"new@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWarningIsReturned(t *testing.T) {
	env := newTestEnv(t, nil)
	env.auth.landing = &auth.Landing{
		Session: &domain.Session{UserID: "u1", Token: "tok"},
		Role:    domain.RoleCustomer,
		Route:   "/dashboard",
		Warning: auth.RoleWarning,
	}

	rec := env.do(http.MethodPost, "/api/auth/login", "", `{"email":"a@b.co","password":"Abcdefg1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), auth.RoleWarning)
	assert.Contains(t, rec.Body.String(), `"redirect":"/dashboard"`)
}

func TestMeAndLogout(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/me", "customer-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"me@example.com"`)
	assert.Contains(t, rec.Body.String(), `"dashboard":"/dashboard"`)

	rec = env.do(http.MethodPost, "/api/auth/logout", "customer-token", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"customer-token"}, env.identity.revoked)
	assert.Equal(t, []string{"u1"}, env.carts.released)
}

func TestNavigation(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/navigation?path=%2Fadmin", "customer-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/dashboard"`)

	rec = env.do(http.MethodGet, "/api/navigation?path=%2Fcheckout", "", "")
	assert.Contains(t, rec.Body.String(), `"redirect":"/auth?next=%2Fcheckout"`)
}

func TestSearchMedicines(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/medicines?q=para&category=pain&limit=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "para", env.catalog.lastQuery.Query)
	assert.Equal(t, "pain", env.catalog.lastQuery.Category)
	assert.Equal(t, 5, env.catalog.lastQuery.Limit)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.Contains(t, rec.Body.String(), `"listAmount":"50.00"`)

	env.catalog.err = errors.New("connection refused")
	rec = env.do(http.MethodGet, "/api/medicines", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), "operation failed")
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/cart/items", "customer-token", `{"medicineId":"m1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = env.do(http.MethodPost, "/api/cart/items", "customer-token", `{"medicineId":"m1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.LineItems, 1)
	assert.Equal(t, 2, view.LineItems[0].Quantity)
	assert.Equal(t, "90.00", view.Subtotal.Amount)

	rec = env.do(http.MethodPut, "/api/cart/items/m1", "customer-token", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.LineItems)

	rec = env.do(http.MethodPost, "/api/cart/items", "customer-token", `{"medicineId":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPut, "/api/cart/items/m1", "customer-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// interleavedCart reports a later writer's cart from Projection while its
// mutators still return their own result.
type interleavedCart struct {
	*stubCart
	later []domain.CartLine
}

func (c *interleavedCart) Projection() domain.CartProjection {
	return domain.NewCartProjection(c.later)
}

type fixedCarts struct{ cs CartSession }

func (f fixedCarts) For(context.Context, *domain.Session) (CartSession, error) { return f.cs, nil }

func (fixedCarts) Release(string) {}

func TestCartMutationRespondsWithItsOwnResult(t *testing.T) {
	cart := &interleavedCart{
		stubCart: &stubCart{},
		later:    []domain.CartLine{{ProductID: "m1", Quantity: 7, UnitPriceCents: 4500}},
	}
	env := newTestEnv(t, func(d *Deps) { d.Carts = fixedCarts{cs: cart} })

	rec := env.do(http.MethodPost, "/api/cart/items", "customer-token", `{"medicineId":"m1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.LineItems, 1)
	assert.Equal(t, 1, view.LineItems[0].Quantity)

	rec = env.do(http.MethodDelete, "/api/cart", "customer-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.LineItems)
}

func TestUploadPrescription(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) { d.MaxUploadBytes = 1 << 20 })

	rec := env.do(http.MethodPost, "/api/prescriptions", "customer-token", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "please select a prescription image")
	assert.Zero(t, env.bookings.calls)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("notes", "after lunch"))
	fw, err := mw.CreateFormFile("file", "rx.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("jpeg-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/prescriptions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer customer-token")
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"redirect":"/dashboard"`)
	assert.Equal(t, "after lunch", env.bookings.prescription.Notes)
	assert.Equal(t, "rx.jpg", env.bookings.prescription.File.Name)
}
