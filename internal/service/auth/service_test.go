package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistore/internal/domain"
	"medistore/internal/service/identity"
)

type stubIdentity struct {
	signUpErr  error
	signInErr  error
	lastSignUp identity.SignUpInput
	signIns    int
}

func (s *stubIdentity) SignUp(_ context.Context, in identity.SignUpInput) (*domain.User, error) {
	s.lastSignUp = in
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	return &domain.User{ID: "u1", Email: in.Email}, nil
}

func (s *stubIdentity) SignIn(_ context.Context, email, _ string) (*domain.Session, error) {
	s.signIns++
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return &domain.Session{UserID: "u1", Email: email, Token: "tok"}, nil
}

type stubRoles struct {
	role domain.Role
	err  error
}

func (s stubRoles) GetRole(context.Context, string) (domain.Role, error) {
	return s.role, s.err
}

func TestLoginRoutesByRole(t *testing.T) {
	cases := []struct {
		name    string
		roles   stubRoles
		route   string
		role    domain.Role
		warning string
	}{
		{"wholesale record", stubRoles{role: domain.RoleWholesale}, "/wholesale/dashboard", domain.RoleWholesale, ""},
		{"doctor record", stubRoles{role: domain.RoleDoctor}, "/doctor/dashboard", domain.RoleDoctor, ""},
		{"admin record", stubRoles{role: domain.RoleAdmin}, "/admin", domain.RoleAdmin, ""},
		{"no record", stubRoles{err: domain.ErrNotFound}, "/dashboard", domain.RoleCustomer, ""},
		{"lookup failure", stubRoles{err: errors.New("network down")}, "/dashboard", domain.RoleCustomer, RoleWarning},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&stubIdentity{}, tc.roles, nil)
			landing, err := svc.Login(context.Background(), "a@example.com", "Abcdefg1")
			require.NoError(t, err)
			assert.Equal(t, tc.route, landing.Route)
			assert.Equal(t, tc.role, landing.Role)
			assert.Equal(t, tc.role, landing.Session.Role)
			assert.Equal(t, tc.warning, landing.Warning)
		})
	}
}

func TestLoginPropagatesCredentialErrors(t *testing.T) {
	svc := New(&stubIdentity{signInErr: domain.ErrInvalidCredentials}, stubRoles{role: domain.RoleAdmin}, nil)
	_, err := svc.Login(context.Background(), "a@example.com", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterSignsInAndRoutes(t *testing.T) {
	id := &stubIdentity{}
	svc := New(id, stubRoles{role: domain.RoleCustomer}, nil)
	landing, err := svc.Register(context.Background(), identity.SignUpInput{Email: "new@example.com", Password: "Abcdefg1"})
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", landing.Route)
	assert.Equal(t, 1, id.signIns)
	assert.Equal(t, "new@example.com", id.lastSignUp.Email)
}

func TestRegisterStopsOnSignUpFailure(t *testing.T) {
	id := &stubIdentity{signUpErr: domain.Invalid("email", "email already registered")}
	svc := New(id, stubRoles{}, nil)
	_, err := svc.Register(context.Background(), identity.SignUpInput{Email: "dup@example.com"})
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 0, id.signIns)
}
