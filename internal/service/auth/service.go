// Package auth turns a successful sign-in or sign-up into a landing route
// chosen by the user's role.
package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
	"medistore/internal/service/identity"
)

// RoleWarning is attached to a Landing when the role could not be read and
// the user was routed as a customer.
const RoleWarning = "could not verify user role"

type identityProvider interface {
	SignUp(ctx context.Context, in identity.SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
}

type roleReader interface {
	GetRole(ctx context.Context, userID string) (domain.Role, error)
}

// Landing is where an authenticated user is sent.
type Landing struct {
	Session *domain.Session `json:"session"`
	Role    domain.Role     `json:"role"`
	Route   string          `json:"route"`
	Warning string          `json:"warning,omitempty"`
}

type Service struct {
	identity identityProvider
	roles    roleReader
	logger   *zap.Logger
}

func New(id identityProvider, roles roleReader, logger *zap.Logger) *Service {
	return &Service{identity: id, roles: roles, logger: logging.OrNop(logger)}
}

// Login signs in and resolves the landing route. Role lookup problems never
// block the login.
func (s *Service) Login(ctx context.Context, email, password string) (*Landing, error) {
	sess, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.land(ctx, sess), nil
}

// Register signs up, signs in with the same credentials and routes like Login.
func (s *Service) Register(ctx context.Context, in identity.SignUpInput) (*Landing, error) {
	if _, err := s.identity.SignUp(ctx, in); err != nil {
		return nil, err
	}
	return s.Login(ctx, in.Email, in.Password)
}

func (s *Service) land(ctx context.Context, sess *domain.Session) *Landing {
	role, warning := s.resolveRole(ctx, sess.UserID)
	sess.Role = role
	return &Landing{
		Session: sess,
		Role:    role,
		Route:   role.DashboardRoute(),
		Warning: warning,
	}
}

func (s *Service) resolveRole(ctx context.Context, userID string) (domain.Role, string) {
	role, err := s.roles.GetRole(ctx, userID)
	switch {
	case err == nil && role.Valid():
		return role, ""
	case errors.Is(err, domain.ErrNotFound):
		return domain.RoleCustomer, ""
	default:
		s.logger.Error("auth: role lookup", zap.String("user_id", userID), zap.Error(err))
		return domain.RoleCustomer, RoleWarning
	}
}
