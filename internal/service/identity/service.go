package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"medistore/internal/domain"
	"medistore/internal/logging"
	sessionrepo "medistore/internal/repository/session"
)

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetRole(ctx context.Context, userID string) (domain.Role, error)
	SetRole(ctx context.Context, userID string, role domain.Role) error
}

// Service handles sign-up, sign-in and session validation.
type Service struct {
	users       userRepo
	tokens      *tokenManager
	passwordMin int
	logger      *zap.Logger
}

// New creates a Service. cfg.TTL defaults to 48h when zero.
func New(users userRepo, sessions sessionrepo.Repository, cfg TokenConfig, logger *zap.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 48 * time.Hour
	}
	return &Service{
		users:       users,
		tokens:      newTokenManager(sessions, cfg),
		passwordMin: 8,
		logger:      logging.OrNop(logger),
	}
}

// SignUpInput captures fields expected by the sign-up endpoint.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// CreateUserInput is the payload of the admin create-user function.
type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// SignUp registers a customer account.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	return s.register(ctx, in, domain.RoleCustomer)
}

func (s *Service) register(ctx context.Context, in SignUpInput, role domain.Role) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, domain.Invalid("email", "email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.completeRegistration(ctx, email, password, role)
		}
		s.logger.Error("identity: create user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.users.SetRole(ctx, u.ID, role); err != nil {
		s.logger.Error("identity: set role", zap.String("user_id", u.ID), zap.Error(err))
		return nil, fmt.Errorf("set role: %w", err)
	}
	s.logger.Info("identity: user registered", zap.String("user_id", u.ID), zap.String("role", role.String()))
	return u, nil
}

// completeRegistration finishes an earlier sign-up whose role record was
// never written. Any other existing account is a duplicate.
func (s *Service) completeRegistration(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	duplicate := domain.Invalid("email", "email already registered")
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, duplicate
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, duplicate
	}
	if _, err := s.users.GetRole(ctx, u.ID); !errors.Is(err, domain.ErrNotFound) {
		return nil, duplicate
	}
	if err := s.users.SetRole(ctx, u.ID, role); err != nil {
		s.logger.Error("identity: set role", zap.String("user_id", u.ID), zap.Error(err))
		return nil, fmt.Errorf("set role: %w", err)
	}
	s.logger.Info("identity: registration completed", zap.String("user_id", u.ID), zap.String("role", role.String()))
	return u, nil
}

// SignIn validates credentials and issues a session. The returned session
// carries no role; callers resolve it separately.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, domain.Invalid("", "email and password required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, sessionID, exp, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		s.logger.Error("identity: issue token", zap.String("user_id", u.ID), zap.Error(err))
		return nil, err
	}
	return &domain.Session{
		ID:        sessionID,
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

// Current returns the session bound to token, with its role resolved. A role
// that cannot be read degrades to customer.
func (s *Service) Current(ctx context.Context, token string) (*domain.Session, error) {
	claims, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, domain.ErrAuthRequired
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAuthRequired
		}
		return nil, err
	}
	role, err := s.users.GetRole(ctx, u.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("identity: role lookup failed", zap.String("user_id", u.ID), zap.Error(err))
		}
		role = domain.RoleCustomer
	}
	return &domain.Session{
		ID:        claims.ID,
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      role,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the session behind token. Unknown or already revoked tokens
// are not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// CreateUser is the admin-only create-user function. The caller's role is
// re-read from the store rather than trusted from the session.
func (s *Service) CreateUser(ctx context.Context, caller *domain.Session, in CreateUserInput) (string, error) {
	if !caller.SignedIn() {
		return "", domain.ErrAuthRequired
	}
	callerRole, err := s.users.GetRole(ctx, caller.UserID)
	if err != nil || callerRole != domain.RoleAdmin {
		return "", domain.ErrForbidden
	}
	role := domain.RoleCustomer
	if strings.TrimSpace(in.Role) != "" {
		role, err = domain.ParseRole(in.Role)
		if err != nil {
			return "", domain.Invalid("role", "unknown role")
		}
	}
	u, err := s.register(ctx, SignUpInput{
		Email:    in.Email,
		Password: in.Password,
		FullName: in.FullName,
		Phone:    in.Phone,
	}, role)
	if err != nil {
		return "", err
	}
	s.logger.Info("identity: user created by admin", zap.String("admin_id", caller.UserID), zap.String("user_id", u.ID))
	return u.ID, nil
}

// TTLSeconds exposes the session lifetime in seconds.
func (s *Service) TTLSeconds() int {
	return int(s.tokens.cfg.TTL.Seconds())
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return domain.Invalid("password", fmt.Sprintf("password must be at least %d characters", min))
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return domain.Invalid("password", "password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
