package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"medistore/internal/domain"
	sessionrepo "medistore/internal/repository/session"
)

// TokenConfig configures session token signing.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// tokenManager signs HS256 tokens whose jti names a sessions row, so a
// token is only valid while its row exists.
type tokenManager struct {
	repo sessionrepo.Repository
	cfg  TokenConfig
	now  func() time.Time
}

func newTokenManager(repo sessionrepo.Repository, cfg TokenConfig) *tokenManager {
	return &tokenManager{repo: repo, cfg: cfg, now: time.Now}
}

func (m *tokenManager) Issue(ctx context.Context, userID string) (string, string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.cfg.TTL)
	for i := 0; i < 5; i++ {
		id := uuid.NewString()
		err := m.repo.Create(ctx, sessionrepo.Record{ID: id, UserID: userID, ExpiresAt: exp})
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", "", time.Time{}, err
		}
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
			UserID: userID,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        id,
				Issuer:    m.cfg.Issuer,
				Subject:   userID,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		})
		signed, err := tok.SignedString([]byte(m.cfg.Secret))
		if err != nil {
			return "", "", time.Time{}, err
		}
		return signed, id, exp, nil
	}
	return "", "", time.Time{}, errors.New("session id collision")
}

func (m *tokenManager) Validate(ctx context.Context, token string) (*claims, bool) {
	c, err := m.parse(token, true)
	if err != nil {
		return nil, false
	}
	rec, err := m.repo.Get(ctx, c.ID)
	if err != nil || rec.UserID != c.UserID {
		return nil, false
	}
	if m.now().After(rec.ExpiresAt) {
		_ = m.repo.Delete(ctx, rec.ID)
		return nil, false
	}
	return c, true
}

func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	c, err := m.parse(token, false)
	if err != nil {
		return nil
	}
	if err := m.repo.Delete(ctx, c.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (m *tokenManager) parse(token string, checkExpiry bool) (*claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.cfg.Issuer))
	}
	if !checkExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	tok, err := jwt.ParseWithClaims(token, &claims{}, func(*jwt.Token) (any, error) {
		return []byte(m.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid || c.ID == "" {
		return nil, errors.New("invalid token")
	}
	return c, nil
}
