package wholesale

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
)

type wholesaleRepo interface {
	Profile(ctx context.Context, userID string) (*domain.WholesaleProfile, error)
	UpsertProfile(ctx context.Context, p domain.WholesaleProfile) (*domain.WholesaleProfile, error)
	SetVerified(ctx context.Context, userID string, verified bool) error
	Products(ctx context.Context, query string, limit int) ([]domain.WholesaleProduct, error)
	CreateQuote(ctx context.Context, q domain.QuoteRequest) (*domain.QuoteRequest, error)
	QuotesByUser(ctx context.Context, userID string) ([]domain.QuoteRequest, error)
}

// ErrNotVerified is returned when an unverified wholesaler opens a section
// other than the dashboard.
var ErrNotVerified = fmt.Errorf("wholesale account pending verification: %w", domain.ErrForbidden)

type Service struct {
	repo      wholesaleRepo
	pageLimit int
	logger    *zap.Logger
}

func New(repo wholesaleRepo, pageLimit int, logger *zap.Logger) *Service {
	if pageLimit <= 0 {
		pageLimit = 50
	}
	return &Service{repo: repo, pageLimit: pageLimit, logger: logging.OrNop(logger)}
}

// Profile returns the caller's wholesale profile. A missing profile is
// reported as domain.ErrNotFound.
func (s *Service) Profile(ctx context.Context, sess *domain.Session) (*domain.WholesaleProfile, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	return s.repo.Profile(ctx, sess.UserID)
}

type ProfileInput struct {
	BusinessName  string `json:"businessName"`
	LicenseNumber string `json:"licenseNumber"`
	GSTNumber     string `json:"gstNumber"`
	Address       string `json:"address"`
}

// SaveProfile creates or updates the caller's business details. Verification
// is left untouched.
func (s *Service) SaveProfile(ctx context.Context, sess *domain.Session, in ProfileInput) (*domain.WholesaleProfile, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	name := strings.TrimSpace(in.BusinessName)
	if name == "" {
		return nil, domain.Invalid("businessName", "business name required")
	}
	return s.repo.UpsertProfile(ctx, domain.WholesaleProfile{
		UserID:        sess.UserID,
		BusinessName:  name,
		LicenseNumber: strings.TrimSpace(in.LicenseNumber),
		GSTNumber:     strings.TrimSpace(in.GSTNumber),
		Address:       strings.TrimSpace(in.Address),
	})
}

// VisibleTab maps the requested tab to the one the caller may see.
// Unverified or missing profiles only get the dashboard.
func VisibleTab(profile *domain.WholesaleProfile, requested string) domain.WholesaleTab {
	tab := domain.ParseWholesaleTab(requested)
	if profile == nil || !profile.IsVerified {
		return domain.TabDashboard
	}
	return tab
}

// Products searches the bulk catalog. Verified wholesalers only.
func (s *Service) Products(ctx context.Context, sess *domain.Session, query string) ([]domain.WholesaleProduct, error) {
	if err := s.requireVerified(ctx, sess); err != nil {
		return nil, err
	}
	return s.repo.Products(ctx, query, s.pageLimit)
}

func (s *Service) Quotes(ctx context.Context, sess *domain.Session) ([]domain.QuoteRequest, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	return s.repo.QuotesByUser(ctx, sess.UserID)
}

type QuoteInput struct {
	RequestID string             `json:"requestId"`
	Items     []domain.QuoteItem `json:"items"`
	Notes     string             `json:"notes"`
}

// SubmitQuote records a request for manual bulk pricing.
func (s *Service) SubmitQuote(ctx context.Context, sess *domain.Session, in QuoteInput) (*domain.QuoteRequest, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	requestID, err := domain.NormalizeRequestID(in.RequestID)
	if err != nil {
		return nil, err
	}
	items := make([]domain.QuoteItem, 0, len(in.Items))
	for i, it := range in.Items {
		name := strings.TrimSpace(it.ProductName)
		if name == "" && it.Quantity == 0 && strings.TrimSpace(it.Notes) == "" {
			continue
		}
		if name == "" {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].product_name", i), "product name required")
		}
		if it.Quantity < 1 {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "quantity must be at least 1")
		}
		items = append(items, domain.QuoteItem{ProductName: name, Quantity: it.Quantity, Notes: strings.TrimSpace(it.Notes)})
	}
	if len(items) == 0 {
		return nil, domain.Invalid("items", "add at least one product")
	}
	if err := s.requireVerified(ctx, sess); err != nil {
		return nil, err
	}

	q, err := s.repo.CreateQuote(ctx, domain.QuoteRequest{
		RequestID: requestID,
		UserID:    sess.UserID,
		Items:     items,
		Notes:     strings.TrimSpace(in.Notes),
		Status:    domain.StatusPending,
	})
	if err != nil {
		s.logger.Error("wholesale: create quote", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, fmt.Errorf("submit quote: %w", err)
	}
	return q, nil
}

// SetVerified marks a wholesaler as verified or not. Admin only.
func (s *Service) SetVerified(ctx context.Context, admin *domain.Session, userID string, verified bool) error {
	if !admin.SignedIn() {
		return domain.ErrAuthRequired
	}
	if admin.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.repo.SetVerified(ctx, userID, verified); err != nil {
		return err
	}
	s.logger.Info("wholesale: verification changed", zap.String("user_id", userID), zap.Bool("verified", verified), zap.String("admin_id", admin.UserID))
	return nil
}

func (s *Service) requireVerified(ctx context.Context, sess *domain.Session) error {
	if !sess.SignedIn() {
		return domain.ErrAuthRequired
	}
	p, err := s.repo.Profile(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrNotVerified
	}
	if err != nil {
		return err
	}
	if !p.IsVerified {
		return ErrNotVerified
	}
	return nil
}
