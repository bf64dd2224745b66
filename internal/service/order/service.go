package order

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
)

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// Cart is the part of the cart synchronizer checkout needs.
type Cart interface {
	Load(ctx context.Context) domain.CartProjection
	Clear(ctx context.Context) (domain.CartProjection, error)
}

// CartFunc returns the cart bound to sess.
type CartFunc func(ctx context.Context, sess *domain.Session) (Cart, error)

// PaymentMethods are accepted at checkout. Payment itself is not collected;
// every order starts with payment status pending.
var PaymentMethods = map[string]bool{"cod": true, "card": true, "upi": true}

type Service struct {
	repo   orderRepo
	carts  CartFunc
	logger *zap.Logger
}

func New(repo orderRepo, carts CartFunc, logger *zap.Logger) *Service {
	return &Service{repo: repo, carts: carts, logger: logging.OrNop(logger)}
}

type CheckoutInput struct {
	RequestID     string `json:"requestId"`
	Address       string `json:"shippingAddress"`
	PaymentMethod string `json:"paymentMethod"`
}

// PlaceOrder turns the user's current cart into an order and clears the cart.
func (s *Service) PlaceOrder(ctx context.Context, sess *domain.Session, in CheckoutInput) (*domain.Order, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	requestID, err := domain.NormalizeRequestID(in.RequestID)
	if err != nil {
		return nil, err
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return nil, domain.Invalid("shippingAddress", "shipping address required")
	}
	method := strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = "cod"
	}
	if !PaymentMethods[method] {
		return nil, domain.Invalid("paymentMethod", "unsupported payment method")
	}

	cart, err := s.carts(ctx, sess)
	if err != nil {
		return nil, err
	}
	proj := cart.Load(ctx)
	if len(proj.Lines) == 0 {
		return nil, domain.Invalid("cart", "cart is empty")
	}

	lines := make([]domain.OrderLine, 0, len(proj.Lines))
	for _, l := range proj.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID:      l.ProductID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	o, err := s.repo.Create(ctx, domain.Order{
		RequestID:     requestID,
		UserID:        sess.UserID,
		Lines:         lines,
		SubtotalCents: proj.SubtotalCents,
		Address:       address,
		PaymentMethod: method,
		Status:        domain.StatusPending,
		PaymentStatus: domain.StatusPending,
	})
	if err != nil {
		s.logger.Error("order: create", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, fmt.Errorf("place order: %w", err)
	}

	if _, err := cart.Clear(ctx); err != nil {
		s.logger.Warn("order: clear cart after checkout", zap.String("user_id", sess.UserID), zap.String("order_id", o.ID), zap.Error(err))
	}
	s.logger.Info("order: placed", zap.String("user_id", sess.UserID), zap.String("order_id", o.ID), zap.Int64("subtotal_cents", o.SubtotalCents))
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, sess *domain.Session) ([]domain.Order, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	return s.repo.ListByUser(ctx, sess.UserID)
}
