// Package cart keeps a per-user cart projection in step with the stored cart
// lines.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
)

type lineStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	Insert(ctx context.Context, userID, medicineID string, quantity int) (string, error)
	UpdateQuantity(ctx context.Context, userID, medicineID string, quantity int) error
	Delete(ctx context.Context, userID, medicineID string) error
	DeleteAll(ctx context.Context, userID string) error
}

// Synchronizer owns the cart projection of at most one signed-in user.
// Mutations are serialized; each updates the projection first, issues one
// store call, and reloads from the store if that call fails.
type Synchronizer struct {
	repo   lineStore
	logger *zap.Logger

	mu       sync.Mutex
	userID   string
	lines    []domain.CartLine
	disposed bool

	// lastUsed is unix nanoseconds, readable without mu.
	lastUsed atomic.Int64
}

func NewSynchronizer(repo lineStore, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{repo: repo, logger: logging.OrNop(logger)}
}

// Initialize binds the synchronizer to sess. A nil or signed-out session
// empties the projection. Switching users drops the previous user's lines
// before the new user's lines are read. A disposed synchronizer stays
// unbound.
func (s *Synchronizer) Initialize(ctx context.Context, sess *domain.Session) {
	s.bind(ctx, sess)
}

// bind is Initialize reporting whether the synchronizer is still live.
func (s *Synchronizer) bind(ctx context.Context, sess *domain.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return false
	}
	s.touch()

	if !sess.SignedIn() {
		s.userID = ""
		s.lines = nil
		return true
	}
	if s.userID == sess.UserID {
		return true
	}
	s.userID = sess.UserID
	s.lines = nil
	s.reload(ctx)
	return true
}

// Dispose forgets the bound user and their lines. Later mutations fail with
// domain.ErrAuthRequired.
func (s *Synchronizer) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.userID = ""
	s.lines = nil
}

// UserID returns the bound user, or "" when none.
func (s *Synchronizer) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Load replaces the projection with a fresh read. A failed read leaves an
// empty cart and is only logged.
func (s *Synchronizer) Load(ctx context.Context) domain.CartProjection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.userID != "" {
		s.reload(ctx)
	}
	return domain.NewCartProjection(s.lines)
}

// Projection returns the current view without touching the store.
func (s *Synchronizer) Projection() domain.CartProjection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewCartProjection(s.lines)
}

// AddItem adds one unit of item. An existing line is incremented instead of
// duplicated. After a new line is inserted the projection is reloaded so
// catalog-derived fields come from the store. Every mutator returns the
// projection as it stood when the call finished, failed or not.
func (s *Synchronizer) AddItem(ctx context.Context, item domain.Medicine) (domain.CartProjection, error) {
	if strings.TrimSpace(item.ID) == "" {
		return s.Projection(), domain.Invalid("productId", "product required")
	}
	return s.mutate(func() error {
		return s.addLocked(ctx, item)
	})
}

// RemoveItem deletes the line for productID.
func (s *Synchronizer) RemoveItem(ctx context.Context, productID string) (domain.CartProjection, error) {
	return s.mutate(func() error {
		return s.removeLocked(ctx, productID)
	})
}

// SetQuantity sets the quantity of the line for productID. Quantities below
// one remove the line.
func (s *Synchronizer) SetQuantity(ctx context.Context, productID string, quantity int) (domain.CartProjection, error) {
	return s.mutate(func() error {
		return s.setQuantityLocked(ctx, productID, quantity)
	})
}

// Clear deletes every line. The projection is empty afterwards even when the
// store call fails.
func (s *Synchronizer) Clear(ctx context.Context) (domain.CartProjection, error) {
	return s.mutate(func() error {
		s.lines = nil
		if err := s.repo.DeleteAll(ctx, s.userID); err != nil {
			s.logger.Error("cart: clear", zap.String("user_id", s.userID), zap.Error(err))
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
}

// mutate runs op under the lock for a bound user and snapshots the result.
func (s *Synchronizer) mutate(op func() error) (domain.CartProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.userID == "" {
		return domain.NewCartProjection(nil), domain.ErrAuthRequired
	}
	err := op()
	return domain.NewCartProjection(s.lines), err
}

func (s *Synchronizer) addLocked(ctx context.Context, item domain.Medicine) error {
	if idx := s.indexOf(item.ID); idx >= 0 {
		return s.setQuantityLocked(ctx, item.ID, s.lines[idx].Quantity+1)
	}

	s.lines = append(s.lines, lineFromMedicine(item))
	_, err := s.repo.Insert(ctx, s.userID, item.ID, 1)
	switch {
	case err == nil:
		s.reload(ctx)
		return nil
	case errors.Is(err, domain.ErrAlreadyExists):
		// Another writer created the line since our last read.
		s.reload(ctx)
		idx := s.indexOf(item.ID)
		if idx < 0 {
			return s.fail(ctx, "add item", fmt.Errorf("line for %s vanished after conflict", item.ID))
		}
		return s.setQuantityLocked(ctx, item.ID, s.lines[idx].Quantity+1)
	default:
		return s.fail(ctx, "add item", err)
	}
}

func (s *Synchronizer) setQuantityLocked(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return s.removeLocked(ctx, productID)
	}
	if idx := s.indexOf(productID); idx >= 0 {
		s.lines[idx].Quantity = quantity
	}
	if err := s.repo.UpdateQuantity(ctx, s.userID, productID, quantity); err != nil {
		return s.fail(ctx, "set quantity", err)
	}
	return nil
}

func (s *Synchronizer) removeLocked(ctx context.Context, productID string) error {
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	if err := s.repo.Delete(ctx, s.userID, productID); err != nil {
		return s.fail(ctx, "remove item", err)
	}
	return nil
}

// fail reconciles the projection with the store and returns err wrapped with op.
func (s *Synchronizer) fail(ctx context.Context, op string, err error) error {
	s.logger.Error("cart: "+op, zap.String("user_id", s.userID), zap.Error(err))
	s.reload(ctx)
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Synchronizer) reload(ctx context.Context) {
	lines, err := s.repo.ListByUser(ctx, s.userID)
	if err != nil {
		s.logger.Error("cart: load", zap.String("user_id", s.userID), zap.Error(err))
		s.lines = nil
		return
	}
	s.lines = lines
}

func (s *Synchronizer) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Synchronizer) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}

func (s *Synchronizer) idleSince() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func lineFromMedicine(m domain.Medicine) domain.CartLine {
	return domain.CartLine{
		ProductID:            m.ID,
		Quantity:             1,
		Name:                 m.Name,
		Brand:                m.Brand,
		UnitPriceCents:       m.PriceCents,
		ListPriceCents:       m.ListPriceCents(),
		ImageRef:             m.ImageURL,
		RequiresPrescription: m.RequiresPrescription,
	}
}
