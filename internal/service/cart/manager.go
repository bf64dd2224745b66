package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
)

// Manager hands out one Synchronizer per signed-in user.
type Manager struct {
	repo   lineStore
	logger *zap.Logger

	mu    sync.Mutex
	syncs map[string]*Synchronizer
}

func NewManager(repo lineStore, logger *zap.Logger) *Manager {
	return &Manager{
		repo:   repo,
		logger: logging.OrNop(logger),
		syncs:  make(map[string]*Synchronizer),
	}
}

// For returns the synchronizer bound to sess, loading it on first use.
func (m *Manager) For(ctx context.Context, sess *domain.Session) (*Synchronizer, error) {
	if !sess.SignedIn() {
		return nil, domain.ErrAuthRequired
	}
	for {
		m.mu.Lock()
		s, ok := m.syncs[sess.UserID]
		if !ok {
			s = NewSynchronizer(m.repo, m.logger)
			m.syncs[sess.UserID] = s
		}
		s.touch()
		m.mu.Unlock()

		if s.bind(ctx, sess) {
			return s, nil
		}
		// Disposed after the lookup; drop it if nobody replaced it yet.
		m.mu.Lock()
		if m.syncs[sess.UserID] == s {
			delete(m.syncs, sess.UserID)
		}
		m.mu.Unlock()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// Release disposes the user's synchronizer. Called on sign-out.
func (m *Manager) Release(userID string) {
	m.mu.Lock()
	s, ok := m.syncs[userID]
	delete(m.syncs, userID)
	m.mu.Unlock()
	if ok {
		s.Dispose()
	}
}

// Sweep disposes synchronizers unused for longer than idle and returns how
// many were dropped. Disposal happens after the manager lock is released.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	var stale []*Synchronizer
	m.mu.Lock()
	for id, s := range m.syncs {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(m.syncs, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Dispose()
	}
	if len(stale) > 0 {
		m.logger.Debug("cart: swept idle synchronizers", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Len reports how many users currently have a synchronizer.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.syncs)
}
