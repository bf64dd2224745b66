package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistore/internal/domain"
)

func TestManagerForRequiresSession(t *testing.T) {
	m := NewManager(newMemoryStore(), nil)
	_, err := m.For(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	_, err = m.For(context.Background(), &domain.Session{})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestManagerReusesAndReleases(t *testing.T) {
	store := newMemoryStore(p1)
	store.lines["u1"] = []domain.CartLine{{ProductID: "p1", Quantity: 2}}
	m := NewManager(store, nil)
	ctx := context.Background()

	first, err := m.For(ctx, signedIn("u1"))
	require.NoError(t, err)
	second, err := m.For(ctx, signedIn("u1"))
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 2, first.Projection().ItemCount)

	other, err := m.For(ctx, signedIn("u2"))
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Empty(t, other.Projection().Lines)

	m.Release("u1")
	assert.Empty(t, first.Projection().Lines)
	assert.Equal(t, 1, m.Len())
}

func TestManagerSweepDropsIdle(t *testing.T) {
	m := NewManager(newMemoryStore(), nil)
	ctx := context.Background()
	s, err := m.For(ctx, signedIn("u1"))
	require.NoError(t, err)

	assert.Equal(t, 0, m.Sweep(time.Hour))
	s.lastUsed.Store(time.Now().Add(-2 * time.Hour).UnixNano())
	assert.Equal(t, 1, m.Sweep(time.Hour))
	assert.Equal(t, 0, m.Len())
}

// slowStore blocks ListByUser for one user until release is closed.
type slowStore struct {
	*memoryStore
	slowUser string
	entered  chan struct{}
	release  chan struct{}
}

func (s *slowStore) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	if userID == s.slowUser {
		close(s.entered)
		<-s.release
	}
	return s.memoryStore.ListByUser(ctx, userID)
}

func TestSweepDoesNotStallOtherUsers(t *testing.T) {
	store := &slowStore{
		memoryStore: newMemoryStore(),
		slowUser:    "A",
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	m := NewManager(store, nil)
	ctx := context.Background()

	go func() { _, _ = m.For(ctx, signedIn("A")) }()
	<-store.entered
	defer close(store.release)

	swept := make(chan int, 1)
	go func() { swept <- m.Sweep(time.Hour) }()

	done := make(chan error, 1)
	go func() {
		_, err := m.For(ctx, signedIn("B"))
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("cart for B blocked behind A's store call")
	}
	select {
	case n := <-swept:
		assert.Equal(t, 0, n)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("sweep blocked behind A's store call")
	}
}

func TestManagerForReplacesDisposedSynchronizer(t *testing.T) {
	store := newMemoryStore(p1)
	store.lines["u1"] = []domain.CartLine{{ProductID: "p1", Quantity: 1}}
	m := NewManager(store, nil)
	ctx := context.Background()

	// An entry disposed between lookup and bind.
	stale := NewSynchronizer(store, nil)
	stale.Dispose()
	m.syncs["u1"] = stale

	s, err := m.For(ctx, signedIn("u1"))
	require.NoError(t, err)
	assert.NotSame(t, stale, s)
	assert.Equal(t, "u1", s.UserID())
	assert.Equal(t, 1, s.Projection().ItemCount)
	assert.Equal(t, 1, m.Len())

	stale.Initialize(ctx, signedIn("u1"))
	assert.Equal(t, "", stale.UserID(), "disposed synchronizer must not rebind")
	_, err = stale.AddItem(ctx, p1)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}
