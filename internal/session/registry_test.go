package session

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/riteshrajpandit/shikhar-shoe/internal/cart"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestRegistry(ttl time.Duration) (*Registry, *clock) {
	c := &clock{t: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(ttl, zap.NewNop())
	r.now = c.now
	return r, c
}

func TestResolveCreatesAndReuses(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)

	s, created := r.Resolve("")
	require.True(t, created)
	require.NotEmpty(t, s.ID)
	s.Cart.AddItem(cart.Candidate{ProductID: "1", Name: "Classic White Sneakers", UnitPrice: decimal.NewFromInt(189), Color: "White", Size: "9"})

	again, created := r.Resolve(s.ID)
	assert.False(t, created)
	assert.Equal(t, s.ID, again.ID)
	assert.Same(t, s.Cart, again.Cart)
	assert.Equal(t, 1, again.Cart.ItemCount())

	other, created := r.Resolve("unknown-id")
	assert.True(t, created)
	assert.NotEqual(t, "unknown-id", other.ID)
	assert.NotSame(t, s.Cart, other.Cart)
	assert.Equal(t, 2, r.Len())
}

func TestResolveExpiredSessionStartsFresh(t *testing.T) {
	r, c := newTestRegistry(time.Minute)

	s, _ := r.Resolve("")
	s.Cart.AddItem(cart.Candidate{ProductID: "3", Color: "Brown", Size: "8"})

	c.t = c.t.Add(2 * time.Minute)
	fresh, created := r.Resolve(s.ID)
	assert.True(t, created)
	assert.NotEqual(t, s.ID, fresh.ID)
	assert.Equal(t, 0, fresh.Cart.ItemCount())
	assert.Equal(t, 1, r.Len())
}

func TestSweep(t *testing.T) {
	r, c := newTestRegistry(10 * time.Minute)

	idle, _ := r.Resolve("")
	c.t = c.t.Add(8 * time.Minute)
	active, _ := r.Resolve("")

	c.t = c.t.Add(5 * time.Minute)
	_, _ = r.Resolve(active.ID)

	assert.Equal(t, 1, r.Sweep(c.t))
	assert.Equal(t, 1, r.Len())

	_, created := r.Resolve(idle.ID)
	assert.True(t, created, "idle session should have been swept")
	_, created = r.Resolve(active.ID)
	assert.False(t, created, "active session should survive the sweep")
}

func TestSweepWithoutTTLKeepsEverything(t *testing.T) {
	r, c := newTestRegistry(0)
	r.Resolve("")
	r.Resolve("")

	assert.Equal(t, 0, r.Sweep(c.t.Add(24*time.Hour)))
	assert.Equal(t, 2, r.Len())
}

func TestRunStopsWithContext(t *testing.T) {
	r := NewRegistry(time.Nanosecond, zap.NewNop())
	r.Resolve("")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, time.Millisecond) }()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestOnExpireRunsForDroppedSessions(t *testing.T) {
	var expired []string
	c := &clock{t: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(time.Hour, zap.NewNop(), OnExpire(func(id string) { expired = append(expired, id) }))
	r.now = c.now

	swept, _ := r.Resolve("")
	c.t = c.t.Add(30 * time.Minute)
	kept, _ := r.Resolve("")
	c.t = c.t.Add(45 * time.Minute)

	require.Equal(t, 1, r.Sweep(c.t))
	assert.Equal(t, []string{swept.ID}, expired)

	c.t = c.t.Add(2 * time.Hour)
	fresh, created := r.Resolve(kept.ID)
	require.True(t, created)
	assert.NotEqual(t, kept.ID, fresh.ID)
	assert.Equal(t, []string{swept.ID, kept.ID}, expired, "resolving an expired id drops it too")

	r.Resolve("unknown-id")
	assert.Len(t, expired, 2, "unknown ids were never live, so nothing to release")
}
