package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riteshrajpandit/shikhar-shoe/internal/cart"
)

type Session struct {
	ID   string
	Cart *cart.Store
}

type entry struct {
	cart     *cart.Store
	lastSeen time.Time
}

// Registry keeps one cart per browser session. Carts exist only in memory and
// are dropped once a session has been idle longer than the TTL.
type Registry struct {
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
	onExpire []func(id string)

	mu       sync.Mutex
	sessions map[string]*entry
}

type Option func(*Registry)

// OnExpire registers fn to run with the id of every session the registry
// drops, so per-session state kept elsewhere can be released with it.
func OnExpire(fn func(id string)) Option {
	return func(r *Registry) { r.onExpire = append(r.onExpire, fn) }
}

func NewRegistry(ttl time.Duration, logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the session for id, creating a new one with a fresh id when
// id is blank, unknown or expired. created reports whether that happened.
func (r *Registry) Resolve(id string) (s Session, created bool) {
	now := r.now()

	r.mu.Lock()
	if e, ok := r.sessions[id]; ok && !r.expired(e, now) {
		e.lastSeen = now
		r.mu.Unlock()
		return Session{ID: id, Cart: e.cart}, false
	}
	_, stale := r.sessions[id]
	delete(r.sessions, id)

	newID := uuid.NewString()
	e := &entry{cart: cart.NewStore(), lastSeen: now}
	r.sessions[newID] = e
	r.mu.Unlock()

	if stale {
		r.expire([]string{id})
	}
	return Session{ID: newID, Cart: e.cart}, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops every session idle longer than the TTL and returns how many went.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var gone []string
	for id, e := range r.sessions {
		if r.expired(e, now) {
			delete(r.sessions, id)
			gone = append(gone, id)
		}
	}
	r.mu.Unlock()

	r.expire(gone)
	return len(gone)
}

// expire runs the OnExpire hooks outside the registry lock.
func (r *Registry) expire(ids []string) {
	for _, id := range ids {
		for _, fn := range r.onExpire {
			fn(id)
		}
	}
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				r.logger.Info("expired sessions swept", zap.Int("count", n), zap.Int("active", r.Len()))
			}
		}
	}
}

func (r *Registry) expired(e *entry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.lastSeen) > r.ttl
}
