package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mcare/storefront/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultSessionIdle is how long an untouched session stays in memory
const DefaultSessionIdle = 30 * time.Minute

// CartSessions hands out one CartStore per shopper session.
// Each session is persisted under "<cartKey>:<sessionID>". Sessions idle for
// longer than the idle timeout are dropped and reloaded from storage on next use.
type CartSessions struct {
	repo    domain.CartRepository
	cartKey string
	policy  ShippingPolicy
	logger  *zap.Logger
	now     func() time.Time

	loads singleflight.Group

	mu        sync.Mutex
	idle      time.Duration
	stores    map[string]*sessionEntry
	lastSweep time.Time
}

type sessionEntry struct {
	store    *CartStore
	lastSeen time.Time
}

// NewCartSessions creates a session registry
func NewCartSessions(repo domain.CartRepository, cartKey string, policy ShippingPolicy, logger *zap.Logger) *CartSessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartSessions{
		repo:      repo,
		cartKey:   cartKey,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
		idle:      DefaultSessionIdle,
		stores:    make(map[string]*sessionEntry),
		lastSweep: time.Now(),
	}
}

// SetIdleTimeout changes how long an untouched session is kept in memory.
// Keep it at or below the storage TTL so expired carts are not served from memory.
func (c *CartSessions) SetIdleTimeout(idle time.Duration) {
	if idle <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idle = idle
}

// StorageKey returns the key a session's cart is persisted under
func (c *CartSessions) StorageKey(sessionID string) string {
	return c.cartKey + ":" + sessionID
}

// Get returns the session's store, loading it from storage on first use.
// A failed load degrades to an empty cart; it is logged by the store. Loads run
// outside the registry lock, and concurrent first requests for one session share
// a single load. A store whose storage was unreachable is not kept, so the next
// request retries.
func (c *CartSessions) Get(ctx context.Context, sessionID string) *CartStore {
	if store := c.lookup(sessionID); store != nil {
		return store
	}

	// The load outlives a cancelled request so a disconnect cannot blank the cart
	loadCtx := context.WithoutCancel(ctx)

	v, _, _ := c.loads.Do(sessionID, func() (interface{}, error) {
		if store := c.lookup(sessionID); store != nil {
			return store, nil
		}

		store := NewCartStore(c.repo, c.StorageKey(sessionID), c.policy, c.logger)
		if err := store.Load(loadCtx); errors.Is(err, domain.ErrStorageUnavailable) {
			return store, nil
		}

		c.mu.Lock()
		c.stores[sessionID] = &sessionEntry{store: store, lastSeen: c.now()}
		c.mu.Unlock()
		return store, nil
	})
	return v.(*CartStore)
}

// lookup returns a cached store and marks it as seen, sweeping idle sessions on the way
func (c *CartSessions) lookup(sessionID string) *CartStore {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= min(c.idle, time.Minute) {
		c.sweepLocked(now)
	}

	entry, ok := c.stores[sessionID]
	if !ok {
		return nil
	}
	entry.lastSeen = now
	return entry.store
}

// Sweep drops every session idle for longer than the idle timeout and
// returns how many were dropped
func (c *CartSessions) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(c.now())
}

func (c *CartSessions) sweepLocked(now time.Time) int {
	dropped := 0
	for id, entry := range c.stores {
		if now.Sub(entry.lastSeen) > c.idle {
			delete(c.stores, id)
			dropped++
		}
	}
	c.lastSweep = now

	if dropped > 0 {
		c.logger.Debug("dropped idle cart sessions", zap.Int("sessions", dropped), zap.Int("remaining", len(c.stores)))
	}
	return dropped
}

// Forget drops a session's in-memory store; the persisted cart is kept
func (c *CartSessions) Forget(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stores, sessionID)
}

// Len returns the number of sessions held in memory
func (c *CartSessions) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stores)
}
