package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/mcare/storefront/internal/domain"
	"go.uber.org/zap"
)

// DefaultProductName is used when an added product has no name
const DefaultProductName = "Produit"

// CartStore owns one shopper's cart and keeps it in sync with storage.
// Every mutation and the persist that follows it run under the same lock.
type CartStore struct {
	repo   domain.CartRepository
	key    string
	policy ShippingPolicy
	logger *zap.Logger

	mu    sync.Mutex
	items domain.Cart
}

// NewCartStore creates an empty store bound to a storage key. Call Load to restore it.
func NewCartStore(repo domain.CartRepository, key string, policy ShippingPolicy, logger *zap.Logger) *CartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartStore{
		repo:   repo,
		key:    key,
		policy: policy,
		logger: logger.With(zap.String("cart_key", key)),
		items:  domain.Cart{},
	}
}

// Load replaces the in-memory cart with the persisted one. On failure the cart
// is reset to empty, a warning is logged and the typed error is returned.
func (s *CartStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read persisted cart, starting empty", zap.Error(err))
		s.items = domain.Cart{}
		return err
	}
	if items == nil {
		items = domain.Cart{}
	}
	s.items = items
	return nil
}

// Add increments the quantity of an existing item or appends a new one with quantity 1
func (s *CartStore) Add(ctx context.Context, id, name string, price float64, image string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidItem)
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: price %v", domain.ErrInvalidItem, price)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultProductName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.items.Find(id); i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, domain.LineItem{
			ID:       id,
			Name:     name,
			Price:    price,
			Image:    image,
			Quantity: 1,
		})
	}

	s.persistLocked(ctx)
	return nil
}

// SetQuantity sets an item's quantity, clamped to at least 1.
// It reports whether the item exists; an unknown id is a no-op.
func (s *CartStore) SetQuantity(ctx context.Context, id string, value int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.items.Find(id)
	if i < 0 {
		return false
	}

	s.items[i].Quantity = max(1, value)
	s.persistLocked(ctx)
	return true
}

// SetQuantityText is SetQuantity for raw input; anything that is not a
// leading integer counts as 1.
func (s *CartStore) SetQuantityText(ctx context.Context, id, raw string) bool {
	value, ok := parseLeadingInt(raw)
	if !ok {
		value = 1
	}
	return s.SetQuantity(ctx, id, value)
}

// ChangeQuantity adds delta to an item's quantity, stopping at 1.
// It never removes the item; an unknown id is a no-op.
func (s *CartStore) ChangeQuantity(ctx context.Context, id string, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.items.Find(id)
	if i < 0 {
		return false
	}

	current := s.items[i].Quantity
	next := current + delta
	// huge deltas must not wrap around
	switch {
	case delta > 0 && next < current:
		next = math.MaxInt
	case delta < 0 && next > current:
		next = 1
	}

	s.items[i].Quantity = max(1, next)
	s.persistLocked(ctx)
	return true
}

// Remove deletes an item. An unknown id leaves the cart untouched.
func (s *CartStore) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.items.Find(id)
	if i < 0 {
		return false
	}

	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persistLocked(ctx)
	return true
}

// Persist writes the whole cart to storage. Failures are logged and returned;
// the in-memory cart is kept either way.
func (s *CartStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *CartStore) persistLocked(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.key, s.items.Clone()); err != nil {
		s.logger.Warn("failed to persist cart", zap.Error(err), zap.Int("items", len(s.items)))
		return err
	}
	return nil
}

// Items returns a copy of the cart in add order
func (s *CartStore) Items() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// Len returns the number of distinct line items
func (s *CartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Totals recomputes the derived amounts from the current contents
func (s *CartStore) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotals(s.items, s.policy)
}

// View renders items and totals from one consistent snapshot
func (s *CartStore) View() CartView {
	s.mu.Lock()
	items := s.items.Clone()
	totals := ComputeTotals(items, s.policy)
	s.mu.Unlock()

	return RenderCart(items, totals)
}
