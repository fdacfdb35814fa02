package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mcare/storefront/internal/domain"
)

// CartRepository persists carts as a JSON array of line items in a KeyValueStore
type CartRepository struct {
	store domain.KeyValueStore
}

// NewCartRepository creates a cart repository on top of a key-value store
func NewCartRepository(store domain.KeyValueStore) *CartRepository {
	return &CartRepository{store: store}
}

// Load reads the cart stored under key. A missing key is an empty cart, not an error.
// On any failure an empty cart is returned together with a wrapped
// domain.ErrStorageUnavailable or domain.ErrStorageCorrupt.
func (r *CartRepository) Load(ctx context.Context, key string) (domain.Cart, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return domain.Cart{}, nil
	}
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			return domain.Cart{}, err
		}
		return domain.Cart{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if raw == "" {
		return domain.Cart{}, nil
	}

	cart, err := decodeCart(raw)
	if err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// Save writes the full cart under key
func (r *CartRepository) Save(ctx context.Context, key string, cart domain.Cart) error {
	if cart == nil {
		cart = domain.Cart{}
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := r.store.Set(ctx, key, string(data)); err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// decodeCart parses the persisted JSON and rejects anything not shaped like a cart.
// Old or foreign data is treated as corrupt rather than partially trusted.
func decodeCart(raw string) (domain.Cart, error) {
	var items []persistedItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, err)
	}

	cart := make(domain.Cart, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if err := item.validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", domain.ErrStorageCorrupt, i, err)
		}
		if _, dup := seen[*item.ID]; dup {
			return nil, fmt.Errorf("%w: item %d: duplicate id %q", domain.ErrStorageCorrupt, i, *item.ID)
		}
		seen[*item.ID] = struct{}{}

		cart = append(cart, domain.LineItem{
			ID:       *item.ID,
			Name:     item.Name,
			Price:    *item.Price,
			Image:    item.Image,
			Quantity: *item.Quantity,
		})
	}
	return cart, nil
}

// persistedItem mirrors domain.LineItem with pointers so missing fields can be detected
type persistedItem struct {
	ID       *string  `json:"id"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Image    string   `json:"image"`
	Quantity *int     `json:"quantity"`
}

func (p persistedItem) validate() error {
	switch {
	case p.ID == nil || *p.ID == "":
		return errors.New("missing id")
	case p.Price == nil:
		return errors.New("missing price")
	case *p.Price < 0 || math.IsNaN(*p.Price) || math.IsInf(*p.Price, 0):
		return fmt.Errorf("invalid price %v", *p.Price)
	case p.Quantity == nil || *p.Quantity < 1:
		return errors.New("quantity must be at least 1")
	}
	return nil
}
