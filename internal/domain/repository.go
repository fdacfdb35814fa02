package domain

import "context"

// KeyValueStore is the raw string storage carts are persisted into
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// CartRepository loads and saves whole carts under a storage key
type CartRepository interface {
	// Load returns an empty cart alongside any error, never nil on failure
	Load(ctx context.Context, key string) (Cart, error)
	Save(ctx context.Context, key string, cart Cart) error
}

// NewsletterClient submits an address to the newsletter provider
type NewsletterClient interface {
	Subscribe(ctx context.Context, email string) error
}
