package domain

import "errors"

var (
	// ErrKeyNotFound is returned when a storage key holds no value
	ErrKeyNotFound = errors.New("key not found in storage")

	// ErrStorageUnavailable is returned when the backing store cannot be read or written
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageCorrupt is returned when a persisted cart cannot be decoded
	ErrStorageCorrupt = errors.New("persisted cart is malformed")

	// ErrInvalidItem is returned when a line item is missing its id or has a bad price
	ErrInvalidItem = errors.New("invalid line item")

	// ErrItemNotFound is returned when a line item id is not in the cart
	ErrItemNotFound = errors.New("line item not found")

	// ErrEmptyCart is returned when checking out a cart with no items
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidEmail is returned when a newsletter submission has no usable address
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrNewsletterFailure is returned when the newsletter endpoint rejects or drops a request
	ErrNewsletterFailure = errors.New("newsletter request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
