package storage

import (
	"context"
	"sync"
	"time"

	"github.com/mcare/storefront/internal/domain"
)

// storeItem represents a single stored value with optional expiration
type storeItem struct {
	Value      string
	Expiration time.Time // zero means never expires
}

func (i storeItem) expired(now time.Time) bool {
	return !i.Expiration.IsZero() && now.After(i.Expiration)
}

// MemoryStore is a thread-safe in-memory key-value store.
// It plays the role of the browser's local storage for each cart session.
type MemoryStore struct {
	data  map[string]storeItem
	ttl   time.Duration
	mutex sync.RWMutex

	stop      chan struct{}
	stopOnce  sync.Once
	sweepDone sync.WaitGroup
}

// NewMemoryStore creates a new in-memory store. A ttl of zero keeps values forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]storeItem),
		ttl:  ttl,
		stop: make(chan struct{}),
	}

	// Only sweep when values can actually expire
	if ttl > 0 {
		store.sweepDone.Add(1)
		go store.cleanupExpired(cleanupInterval(ttl))
	}

	return store
}

// Get retrieves a value from the store
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[key]
	if !exists || item.expired(time.Now()) {
		return "", domain.ErrKeyNotFound
	}

	return item.Value, nil
}

// Set stores a value, resetting its expiration
func (s *MemoryStore) Set(ctx context.Context, key string, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	item := storeItem{Value: value}
	if s.ttl > 0 {
		item.Expiration = time.Now().Add(s.ttl)
	}
	s.data[key] = item

	return nil
}

// Delete removes a value from the store
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}

// cleanupExpired removes expired entries from the store periodically
func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	defer s.sweepDone.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.removeExpired(time.Now())
		}
	}
}

func (s *MemoryStore) removeExpired(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key, item := range s.data {
		if item.expired(now) {
			delete(s.data, key)
		}
	}
}

// Close stops the expiry sweep and waits for it to exit. It is safe to call
// more than once; the stored values stay readable.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.sweepDone.Wait()
	return nil
}

// cleanupInterval sweeps every 10 minutes, or sooner for short TTLs
func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < 10*time.Minute {
		return ttl
	}
	return 10 * time.Minute
}

// Size returns the current number of stored values
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Clear removes all values from the store
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = make(map[string]storeItem)
}
