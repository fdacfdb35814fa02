package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mcare/storefront/internal/domain"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{
			name:  "store and retrieve plain string",
			key:   "test-key-1",
			value: "test-value",
		},
		{
			name:  "store and retrieve cart json",
			key:   "mcare_cart_v1:abc",
			value: `[{"id":"1","name":"Crème","price":12.5,"image":"","quantity":2}]`,
		},
		{
			name:  "store empty value",
			key:   "test-key-3",
			value: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Set(ctx, tt.key, tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, err := store.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.value {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestMemoryStore_Get_NotFound(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	_, err := store.Get(ctx, "non-existent-key")
	if err != domain.ErrKeyNotFound {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrKeyNotFound)
	}
}

func TestMemoryStore_Expiration(t *testing.T) {
	store := NewMemoryStore(5 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	if err := store.Set(ctx, "short-ttl", "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, "short-ttl")
	if err != domain.ErrKeyNotFound {
		t.Errorf("Get() after expiration error = %v, want %v", err, domain.ErrKeyNotFound)
	}
}

func TestMemoryStore_NoExpirationByDefault(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	if err := store.Set(ctx, "forever", "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	got, err := store.Get(ctx, "forever")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "value" {
		t.Errorf("Get() = %q, want value", got)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	key := "delete-test"
	if err := store.Set(ctx, key, "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	_, err := store.Get(ctx, key)
	if err != domain.ErrKeyNotFound {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrKeyNotFound)
	}
}

func TestMemoryStore_SizeAndClear(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	if size := store.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 for empty store", size)
	}

	for i := 0; i < 5; i++ {
		if err := store.Set(ctx, fmt.Sprintf("key-%d", i), "v"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if size := store.Size(); size != 5 {
		t.Errorf("Size() = %d, want 5", size)
	}

	store.Clear()

	if size := store.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := fmt.Sprintf("key-%d", id)
			if err := store.Set(ctx, key, "v"); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := store.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestMemoryStore_Close(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	ctx := context.Background()

	if err := store.Set(ctx, "kept", "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	closed := make(chan struct{})
	go func() {
		store.Close()
		store.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close() did not stop the expiry sweep")
	}

	// Lazy expiry still applies once the sweep is gone
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Get(ctx, "kept"); err != domain.ErrKeyNotFound {
		t.Errorf("Get() after Close and expiry error = %v, want %v", err, domain.ErrKeyNotFound)
	}
}

func TestMemoryStore_CloseWithoutSweep(t *testing.T) {
	store := NewMemoryStore(0)

	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := store.Set(context.Background(), "k", "v"); err != nil {
		t.Errorf("Set() after Close error = %v", err)
	}
}
