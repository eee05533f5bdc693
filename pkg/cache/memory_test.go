// -----------------------------------------------------------------------------
// Memory Store Tests
// -----------------------------------------------------------------------------

package cache

import (
	"testing"
	"time"
)

// TestMemoryStore_SetGet tests the basic write/read path.
func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Stop()

	if err := store.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get("key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Expected 'value', got %q", got)
	}
}

// TestMemoryStore_MissReturnsNil tests that a cache miss is not an error.
func TestMemoryStore_MissReturnsNil(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Stop()

	got, err := store.Get("missing")
	if err != nil {
		t.Fatalf("Miss should not be an error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil on miss, got %q", got)
	}
}

// TestMemoryStore_TTLExpiry tests that expired entries are not served.
func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Stop()

	_ = store.Set("short", []byte("x"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	got, err := store.Get("short")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("Expired entry should not be served")
	}
}

// TestMemoryStore_ZeroTTLNeverExpires tests indefinite entries.
func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Stop()

	_ = store.Set("forever", []byte("x"), 0)
	time.Sleep(20 * time.Millisecond)

	got, _ := store.Get("forever")
	if got == nil {
		t.Error("Zero-TTL entry should never expire")
	}
}

// TestMemoryStore_DeleteAndFlush tests removal paths.
func TestMemoryStore_DeleteAndFlush(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Stop()

	_ = store.Set("a", []byte("1"), 0)
	_ = store.Set("b", []byte("2"), 0)

	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := store.Get("a"); got != nil {
		t.Error("Deleted entry should be gone")
	}

	if err := store.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if got, _ := store.Get("b"); got != nil {
		t.Error("Flushed entry should be gone")
	}
}

// TestMemoryStore_CleanupCollectsExpired tests the background cleanup loop.
func TestMemoryStore_CleanupCollectsExpired(t *testing.T) {
	store := NewMemoryStore(20 * time.Millisecond)
	defer store.Stop()

	_ = store.Set("short", []byte("x"), 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	store.mu.RLock()
	_, exists := store.entries["short"]
	store.mu.RUnlock()

	if exists {
		t.Error("Cleanup loop should have collected the expired entry")
	}
}
