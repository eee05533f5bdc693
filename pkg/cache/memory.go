// -----------------------------------------------------------------------------
// Memory Store Driver
// -----------------------------------------------------------------------------
// In-memory cache implementation (non-persistent).
//
// Testing ve geçici cache için idealdir. Thread-safe'tir; expire olan
// entry'ler periyodik bir cleanup ticker'ı tarafından toplanır.
//
// Sınırlamalar:
// - Non-persistent (restart'ta kaybolur)
// - Single-server only (distributed değil)
// -----------------------------------------------------------------------------

package cache

import (
	"sync"
	"time"
)

// memoryEntry, memory'de saklanan veri yapısı.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero value = süresiz
}

// isExpired, entry'nin expire olup olmadığını kontrol eder.
func (e *memoryEntry) isExpired() bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return time.Now().After(e.expiresAt)
}

// MemoryStore, in-memory cache implementation.
type MemoryStore struct {
	entries map[string]*memoryEntry
	mu      sync.RWMutex
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore, yeni bir memory store oluşturur ve cleanup döngüsünü
// başlatır. cleanupInterval, exire olan entry'lerin ne sıklıkla toplanacağını
// belirler; 0 verilirse 5 dakika kullanılır.
//
// Store ile işi bittiğinde Stop çağrılmalıdır.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}

	ms := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		done:    make(chan struct{}),
	}

	go ms.cleanupLoop(cleanupInterval)

	return ms
}

// cleanupLoop, periyodik olarak expire olan entry'leri temizler.
func (m *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

// cleanup, expire olan entry'leri siler.
func (m *MemoryStore) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, entry := range m.entries {
		if entry.isExpired() {
			delete(m.entries, key)
		}
	}
}

// Stop, cleanup döngüsünü gracefully durdurur.
func (m *MemoryStore) Stop() {
	m.once.Do(func() {
		close(m.done)
	})
}

// Get, cache'den veri okur.
func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[key]
	if !exists || entry.isExpired() {
		return nil, nil // Cache miss
	}

	return entry.value, nil
}

// Set, cache'e veri yazar. TTL 0 ise süresiz saklanır.
func (m *MemoryStore) Set(key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	m.entries[key] = &memoryEntry{
		value:     value,
		expiresAt: expiresAt,
	}

	return nil
}

// Delete, cache'den veri siler.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Flush, tüm entry'leri temizler.
func (m *MemoryStore) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*memoryEntry)
	return nil
}
