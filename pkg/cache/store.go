// -----------------------------------------------------------------------------
// Cache Store Interface
// -----------------------------------------------------------------------------
// Sorgu cache'i için byte-oriented store kontratı. Değerler encode edilmiş
// byte dizileri olarak taşınır; serialization kararı (msgpack) store'a değil
// çağırana aittir. Böylece aynı store hem sorgu sonuçları hem de başka
// binary payload'lar için kullanılabilir.
//
// Driver'lar: Memory (test/development), Redis (production).
// -----------------------------------------------------------------------------

package cache

import "time"

// Store, tüm cache driver'ların implement etmesi gereken interface.
//
// Örnek kullanım:
//
//	var store cache.Store = cache.NewMemoryStore(5 * time.Minute)
//	store.Set("query:abc", payload, time.Minute)
type Store interface {
	// Get, cache'den veri okur. Key bulunamazsa veya expire olmuşsa
	// (nil, nil) döner; miss bir hata değildir.
	Get(key string) ([]byte, error)

	// Set, cache'e veri yazar. TTL 0 ise süresiz saklanır.
	Set(key string, value []byte, ttl time.Duration) error

	// Delete, cache'den veri siler. Key bulunamazsa sessizce geçer.
	Delete(key string) error

	// Flush, store'daki tüm entry'leri temizler.
	Flush() error
}
