// -----------------------------------------------------------------------------
// Redis Store Driver
// -----------------------------------------------------------------------------
// Redis-based cache implementation.
//
// Production ortamı için önerilen store. Distributed caching, TTL ve
// persistence destekler. Değerler byte dizisi olarak yazılır; encode/decode
// kararı çağırana aittir.
// -----------------------------------------------------------------------------

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisTimeout, tek bir Redis operasyonunun üst süre sınırıdır.
const redisTimeout = 3 * time.Second

// RedisStore, Redis-based cache implementation.
type RedisStore struct {
	client *redis.Client
	prefix string // Key prefix (namespace)
}

// NewRedisStore, yeni bir Redis store oluşturur.
//
// Parametreler:
//   - client: Redis client
//   - prefix: Cache key prefix (opsiyonel, örn: "myapp:")
//
// Örnek:
//
//	store := cache.NewRedisStore(redisClient, "myapp:")
//	store.Set("query:abc", payload, time.Minute)
//	// Gerçek key: "myapp:query:abc"
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// prefixKey, key'e prefix ekler.
func (r *RedisStore) prefixKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + key
}

// Get, cache'den veri okur. Key bulunamazsa (nil, nil) döner.
func (r *RedisStore) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.prefixKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	return val, nil
}

// Set, cache'e veri yazar. TTL 0 ise süresiz saklanır.
func (r *RedisStore) Set(key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	return r.client.Set(ctx, r.prefixKey(key), value, ttl).Err()
}

// Delete, cache'den veri siler.
func (r *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	return r.client.Del(ctx, r.prefixKey(key)).Err()
}

// Flush, prefix'e bakılmaksızın bağlı veritabanındaki tüm key'leri temizler.
func (r *RedisStore) Flush() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	return r.client.FlushDB(ctx).Err()
}
