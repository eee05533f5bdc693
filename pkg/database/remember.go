package database

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// -----------------------------------------------------------------------------
// Sorgu Cache'i
// -----------------------------------------------------------------------------
// Remember ile bir cache store bağlanan builder, GetMaps sonuçlarını TTL
// süresince cache'ler. Cache anahtarı derlenmiş SQL metni ve parametrelerden
// türetilir: aynı sorgu + aynı binding'ler aynı anahtarı üretir, farklı
// binding'ler farklı anahtar alır. Satırlar msgpack ile encode edilir.
//
// Cache READ-THROUGH çalışır: miss durumunda sorgu çalıştırılır ve sonuç
// yazılır. Store hataları sorguyu engellemez; cache'e ulaşılamıyorsa
// veritabanına düşülür.
// -----------------------------------------------------------------------------

// CacheStore, sorgu cache'inin ihtiyaç duyduğu minimal kontrattır.
// pkg/cache içindeki store'lar bu arayüzü sağlar.
type CacheStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// Remember, builder'a bir cache store ve TTL bağlar. Sonraki GetMaps
// çağrıları cache üzerinden akar.
//
// Örnek:
//
//	store := cache.NewMemoryStore(5 * time.Minute)
//	rows, err := qb.Table("users").Remember(store, time.Minute).GetMaps()
func (qb *QueryBuilder) Remember(store CacheStore, ttl time.Duration) *QueryBuilder {
	qb.cacheStore = store
	qb.cacheTTL = ttl
	return qb
}

// cacheKey, derlenmiş SQL ve parametrelerden deterministik anahtar üretir.
func cacheKey(sqlStr string, args []interface{}) string {
	h := md5.New()
	h.Write([]byte(sqlStr))
	for _, arg := range args {
		fmt.Fprintf(h, "|%v", arg)
	}
	return "query:" + hex.EncodeToString(h.Sum(nil))
}

// getMapsCached, sorguyu cache üzerinden çalıştırır.
func (qb *QueryBuilder) getMapsCached(sqlStr string, args []interface{}) ([]map[string]interface{}, error) {
	key := cacheKey(sqlStr, args)

	if encoded, err := qb.cacheStore.Get(key); err == nil && encoded != nil {
		var cached []map[string]interface{}
		if err := msgpack.Unmarshal(encoded, &cached); err == nil {
			return cached, nil
		}
		// Bozuk entry: sil ve veritabanına düş
		_ = qb.cacheStore.Delete(key)
	}

	results, err := qb.queryMaps(sqlStr, args)
	if err != nil {
		return nil, err
	}

	if encoded, err := msgpack.Marshal(results); err == nil {
		_ = qb.cacheStore.Set(key, encoded, qb.cacheTTL)
	}

	return results, nil
}
