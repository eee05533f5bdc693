package database

import (
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// -----------------------------------------------------------------------------
// Aggregate Sorguları
// -----------------------------------------------------------------------------
// Count/Max/Min/Avg/Sum, builder'ın FROM/JOIN/WHERE bağlamını koruyarak tek
// değerli aggregate sorguları çalıştırır. ORDER BY, LIMIT ve OFFSET aggregate
// formda anlamsızdır ve derlemeye dahil edilmez.
//
// COUNT sorguları singleflight ile tekilleştirilir: aynı anda gelen birebir
// aynı COUNT istekleri (tipik olarak aynı sayfalı listeye vuran eşzamanlı
// istekler) tek bir veritabanı sorgusunu paylaşır. Anahtar executor kimliğini
// içerir; farklı bağlantılara (ya da bir transaction'a) giden aynı SQL asla
// aynı uçuşu paylaşmaz.
// -----------------------------------------------------------------------------

var countGroup singleflight.Group

// countKey, singleflight anahtarını executor'a göre ayrıştırır.
func (qb *QueryBuilder) countKey(sqlStr string, args []interface{}) string {
	return fmt.Sprintf("%p|%s", qb.executor, cacheKey(sqlStr, args))
}

// aggregate, sorguyu derleyip tek değer okur.
func (qb *QueryBuilder) aggregate(fn string, column string) (interface{}, error) {
	if qb.lastErr != nil {
		return nil, qb.lastErr
	}

	sqlStr, args, err := qb.grammar.CompileAggregate(qb, fn, column)
	if err != nil {
		return nil, fmt.Errorf("aggregate compilation failed: %w", err)
	}

	var value interface{}
	if err := qb.executor.QueryRow(sqlStr, args...).Scan(&value); err != nil {
		return nil, err
	}
	if b, ok := value.([]byte); ok {
		return string(b), nil
	}
	return value, nil
}

// Count, eşleşen satır sayısını döndürür.
//
// Örnek:
//
//	total, err := qb.Table("users").WhereEq("status", "active").Count()
func (qb *QueryBuilder) Count() (int64, error) {
	if qb.lastErr != nil {
		return 0, qb.lastErr
	}

	sqlStr, args, err := qb.grammar.CompileAggregate(qb, "COUNT", "*")
	if err != nil {
		return 0, fmt.Errorf("aggregate compilation failed: %w", err)
	}

	key := qb.countKey(sqlStr, args)
	result, err, _ := countGroup.Do(key, func() (interface{}, error) {
		var count int64
		if err := qb.executor.QueryRow(sqlStr, args...).Scan(&count); err != nil {
			return int64(0), err
		}
		return count, nil
	})
	if err != nil {
		return 0, err
	}

	return result.(int64), nil
}

// Max, kolondaki en büyük değeri döndürür. Tip veritabanı sürücüsünün
// verdiği haliyle geçirilir ([]byte → string normalize edilir).
func (qb *QueryBuilder) Max(column string) (interface{}, error) {
	return qb.aggregate("MAX", column)
}

// Min, kolondaki en küçük değeri döndürür.
func (qb *QueryBuilder) Min(column string) (interface{}, error) {
	return qb.aggregate("MIN", column)
}

// Avg, kolon ortalamasını float64 olarak döndürür.
func (qb *QueryBuilder) Avg(column string) (float64, error) {
	value, err := qb.aggregate("AVG", column)
	if err != nil {
		return 0, err
	}
	return toFloat64(value)
}

// Sum, kolon toplamını float64 olarak döndürür. Eşleşen satır yoksa 0 döner.
func (qb *QueryBuilder) Sum(column string) (float64, error) {
	value, err := qb.aggregate("SUM", column)
	if err != nil {
		return 0, err
	}
	if value == nil {
		return 0, nil
	}
	return toFloat64(value)
}

// Exists, sorgunun en az bir satır döndürüp döndürmediğini COUNT üzerinden
// kontrol eder.
func (qb *QueryBuilder) Exists() (bool, error) {
	count, err := qb.Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// toFloat64, sürücüye göre değişen numeric tipleri normalize eder.
func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate value type: %T", value)
	}
}
