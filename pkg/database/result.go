package database

import (
	"database/sql"
	"fmt"
)

// -----------------------------------------------------------------------------
// Map Tabanlı Sonuç Okuma
// -----------------------------------------------------------------------------
// Model katmanı attribute'ları dinamik map'ler olarak taşır; bu dosya satır
// kümelerini []map[string]interface{} formuna çevirir. []byte değerler
// string'e normalize edilir, böylece map içerikleri hem karşılaştırılabilir
// hem de cache codec'leri tarafından stabil şekilde serialize edilebilir.
// -----------------------------------------------------------------------------

// rowsToMaps, bir *sql.Rows kümesini map slice'ına dönüştürür.
func rowsToMaps(rows *sql.Rows) ([]map[string]interface{}, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var results []map[string]interface{}

	for rows.Next() {
		values := make([]interface{}, len(cols))
		scanArgs := make([]interface{}, len(cols))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// GetMaps, sorguyu çalıştırır ve sonuç kümesini map slice'ı olarak döndürür.
// Remember ile bir cache store bağlanmışsa önce cache'e bakılır.
//
// Örnek:
//
//	rows, err := qb.Table("users").WhereEq("status", "active").GetMaps()
func (qb *QueryBuilder) GetMaps() ([]map[string]interface{}, error) {
	sqlStr, args, err := qb.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("query compilation failed: %w", err)
	}

	if qb.cacheStore != nil {
		return qb.getMapsCached(sqlStr, args)
	}

	return qb.queryMaps(sqlStr, args)
}

// queryMaps, derlenmiş sorguyu executor üzerinde çalıştırır.
func (qb *QueryBuilder) queryMaps(sqlStr string, args []interface{}) ([]map[string]interface{}, error) {
	rows, err := qb.executor.Query(sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rowsToMaps(rows)
}

// FirstMap, sorguya LIMIT 1 ekleyip ilk satırı map olarak döndürür.
// Satır yoksa ErrNotFound döner.
func (qb *QueryBuilder) FirstMap() (map[string]interface{}, error) {
	qb.Limit(1)

	results, err := qb.GetMaps()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results[0], nil
}
