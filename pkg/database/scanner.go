package database

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// -----------------------------------------------------------------------------
// Reflection-Based SQL Scanner
// -----------------------------------------------------------------------------
// *sql.Rows sonuçlarını struct'lara tarar. Kolon → field eşlemesi `db` tag'i
// üzerinden yapılır; tag yoksa field adının lowercase hali kullanılır.
// Field map'leri tip başına bir kez çıkarılır ve process ömrü boyunca
// cache'lenir; tip sayısı sınırlı olduğu için expiry gerekmez.
// -----------------------------------------------------------------------------

type fieldMap map[string]string

var (
	fieldMapCache   = make(map[reflect.Type]fieldMap)
	fieldMapCacheMu sync.RWMutex
)

// structFieldMap, bir struct tipinin kolon → field eşlemesini döndürür.
// Kilit yalnızca cache erişimini sarar; çıkarma işlemi kilitsiz yapılır,
// böylece embedded struct'lar için özyineleme kilidi tekrar almaz.
func structFieldMap(structType reflect.Type) fieldMap {
	fieldMapCacheMu.RLock()
	if m, ok := fieldMapCache[structType]; ok {
		fieldMapCacheMu.RUnlock()
		return m
	}
	fieldMapCacheMu.RUnlock()

	mapping := extractFieldMap(structType)

	fieldMapCacheMu.Lock()
	fieldMapCache[structType] = mapping
	fieldMapCacheMu.Unlock()

	return mapping
}

// extractFieldMap, kolon → field eşlemesini reflection ile çıkarır.
func extractFieldMap(structType reflect.Type) fieldMap {
	mapping := make(fieldMap)
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		// Embedded struct'ları özyineli işle
		if field.Anonymous {
			if field.Type.Kind() == reflect.Struct {
				for col, fName := range extractFieldMap(field.Type) {
					mapping[col] = field.Name + "." + fName
				}
			}
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = strings.ToLower(field.Name)
		}

		mapping[tag] = field.Name
	}

	return mapping
}

// ScanStruct, mevcut *sql.Rows satırını bir struct'a tarar.
// rows.Next() çağıranın sorumluluğundadır.
func ScanStruct(rows *sql.Rows, dest any) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("scanner: dest must be a struct pointer, got %T", dest)
	}

	destElem := destValue.Elem()
	mapping := structFieldMap(destElem.Type())

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	scanArgs := make([]any, len(cols))
	for i, colName := range cols {
		fieldName, ok := mapping[colName]
		if !ok {
			// Eşleşmeyen kolonlar sessizce atlanır
			scanArgs[i] = new(sql.RawBytes)
			continue
		}

		fieldVal := destElem.FieldByName(fieldName)
		if !fieldVal.IsValid() {
			fieldVal = findEmbeddedField(destElem, fieldName)
		}
		if !fieldVal.IsValid() || !fieldVal.CanSet() {
			return fmt.Errorf("scanner: field '%s' not found or not settable", fieldName)
		}

		scanArgs[i] = fieldVal.Addr().Interface()
	}

	return rows.Scan(scanArgs...)
}

// findEmbeddedField, 'A.B' gibi iç içe alan adlarını çözer.
func findEmbeddedField(v reflect.Value, name string) reflect.Value {
	parts := strings.Split(name, ".")
	current := v

	for _, part := range parts {
		if current.Kind() == reflect.Ptr {
			current = current.Elem()
		}
		if current.Kind() != reflect.Struct {
			return reflect.Value{}
		}
		current = current.FieldByName(part)
	}

	return current
}

// ScanSlice, tüm *sql.Rows sonuç kümesini bir struct slice'ına tarar.
//
// Örnek:
//
//	var users []User
//	err := ScanSlice(rows, &users)
func ScanSlice(rows *sql.Rows, dest any) error {
	sliceValue := reflect.ValueOf(dest)
	if sliceValue.Kind() != reflect.Ptr || sliceValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("scanner: dest must be a slice pointer, got %T", dest)
	}

	sliceElem := sliceValue.Elem()
	structType := sliceElem.Type().Elem()

	for rows.Next() {
		newStructPtr := reflect.New(structType)
		if err := ScanStruct(rows, newStructPtr.Interface()); err != nil {
			return err
		}
		sliceElem.Set(reflect.Append(sliceElem, newStructPtr.Elem()))
	}

	return rows.Err()
}
