// pkg/database/transaction.go
//
// Bir transaction; ACID prensiplerine uygun olarak bir grup veritabanı
// işleminin tamamının *ya tamamen başarılı olmasını* ya da *hiçbirinin
// uygulanmamış kabul edilmesini* sağlar. Pivot tablo senkronizasyonu gibi
// birden fazla yazma içeren senaryolarda veri bütünlüğü için hayati önem
// taşır.
//
// Transaction yapısı, Go'nun sql.Tx tipine bir sarmalayıcıdır. Her
// transaction bir correlation ID alır; loglar bu ID ile eşleştirilerek aynı
// işlemin başlangıcı ve sonu ayırt edilir.
//
// Örnek kullanım:
//
//	tx, _ := BeginTransaction(db, grammar)
//	qb := tx.NewBuilder() // builder transaction içinde çalışır
//	qb.Table("users").WhereEq("id", 1).ExecUpdate(...)
//	tx.Commit()
//
// Çoğu durumda closure tabanlı WithTransaction tercih edilmelidir; commit ve
// rollback akışını kendisi yönetir.

package database

import (
	"database/sql"
	"log"

	"github.com/google/uuid"
)

// Transaction, sql.Tx nesnesini saklar ve commit/rollback operasyonlarını
// daha okunabilir bir API ile gerçekleştirir.
type Transaction struct {
	Tx      *sql.Tx
	grammar Grammar
	id      string
}

// BeginTransaction, yeni bir veritabanı transaction'ı başlatır.
//
// Dönen Transaction yapısı mutlaka `Commit()` veya `Rollback()` ile
// sonlandırılmalıdır.
func BeginTransaction(db *sql.DB, grammar Grammar) (*Transaction, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	log.Printf("🔄 Transaction başladı. (id: %s)", id)
	return &Transaction{Tx: tx, grammar: grammar, id: id}, nil
}

// NewBuilder, transaction'a bağlı yeni bir QueryBuilder oluşturur.
func (t *Transaction) NewBuilder() *QueryBuilder {
	return NewBuilder(t.Tx, t.grammar)
}

// ID, transaction'ın correlation ID'sini döndürür.
func (t *Transaction) ID() string {
	return t.id
}

// Commit, başlatılmış olan transaction'ı başarılı şekilde sonlandırır.
func (t *Transaction) Commit() error {
	err := t.Tx.Commit()
	if err == nil {
		log.Printf("✅ Transaction commit edildi. (id: %s)", t.id)
	}
	return err
}

// Rollback, transaction sırasında bir hata oluştuğunda çağrılır.
// Yapılmış tüm değişiklikler geri alınır.
func (t *Transaction) Rollback() error {
	err := t.Tx.Rollback()
	if err == nil {
		log.Printf("❌ Transaction geri alındı. (id: %s)", t.id)
	}
	return err
}

// WithTransaction, verilen fonksiyonu bir transaction içinde çalıştırır.
// Fonksiyon error dönerse transaction geri alınır ve orijinal hata
// TransactionError içine sarılarak döndürülür; başarılıysa commit edilir.
//
// Örnek:
//
//	err := database.WithTransaction(db, grammar, func(tx *database.Transaction) error {
//	    if _, err := tx.NewBuilder().Table("orders").ExecInsert(order); err != nil {
//	        return err
//	    }
//	    _, err := tx.NewBuilder().Table("order_items").ExecInsert(item)
//	    return err
//	})
func WithTransaction(db *sql.DB, grammar Grammar, fn func(tx *Transaction) error) error {
	tx, err := BeginTransaction(db, grammar)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("⚠️ Rollback başarısız oldu. (id: %s, err: %v)", tx.id, rbErr)
		}
		return &TransactionError{Err: err}
	}

	return tx.Commit()
}
