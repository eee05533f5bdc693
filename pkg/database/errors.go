// -----------------------------------------------------------------------------
// Error Taxonomy
// -----------------------------------------------------------------------------
// Kütüphanenin dışarıya verdiği hata tipleri burada tanımlanır:
//
//   - ValidationError: Builder'a hatalı argüman verildi (yanlış BETWEEN/IN
//     arity, geçersiz identifier). Sorgu veritabanına GİTMEDEN yakalanır.
//   - ErrNotFound: Get/All sıfır satır döndürdü. Çağıran taraf "veri yok" ile
//     "bağlantı hatası" ayrımını bu sentinel üzerinden yapar.
//   - TransactionError: Çok adımlı bir işlem (örn. pivot attach) rollback
//     edildi; orijinal hata Unwrap ile erişilebilir durumda sarılır.
//
// Adapter'dan (database/sql sürücüsü) gelen hatalar olduğu gibi yukarı
// taşınır; bu katman retry yapmaz, hata formatı parse etmez.
// -----------------------------------------------------------------------------

package database

import (
	"errors"
	"fmt"
)

// ErrNotFound, bir fetch işleminin sıfır satır döndürdüğünü bildirir.
var ErrNotFound = errors.New("activerecord: record not found")

// ValidationError, sorgu derlenmeden önce yakalanan hatalı builder
// kullanımını temsil eder.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "activerecord: validation: " + e.Msg
}

// NewValidationError, formatlı bir ValidationError üretir.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation, hatanın bir ValidationError olup olmadığını söyler.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransactionError, rollback ile sonuçlanan çok adımlı bir işlemin orijinal
// hatasını sarar. Rollback'in kendisi başarısız olsa bile asıl neden korunur.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return "activerecord: transaction rolled back: " + e.Err.Error()
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
