// -----------------------------------------------------------------------------
// Field Transforms
// -----------------------------------------------------------------------------
// Runtime'da keşfedilen dinamik getter/setter'lar yerine alan başına açık bir
// transform kaydı kullanılır: her alan için opsiyonel (ToStorage, FromStorage)
// fonksiyon çifti. ToStorage atama anında uygulanır (örn. parola hash'leme),
// FromStorage okuma anında uygulanır. Transform'lar Definition kurulduktan
// sonra değişmez.
// -----------------------------------------------------------------------------

package model

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Transform, bir alanın yazma ve okuma yolundaki dönüşümlerini tanımlar.
// Her iki fonksiyon da opsiyoneldir; nil olan yol kimlik dönüşümüdür.
type Transform struct {
	// ToStorage, değer modele atanırken uygulanır.
	ToStorage func(value interface{}) (interface{}, error)

	// FromStorage, değer modelden okunurken uygulanır.
	FromStorage func(value interface{}) interface{}
}

// BcryptCost, BcryptTransform'un varsayılan hash maliyetidir.
// Production için minimum 12 önerilir.
const BcryptCost = 12

// BcryptTransform, parola alanları için hazır bir transform döndürür.
// Atanan string değer bcrypt ile hash'lenir; okuma yolu hash'i olduğu gibi
// geçirir.
//
// Örnek:
//
//	def.Transforms = map[string]model.Transform{
//	    "password": model.BcryptTransform(model.BcryptCost),
//	}
func BcryptTransform(cost int) Transform {
	return Transform{
		ToStorage: func(value interface{}) (interface{}, error) {
			plain, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("bcrypt transform expects a string, got %T", value)
			}
			if plain == "" {
				return nil, fmt.Errorf("bcrypt transform: empty password")
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
			if err != nil {
				return nil, fmt.Errorf("bcrypt transform: %w", err)
			}
			return string(hashed), nil
		},
	}
}

// CheckBcrypt, düz metin parolayı saklanan hash ile karşılaştırır.
func CheckBcrypt(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
