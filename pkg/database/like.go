package database

import "strings"

// -----------------------------------------------------------------------------
// LIKE Pattern Escape
// -----------------------------------------------------------------------------

// EscapeLike, kullanıcı girdisini LIKE pattern'i içine gömülebilir hale
// getirir. Backslash, yüzde ve underscore karakterleri escape edilir; "%50"
// araması metindeki gerçek yüzde işaretiyle eşleşir, wildcard olarak
// yorumlanmaz.
//
// Örnek:
//
//	pattern := "%" + database.EscapeLike(keywords) + "%"
//	qb.Where("name", "LIKE", pattern)
func EscapeLike(input string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	)
	return replacer.Replace(input)
}
