// -----------------------------------------------------------------------------
// Database Types - SQL Builder İçin Yardımcı Tipler
// -----------------------------------------------------------------------------
// Bu dosya, QueryBuilder'ın kullandığı internal struct tiplerini içerir.
// WhereClause artık düz bir liste değil, iç içe gruplara (nested groups) ve
// alt sorgulara (sub-select) izin veren bir ağaç yapısıdır. Her node soldan
// sağa, eklendiği sırayla derlenir; böylece placeholder sırası ile parametre
// listesi sırası her zaman birebir eşleşir.
//
// OrderClause ve JoinClause, direction/type alanlarını enum gibi kullanarak
// kullanıcı input'unun direkt SQL'e enjekte edilmesini engeller.
// -----------------------------------------------------------------------------

package database

// OrderDirection, ORDER BY için izin verilen yönleri temsil eder.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// OrderClause, bir ORDER BY ifadesini güvenli bir şekilde temsil eder.
//
// Alanlar:
//   - Column: Sıralama yapılacak kolon adı (grammar tarafından sarmalanır)
//   - Direction: Sıralama yönü (sadece ASC veya DESC olabilir)
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// TableClause, FROM listesindeki bir kaynağı (tablo + opsiyonel alias) tutar.
// Birden fazla TableClause virgülle birleştirilerek comma-join üretir.
type TableClause struct {
	Name  string
	Alias string
}

// WhereClause, predicate ağacının tek bir node'unu temsil eder.
//
// Node tipleri Operator ve yapısal alanlarla ayrışır:
//   - Basit karşılaştırma: Column + Operator (=, !=, <, >, <=, >=, LIKE ...) + Value
//   - IN / NOT IN: Value bir []interface{} ya da Sub bir alt sorgu
//   - BETWEEN / NOT BETWEEN: Value tam iki elemanlı []interface{}
//   - IS / IS NOT: Value nil → NULL kontrolü
//   - EXISTS / NOT EXISTS: Sub dolu, Column boş
//   - Nested grup: Nested dolu, Operator boş → "(...)" olarak derlenir
//
// Boolean alanı node'un bir önceki node ile nasıl bağlanacağını söyler
// ("AND" veya "OR"); ilk node'da yok sayılır.
//
// Güvenlik Notu:
// Tüm değerler prepared statement ile bağlanır. Operator whitelist kontrolü
// Grammar katmanında yapılır.
type WhereClause struct {
	Column   string
	Operator string
	Value    interface{}
	Boolean  string // "AND" veya "OR"
	Nested   []WhereClause
	Sub      *QueryBuilder
}

// HavingClause, raw HAVING metni ve pozisyonel argümanlarını tutar.
// HAVING aggregate ifadeler içerdiği için identifier sarmalama uygulanmaz;
// metin geliştirici tarafından yazılır, değerler placeholder ile bağlanır.
type HavingClause struct {
	SQL     string
	Args    []interface{}
	Boolean string
}

// JoinType, JOIN tiplerini temsil eden enum-like yapıdır.
type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
	FullJoin  JoinType = "FULL"
	CrossJoin JoinType = "CROSS"
)

// JoinClause, bir JOIN ifadesini güvenli bir şekilde temsil eder.
//
// Alanlar:
//   - Type: JOIN tipi (INNER, LEFT, RIGHT, FULL, CROSS)
//   - Table: JOIN yapılacak tablo adı
//   - First: İlk kolon (örn: "users.id")
//   - Operator: Karşılaştırma operatörü (genellikle "=")
//   - Second: İkinci kolon (örn: "posts.user_id")
//
// CROSS JOIN'de ON koşulu yoktur; First/Operator/Second boş bırakılır.
type JoinClause struct {
	Type     JoinType
	Table    string
	First    string
	Operator string
	Second   string
}
