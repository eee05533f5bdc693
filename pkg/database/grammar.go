package database

// -----------------------------------------------------------------------------
// Grammar Interface
// -----------------------------------------------------------------------------
// Grammar katmanı, QueryBuilder'ın derlediği internal state'i alır ve farklı
// SQL cümleleri (SELECT, INSERT, UPDATE, DELETE, aggregate) üretir. Laravel
// mimarisindeki Grammar/Compiler katmanının Go uyarlamasıdır.
//
// Neden ayrı bir katman?
// - Ayrık sorumluluk: Builder sadece state yönetir; SQL üretimi Grammar'a
//   bırakılır.
// - Dialect bağımsızlığı: MySQL backtick + "?" kullanırken PostgreSQL çift
//   tırnak + "$1, $2, ..." kullanır. Aynı builder her ikisine derlenir.
// -----------------------------------------------------------------------------

// Grammar, SQL lehçesine özgü sorgu üretimini tanımlar.
//
// Mevcut implementasyonlar:
// - MySQLGrammar: MySQL/MariaDB
// - PostgresGrammar: PostgreSQL
// - SQLiteGrammar: SQLite
type Grammar interface {
	// Name, grammar'ın kimliğini döndürür (mysql | postgres | sqlite).
	Name() string

	// Wrap, identifier'ları (kolon/tablo adları) lehçeye göre sarmalar.
	// MySQL: `table` — PostgreSQL/SQLite: "table".
	// Geçersiz identifier error döner, panic atmaz.
	Wrap(value string) (string, error)

	// CompileSelect, SELECT sorgusu üretir. Dönen parametre listesi,
	// placeholder'ların JOIN → WHERE → HAVING sırasındaki emisyonuyla
	// birebir aynı sıradadır.
	CompileSelect(qb *QueryBuilder) (string, []interface{}, error)

	// CompileAggregate, mevcut FROM/JOIN/WHERE bağlamını koruyarak tek
	// kolonlu bir aggregate SELECT üretir (COUNT/MAX/MIN/AVG/SUM).
	CompileAggregate(qb *QueryBuilder, fn string, column string) (string, []interface{}, error)

	// CompileInsert, tek satırlık INSERT üretir. Kolon adları deterministik
	// çıktı için sıralanır.
	CompileInsert(table string, data map[string]interface{}) (string, []interface{}, error)

	// CompileUpdate, SET + WHERE'li UPDATE üretir. SET parametreleri WHERE
	// parametrelerinden önce gelir.
	CompileUpdate(table string, data map[string]interface{}, wheres []WhereClause) (string, []interface{}, error)

	// CompileDelete, WHERE'li DELETE üretir.
	CompileDelete(table string, wheres []WhereClause) (string, []interface{}, error)
}
