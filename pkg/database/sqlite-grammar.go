package database

// -----------------------------------------------------------------------------
// SQLite Grammar
// -----------------------------------------------------------------------------
// SQLite dialect'i: identifier'lar çift tırnak ile sarmalanır, placeholder'lar
// pozisyonel "?" işaretidir, random sıralama RANDOM() ile yapılır. SQLite'ın
// LIKE operatörünün varsayılan escape karakteri olmadığı için LIKE
// predicate'leri ESCAPE '\' ile derlenir.
// Testlerde ve küçük araçlarda in-memory veritabanı olarak kullanışlıdır.
// -----------------------------------------------------------------------------

// SQLiteGrammar, SQLite için SQL üretir.
type SQLiteGrammar struct {
	BaseGrammar
}

// NewSQLiteGrammar, yeni bir SQLite grammar instance'ı oluşturur.
func NewSQLiteGrammar() *SQLiteGrammar {
	return &SQLiteGrammar{
		BaseGrammar: BaseGrammar{
			quote:      `"`,
			numbered:   false,
			random:     "RANDOM()",
			likeEscape: true,
		},
	}
}

// Name, dialect adını döndürür.
func (g *SQLiteGrammar) Name() string {
	return "sqlite"
}
