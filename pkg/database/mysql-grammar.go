package database

// -----------------------------------------------------------------------------
// MySQL Grammar
// -----------------------------------------------------------------------------
// MySQL dialect'i: identifier'lar backtick ile sarmalanır, placeholder'lar
// pozisyonel "?" işaretidir, random sıralama RAND() ile yapılır.
//
// Kullanım:
//
//	qb := database.NewBuilder(db, database.NewMySQLGrammar())
// -----------------------------------------------------------------------------

// MySQLGrammar, MySQL için SQL üretir.
type MySQLGrammar struct {
	BaseGrammar
}

// NewMySQLGrammar, yeni bir MySQL grammar instance'ı oluşturur.
func NewMySQLGrammar() *MySQLGrammar {
	return &MySQLGrammar{
		BaseGrammar: BaseGrammar{
			quote:    "`",
			numbered: false,
			random:   "RAND()",
		},
	}
}

// Name, dialect adını döndürür.
func (g *MySQLGrammar) Name() string {
	return "mysql"
}
