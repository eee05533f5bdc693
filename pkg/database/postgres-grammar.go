package database

// -----------------------------------------------------------------------------
// PostgreSQL Grammar
// -----------------------------------------------------------------------------
// PostgreSQL dialect'i: identifier'lar çift tırnak ile sarmalanır,
// placeholder'lar numaralıdır ($1, $2, ...), random sıralama RANDOM() ile
// yapılır.
//
// Numaralandırma tek bir derleme geçişi boyunca kesintisizdir: UPDATE'te SET
// parametreleri WHERE parametrelerinden önce gelir, alt sorgular üst sorgunun
// sayacından devam eder.
// -----------------------------------------------------------------------------

// PostgresGrammar, PostgreSQL için SQL üretir.
type PostgresGrammar struct {
	BaseGrammar
}

// NewPostgresGrammar, yeni bir PostgreSQL grammar instance'ı oluşturur.
func NewPostgresGrammar() *PostgresGrammar {
	return &PostgresGrammar{
		BaseGrammar: BaseGrammar{
			quote:    `"`,
			numbered: true,
			random:   "RANDOM()",
		},
	}
}

// Name, dialect adını döndürür.
func (g *PostgresGrammar) Name() string {
	return "postgres"
}
