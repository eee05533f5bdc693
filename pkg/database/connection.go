// -----------------------------------------------------------------------------
// Database Connection
// -----------------------------------------------------------------------------
// Uygulamanın veritabanı bağlantısını merkezi bir noktadan yönetir. Connect,
// yapılandırmadaki driver'a göre DSN kurar, bağlantı havuzunu ayarlar ve
// bağlantıyı ping ile doğrular. Driver ile birlikte uygun Grammar da seçilir;
// çağıran taraf dialect detayı bilmek zorunda kalmaz.
// -----------------------------------------------------------------------------

package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// GrammarFor, driver adına karşılık gelen Grammar'ı döndürür.
func GrammarFor(driver string) (Grammar, error) {
	switch driver {
	case "mysql":
		return NewMySQLGrammar(), nil
	case "postgres":
		return NewPostgresGrammar(), nil
	case "sqlite":
		return NewSQLiteGrammar(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// buildDSN, yapılandırmadan driver'a uygun DSN metni üretir.
func buildDSN(cfg *Config) (string, error) {
	switch cfg.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database), nil
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode), nil
	case "sqlite":
		return cfg.Database, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Connect, yapılandırmaya göre veritabanına bağlanır ve kullanılacak
// *sql.DB ile Grammar çiftini döndürür.
//
// Bağlantı sırasında şu adımlar gerçekleştirilir:
//  1. Driver'a uygun DSN kurulur ve sql.Open ile bağlantı nesnesi oluşturulur.
//  2. Bağlantı havuzu için max open/idle connection değerleri belirlenir.
//  3. Bağlantı ömrü (ConnMaxLifetime) ayarlanır.
//  4. db.Ping ile veritabanının ulaşılabilirliği kontrol edilir.
//  5. Başarılı olursa db ve grammar döndürülür, hata varsa bağlantı kapatılır.
func Connect(cfg *Config) (*sql.DB, Grammar, error) {
	grammar, err := GrammarFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, nil, err
	}

	// Bağlantı havuzu ayarları: performans ve kaynak yönetimi için
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Printf("Veritabanına bağlanılıyor... (driver: %s)", cfg.Driver)
	if err := db.Ping(); err != nil {
		db.Close() // Hata durumunda bağlantıyı kapat
		return nil, nil, err
	}

	log.Println("✅ Veritabanı bağlantısı başarılı!")
	return db, grammar, nil
}
