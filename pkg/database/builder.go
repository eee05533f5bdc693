package database

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// QUERY BUILDER — TEMEL
// -----------------------------------------------------------------------------
// Bu dosya, QueryBuilder'ın ana gövdesini içerir. Builder; tablolar, kolonlar,
// join'ler, where ağacı, group/having, order, limit, offset gibi state
// bilgilerini tutar. SQL üretimi Grammar katmanına delege edilir.
//
// Hatalı kullanım (geçersiz identifier, yanlış BETWEEN/IN arity) anında
// builder üzerine kaydedilir ve sorgu derlenmeden ValidationError olarak
// döner; hiçbir hatalı fragment veritabanına ulaşmaz. Builder metodları bu
// sayede zincirlenebilir kalır, panic atmaz.
//
// Bir builder instance'ı tek bir mantıksal sorguyu temsil eder; iki bağımsız
// sorgu arasında paylaşılmamalıdır. UPDATE/DELETE yeniden hedefleme öncesi
// ResetConditions ile eski where/limit/binding'ler temizlenir.
// -----------------------------------------------------------------------------

// validIdentifierRegex, güvenli SQL identifier pattern'ini tanımlar.
// Sadece alphanumeric, underscore ve nokta (table.column için) kabul eder.
var validIdentifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_\.]+$`)

type QueryBuilder struct {
	executor    QueryExecutor
	grammar     Grammar
	tables      []TableClause
	columns     []string
	distinct    bool
	joins       []JoinClause
	wheres      []WhereClause
	groups      []string
	havings     []HavingClause
	orders      []OrderClause
	randomOrder bool
	limit       int
	offset      int
	cacheStore  CacheStore
	cacheTTL    time.Duration
	lastErr     error
}

// NewBuilder, executor ve grammar alarak yeni bir QueryBuilder üretir.
//
// Parametreler:
//   - executor: SQL komutlarını çalıştıracak executor (*sql.DB veya *sql.Tx)
//   - grammar: SQL dialect'ini yöneten grammar (MySQL, PostgreSQL, SQLite)
func NewBuilder(executor QueryExecutor, grammar Grammar) *QueryBuilder {
	return &QueryBuilder{
		executor: executor,
		grammar:  grammar,
		columns:  []string{"*"},
	}
}

// newSub, callback'lere verilen taze alt-builder'ı üretir. Alt sorgu aynı
// grammar ve executor bağlamını paylaşır; binding'leri üst sorgunun
// placeholder akışına derleme sırasında eklenir.
func (qb *QueryBuilder) newSub() *QueryBuilder {
	return NewBuilder(qb.executor, qb.grammar)
}

// setErr, ilk hatayı builder üzerine sabitler. Sonraki zincir çağrıları
// state'i değiştirmeye devam edebilir ama sorgu asla derlenmez.
func (qb *QueryBuilder) setErr(err error) {
	if qb.lastErr == nil && err != nil {
		qb.lastErr = err
	}
}

// Err, builder üzerinde birikmiş ilk doğrulama hatasını döndürür.
func (qb *QueryBuilder) Err() error {
	return qb.lastErr
}

// checkIdentifier, kolon/tablo adını doğrular; geçersizse builder'a
// ValidationError kaydeder.
//
// İzin verilenler: harfler, rakamlar, underscore ve table.column noktası.
// "id; DROP TABLE users--" gibi girdiler burada yakalanır.
func (qb *QueryBuilder) checkIdentifier(identifier string, context string) {
	if identifier == "*" {
		return
	}
	if strings.TrimSpace(identifier) == "" {
		qb.setErr(NewValidationError("invalid %s name: empty identifier", context))
		return
	}
	if !validIdentifierRegex.MatchString(identifier) {
		qb.setErr(NewValidationError("invalid %s name: '%s' (contains unsafe characters)", context, identifier))
		return
	}
	if strings.Count(identifier, ".") > 1 {
		qb.setErr(NewValidationError("invalid %s name: '%s' (too many dots)", context, identifier))
	}
}

// Table, sorgunun çalışacağı tablo adını belirler. Önceki FROM listesini
// sıfırlar.
//
// Örnek:
//
//	qb.Table("users")
func (qb *QueryBuilder) Table(tableName string) *QueryBuilder {
	qb.checkIdentifier(tableName, "table")
	qb.tables = []TableClause{{Name: tableName}}
	return qb
}

// From, FROM listesine bir kaynak tablo ekler; birden fazla çağrı comma-join
// üretir. Alias opsiyoneldir.
//
// Örnek:
//
//	qb.From("users", "u").From("profiles", "p")
//	→ FROM `users` AS `u`, `profiles` AS `p`
func (qb *QueryBuilder) From(tableName string, alias ...string) *QueryBuilder {
	qb.checkIdentifier(tableName, "table")
	tc := TableClause{Name: tableName}
	if len(alias) > 0 && alias[0] != "" {
		qb.checkIdentifier(alias[0], "table alias")
		tc.Alias = alias[0]
	}
	qb.tables = append(qb.tables, tc)
	return qb
}

// Select, sorgudan döndürülecek kolonları belirler.
//
// Örnek:
//
//	qb.Select("id", "name", "email")
//	qb.Select("COUNT(*) as total")
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	for _, col := range columns {
		// SQL fonksiyonları için esnek validation (COUNT(*), SUM(price) vb.)
		if strings.Contains(col, "(") && strings.Contains(col, ")") {
			if strings.Contains(col, ";") || strings.Contains(col, "--") {
				qb.setErr(NewValidationError("invalid column expression: '%s' (suspicious content)", col))
			}
			continue
		}
		if strings.Contains(strings.ToLower(col), " as ") {
			parts := strings.SplitN(strings.ToLower(col), " as ", 2)
			if len(parts) == 2 {
				qb.checkIdentifier(strings.TrimSpace(parts[0]), "column")
				qb.checkIdentifier(strings.TrimSpace(parts[1]), "column alias")
				continue
			}
		}
		qb.checkIdentifier(col, "column")
	}
	// İlk çağrı "*" varsayılanını temizler; sonraki çağrılar listeye ekler.
	if len(qb.columns) == 1 && qb.columns[0] == "*" {
		qb.columns = append([]string{}, columns...)
	} else {
		qb.columns = append(qb.columns, columns...)
	}
	return qb
}

// Distinct, SELECT DISTINCT modunu açar. Aggregate formlarında
// COUNT(DISTINCT col) üretimini de etkiler.
func (qb *QueryBuilder) Distinct() *QueryBuilder {
	qb.distinct = true
	return qb
}

// -----------------------------------------------------------------------------
// JOIN
// -----------------------------------------------------------------------------

func (qb *QueryBuilder) addJoin(kind JoinType, table, first, operator, second string) *QueryBuilder {
	qb.checkIdentifier(table, "table")
	if kind != CrossJoin {
		qb.checkIdentifier(first, "column")
		qb.checkIdentifier(second, "column")
	}
	qb.joins = append(qb.joins, JoinClause{
		Type:     kind,
		Table:    table,
		First:    first,
		Operator: operator,
		Second:   second,
	})
	return qb
}

// Join, INNER JOIN ekler; operatör "=" varsayılır.
//
// Örnek:
//
//	qb.Table("users").Join("posts", "users.id", "posts.user_id")
//	→ INNER JOIN `posts` ON `users`.`id` = `posts`.`user_id`
func (qb *QueryBuilder) Join(table, first, second string) *QueryBuilder {
	return qb.addJoin(InnerJoin, table, first, "=", second)
}

// JoinOn, join tipini ve karşılaştırma operatörünü açıkça belirterek join
// ekler. Operatör whitelist kontrolü Grammar katmanında yapılır.
func (qb *QueryBuilder) JoinOn(kind JoinType, table, first, operator, second string) *QueryBuilder {
	return qb.addJoin(kind, table, first, operator, second)
}

// LeftJoin, LEFT JOIN ekler; operatör "=" varsayılır.
func (qb *QueryBuilder) LeftJoin(table, first, second string) *QueryBuilder {
	return qb.addJoin(LeftJoin, table, first, "=", second)
}

// RightJoin, RIGHT JOIN ekler; operatör "=" varsayılır.
func (qb *QueryBuilder) RightJoin(table, first, second string) *QueryBuilder {
	return qb.addJoin(RightJoin, table, first, "=", second)
}

// FullJoin, FULL JOIN ekler; operatör "=" varsayılır.
// MySQL FULL JOIN desteklemez; bu form PostgreSQL içindir.
func (qb *QueryBuilder) FullJoin(table, first, second string) *QueryBuilder {
	return qb.addJoin(FullJoin, table, first, "=", second)
}

// CrossJoin, ON koşulu olmayan CROSS JOIN ekler.
func (qb *QueryBuilder) CrossJoin(table string) *QueryBuilder {
	return qb.addJoin(CrossJoin, table, "", "", "")
}

// -----------------------------------------------------------------------------
// ORDER / GROUP / HAVING / LIMIT
// -----------------------------------------------------------------------------

// OrderBy, sonuçları belirtilen kolona göre sıralar.
//
// Direction whitelist kontrolünden geçer: sadece "ASC"/"DESC"
// (case-insensitive) kabul edilir, geçersiz değerler "ASC" olur. Boş
// direction veritabanı varsayılanı anlamında "ASC" üretir. Daha önce
// InRandomOrder çağrılmışsa random mod kapatılır; son çağrı kazanır.
func (qb *QueryBuilder) OrderBy(column string, direction string) *QueryBuilder {
	qb.checkIdentifier(column, "column")

	dir := strings.ToUpper(strings.TrimSpace(direction))
	orderDir := OrderAsc
	if dir == "DESC" {
		orderDir = OrderDesc
	}

	qb.randomOrder = false
	qb.orders = append(qb.orders, OrderClause{Column: column, Direction: orderDir})
	return qb
}

// InRandomOrder, rastgele sıralama modunu açar. OrderBy ile karşılıklı
// dışlayıcıdır: bu çağrı birikmiş order listesini temizler.
func (qb *QueryBuilder) InRandomOrder() *QueryBuilder {
	qb.orders = nil
	qb.randomOrder = true
	return qb
}

// GroupBy, GROUP BY kolonlarını ekler.
func (qb *QueryBuilder) GroupBy(columns ...string) *QueryBuilder {
	for _, col := range columns {
		qb.checkIdentifier(col, "column")
	}
	qb.groups = append(qb.groups, columns...)
	return qb
}

// Having, raw HAVING metni ekler. Metin aggregate ifadeler içerdiği için
// identifier sarmalama uygulanmaz; değerler "?" placeholder'ları ile
// bağlanır ve dialect'e göre yeniden numaralandırılır.
//
// Örnek:
//
//	qb.GroupBy("status").Having("COUNT(*) > ?", 5)
func (qb *QueryBuilder) Having(sqlText string, args ...interface{}) *QueryBuilder {
	qb.havings = append(qb.havings, HavingClause{SQL: sqlText, Args: args, Boolean: "AND"})
	return qb
}

// OrHaving, önceki HAVING koşuluna OR ile bağlanan raw metin ekler.
func (qb *QueryBuilder) OrHaving(sqlText string, args ...interface{}) *QueryBuilder {
	qb.havings = append(qb.havings, HavingClause{SQL: sqlText, Args: args, Boolean: "OR"})
	return qb
}

// Limit, döndürülecek maksimum satır sayısını belirler.
// Tek başına çağrıldığında "ilk N satır" anlamına gelir (offset 0).
func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.limit = limit
	return qb
}

// Offset, atlanacak satır sayısını belirler (pagination için).
//
// Örnek:
//
//	qb.Limit(10).Offset(20) → LIMIT 10 OFFSET 20 (3. sayfa)
func (qb *QueryBuilder) Offset(offset int) *QueryBuilder {
	qb.offset = offset
	return qb
}

// ResetConditions, where ağacını, having'leri, limit/offset'i ve birikmiş
// doğrulama hatasını temizler. Persistence katmanı UPDATE/DELETE yeniden
// hedeflemeden önce bunu çağırır; eski predicate'ler bir sonraki işleme
// sızamaz. Select/join/order/group state'i korunur.
func (qb *QueryBuilder) ResetConditions() *QueryBuilder {
	qb.wheres = nil
	qb.havings = nil
	qb.limit = 0
	qb.offset = 0
	qb.lastErr = nil
	return qb
}

// -----------------------------------------------------------------------------
// EXECUTION
// -----------------------------------------------------------------------------

// ToSQL, QueryBuilder'ın state'ini SQL string'e ve parametrelere dönüştürür.
// Birikmiş doğrulama hatası varsa derleme hiç başlamaz.
//
// Örnek:
//
//	sql, args, err := qb.ToSQL()
//	// sql:  "SELECT `id`, `name` FROM `users` WHERE `status` = ? LIMIT 10"
//	// args: ["active"]
func (qb *QueryBuilder) ToSQL() (string, []interface{}, error) {
	if qb.lastErr != nil {
		return "", nil, qb.lastErr
	}
	return qb.grammar.CompileSelect(qb)
}

// Get, sorguyu çalıştırır ve sonuçları bir struct slice'ına tarar.
//
// Örnek:
//
//	var users []User
//	err := qb.Table("users").WhereEq("status", "active").Get(&users)
func (qb *QueryBuilder) Get(dest any) error {
	sqlStr, args, err := qb.ToSQL()
	if err != nil {
		return fmt.Errorf("query compilation failed: %w", err)
	}

	rows, err := qb.executor.Query(sqlStr, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	return ScanSlice(rows, dest)
}

// First, sorguya LIMIT 1 ekleyip çalıştırır ve ilk sonucu tek bir struct'a
// tarar. Satır yoksa ErrNotFound döner.
func (qb *QueryBuilder) First(dest any) error {
	qb.Limit(1)

	sqlStr, args, err := qb.ToSQL()
	if err != nil {
		return fmt.Errorf("query compilation failed: %w", err)
	}

	rows, err := qb.executor.Query(sqlStr, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrNotFound
	}

	return ScanStruct(rows, dest)
}

// ExecInsert, INSERT sorgusunu çalıştırır. Kolonlar deterministik çıktı için
// Grammar katmanında alfabetik sıralanır.
//
// Örnek:
//
//	result, err := qb.Table("users").ExecInsert(map[string]interface{}{
//	    "name":  "John Doe",
//	    "email": "john@example.com",
//	})
//	lastID, _ := result.LastInsertId()
func (qb *QueryBuilder) ExecInsert(data map[string]interface{}) (sql.Result, error) {
	if qb.lastErr != nil {
		return nil, qb.lastErr
	}
	sqlStr, args, err := qb.grammar.CompileInsert(qb.tableName(), data)
	if err != nil {
		return nil, fmt.Errorf("insert compilation failed: %w", err)
	}
	return qb.executor.Exec(sqlStr, args...)
}

// ExecUpdate, UPDATE sorgusunu çalıştırır. WHERE clause olmadan UPDATE tüm
// tabloyu değiştirir; scope'lamak çağıranın sorumluluğudur.
func (qb *QueryBuilder) ExecUpdate(data map[string]interface{}) (sql.Result, error) {
	if qb.lastErr != nil {
		return nil, qb.lastErr
	}
	sqlStr, args, err := qb.grammar.CompileUpdate(qb.tableName(), data, qb.wheres)
	if err != nil {
		return nil, fmt.Errorf("update compilation failed: %w", err)
	}
	return qb.executor.Exec(sqlStr, args...)
}

// ExecDelete, DELETE sorgusunu çalıştırır. WHERE clause olmadan DELETE
// tablonun tamamını siler; scope'lamak çağıranın sorumluluğudur.
func (qb *QueryBuilder) ExecDelete() (sql.Result, error) {
	if qb.lastErr != nil {
		return nil, qb.lastErr
	}
	sqlStr, args, err := qb.grammar.CompileDelete(qb.tableName(), qb.wheres)
	if err != nil {
		return nil, fmt.Errorf("delete compilation failed: %w", err)
	}
	return qb.executor.Exec(sqlStr, args...)
}

// tableName, tekil hedef tablo adını döndürür (INSERT/UPDATE/DELETE için).
func (qb *QueryBuilder) tableName() string {
	if len(qb.tables) == 0 {
		return ""
	}
	return qb.tables[0].Name
}
