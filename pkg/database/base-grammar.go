package database

import (
	"fmt"
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// Base Grammar — Ortak SQL Üretim İskeleti
// -----------------------------------------------------------------------------
// Dialect'ler arasında değişen şey üç şeydir: identifier quote karakteri,
// placeholder stili ("?" vs "$1, $2, ...") ve random fonksiyonu. Geri kalan
// derleme mantığı ortaktır ve BaseGrammar üzerinde yaşar; MySQLGrammar,
// PostgresGrammar ve SQLiteGrammar sadece bu üç noktayı yapılandırır.
//
// DETERMİNİZM KURALI:
// Predicate ağacı depth-first, soldan sağa derlenir. Her placeholder emit
// edildiği anda değeri parametre listesine eklenir; böylece JOIN → WHERE →
// HAVING boyunca binding sırası placeholder sırasıyla birebir aynıdır.
// Pozisyonel bağlayan wire protokolleri için bu şarttır.
// -----------------------------------------------------------------------------

var allowedOperators = map[string]bool{
	"=":           true,
	"!=":          true,
	"<>":          true,
	"<":           true,
	">":           true,
	"<=":          true,
	">=":          true,
	"LIKE":        true,
	"NOT LIKE":    true,
	"IN":          true,
	"NOT IN":      true,
	"BETWEEN":     true,
	"NOT BETWEEN": true,
	"IS":          true,
	"IS NOT":      true,
}

// aggregateFunctions, CompileAggregate için izin verilen fonksiyonlardır.
var aggregateFunctions = map[string]bool{
	"COUNT": true,
	"MAX":   true,
	"MIN":   true,
	"AVG":   true,
	"SUM":   true,
}

// BaseGrammar, dialect'lerin paylaştığı derleme mantığını taşır.
type BaseGrammar struct {
	quote      string // identifier quote karakteri: "`" veya `"`
	numbered   bool   // true → $1, $2, ... ; false → ?
	random     string // RAND() veya RANDOM()
	likeEscape bool   // true → LIKE predicate'lerine ESCAPE '\' eklenir
}

// compileState, tek bir derleme geçişinin placeholder sayacını ve parametre
// listesini taşır. Alt sorgular aynı state'i paylaşır; numaralandırma
// üst sorgudan kesintisiz devam eder.
type compileState struct {
	g    *BaseGrammar
	args []interface{}
}

// bind, değeri parametre listesine ekler ve o pozisyonun placeholder'ını
// döndürür.
func (st *compileState) bind(value interface{}) string {
	st.args = append(st.args, value)
	if st.g.numbered {
		return fmt.Sprintf("$%d", len(st.args))
	}
	return "?"
}

// Wrap, kolon ve tablo isimlerini dialect quote'u ile sarmalar.
// Geçersiz identifier error döner, panic atmaz.
func (g *BaseGrammar) Wrap(value string) (string, error) {
	if value == "*" {
		return value, nil
	}

	// table.column formatını handle et
	if strings.Contains(value, ".") {
		parts := strings.Split(value, ".")
		if len(parts) > 2 {
			return "", fmt.Errorf("invalid SQL identifier: %s (too many dots)", value)
		}
		wrappedParts := make([]string, len(parts))
		for i, part := range parts {
			if !validIdentifierRegex.MatchString(part) {
				return "", fmt.Errorf("invalid SQL identifier: %s (contains unsafe characters)", part)
			}
			wrappedParts[i] = g.quote + part + g.quote
		}
		return strings.Join(wrappedParts, "."), nil
	}

	if !validIdentifierRegex.MatchString(value) {
		return "", fmt.Errorf("invalid SQL identifier: %s (contains unsafe characters)", value)
	}

	return g.quote + value + g.quote, nil
}

// validateOperator, verilen operatörün whitelist'te olup olmadığını kontrol
// eder.
func (g *BaseGrammar) validateOperator(operator string) error {
	op := strings.ToUpper(strings.TrimSpace(operator))
	if !allowedOperators[op] {
		return fmt.Errorf("invalid SQL operator: %s (not in whitelist)", operator)
	}
	return nil
}

// wrapColumn, where/select bağlamındaki kolon ifadesini sarmalar.
// DATE(created_at) gibi fonksiyon ifadeleri sarmalanmaz ama şüpheli içerik
// kontrolünden geçer.
func (g *BaseGrammar) wrapColumn(column string) (string, error) {
	if strings.Contains(column, "(") {
		if strings.Contains(column, ";") || strings.Contains(column, "--") {
			return "", fmt.Errorf("invalid column expression: '%s' (suspicious content)", column)
		}
		return column, nil
	}
	return g.Wrap(column)
}

// -----------------------------------------------------------------------------
// SELECT
// -----------------------------------------------------------------------------

// CompileSelect, QueryBuilder'dan SELECT sorgusu üretir.
func (g *BaseGrammar) CompileSelect(qb *QueryBuilder) (string, []interface{}, error) {
	st := &compileState{g: g}
	sqlStr, err := g.compileSelectInto(st, qb)
	if err != nil {
		return "", nil, err
	}
	return sqlStr, st.args, nil
}

// compileSelectInto, paylaşılan state üzerinde SELECT metni üretir.
// Alt sorgular (EXISTS, IN (SELECT ...)) bu fonksiyona aynı state ile
// girer; placeholder numaralandırması kesintisiz devam eder.
func (g *BaseGrammar) compileSelectInto(st *compileState, qb *QueryBuilder) (string, error) {
	fromClause, err := g.compileFrom(qb)
	if err != nil {
		return "", err
	}

	wrappedCols := make([]string, len(qb.columns))
	for i, col := range qb.columns {
		wrapped, err := g.wrapSelectColumn(col)
		if err != nil {
			return "", fmt.Errorf("column wrap error: %w", err)
		}
		wrappedCols[i] = wrapped
	}

	sqlStr := "SELECT "
	if qb.distinct {
		sqlStr += "DISTINCT "
	}
	sqlStr += strings.Join(wrappedCols, ", ") + " FROM " + fromClause

	joinClause, err := g.compileJoins(qb.joins)
	if err != nil {
		return "", err
	}
	sqlStr += joinClause

	if len(qb.wheres) > 0 {
		whereSQL, err := g.compileWheres(st, qb.wheres)
		if err != nil {
			return "", fmt.Errorf("where clause error: %w", err)
		}
		sqlStr += " WHERE " + whereSQL
	}

	if len(qb.groups) > 0 {
		wrappedGroups := make([]string, len(qb.groups))
		for i, col := range qb.groups {
			wrapped, err := g.Wrap(col)
			if err != nil {
				return "", fmt.Errorf("group column wrap error: %w", err)
			}
			wrappedGroups[i] = wrapped
		}
		sqlStr += " GROUP BY " + strings.Join(wrappedGroups, ", ")
	}

	if len(qb.havings) > 0 {
		havingSQL, err := g.compileHavings(st, qb.havings)
		if err != nil {
			return "", fmt.Errorf("having clause error: %w", err)
		}
		sqlStr += " HAVING " + havingSQL
	}

	switch {
	case qb.randomOrder:
		sqlStr += " ORDER BY " + g.random
	case len(qb.orders) > 0:
		wrappedOrders := make([]string, len(qb.orders))
		for i, order := range qb.orders {
			wrappedCol, err := g.Wrap(order.Column)
			if err != nil {
				return "", fmt.Errorf("order column wrap error: %w", err)
			}
			wrappedOrders[i] = wrappedCol + " " + string(order.Direction)
		}
		sqlStr += " ORDER BY " + strings.Join(wrappedOrders, ", ")
	}

	if qb.limit > 0 {
		sqlStr += fmt.Sprintf(" LIMIT %d", qb.limit)
	}
	if qb.offset > 0 {
		sqlStr += fmt.Sprintf(" OFFSET %d", qb.offset)
	}

	return sqlStr, nil
}

// wrapSelectColumn, SELECT listesindeki bir ifadeyi sarmalar.
// Fonksiyon ifadeleri ("COUNT(*) as total") geçirilir, "col as alias"
// formunda iki taraf da ayrı sarmalanır.
func (g *BaseGrammar) wrapSelectColumn(col string) (string, error) {
	if strings.Contains(col, "(") {
		if strings.Contains(col, ";") || strings.Contains(col, "--") {
			return "", fmt.Errorf("invalid column expression: '%s' (suspicious content)", col)
		}
		return col, nil
	}
	if idx := strings.Index(strings.ToLower(col), " as "); idx >= 0 {
		name := strings.TrimSpace(col[:idx])
		alias := strings.TrimSpace(col[idx+4:])
		wrappedName, err := g.Wrap(name)
		if err != nil {
			return "", err
		}
		wrappedAlias, err := g.Wrap(alias)
		if err != nil {
			return "", err
		}
		return wrappedName + " AS " + wrappedAlias, nil
	}
	return g.Wrap(col)
}

func (g *BaseGrammar) compileFrom(qb *QueryBuilder) (string, error) {
	if len(qb.tables) == 0 {
		return "", fmt.Errorf("no table specified")
	}
	parts := make([]string, len(qb.tables))
	for i, t := range qb.tables {
		wrapped, err := g.Wrap(t.Name)
		if err != nil {
			return "", fmt.Errorf("table wrap error: %w", err)
		}
		if t.Alias != "" {
			wrappedAlias, err := g.Wrap(t.Alias)
			if err != nil {
				return "", fmt.Errorf("table alias wrap error: %w", err)
			}
			wrapped += " AS " + wrappedAlias
		}
		parts[i] = wrapped
	}
	return strings.Join(parts, ", "), nil
}

func (g *BaseGrammar) compileJoins(joins []JoinClause) (string, error) {
	var sqlStr string
	for _, j := range joins {
		wrappedTable, err := g.Wrap(j.Table)
		if err != nil {
			return "", fmt.Errorf("join table wrap error: %w", err)
		}
		if j.Type == CrossJoin {
			sqlStr += " CROSS JOIN " + wrappedTable
			continue
		}
		if err := g.validateOperator(j.Operator); err != nil {
			return "", fmt.Errorf("join operator error: %w", err)
		}
		first, err := g.Wrap(j.First)
		if err != nil {
			return "", fmt.Errorf("join column wrap error: %w", err)
		}
		second, err := g.Wrap(j.Second)
		if err != nil {
			return "", fmt.Errorf("join column wrap error: %w", err)
		}
		sqlStr += fmt.Sprintf(" %s JOIN %s ON %s %s %s",
			j.Type, wrappedTable, first, strings.ToUpper(j.Operator), second)
	}
	return sqlStr, nil
}

// -----------------------------------------------------------------------------
// WHERE AĞACI
// -----------------------------------------------------------------------------

// compileWheres, predicate ağacını depth-first, soldan sağa derler.
func (g *BaseGrammar) compileWheres(st *compileState, wheres []WhereClause) (string, error) {
	var sqlStr string
	for i, w := range wheres {
		if i > 0 {
			boolean := w.Boolean
			if boolean == "" {
				boolean = "AND"
			}
			sqlStr += " " + boolean + " "
		}
		frag, err := g.compileWhere(st, w)
		if err != nil {
			return "", err
		}
		sqlStr += frag
	}
	return sqlStr, nil
}

func (g *BaseGrammar) compileWhere(st *compileState, w WhereClause) (string, error) {
	// Nested grup: "(...)"
	if len(w.Nested) > 0 {
		inner, err := g.compileWheres(st, w.Nested)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	}

	operator := strings.ToUpper(strings.TrimSpace(w.Operator))

	// Alt sorgulu node'lar: EXISTS (...) ve col IN (SELECT ...)
	if w.Sub != nil {
		if w.Sub.lastErr != nil {
			return "", w.Sub.lastErr
		}
		subSQL, err := g.compileSelectInto(st, w.Sub)
		if err != nil {
			return "", fmt.Errorf("subquery error: %w", err)
		}
		switch operator {
		case "EXISTS", "NOT EXISTS":
			return operator + " (" + subSQL + ")", nil
		case "IN", "NOT IN":
			wrappedCol, err := g.wrapColumn(w.Column)
			if err != nil {
				return "", err
			}
			return wrappedCol + " " + operator + " (" + subSQL + ")", nil
		default:
			return "", fmt.Errorf("operator %s does not accept a subquery", operator)
		}
	}

	if err := g.validateOperator(operator); err != nil {
		return "", err
	}

	wrappedCol, err := g.wrapColumn(w.Column)
	if err != nil {
		return "", err
	}

	switch operator {
	case "LIKE", "NOT LIKE":
		frag := wrappedCol + " " + operator + " " + st.bind(w.Value)
		// Dialect'in varsayılan escape karakteri yoksa (SQLite) predicate
		// ESCAPE ile tamamlanır; EscapeLike çıktısı her dialect'te aynı kalır.
		if g.likeEscape {
			frag += ` ESCAPE '\'`
		}
		return frag, nil

	case "IN", "NOT IN":
		values, ok := w.Value.([]interface{})
		if !ok || len(values) == 0 {
			return "", fmt.Errorf("IN/NOT IN operator requires a non-empty []interface{} value")
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = st.bind(v)
		}
		return wrappedCol + " " + operator + " (" + strings.Join(placeholders, ", ") + ")", nil

	case "BETWEEN", "NOT BETWEEN":
		values, ok := w.Value.([]interface{})
		if !ok || len(values) != 2 {
			return "", fmt.Errorf("BETWEEN operator requires exactly 2 values")
		}
		return fmt.Sprintf("%s %s %s AND %s",
			wrappedCol, operator, st.bind(values[0]), st.bind(values[1])), nil

	case "IS", "IS NOT":
		if w.Value == nil {
			return wrappedCol + " " + operator + " NULL", nil
		}
		return wrappedCol + " " + operator + " " + st.bind(w.Value), nil

	default:
		return wrappedCol + " " + operator + " " + st.bind(w.Value), nil
	}
}

// compileHavings, raw HAVING metinlerini dialect placeholder'larına çevirir.
// Metindeki her "?" sırasıyla bir argümana bağlanır; sayılar tutmazsa error.
func (g *BaseGrammar) compileHavings(st *compileState, havings []HavingClause) (string, error) {
	var sqlStr string
	for i, h := range havings {
		if i > 0 {
			boolean := h.Boolean
			if boolean == "" {
				boolean = "AND"
			}
			sqlStr += " " + boolean + " "
		}
		if strings.Count(h.SQL, "?") != len(h.Args) {
			return "", fmt.Errorf("having clause '%s' expects %d bindings, got %d",
				h.SQL, strings.Count(h.SQL, "?"), len(h.Args))
		}
		text := h.SQL
		var out strings.Builder
		argIdx := 0
		for _, r := range text {
			if r == '?' {
				out.WriteString(st.bind(h.Args[argIdx]))
				argIdx++
				continue
			}
			out.WriteRune(r)
		}
		sqlStr += out.String()
	}
	return sqlStr, nil
}

// -----------------------------------------------------------------------------
// AGGREGATE
// -----------------------------------------------------------------------------

// CompileAggregate, FROM/JOIN/WHERE bağlamını koruyarak tek kolonlu bir
// aggregate SELECT üretir. Pagination'ın COUNT sorgusu ve builder'ın
// Count/Max/Min/Avg/Sum metodları burayı kullanır.
func (g *BaseGrammar) CompileAggregate(qb *QueryBuilder, fn string, column string) (string, []interface{}, error) {
	fnName := strings.ToUpper(strings.TrimSpace(fn))
	if !aggregateFunctions[fnName] {
		return "", nil, fmt.Errorf("invalid aggregate function: %s", fn)
	}

	wrappedCol := column
	if column != "*" {
		var err error
		wrappedCol, err = g.Wrap(column)
		if err != nil {
			return "", nil, fmt.Errorf("aggregate column wrap error: %w", err)
		}
	}
	if qb.distinct && column != "*" {
		wrappedCol = "DISTINCT " + wrappedCol
	}

	fromClause, err := g.compileFrom(qb)
	if err != nil {
		return "", nil, err
	}

	st := &compileState{g: g}
	sqlStr := fmt.Sprintf("SELECT %s(%s) AS %saggregate%s FROM %s",
		fnName, wrappedCol, g.quote, g.quote, fromClause)

	joinClause, err := g.compileJoins(qb.joins)
	if err != nil {
		return "", nil, err
	}
	sqlStr += joinClause

	if len(qb.wheres) > 0 {
		whereSQL, err := g.compileWheres(st, qb.wheres)
		if err != nil {
			return "", nil, fmt.Errorf("where clause error: %w", err)
		}
		sqlStr += " WHERE " + whereSQL
	}

	return sqlStr, st.args, nil
}

// -----------------------------------------------------------------------------
// INSERT / UPDATE / DELETE
// -----------------------------------------------------------------------------

// sortedKeys, map iterasyonunun rastgeleliğinden kaçınmak için kolon
// adlarını sıralar. Deterministik SQL hem test edilebilirlik hem de prepared
// statement cache'leri için önemlidir.
func sortedKeys(data map[string]interface{}) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CompileInsert, tek satırlık INSERT sorgusu üretir.
func (g *BaseGrammar) CompileInsert(table string, data map[string]interface{}) (string, []interface{}, error) {
	wrappedTable, err := g.Wrap(table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("insert requires at least one column")
	}

	st := &compileState{g: g}
	keys := sortedKeys(data)
	cols := make([]string, 0, len(keys))
	placeholders := make([]string, 0, len(keys))

	for _, k := range keys {
		wrappedCol, err := g.Wrap(k)
		if err != nil {
			return "", nil, fmt.Errorf("column wrap error: %w", err)
		}
		cols = append(cols, wrappedCol)
		placeholders = append(placeholders, st.bind(data[k]))
	}

	sqlStr := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		wrappedTable,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)

	return sqlStr, st.args, nil
}

// CompileUpdate, UPDATE sorgusu üretir. SET parametreleri önce, WHERE
// parametreleri sonra emit edilir.
func (g *BaseGrammar) CompileUpdate(table string, data map[string]interface{}, wheres []WhereClause) (string, []interface{}, error) {
	wrappedTable, err := g.Wrap(table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("update requires at least one column")
	}

	st := &compileState{g: g}
	keys := sortedKeys(data)
	sets := make([]string, 0, len(keys))

	for _, k := range keys {
		wrappedCol, err := g.Wrap(k)
		if err != nil {
			return "", nil, fmt.Errorf("column wrap error: %w", err)
		}
		sets = append(sets, wrappedCol+" = "+st.bind(data[k]))
	}

	sqlStr := fmt.Sprintf("UPDATE %s SET %s", wrappedTable, strings.Join(sets, ", "))

	if len(wheres) > 0 {
		whereSQL, err := g.compileWheres(st, wheres)
		if err != nil {
			return "", nil, fmt.Errorf("where clause error: %w", err)
		}
		sqlStr += " WHERE " + whereSQL
	}

	return sqlStr, st.args, nil
}

// CompileDelete, DELETE sorgusu üretir.
func (g *BaseGrammar) CompileDelete(table string, wheres []WhereClause) (string, []interface{}, error) {
	wrappedTable, err := g.Wrap(table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}

	st := &compileState{g: g}
	sqlStr := "DELETE FROM " + wrappedTable

	if len(wheres) > 0 {
		whereSQL, err := g.compileWheres(st, wheres)
		if err != nil {
			return "", nil, fmt.Errorf("where clause error: %w", err)
		}
		sqlStr += " WHERE " + whereSQL
	}

	return sqlStr, st.args, nil
}
