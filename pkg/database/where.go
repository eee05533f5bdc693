package database

import "sort"

// -----------------------------------------------------------------------------
// WHERE OPERATIONS
// -----------------------------------------------------------------------------
// Bu dosya, QueryBuilder'ın WHERE ailesini içerir: basit karşılaştırmalar,
// map formu, callback ile iç içe gruplar, IN/BETWEEN/NULL/EXISTS ve alt
// sorgular. Her metod predicate ağacına soldan sağa node ekler; derleme
// sırası ekleme sırasıdır, dolayısıyla binding sırası da öyledir.
//
// GÜVENLİK NOTU:
// Tüm değerler prepared statement ile bağlanır. Kolon adları
// checkIdentifier'dan, operatörler Grammar whitelist'inden geçer.
// -----------------------------------------------------------------------------

// Where, sorguya AND ile bağlanan bir karşılaştırma koşulu ekler.
//
// Örnek:
//
//	qb.Where("status", "=", "active")
//	qb.Where("age", ">", 18)
//	qb.Where("name", "LIKE", "%john%")
func (qb *QueryBuilder) Where(column string, operator string, value interface{}) *QueryBuilder {
	qb.checkIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
		Boolean:  "AND",
	})
	return qb
}

// OrWhere, sorguya OR ile bağlanan bir karşılaştırma koşulu ekler.
//
// Örnek:
//
//	qb.Where("role", "=", "admin").OrWhere("role", "=", "moderator")
//	→ WHERE `role` = ? OR `role` = ?
func (qb *QueryBuilder) OrWhere(column string, operator string, value interface{}) *QueryBuilder {
	qb.checkIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
		Boolean:  "OR",
	})
	return qb
}

// WhereEq, iki argümanlı kısa form: operatör "=" varsayılır.
func (qb *QueryBuilder) WhereEq(column string, value interface{}) *QueryBuilder {
	return qb.Where(column, "=", value)
}

// OrWhereEq, OR ile bağlanan "=" kısa formu.
func (qb *QueryBuilder) OrWhereEq(column string, value interface{}) *QueryBuilder {
	return qb.OrWhere(column, "=", value)
}

// WhereMap, map'teki her field→value çiftini "=" ile karşılaştırıp AND ile
// birleştirir. Deterministik SQL üretimi için anahtarlar sıralanır.
//
// Örnek:
//
//	qb.WhereMap(map[string]interface{}{"status": "active", "role": "admin"})
//	→ WHERE `role` = ? AND `status` = ?
func (qb *QueryBuilder) WhereMap(values map[string]interface{}) *QueryBuilder {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		qb.Where(k, "=", values[k])
	}
	return qb
}

// WhereGroup, callback'e taze bir builder verir; callback'in biriktirdiği
// predicate'ler parantezli bir alt grup olarak AND ile ağaca eklenir.
//
// Örnek:
//
//	qb.WhereEq("status", "active").WhereGroup(func(g *QueryBuilder) {
//	    g.Where("age", "<", 18).OrWhere("age", ">", 65)
//	})
//	→ WHERE `status` = ? AND (`age` < ? OR `age` > ?)
func (qb *QueryBuilder) WhereGroup(fn func(*QueryBuilder)) *QueryBuilder {
	return qb.whereGroup("AND", fn)
}

// OrWhereGroup, parantezli alt grubu OR ile bağlar.
func (qb *QueryBuilder) OrWhereGroup(fn func(*QueryBuilder)) *QueryBuilder {
	return qb.whereGroup("OR", fn)
}

func (qb *QueryBuilder) whereGroup(boolean string, fn func(*QueryBuilder)) *QueryBuilder {
	sub := qb.newSub()
	fn(sub)
	qb.setErr(sub.lastErr)
	if len(sub.wheres) == 0 {
		return qb
	}
	qb.wheres = append(qb.wheres, WhereClause{
		Boolean: boolean,
		Nested:  sub.wheres,
	})
	return qb
}

// WhereIn, kolon değerinin verilen listede olmasını şart koşar.
// Boş liste ValidationError üretir; sorgu derlenmeden reddedilir.
//
// Örnek:
//
//	qb.WhereIn("status", []interface{}{"active", "pending"})
//	→ WHERE `status` IN (?, ?)
func (qb *QueryBuilder) WhereIn(column string, values []interface{}) *QueryBuilder {
	return qb.whereIn(column, values, "IN")
}

// WhereNotIn, kolon değerinin listede olmamasını şart koşar.
func (qb *QueryBuilder) WhereNotIn(column string, values []interface{}) *QueryBuilder {
	return qb.whereIn(column, values, "NOT IN")
}

func (qb *QueryBuilder) whereIn(column string, values []interface{}, operator string) *QueryBuilder {
	qb.checkIdentifier(column, "column")
	if len(values) == 0 {
		qb.setErr(NewValidationError("%s operator requires at least one value for column '%s'", operator, column))
		return qb
	}
	qb.wheres = append(qb.wheres, WhereClause{
		Column:   column,
		Operator: operator,
		Value:    values,
		Boolean:  "AND",
	})
	return qb
}

// WhereInQuery, IN hedefi olarak bir alt sorgu kullanır. Callback taze bir
// builder alır; alt sorgunun binding'leri üst sorgunun parametre listesine
// yerinde eklenir.
//
// Örnek:
//
//	qb.Table("posts").WhereInQuery("user_id", func(s *QueryBuilder) {
//	    s.Table("users").Select("id").WhereEq("status", "active")
//	})
//	→ WHERE `user_id` IN (SELECT `id` FROM `users` WHERE `status` = ?)
func (qb *QueryBuilder) WhereInQuery(column string, fn func(*QueryBuilder)) *QueryBuilder {
	return qb.whereInQuery(column, fn, "IN")
}

// WhereNotInQuery, NOT IN hedefi olarak bir alt sorgu kullanır.
func (qb *QueryBuilder) WhereNotInQuery(column string, fn func(*QueryBuilder)) *QueryBuilder {
	return qb.whereInQuery(column, fn, "NOT IN")
}

func (qb *QueryBuilder) whereInQuery(column string, fn func(*QueryBuilder), operator string) *QueryBuilder {
	qb.checkIdentifier(column, "column")
	sub := qb.newSub()
	fn(sub)
	qb.setErr(sub.lastErr)
	qb.wheres = append(qb.wheres, WhereClause{
		Column:   column,
		Operator: operator,
		Sub:      sub,
		Boolean:  "AND",
	})
	return qb
}

// WhereBetween, kolon değerinin iki sınır arasında olmasını şart koşar.
//
// Örnek:
//
//	qb.WhereBetween("age", 18, 65)
//	→ WHERE `age` BETWEEN ? AND ?
func (qb *QueryBuilder) WhereBetween(column string, min, max interface{}) *QueryBuilder {
	return qb.whereBetween(column, []interface{}{min, max}, "BETWEEN")
}

// WhereNotBetween, kolon değerinin iki sınır arasında olmamasını şart koşar.
func (qb *QueryBuilder) WhereNotBetween(column string, min, max interface{}) *QueryBuilder {
	return qb.whereBetween(column, []interface{}{min, max}, "NOT BETWEEN")
}

// WhereBetweenValues, sınırları slice olarak alır; tam iki eleman
// gerektirir, aksi halde ValidationError kaydedilir. Dinamik kaynaklardan
// (API args vb.) gelen sınır listeleri için kullanılır.
func (qb *QueryBuilder) WhereBetweenValues(column string, bounds []interface{}) *QueryBuilder {
	return qb.whereBetween(column, bounds, "BETWEEN")
}

// WhereNotBetweenValues, WhereBetweenValues'un NOT formu.
func (qb *QueryBuilder) WhereNotBetweenValues(column string, bounds []interface{}) *QueryBuilder {
	return qb.whereBetween(column, bounds, "NOT BETWEEN")
}

func (qb *QueryBuilder) whereBetween(column string, bounds []interface{}, operator string) *QueryBuilder {
	qb.checkIdentifier(column, "column")
	if len(bounds) != 2 {
		qb.setErr(NewValidationError("%s operator requires exactly 2 values for column '%s', got %d", operator, column, len(bounds)))
		return qb
	}
	qb.wheres = append(qb.wheres, WhereClause{
		Column:   column,
		Operator: operator,
		Value:    bounds,
		Boolean:  "AND",
	})
	return qb
}

// WhereNull, kolonun NULL olmasını şart koşar.
//
// Örnek:
//
//	qb.WhereNull("deleted_at") → WHERE `deleted_at` IS NULL
func (qb *QueryBuilder) WhereNull(column string) *QueryBuilder {
	qb.checkIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{
		Column:   column,
		Operator: "IS",
		Boolean:  "AND",
	})
	return qb
}

// WhereNotNull, kolonun NULL olmamasını şart koşar.
func (qb *QueryBuilder) WhereNotNull(column string) *QueryBuilder {
	qb.checkIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{
		Column:   column,
		Operator: "IS NOT",
		Boolean:  "AND",
	})
	return qb
}

// WhereExists, korele bir alt sorgunun en az bir satır döndürmesini şart
// koşar. Callback taze bir builder alır.
//
// Örnek:
//
//	qb.Table("users").WhereExists(func(s *QueryBuilder) {
//	    s.Table("orders").Select("1").Where("orders.user_id", "=", "users.id")
//	})
func (qb *QueryBuilder) WhereExists(fn func(*QueryBuilder)) *QueryBuilder {
	return qb.whereExists(fn, "EXISTS")
}

// WhereNotExists, alt sorgunun hiç satır döndürmemesini şart koşar.
func (qb *QueryBuilder) WhereNotExists(fn func(*QueryBuilder)) *QueryBuilder {
	return qb.whereExists(fn, "NOT EXISTS")
}

func (qb *QueryBuilder) whereExists(fn func(*QueryBuilder), operator string) *QueryBuilder {
	sub := qb.newSub()
	fn(sub)
	qb.setErr(sub.lastErr)
	qb.wheres = append(qb.wheres, WhereClause{
		Operator: operator,
		Sub:      sub,
		Boolean:  "AND",
	})
	return qb
}

// WhereDate, tarih kolonunun gün bazında eşitliğini kontrol eder.
//
// Örnek:
//
//	qb.WhereDate("created_at", "2024-01-15") → WHERE DATE(`created_at`) = ?
func (qb *QueryBuilder) WhereDate(column string, date string) *QueryBuilder {
	return qb.whereDatePart("DATE", column, date)
}

// WhereYear, tarih kolonunun yılını kontrol eder.
func (qb *QueryBuilder) WhereYear(column string, year int) *QueryBuilder {
	return qb.whereDatePart("YEAR", column, year)
}

// WhereMonth, tarih kolonunun ayını kontrol eder (1-12).
func (qb *QueryBuilder) WhereMonth(column string, month int) *QueryBuilder {
	return qb.whereDatePart("MONTH", column, month)
}

// WhereDay, tarih kolonunun gününü kontrol eder (1-31).
func (qb *QueryBuilder) WhereDay(column string, day int) *QueryBuilder {
	return qb.whereDatePart("DAY", column, day)
}

func (qb *QueryBuilder) whereDatePart(part, column string, value interface{}) *QueryBuilder {
	qb.checkIdentifier(column, "column")
	qb.wheres = append(qb.wheres, WhereClause{
		Column:   part + "(" + column + ")",
		Operator: "=",
		Value:    value,
		Boolean:  "AND",
	})
	return qb
}
