// -----------------------------------------------------------------------------
// Search — Dinamik Filtreli Sayfalı Listeleme
// -----------------------------------------------------------------------------
// Search, caller'dan gelen serbest biçimli argüman map'ini varsayılan
// konfigürasyonla birleştirir, tanımlı alanlara denk gelen key'leri WHERE
// filtrelerine çevirir, keyword aramasını aranabilir alanlar üzerinde OR
// grupları olarak kurar ve sonucu sayfalı döndürür.
//
// Rezerve key'ler (page, limit, orderBy, sequence, keywords) her zaman
// kazanır: bir alan adı rezerve key ile çakışıyorsa o key pagination
// parametresi olarak yorumlanır, filtre olarak değil.
// -----------------------------------------------------------------------------

package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/biyonik/go-active-record/pkg/database"
)

// reservedSearchKeys, Search argümanlarında pagination anlamı taşıyan
// key'lerdir.
var reservedSearchKeys = map[string]bool{
	"page":     true,
	"limit":    true,
	"orderBy":  true,
	"sequence": true,
	"keywords": true,
}

// filterOperators, operator-prefix çıkarımında denenen önekleri uzundan
// kısaya sıralar; "<=" önce denenmezse "<" yanlış eşleşir.
var filterOperators = []string{"<=", ">=", "!=", "<>", "<", ">", "="}

// extractOperator, "=18" / ">18" gibi değerlerden operatörü ayıklar.
// Önek yoksa "=" ve değerin kendisi döner.
func extractOperator(value string) (string, string) {
	for _, op := range filterOperators {
		if strings.HasPrefix(value, op) {
			return op, strings.TrimSpace(strings.TrimPrefix(value, op))
		}
	}
	return "=", value
}

// toInt, sayfa/limit argümanlarını sayıya normalize eder.
func toInt(value interface{}, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// toString, argüman değerini string'e normalize eder.
func toString(value interface{}, fallback string) string {
	if s, ok := value.(string); ok {
		return s
	}
	if value != nil {
		return fmt.Sprint(value)
	}
	return fallback
}

// Search, argüman map'ine göre filtrelenmiş sayfalı sonuç döndürür.
//
// Varsayılanlar: page=1, limit=10, orderBy=primary key, sequence=asc,
// keywords="". sequence asc/desc dışında bir değerse rastgele sıralamaya
// geçilir. Dönen metadata map'i; çözümlenen pagination parametrelerini,
// toplam satır sayısını (total) ve toplam sayfa sayısını (pages) içerir.
//
// Örnek:
//
//	results, meta, err := user.Search(map[string]interface{}{
//	    "age":      ">18",
//	    "keywords": "ahmet",
//	    "page":     2,
//	})
func (m *Model) Search(args map[string]interface{}) ([]*Model, map[string]interface{}, error) {
	def := m.factory.def

	page := 1
	limit := 10
	orderBy := def.PrimaryKey
	sequence := "asc"
	keywords := ""

	if v, ok := args["page"]; ok {
		page = toInt(v, page)
	}
	if v, ok := args["limit"]; ok {
		limit = toInt(v, limit)
	}
	if v, ok := args["orderBy"]; ok {
		orderBy = toString(v, orderBy)
	}
	if v, ok := args["sequence"]; ok {
		sequence = strings.ToLower(toString(v, sequence))
	}
	if v, ok := args["keywords"]; ok {
		keywords = toString(v, "")
	}

	qb := m.Query()

	// Tanımlı alanlara denk gelen argümanlar filtreye çevrilir. Alan
	// listesi sırayla gezilir; map iterasyonunun rastgeleliği sorgu
	// metnine yansımaz.
	for _, field := range def.Fields {
		if reservedSearchKeys[field] {
			continue
		}
		value, ok := args[field]
		if !ok {
			continue
		}
		if s, isString := value.(string); isString {
			op, operand := extractOperator(s)
			qb.Where(field, op, operand)
			continue
		}
		qb.WhereEq(field, value)
	}

	// Keyword araması: aranabilir alanlar OR ile, her alan içinde
	// keyword'ler OR ile bağlanır; grubun tamamı diğer filtrelere AND ile
	// eklenir. LIKE özel karakterleri escape edilir.
	terms := strings.Fields(keywords)
	if len(terms) > 0 && len(def.Searchable) > 0 {
		qb.WhereGroup(func(outer *database.QueryBuilder) {
			for _, field := range def.Searchable {
				field := field
				outer.OrWhereGroup(func(inner *database.QueryBuilder) {
					for _, term := range terms {
						pattern := "%" + database.EscapeLike(term) + "%"
						inner.OrWhere(field, "LIKE", pattern)
					}
				})
			}
		})
	}

	if sequence == "asc" || sequence == "desc" {
		qb.OrderBy(orderBy, sequence)
	} else {
		qb.InRandomOrder()
	}

	m.fire(EventQuery)

	rows, pagination, err := qb.PaginateMaps(page, limit)
	if err != nil {
		return nil, nil, err
	}

	results := make([]*Model, 0, len(rows))
	for _, row := range rows {
		instance := m.factory.New()
		instance.hydrate(row)
		instance.fire(EventGet)
		results = append(results, instance)
	}

	meta := map[string]interface{}{
		"page":     pagination.CurrentPage,
		"limit":    pagination.PerPage,
		"orderBy":  orderBy,
		"sequence": sequence,
		"keywords": keywords,
		"total":    pagination.Total,
		"pages":    pagination.LastPage,
	}

	return results, meta, nil
}

// Search, taze bir instance üzerinden sayfalı arama çalıştırır.
func (f *Factory) Search(args map[string]interface{}) ([]*Model, map[string]interface{}, error) {
	return f.New().Search(args)
}
