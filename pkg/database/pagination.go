package database

// -----------------------------------------------------------------------------
// Pagination
// -----------------------------------------------------------------------------
// Sayfalı okuma iki sorgu ile yapılır: önce bağlamı koruyan bir COUNT, sonra
// LIMIT/OFFSET'li asıl SELECT. COUNT sorgusu ORDER BY/LIMIT/OFFSET'ten
// etkilenmediği için builder'ın o anki hali üzerinden doğrudan derlenir.
//
// LastPage ceil aritmetiği ile hesaplanır; toplam 0 satır için LastPage 1
// döner, boş kümede bile geçerli bir "son sayfa" vardır.
// -----------------------------------------------------------------------------

// Pagination, sayfalı bir sonuç kümesinin metadata'sını taşır.
type Pagination struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

// lastPage, toplam satır ve sayfa boyutundan son sayfa numarasını hesaplar.
func lastPage(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		return 1
	}
	return pages
}

// normalizePage, sayfa ve sayfa boyutu parametrelerini güvenli aralığa çeker.
func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return page, perPage
}

// PaginateMaps, sorguyu sayfalı çalıştırır ve satırları map slice'ı olarak
// döndürür.
//
// Örnek:
//
//	rows, meta, err := qb.Table("users").OrderBy("id", "asc").PaginateMaps(2, 25)
func (qb *QueryBuilder) PaginateMaps(page, perPage int) ([]map[string]interface{}, *Pagination, error) {
	page, perPage = normalizePage(page, perPage)

	total, err := qb.Count()
	if err != nil {
		return nil, nil, err
	}

	qb.Limit(perPage).Offset((page - 1) * perPage)

	results, err := qb.GetMaps()
	if err != nil {
		return nil, nil, err
	}

	meta := &Pagination{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage(total, perPage),
	}

	return results, meta, nil
}

// Paginate, sorguyu sayfalı çalıştırır ve satırları bir struct slice'ına
// tarar.
//
// Örnek:
//
//	var users []User
//	meta, err := qb.Table("users").Paginate(&users, 1, 10)
func (qb *QueryBuilder) Paginate(dest any, page, perPage int) (*Pagination, error) {
	page, perPage = normalizePage(page, perPage)

	total, err := qb.Count()
	if err != nil {
		return nil, err
	}

	qb.Limit(perPage).Offset((page - 1) * perPage)

	if err := qb.Get(dest); err != nil {
		return nil, err
	}

	return &Pagination{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage(total, perPage),
	}, nil
}
