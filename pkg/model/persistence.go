// -----------------------------------------------------------------------------
// Persistence — Kayıt Yaşam Döngüsü
// -----------------------------------------------------------------------------
// Bir instance üç durumdan geçer:
//
//	New (pk yok) → Persisted (pk bir satıra bağlı) → Deleted (terminal)
//
// Her yazma işleminden sonra satır veritabanından yeniden okunur; böylece
// default değerler ve trigger'ların yazdığı kolonlar in-memory kopyaya
// yansır. Başarısız bir adım zincirin kalanını keser: insert reject olursa
// "inserted" ve "saved" event'leri hiç tetiklenmez.
// -----------------------------------------------------------------------------

package model

import (
	"fmt"

	"github.com/biyonik/go-active-record/pkg/database"
)

// ErrNotFound, fetch işlemlerinin sıfır satır dönmesi durumudur.
// Çağıranlar "veri yok" ile transport hatasını bununla ayırt eder.
var ErrNotFound = database.ErrNotFound

// fetchOne, builder'ın o anki predicate'leriyle tek satır okur, instance'ı
// hydrate eder ve get event'ini tetikler.
func (m *Model) fetchOne() error {
	m.fire(EventQuery)

	row, err := m.Query().FirstMap()
	if err != nil {
		return err
	}

	m.hydrate(row)
	m.fire(EventGet)
	return nil
}

// Get, tek bir satırı okuyup instance'ı hydrate eder. id verilirse önce
// primary key eşitlik filtresi eklenir; verilmezse builder'da birikmiş
// predicate'ler kullanılır. Sıfır satır ErrNotFound üretir.
//
// Örnek:
//
//	user := users.New()
//	if err := user.Get(42); err != nil { ... }
func (m *Model) Get(id ...interface{}) error {
	if len(id) > 0 {
		m.Query().WhereEq(m.factory.def.PrimaryKey, id[0])
	}
	return m.fetchOne()
}

// All, builder'da birikmiş predicate'lerle SELECT çalıştırır ve her satır
// için yeni bir instance üretir. Sıfır satır ErrNotFound üretir.
//
// Örnek:
//
//	adults := users.New()
//	adults.Query().Where("age", ">=", 18)
//	results, err := adults.All()
func (m *Model) All() ([]*Model, error) {
	m.fire(EventQuery)

	rows, err := m.Query().GetMaps()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	results := make([]*Model, 0, len(rows))
	for _, row := range rows {
		instance := m.factory.New()
		instance.hydrate(row)
		instance.fire(EventGet)
		results = append(results, instance)
	}

	return results, nil
}

// Save, instance'ı persist eder: primary key set ise Update, değilse Insert
// çalışır. Başarı durumunda saved event'i tetiklenir.
func (m *Model) Save() error {
	m.fire(EventSave)

	var err error
	if m.PrimaryKey() != nil {
		err = m.Update(nil)
	} else {
		err = m.Insert(nil)
	}
	if err != nil {
		return err
	}

	m.fire(EventSaved)
	return nil
}

// Insert, yeni bir satır yazar. Verilen data transform-aware atanır, INSERT
// gönderilir, veritabanının ürettiği identifier yakalanır ve satır bu
// identifier ile yeniden okunur. New → Persisted geçişi burada olur.
//
// Event sırası: insert → (INSERT) → inserted → query → get.
func (m *Model) Insert(data map[string]interface{}) error {
	if data != nil {
		if err := m.Fill(data, true); err != nil {
			return err
		}
	}

	m.fire(EventInsert)

	values := m.writeData()
	if len(values) == 0 {
		return fmt.Errorf("model: insert on %s with no assigned fields", m.factory.def.Name)
	}

	result, err := m.resetQuery().ExecInsert(values)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("model: driver did not report an insert id: %w", err)
	}

	m.setPrimaryKey(id)
	m.fire(EventInserted)

	m.resetQuery().WhereEq(m.factory.def.PrimaryKey, id)
	if err := m.fetchOne(); err != nil {
		return err
	}

	// Yeniden okuma bitti; builder'da pk filtresi kalmasın.
	m.resetQuery()
	return nil
}

// Update, mevcut satırı günceller. Builder'daki eski predicate'ler temizlenir
// ve WHERE primary key'e scope'lanır; ardından satır yeniden okunur.
//
// Event sırası: update → (UPDATE) → query → get → updated.
func (m *Model) Update(data map[string]interface{}) error {
	pk := m.PrimaryKey()
	if pk == nil {
		return fmt.Errorf("model: cannot update unpersisted %s instance", m.factory.def.Name)
	}

	if data != nil {
		if err := m.Fill(data, true); err != nil {
			return err
		}
	}

	m.fire(EventUpdate)

	values := m.writeData()
	if len(values) == 0 {
		return fmt.Errorf("model: update on %s with no assigned fields", m.factory.def.Name)
	}

	qb := m.resetQuery().WhereEq(m.factory.def.PrimaryKey, pk)
	if _, err := qb.ExecUpdate(values); err != nil {
		return err
	}

	// Builder'da pk filtresi hazır; aynı scope ile yeniden oku.
	if err := m.fetchOne(); err != nil {
		return err
	}
	m.resetQuery()

	m.fire(EventUpdated)
	return nil
}

// Delete, satırı siler. id verilirse önce o satır okunur, sonra silinir;
// verilmezse instance'ın mevcut primary key değeri kullanılır. Silme sonrası
// in-memory data bayatlamış halde kalır; instance yazma için yeniden
// kullanılmamalıdır.
//
// Event sırası: delete → (DELETE) → deleted.
func (m *Model) Delete(id ...interface{}) error {
	if len(id) > 0 {
		if err := m.Get(id[0]); err != nil {
			return err
		}
	}

	pk := m.PrimaryKey()
	if pk == nil {
		return fmt.Errorf("model: cannot delete unpersisted %s instance", m.factory.def.Name)
	}

	m.fire(EventDelete)

	qb := m.resetQuery().WhereEq(m.factory.def.PrimaryKey, pk)
	if _, err := qb.ExecDelete(); err != nil {
		return err
	}

	m.deleted = true
	m.fire(EventDeleted)
	return nil
}

// -----------------------------------------------------------------------------
// Factory kısayolları
// -----------------------------------------------------------------------------

// Find, primary key ile tek satır okuyup yeni bir instance döndürür.
func (f *Factory) Find(id interface{}) (*Model, error) {
	m := f.New()
	if err := m.Get(id); err != nil {
		return nil, err
	}
	return m, nil
}

// All, tablodaki tüm satırları instance listesi olarak döndürür.
func (f *Factory) All() ([]*Model, error) {
	return f.New().All()
}
