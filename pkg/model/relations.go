// -----------------------------------------------------------------------------
// Relations — İlişki Çözümleme
// -----------------------------------------------------------------------------
// İlişkiler factory'ler arası kurulur: her ilişki metodu karşı tarafın
// factory'sini alır ve karşı tabloya bağlı, filtrelenmiş bir QueryBuilder
// döndürür. Çok adımlı ilişkiler (hasThrough, belongsToMany) iki round trip
// yerine tek bir correlated alt sorgu olarak derlenir.
//
// Pivot senkronizasyonu (Attach) tek bir transaction içinde diff tabanlı
// çalışır: storage'da olup hedefte olmayan satırlar silinir, hedefte olup
// storage'da olmayanlar sırayla eklenir. Herhangi bir adımda hata tüm
// değişiklikleri geri alır.
// -----------------------------------------------------------------------------

package model

import (
	"database/sql"
	"fmt"

	"github.com/biyonik/go-active-record/pkg/database"
)

// Hydrate, bir ilişki sorgusunu çalıştırıp satırları bu factory'nin model
// instance'larına çevirir.
//
// Örnek:
//
//	qb, _ := user.Has(posts, "user_id")
//	userPosts, err := posts.Hydrate(qb)
func (f *Factory) Hydrate(qb *database.QueryBuilder) ([]*Model, error) {
	rows, err := qb.GetMaps()
	if err != nil {
		return nil, err
	}

	results := make([]*Model, 0, len(rows))
	for _, row := range rows {
		instance := f.New()
		instance.hydrate(row)
		instance.fire(EventGet)
		results = append(results, instance)
	}

	return results, nil
}

// requirePersisted, ilişki sorgularının pk'sız instance'larla kurulmasını
// engeller.
func (m *Model) requirePersisted(op string) error {
	if m.PrimaryKey() == nil {
		return fmt.Errorf("model: %s requires a persisted %s instance", op, m.factory.def.Name)
	}
	return nil
}

// Has, bire-bir / bire-çok ilişkisinin karşı taraf sorgusunu döndürür:
// karşı tablodaki foreignKey bu instance'ın primary key'ine eşittir.
//
// Örnek:
//
//	qb, err := user.Has(posts, "user_id")
//	// SELECT * FROM posts WHERE user_id = <user.id>
func (m *Model) Has(related *Factory, foreignKey string) (*database.QueryBuilder, error) {
	if err := m.requirePersisted("has"); err != nil {
		return nil, err
	}
	return related.Builder().WhereEq(foreignKey, m.PrimaryKey()), nil
}

// HasThrough, ara model üzerinden geçen ilişkiyi tek bir correlated alt
// sorgu ile kurar: karşı tablodaki fk1, ara tablodan seçilen primary
// key'lerin içindedir; ara tablo fk2 ile bu instance'a bağlanır.
//
// Örnek:
//
//	qb, err := country.HasThrough(posts, users, "user_id", "country_id")
//	// SELECT * FROM posts WHERE user_id IN
//	//   (SELECT id FROM users WHERE country_id = <country.id>)
func (m *Model) HasThrough(related, middle *Factory, fk1, fk2 string) (*database.QueryBuilder, error) {
	if err := m.requirePersisted("hasThrough"); err != nil {
		return nil, err
	}

	pk := m.PrimaryKey()
	qb := related.Builder().WhereInQuery(fk1, func(sub *database.QueryBuilder) {
		sub.Table(middle.def.Table).
			Select(middle.def.PrimaryKey).
			WhereEq(fk2, pk)
	})

	return qb, nil
}

// BelongsTo, ters yönlü ilişkiyi kurar: karşı tablonun primary key'i bu
// instance'ın foreignKey alanındaki değere eşittir.
func (m *Model) BelongsTo(related *Factory, foreignKey string) (*database.QueryBuilder, error) {
	fkValue := m.Attribute(foreignKey)
	if fkValue == nil {
		return nil, fmt.Errorf("model: belongsTo requires %s.%s to be set", m.factory.def.Name, foreignKey)
	}
	return related.Builder().WhereEq(related.def.PrimaryKey, fkValue), nil
}

// BelongsToMany, pivot tablo üzerinden many-to-many ilişkisini tek bir
// correlated alt sorgu ile kurar. Pivot key çifti Definition'ın pivot
// kaydından okunur.
//
// Örnek:
//
//	qb, err := user.BelongsToMany(roles, "role_user")
//	// SELECT * FROM roles WHERE id IN
//	//   (SELECT role_id FROM role_user WHERE user_id = <user.id>)
func (m *Model) BelongsToMany(related *Factory, pivotTable string) (*database.QueryBuilder, error) {
	if err := m.requirePersisted("belongsToMany"); err != nil {
		return nil, err
	}

	pivot, ok := m.factory.def.Pivots[pivotTable]
	if !ok {
		return nil, fmt.Errorf("model: no pivot registered for table %s on %s", pivotTable, m.factory.def.Name)
	}

	pk := m.PrimaryKey()
	qb := related.Builder().WhereInQuery(related.def.PrimaryKey, func(sub *database.QueryBuilder) {
		sub.Table(pivotTable).
			Select(pivot.RelatedKey).
			WhereEq(pivot.LocalKey, pk)
	})

	return qb, nil
}

// Associate, foreign key alanını karşı instance'ın primary key'ine bağlar ve
// kaydeder.
func (m *Model) Associate(foreignKey string, related *Model) error {
	if !m.factory.fieldSet[foreignKey] {
		return fmt.Errorf("model: %s has no declared field %s", m.factory.def.Name, foreignKey)
	}
	if err := related.requirePersisted("associate"); err != nil {
		return err
	}

	if err := m.Set(foreignKey, related.PrimaryKey()); err != nil {
		return err
	}
	return m.Save()
}

// Dissociate, foreign key alanını null'layıp kaydeder.
func (m *Model) Dissociate(foreignKey string) error {
	if !m.factory.fieldSet[foreignKey] {
		return fmt.Errorf("model: %s has no declared field %s", m.factory.def.Name, foreignKey)
	}

	if err := m.Set(foreignKey, nil); err != nil {
		return err
	}
	return m.Save()
}

// relatedKey, Attach/Detach girdilerini far-side key değerine normalize
// eder: model instance'larından primary key alınır, diğer değerler olduğu
// gibi identifier kabul edilir.
func relatedKey(item interface{}) (interface{}, error) {
	if related, ok := item.(*Model); ok {
		if related.PrimaryKey() == nil {
			return nil, fmt.Errorf("model: attach received an unpersisted %s instance", related.factory.def.Name)
		}
		return related.PrimaryKey(), nil
	}
	return item, nil
}

// Attach, pivot tabloyu hedef kümeyle senkronize eder. Girdi ham
// identifier'lar veya model instance'ları olabilir. Mevcut pivot satırları
// okunur, hedefle diff'lenir: fazlalıklar tek DELETE ile silinir, eksikler
// sırayla (her insert bir öncekini bekleyerek) eklenir. Tüm adımlar tek bir
// transaction içinde koşar; hata durumunda hiçbir değişiklik kalıcı olmaz.
//
// Örnek:
//
//	// mevcut pivot: [3, 4] → hedef: [2, 3]
//	err := user.Attach("role_user", []interface{}{2, 3})
//	// sonuç: 4 silindi, 2 eklendi
func (m *Model) Attach(pivotTable string, related []interface{}) error {
	if err := m.requirePersisted("attach"); err != nil {
		return err
	}

	pivot, ok := m.factory.def.Pivots[pivotTable]
	if !ok {
		return fmt.Errorf("model: no pivot registered for table %s on %s", pivotTable, m.factory.def.Name)
	}

	db, ok := m.factory.executor.(*sql.DB)
	if !ok {
		return fmt.Errorf("model: attach requires a root *sql.DB connection, got %T", m.factory.executor)
	}

	pk := m.PrimaryKey()

	// Hedef kümesi: duplicate'ler tekilleştirilir, ekleme sırası korunur.
	targetOrder := make([]interface{}, 0, len(related))
	targetSet := make(map[string]bool, len(related))
	for _, item := range related {
		key, err := relatedKey(item)
		if err != nil {
			return err
		}
		id := fmt.Sprint(key)
		if targetSet[id] {
			continue
		}
		targetSet[id] = true
		targetOrder = append(targetOrder, key)
	}

	return database.WithTransaction(db, m.factory.grammar, func(tx *database.Transaction) error {
		existing, err := tx.NewBuilder().
			Table(pivotTable).
			Select(pivot.RelatedKey).
			WhereEq(pivot.LocalKey, pk).
			GetMaps()
		if err != nil {
			return err
		}

		existingSet := make(map[string]bool, len(existing))
		var toDelete []interface{}
		for _, row := range existing {
			value := row[pivot.RelatedKey]
			id := fmt.Sprint(value)
			existingSet[id] = true
			if !targetSet[id] {
				toDelete = append(toDelete, value)
			}
		}

		if len(toDelete) > 0 {
			_, err := tx.NewBuilder().
				Table(pivotTable).
				WhereEq(pivot.LocalKey, pk).
				WhereIn(pivot.RelatedKey, toDelete).
				ExecDelete()
			if err != nil {
				return err
			}
		}

		// Eksik satırlar sırayla eklenir; her insert bir öncekinin
		// tamamlanmasını bekler.
		for _, key := range targetOrder {
			if existingSet[fmt.Sprint(key)] {
				continue
			}
			_, err := tx.NewBuilder().Table(pivotTable).ExecInsert(map[string]interface{}{
				pivot.LocalKey:   pk,
				pivot.RelatedKey: key,
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// Detach, verilen far-side key'lere ait pivot satırlarını siler; hiç key
// verilmezse bu instance'ın tüm pivot satırları silinir.
func (m *Model) Detach(pivotTable string, related ...interface{}) error {
	if err := m.requirePersisted("detach"); err != nil {
		return err
	}

	pivot, ok := m.factory.def.Pivots[pivotTable]
	if !ok {
		return fmt.Errorf("model: no pivot registered for table %s on %s", pivotTable, m.factory.def.Name)
	}

	qb := database.NewBuilder(m.factory.executor, m.factory.grammar).
		Table(pivotTable).
		WhereEq(pivot.LocalKey, m.PrimaryKey())

	if len(related) > 0 {
		keys := make([]interface{}, 0, len(related))
		for _, item := range related {
			key, err := relatedKey(item)
			if err != nil {
				return err
			}
			keys = append(keys, key)
		}
		qb.WhereIn(pivot.RelatedKey, keys)
	}

	_, err := qb.ExecDelete()
	return err
}
