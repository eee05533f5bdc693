// -----------------------------------------------------------------------------
// Model — Definition, Factory ve Entity Binder
// -----------------------------------------------------------------------------
// Definition, bir entity tipinin şemasını tanımlar: tablo adı, primary key,
// izinli alan listesi, aranabilir alanlar, pivot kayıtları ve alan
// transform'ları. Factory bu tanıma bağlı stateless bir kurucudur; model
// instance'larını yalnızca factory üretir.
//
// Model, tek bir tablo satırını temsil eder. Attribute'lar dinamik bir map
// üzerinde taşınır; atamalar alan whitelist'inden geçer. Primary key generic
// atama yolundan ASLA yazılamaz — yalnızca başarılı bir insert veya fetch
// sonrası persistence katmanı tarafından set edilir.
// -----------------------------------------------------------------------------

package model

import (
	"fmt"
	"strings"

	"github.com/biyonik/go-active-record/pkg/database"
	"github.com/go-openapi/inflect"
)

// Pivot, bir many-to-many pivot tablosunun iki foreign key'ini tanımlar.
// LocalKey bu entity'nin primary key'ine, RelatedKey karşı entity'nin
// primary key'ine işaret eder. Kurulumdan sonra değişmez.
type Pivot struct {
	LocalKey   string
	RelatedKey string
}

// Definition, bir entity tipinin şemasını taşır.
type Definition struct {
	// Name, entity'nin tekil adıdır (örn. "User").
	Name string

	// Table, hedef tablo adıdır. Boş bırakılırsa Name'den türetilir:
	// "User" → "users", "Category" → "categories".
	Table string

	// PrimaryKey, primary key kolonudur. Boş bırakılırsa "id" kullanılır.
	PrimaryKey string

	// Fields, atanabilir alanların whitelist'idir. Primary key listede
	// olmasa bile okunabilir.
	Fields []string

	// Searchable, keyword aramasına dahil edilen alan alt kümesidir.
	Searchable []string

	// Pivots, pivot tablo adı → foreign key çifti eşlemesidir.
	Pivots map[string]Pivot

	// Transforms, alan adı → (ToStorage, FromStorage) eşlemesidir.
	Transforms map[string]Transform
}

// Factory, bir entity tipi için model instance'ları üreten stateless
// kurucudur. Executor, grammar ve event bus construction'da enjekte edilir;
// üretilen tüm instance'lar bu bağlamı paylaşır.
type Factory struct {
	executor database.QueryExecutor
	grammar  database.Grammar
	bus      *EventBus
	def      Definition
	fieldSet map[string]bool
}

// NewFactory, definition'ı doğrulayıp varsayılanları uygulayarak yeni bir
// factory oluşturur.
//
// Örnek:
//
//	users, err := model.NewFactory(db, grammar, bus, model.Definition{
//	    Name:       "User",
//	    Fields:     []string{"name", "email", "password", "age"},
//	    Searchable: []string{"name", "email"},
//	})
func NewFactory(executor database.QueryExecutor, grammar database.Grammar, bus *EventBus, def Definition) (*Factory, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("model: definition requires a name")
	}
	if len(def.Fields) == 0 {
		return nil, fmt.Errorf("model: definition for %s requires at least one field", def.Name)
	}

	if def.Table == "" {
		def.Table = inflect.Pluralize(strings.ToLower(def.Name))
	}
	if def.PrimaryKey == "" {
		def.PrimaryKey = "id"
	}
	if bus == nil {
		bus = NewEventBus()
	}

	fieldSet := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		fieldSet[f] = true
	}

	return &Factory{
		executor: executor,
		grammar:  grammar,
		bus:      bus,
		def:      def,
		fieldSet: fieldSet,
	}, nil
}

// Table, factory'nin bağlı olduğu tablo adını döndürür.
func (f *Factory) Table() string {
	return f.def.Table
}

// PrimaryKeyName, primary key kolon adını döndürür.
func (f *Factory) PrimaryKeyName() string {
	return f.def.PrimaryKey
}

// Bus, factory'nin event bus'ını döndürür.
func (f *Factory) Bus() *EventBus {
	return f.bus
}

// Builder, factory'nin tablosuna bağlı taze bir QueryBuilder döndürür.
func (f *Factory) Builder() *database.QueryBuilder {
	return database.NewBuilder(f.executor, f.grammar).Table(f.def.Table)
}

// New, boş bir model instance'ı üretir.
func (f *Factory) New() *Model {
	return &Model{
		factory: f,
		attrs:   make(map[string]interface{}),
	}
}

// NewFromMap, verilen data map'inden bir instance üretir. Primary key ve
// tanımsız alanlar sessizce atılır; transform'lar uygulanır.
func (f *Factory) NewFromMap(data map[string]interface{}) (*Model, error) {
	m := f.New()
	if err := m.Fill(data, true); err != nil {
		return nil, err
	}
	return m, nil
}

// -----------------------------------------------------------------------------
// Model
// -----------------------------------------------------------------------------

// Model, tek bir tablo satırının in-memory temsilidir. Bir instance tek bir
// mantıksal kayıt üzerinde çalışır; iki bağımsız sorgu arasında
// paylaşılmamalıdır.
type Model struct {
	factory *Factory
	attrs   map[string]interface{}
	qb      *database.QueryBuilder
	deleted bool
}

// Query, instance'ın birikimli query builder'ını döndürür. Where/OrderBy
// gibi zincir çağrıları Get/All/Search öncesinde burada birikir.
//
// Örnek:
//
//	user := users.New()
//	user.Query().WhereEq("status", "active").OrderBy("name", "asc")
//	results, err := user.All()
func (m *Model) Query() *database.QueryBuilder {
	if m.qb == nil {
		m.qb = m.factory.Builder()
	}
	return m.qb
}

// resetQuery, instance builder'ını sıfırlar. Update/delete yeniden
// hedefleme öncesi çağrılır; eski predicate'ler sonraki işleme sızamaz.
func (m *Model) resetQuery() *database.QueryBuilder {
	m.Query().ResetConditions()
	return m.qb
}

// Fill, data map'ini whitelist'ten geçirerek attribute'lara atar.
//
// Kurallar:
//   - Tanımlı alan listesinde olmayan key'ler sessizce atılır (hata değil).
//   - Primary key her koşulda atılır; generic atama yolu pk yazamaz.
//   - applyTransforms true ise alanın ToStorage transform'u uygulanır.
func (m *Model) Fill(data map[string]interface{}, applyTransforms bool) error {
	for key, value := range data {
		if err := m.set(key, value, applyTransforms); err != nil {
			return err
		}
	}
	return nil
}

// Set, tek bir alanı transform-aware şekilde atar. Whitelist dışı alanlar ve
// primary key için no-op'tur.
func (m *Model) Set(field string, value interface{}) error {
	return m.set(field, value, true)
}

func (m *Model) set(field string, value interface{}, applyTransforms bool) error {
	if field == m.factory.def.PrimaryKey {
		return nil // pk generic yoldan yazılamaz
	}
	if !m.factory.fieldSet[field] {
		return nil // tanımsız alan: sessiz drop
	}

	if applyTransforms {
		if t, ok := m.factory.def.Transforms[field]; ok && t.ToStorage != nil {
			transformed, err := t.ToStorage(value)
			if err != nil {
				return fmt.Errorf("model: transform failed for field %s: %w", field, err)
			}
			value = transformed
		}
	}

	m.attrs[field] = value
	return nil
}

// setPrimaryKey, persistence katmanının pk yazabildiği tek yoldur.
func (m *Model) setPrimaryKey(value interface{}) {
	m.attrs[m.factory.def.PrimaryKey] = value
}

// hydrate, veritabanından gelen satırı attribute'lara olduğu gibi yazar.
// Fetch yolu whitelist ve transform'lardan geçmez; satır zaten storage
// formatındadır ve pk'yı içerir.
func (m *Model) hydrate(row map[string]interface{}) {
	m.attrs = make(map[string]interface{}, len(row))
	for key, value := range row {
		m.attrs[key] = value
	}
	m.deleted = false
}

// Attribute, alanın değerini FromStorage transform'u uygulanmış olarak
// döndürür. Hiç set edilmemiş alan nil döner, hata üretmez.
func (m *Model) Attribute(field string) interface{} {
	value, ok := m.attrs[field]
	if !ok {
		return nil
	}
	if t, ok := m.factory.def.Transforms[field]; ok && t.FromStorage != nil {
		return t.FromStorage(value)
	}
	return value
}

// PrimaryKey, primary key değerini döndürür; instance henüz persist
// edilmemişse nil'dir.
func (m *Model) PrimaryKey() interface{} {
	return m.attrs[m.factory.def.PrimaryKey]
}

// IsPersisted, instance'ın bir veritabanı satırına bağlı olup olmadığını
// döndürür.
func (m *Model) IsPersisted() bool {
	return m.PrimaryKey() != nil && !m.deleted
}

// Data, attribute'ların storage formatındaki kopyasını döndürür.
func (m *Model) Data() map[string]interface{} {
	out := make(map[string]interface{}, len(m.attrs))
	for k, v := range m.attrs {
		out[k] = v
	}
	return out
}

// writeData, INSERT/UPDATE'e gidecek attribute'ları döndürür: pk hariç,
// atanmış tüm alanlar.
func (m *Model) writeData() map[string]interface{} {
	out := make(map[string]interface{}, len(m.attrs))
	for k, v := range m.attrs {
		if k == m.factory.def.PrimaryKey {
			continue
		}
		out[k] = v
	}
	return out
}

// fire, lifecycle event'ini factory'nin bus'ı üzerinden yayınlar.
func (m *Model) fire(event string) {
	m.factory.bus.Fire(event, m)
}
