// -----------------------------------------------------------------------------
// Model Lifecycle Events
// -----------------------------------------------------------------------------
// Her persistence operasyonu öncesinde ve sonrasında lifecycle event'leri
// yayınlanır. Dış dünyaya (logging, cache invalidation, audit) genişleme
// noktası budur.
//
// EventBus, global class-level state yerine factory'ye dependency injection
// ile verilir: her entity tipi kendi bus'ını alır, handler'lar kayıt
// sırasına göre senkron çalıştırılır. Bir handler'ın yaptığı değişiklik bir
// sonraki handler tarafından görülür.
// -----------------------------------------------------------------------------

package model

import "sync"

// Lifecycle event isimleri.
const (
	EventQuery    = "query"
	EventInsert   = "insert"
	EventInserted = "inserted"
	EventUpdate   = "update"
	EventUpdated  = "updated"
	EventSave     = "save"
	EventSaved    = "saved"
	EventDelete   = "delete"
	EventDeleted  = "deleted"
	EventGet      = "get"
)

// Handler, bir lifecycle event'i tetiklendiğinde çağrılır. Tek argüman, olayı
// üreten model instance'ıdır.
type Handler func(m *Model)

// EventBus, event adı → handler listesi eşlemesini tutar.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewEventBus, boş bir event bus oluşturur.
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]Handler),
	}
}

// On, verilen event için bir handler kaydeder. Aynı event'e birden fazla
// handler kaydedilebilir; tetiklenme sırası kayıt sırasıdır.
//
// Örnek:
//
//	bus.On(model.EventSaved, func(m *model.Model) {
//	    log.Printf("kayıt güncellendi: %v", m.PrimaryKey())
//	})
func (b *EventBus) On(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Fire, event'e kayıtlı tüm handler'ları senkron olarak çalıştırır.
// Kayıtlı handler yoksa no-op'tur.
func (b *EventBus) Fire(event string, m *Model) {
	b.mu.RLock()
	registered := b.handlers[event]
	b.mu.RUnlock()

	for _, handler := range registered {
		handler(m)
	}
}
