package memory

import (
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items []domain.Order
	index map[string]int
}

// NewOrderRepository возвращает in-memory репозиторий, заполненный переданными заказами.
func NewOrderRepository(orders ...domain.Order) domain.OrderRepository {
	r := &orderRepositoryInMemory{
		items: append([]domain.Order(nil), orders...),
		index: make(map[string]int, len(orders)),
	}
	for i, o := range r.items {
		if _, seen := r.index[o.ID()]; !seen {
			r.index[o.ID()] = i
		}
	}
	return r
}

// Get возвращает заказ или false, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return domain.Order{}, false
	}
	return r.items[i], true
}

// List возвращает копию всех заказов в порядке добавления.
func (r *orderRepositoryInMemory) List() []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshot()
}

// Add сохраняет новый заказ, если ID ещё не занят, и возвращает обновлённый список.
func (r *orderRepositoryInMemory) Add(order domain.Order) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[order.ID()]; exists {
		return nil, fmt.Errorf("%w: id=%s", domain.ErrOrderAlreadyExists, order.ID())
	}

	r.index[order.ID()] = len(r.items)
	r.items = append(r.items, order)
	return r.snapshot(), nil
}

// snapshot копирует список заказов; вызывать под блокировкой.
func (r *orderRepositoryInMemory) snapshot() []domain.Order {
	result := make([]domain.Order, len(r.items))
	copy(result, r.items)
	return result
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
