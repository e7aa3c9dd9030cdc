package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// productRepositoryInMemory хранит каталог товаров в памяти.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items []domain.Product
	index map[string]int
}

// NewProductRepository создаёт репозиторий, заполненный переданными товарами.
// Дубликаты ID не проверяются: при поиске побеждает первое вхождение.
func NewProductRepository(products ...domain.Product) domain.ProductRepository {
	r := &productRepositoryInMemory{
		items: append([]domain.Product(nil), products...),
		index: make(map[string]int, len(products)),
	}
	for i, p := range r.items {
		if _, seen := r.index[p.ID()]; !seen {
			r.index[p.ID()] = i
		}
	}
	return r
}

// Get возвращает товар или false, если его нет.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return r.items[i], true
}

// List возвращает копию каталога в порядке добавления.
func (r *productRepositoryInMemory) List() []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, len(r.items))
	copy(result, r.items)
	return result
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
