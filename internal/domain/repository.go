package domain

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/vladislavdragonenkov/shop/internal/domain ProductRepository,OrderRepository

// ProductRepository описывает хранилище товаров каталога.
type ProductRepository interface {
	// Get возвращает товар по идентификатору; false, если товара нет.
	Get(id string) (Product, bool)
	// List возвращает все товары в порядке добавления.
	List() []Product
}

// OrderRepository описывает хранилище заказов.
type OrderRepository interface {
	// Get возвращает заказ по идентификатору; false, если заказа нет.
	Get(id string) (Order, bool)
	// List возвращает все заказы в порядке добавления.
	List() []Order
	// Add добавляет заказ и возвращает обновлённый список.
	// Если ID уже занят, возвращает ErrOrderAlreadyExists и ничего не меняет.
	Add(order Order) ([]Order, error)
}
