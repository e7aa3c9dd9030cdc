package domain

// Order — неизменяемый заказ: идентификатор и упорядоченный список товаров.
type Order struct {
	id    string
	items []Product
}

// NewOrder создаёт заказ. Список товаров копируется, порядок сохраняется.
func NewOrder(id string, items ...Product) Order {
	return Order{
		id:    id,
		items: append([]Product(nil), items...),
	}
}

// ID возвращает уникальный идентификатор заказа.
func (o Order) ID() string { return o.id }

// Items возвращает копию позиций заказа в порядке добавления.
func (o Order) Items() []Product {
	return append([]Product(nil), o.items...)
}

// Len возвращает количество позиций.
func (o Order) Len() int { return len(o.items) }

// Equal сравнивает заказы по идентификатору и позициям с учётом порядка.
func (o Order) Equal(other Order) bool {
	if o.id != other.id || len(o.items) != len(other.items) {
		return false
	}
	for i := range o.items {
		if o.items[i] != other.items[i] {
			return false
		}
	}
	return true
}
