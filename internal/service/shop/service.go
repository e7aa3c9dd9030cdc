package shop

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
)

const (
	opGetProduct   = "get_product"
	opListProducts = "list_products"
	opGetOrder     = "get_order"
	opListOrders   = "list_orders"
	opAddOrder     = "add_order"
)

// Service — фасад магазина над репозиториями товаров и заказов.
// Каждый метод делегирует вызов соответствующему репозиторию без преобразования данных.
type Service struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	logger   *log.Entry
	metrics  *metrics.ShopMetrics
}

// NewService конструирует фасад. logger и shopMetrics могут быть nil.
func NewService(
	products domain.ProductRepository,
	orders domain.OrderRepository,
	logger *log.Entry,
	shopMetrics *metrics.ShopMetrics,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "shop-service")
	}
	s := &Service{
		products: products,
		orders:   orders,
		logger:   logger,
		metrics:  shopMetrics,
	}
	if s.metrics != nil {
		s.metrics.SetOrdersStored(len(orders.List()))
	}
	return s
}

// GetProduct возвращает товар по ID; false, если товар не зарегистрирован.
func (s *Service) GetProduct(id string) (domain.Product, bool) {
	defer s.observe(opGetProduct, time.Now())

	product, ok := s.products.Get(id)
	if s.metrics != nil {
		s.metrics.RecordProductLookup(ok)
	}
	s.logger.WithFields(log.Fields{"product_id": id, "found": ok}).Debug("product lookup")
	return product, ok
}

// ListProducts возвращает все товары каталога.
func (s *Service) ListProducts() []domain.Product {
	defer s.observe(opListProducts, time.Now())
	return s.products.List()
}

// GetOrder возвращает заказ по ID; false, если заказ не зарегистрирован.
func (s *Service) GetOrder(id string) (domain.Order, bool) {
	defer s.observe(opGetOrder, time.Now())

	order, ok := s.orders.Get(id)
	if s.metrics != nil {
		s.metrics.RecordOrderLookup(ok)
	}
	s.logger.WithFields(log.Fields{"order_id": id, "found": ok}).Debug("order lookup")
	return order, ok
}

// ListOrders возвращает все заказы.
func (s *Service) ListOrders() []domain.Order {
	defer s.observe(opListOrders, time.Now())
	return s.orders.List()
}

// AddOrder добавляет заказ и возвращает обновлённый список заказов.
// Для уже зарегистрированного ID возвращает ошибку, совместимую с domain.ErrInvalidArgument.
func (s *Service) AddOrder(order domain.Order) ([]domain.Order, error) {
	defer s.observe(opAddOrder, time.Now())

	logger := s.logger.WithField("order_id", order.ID())

	orders, err := s.orders.Add(order)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordOrderRejected(rejectReason(err))
		}
		logger.WithError(err).Warn("order rejected")
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderAdded()
	}
	logger.WithFields(log.Fields{"items": order.Len(), "orders_total": len(orders)}).Info("order added")
	return orders, nil
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordOperationDuration(operation, time.Since(start))
	}
}

func rejectReason(err error) string {
	if errors.Is(err, domain.ErrOrderAlreadyExists) {
		return metrics.RejectReasonDuplicate
	}
	return metrics.RejectReasonOther
}
