package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// LookupHit — значение метки result для найденной сущности.
	LookupHit = "hit"
	// LookupMiss — значение метки result для отсутствующей сущности.
	LookupMiss = "miss"

	// RejectReasonDuplicate — заказ отклонён из-за занятого ID.
	RejectReasonDuplicate = "duplicate"
	// RejectReasonOther — прочие ошибки добавления.
	RejectReasonOther = "other"
)

// ShopMetrics содержит метрики операций магазина.
type ShopMetrics struct {
	// Счётчики поиска
	productLookups *prometheus.CounterVec
	orderLookups   *prometheus.CounterVec

	// Счётчики добавления заказов
	ordersAdded    prometheus.Counter
	ordersRejected *prometheus.CounterVec

	ordersStored prometheus.Gauge

	operationDuration *prometheus.HistogramVec
}

// NewShopMetrics создаёт метрики в глобальном реестре Prometheus.
func NewShopMetrics() *ShopMetrics {
	return NewShopMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewShopMetricsWithRegisterer создаёт метрики в переданном реестре.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewShopMetricsWithRegisterer(registerer prometheus.Registerer) *ShopMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShopMetrics{
		productLookups: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_product_lookups_total",
			Help: "Total number of product lookups by result",
		}, []string{"result"}),
		orderLookups: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_order_lookups_total",
			Help: "Total number of order lookups by result",
		}, []string{"result"}),
		ordersAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_added_total",
			Help: "Total number of orders added",
		}),
		ordersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_orders_rejected_total",
			Help: "Total number of rejected orders by reason",
		}, []string{"reason"}),
		ordersStored: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "shop_orders_stored",
			Help: "Number of orders currently stored",
		}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "shop_operation_duration_seconds",
			Help:    "Duration of shop service operations in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}, []string{"operation"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

func lookupResult(found bool) string {
	if found {
		return LookupHit
	}
	return LookupMiss
}

// RecordProductLookup учитывает поиск товара.
func (m *ShopMetrics) RecordProductLookup(found bool) {
	m.productLookups.WithLabelValues(lookupResult(found)).Inc()
}

// RecordOrderLookup учитывает поиск заказа.
func (m *ShopMetrics) RecordOrderLookup(found bool) {
	m.orderLookups.WithLabelValues(lookupResult(found)).Inc()
}

// RecordOrderAdded увеличивает счётчик добавленных заказов и gauge хранимых заказов.
func (m *ShopMetrics) RecordOrderAdded() {
	m.ordersAdded.Inc()
	m.ordersStored.Inc()
}

// RecordOrderRejected учитывает отклонённый заказ.
func (m *ShopMetrics) RecordOrderRejected(reason string) {
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// SetOrdersStored выставляет количество хранимых заказов.
func (m *ShopMetrics) SetOrdersStored(n int) {
	m.ordersStored.Set(float64(n))
}

// RecordOperationDuration записывает время выполнения операции сервиса.
func (m *ShopMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
