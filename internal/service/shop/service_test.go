package shop_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/service/shop"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

var testProducts = []domain.Product{
	domain.NewVegetable("testVegetableId", "testVegetable"),
	domain.NewCrisps("testCrispsId", "testCrisps"),
	domain.NewToiletry("testToiletryId", "testToiletry"),
}

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

type fixture struct {
	product  domain.Product
	orderOne domain.Order
	orderTwo domain.Order
	shop     *shop.Service
}

// newFixture собирает сервис с одним товаром и одним заказом.
func newFixture(product domain.Product) fixture {
	orderOne := domain.NewOrder("testOrderId", product)
	return fixture{
		product:  product,
		orderOne: orderOne,
		orderTwo: domain.NewOrder("testOrderIdTwo", product),
		shop: shop.NewService(
			memory.NewProductRepository(product),
			memory.NewOrderRepository(orderOne),
			loggerForTests(),
			nil,
		),
	}
}

func newEmptyShop() *shop.Service {
	return shop.NewService(memory.NewProductRepository(), memory.NewOrderRepository(), loggerForTests(), nil)
}

// forEachProduct прогоняет сценарий для каждого варианта товара.
func forEachProduct(t *testing.T, fn func(t *testing.T, f fixture)) {
	t.Helper()
	for _, p := range testProducts {
		p := p
		t.Run(string(p.Category()), func(t *testing.T) {
			fn(t, newFixture(p))
		})
	}
}

func TestGetProduct_ReturnsProduct_WhenIDRegistered(t *testing.T) {
	forEachProduct(t, func(t *testing.T, f fixture) {
		actual, ok := f.shop.GetProduct(f.product.ID())
		require.True(t, ok)
		require.Equal(t, f.product, actual)
	})
}

func TestGetProduct_ReturnsAbsent_WhenIDNotRegistered(t *testing.T) {
	forEachProduct(t, func(t *testing.T, f fixture) {
		actual, ok := f.shop.GetProduct("NOT_REGISTERED")
		require.False(t, ok)
		require.Equal(t, domain.Product{}, actual)
	})
}

func TestListProducts_ReturnsProducts_WhenProductsRegistered(t *testing.T) {
	forEachProduct(t, func(t *testing.T, f fixture) {
		require.Equal(t, []domain.Product{f.product}, f.shop.ListProducts())
	})
}

func TestListProducts_ReturnsEmpty_WhenNoProductsRegistered(t *testing.T) {
	actual := newEmptyShop().ListProducts()
	require.NotNil(t, actual)
	require.Empty(t, actual)
}

func TestGetOrder_ReturnsOrder_WhenOrderRegistered(t *testing.T) {
	forEachProduct(t, func(t *testing.T, f fixture) {
		actual, ok := f.shop.GetOrder(f.orderOne.ID())
		require.True(t, ok)
		require.Equal(t, f.orderOne, actual)
	})
}

func TestGetOrder_ReturnsAbsent_WhenOrderNotRegistered(t *testing.T) {
	forEachProduct(t, func(t *testing.T, f fixture) {
		_, ok := f.shop.GetOrder("NOT_REGISTERED")
		require.False(t, ok)
	})
}

func TestListOrders_ReturnsOrders_WhenOrdersRegistered(t *testing.T) {
	forEachProduct(t, func(t *testing.T, f fixture) {
		require.Equal(t, []domain.Order{f.orderOne}, f.shop.ListOrders())
	})
}

func TestListOrders_ReturnsEmpty_WhenNoOrdersRegistered(t *testing.T) {
	actual := newEmptyShop().ListOrders()
	require.NotNil(t, actual)
	require.Empty(t, actual)
}

func TestAddOrder_ReturnsSingleOrder_WhenAddedToEmptyList(t *testing.T) {
	forEachProduct(t, func(t *testing.T, f fixture) {
		actual, err := newEmptyShop().AddOrder(f.orderOne)
		require.NoError(t, err)
		require.Equal(t, []domain.Order{f.orderOne}, actual)
	})
}

func TestAddOrder_ReturnsUpdatedList_WhenNewOrderNotRegistered(t *testing.T) {
	forEachProduct(t, func(t *testing.T, f fixture) {
		actual, err := f.shop.AddOrder(f.orderTwo)
		require.NoError(t, err)
		require.Equal(t, []domain.Order{f.orderOne, f.orderTwo}, actual)
		require.Equal(t, actual, f.shop.ListOrders())
	})
}

func TestAddOrder_Fails_WhenOrderAlreadyRegistered(t *testing.T) {
	forEachProduct(t, func(t *testing.T, f fixture) {
		actual, err := f.shop.AddOrder(f.orderOne)
		require.Error(t, err)
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
		require.True(t, domain.IsInvalidArgument(err))
		require.Nil(t, actual)
		require.Equal(t, []domain.Order{f.orderOne}, f.shop.ListOrders())
	})
}

func TestService_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	shopMetrics := metrics.NewShopMetricsWithRegisterer(reg)

	product := testProducts[0]
	svc := shop.NewService(
		memory.NewProductRepository(product),
		memory.NewOrderRepository(domain.NewOrder("existing", product)),
		loggerForTests(),
		shopMetrics,
	)

	require.Equal(t, 1.0, gaugeValue(t, reg, "shop_orders_stored"))

	_, _ = svc.GetProduct(product.ID())
	_, _ = svc.GetProduct("missing")
	_, _ = svc.GetOrder("existing")

	_, err := svc.AddOrder(domain.NewOrder("new", product))
	require.NoError(t, err)
	_, err = svc.AddOrder(domain.NewOrder("new", product))
	require.Error(t, err)

	expected := `
# HELP shop_orders_added_total Total number of orders added
# TYPE shop_orders_added_total counter
shop_orders_added_total 1
# HELP shop_orders_rejected_total Total number of rejected orders by reason
# TYPE shop_orders_rejected_total counter
shop_orders_rejected_total{reason="duplicate"} 1
# HELP shop_product_lookups_total Total number of product lookups by result
# TYPE shop_product_lookups_total counter
shop_product_lookups_total{result="hit"} 1
shop_product_lookups_total{result="miss"} 1
# HELP shop_order_lookups_total Total number of order lookups by result
# TYPE shop_order_lookups_total counter
shop_order_lookups_total{result="hit"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"shop_orders_added_total",
		"shop_orders_rejected_total",
		"shop_product_lookups_total",
		"shop_order_lookups_total",
	))
	require.Equal(t, 2.0, gaugeValue(t, reg, "shop_orders_stored"))
}

func TestService_StoredGaugeUnderConcurrentAdds(t *testing.T) {
	reg := prometheus.NewRegistry()
	product := testProducts[0]
	svc := shop.NewService(
		memory.NewProductRepository(product),
		memory.NewOrderRepository(domain.NewOrder("existing", product)),
		nil,
		metrics.NewShopMetricsWithRegisterer(reg),
	)

	const workers = 64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = svc.AddOrder(domain.NewOrder(fmt.Sprintf("order-%d", i), product))
			_, _ = svc.AddOrder(domain.NewOrder("existing", product))
		}(i)
	}
	wg.Wait()

	require.Len(t, svc.ListOrders(), workers+1)
	require.Equal(t, float64(workers+1), gaugeValue(t, reg, "shop_orders_stored"))
}

func TestNewService_NilLogger(t *testing.T) {
	svc := shop.NewService(memory.NewProductRepository(), memory.NewOrderRepository(), nil, nil)
	require.NotNil(t, svc)
	require.Empty(t, svc.ListOrders())
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		require.Len(t, family.GetMetric(), 1)
		return family.GetMetric()[0].GetGauge().GetValue()
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}
