package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Products domain.ProductRepository
	Orders   domain.OrderRepository
	Registry *prometheus.Registry
	Metrics  *metrics.ShopMetrics
	Logger   *log.Entry
}

// NewDependencies загружает каталог (из файла или генератора) и создаёт репозитории и метрики.
func NewDependencies(cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	seed, source, err := resolveSeed(cfg)
	if err != nil {
		return nil, err
	}
	products, orders, err := seed.Build()
	if err != nil {
		return nil, fmt.Errorf("build catalog from %s: %w", source, err)
	}

	logger.WithFields(log.Fields{
		"source":   source,
		"products": len(products),
		"orders":   len(orders),
	}).Info("catalog loaded")

	registry := prometheus.NewRegistry()
	return &Dependencies{
		Products: memory.NewProductRepository(products...),
		Orders:   memory.NewOrderRepository(orders...),
		Registry: registry,
		Metrics:  metrics.NewShopMetricsWithRegisterer(registry),
		Logger:   logger,
	}, nil
}

func resolveSeed(cfg Config) (Seed, string, error) {
	if cfg.SeedFile != "" {
		seed, err := LoadSeed(cfg.SeedFile)
		if err != nil {
			return Seed{}, "", err
		}
		return seed, cfg.SeedFile, nil
	}
	return FakeSeed(cfg.FakeProducts, cfg.FakeOrders, cfg.FakeSeed), "generator", nil
}
