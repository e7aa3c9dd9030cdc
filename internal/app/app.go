package app

import (
	"fmt"
	"io"

	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/service/shop"
)

// App связывает фасад магазина с его зависимостями.
type App struct {
	Shop *shop.Service
	deps *Dependencies
}

// New собирает приложение по конфигурации.
func New(cfg Config, logger *log.Entry) (*App, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Shop: shop.NewService(deps.Products, deps.Orders, logger.WithField("layer", "service"), deps.Metrics),
		deps: deps,
	}, nil
}

// DumpMetrics пишет содержимое реестра метрик в текстовом формате Prometheus.
func (a *App) DumpMetrics(w io.Writer) error {
	families, err := a.deps.Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write metric family %s: %w", family.GetName(), err)
		}
	}
	return nil
}
