package main

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/app"
)

const (
	envSeedFile     = "SHOP_SEED_FILE"
	envFakeProducts = "SHOP_FAKE_PRODUCTS"
	envFakeOrders   = "SHOP_FAKE_ORDERS"
	envFakeSeed     = "SHOP_FAKE_SEED"
	envLogLevel     = "SHOP_LOG_LEVEL"
	envLogJSON      = "SHOP_LOG_JSON"
	envMetricsDump  = "SHOP_METRICS_DUMP"
)

type envLookup func(key string) (string, bool)

// readConfigFromEnv накладывает переменные окружения на DefaultConfig.
// Некорректные значения не прерывают запуск: остаётся значение по умолчанию и возвращается предупреждение.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	warn := func(key, value string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s=%q ignored: %v", key, value, err))
	}

	if v, ok := lookup(envSeedFile); ok {
		cfg.SeedFile = strings.TrimSpace(v)
	}

	if v, ok := lookup(envFakeProducts); ok {
		n, err := parseInt(v, func(n int) bool { return n >= 0 }, "must be >= 0")
		if err != nil {
			warn(envFakeProducts, v, err)
		} else {
			cfg.FakeProducts = n
		}
	}

	if v, ok := lookup(envFakeOrders); ok {
		n, err := parseInt(v, func(n int) bool { return n >= 0 }, "must be >= 0")
		if err != nil {
			warn(envFakeOrders, v, err)
		} else {
			cfg.FakeOrders = n
		}
	}

	if v, ok := lookup(envFakeSeed); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			warn(envFakeSeed, v, err)
		} else {
			cfg.FakeSeed = n
		}
	}

	if v, ok := lookup(envLogLevel); ok {
		level := strings.ToLower(strings.TrimSpace(v))
		if _, err := log.ParseLevel(level); err != nil {
			warn(envLogLevel, v, err)
		} else {
			cfg.LogLevel = level
		}
	}

	if v, ok := lookup(envLogJSON); ok {
		b, err := parseBool(v)
		if err != nil {
			warn(envLogJSON, v, err)
		} else {
			cfg.LogJSON = b
		}
	}

	if v, ok := lookup(envMetricsDump); ok {
		b, err := parseBool(v)
		if err != nil {
			warn(envMetricsDump, v, err)
		} else {
			cfg.MetricsDump = b
		}
	}

	return cfg, warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool value %q", raw)
	}
}

func parseInt(raw string, valid func(int) bool, rule string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !valid(n) {
		return 0, fmt.Errorf("%d %s", n, rule)
	}
	return n, nil
}
