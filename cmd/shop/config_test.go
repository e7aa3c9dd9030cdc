package main

import (
	"testing"

	"github.com/vladislavdragonenkov/shop/internal/app"
)

func TestReadConfigFromEnv_Defaults(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(nil))

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %d", len(warnings))
	}

	if cfg != app.DefaultConfig() {
		t.Fatalf("expected default config, got %#v", cfg)
	}
}

func TestReadConfigFromEnv_ValidOverrides(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envSeedFile:     " ./catalog.yaml ",
		envFakeProducts: "30",
		envFakeOrders:   "0",
		envFakeSeed:     "-7",
		envLogLevel:     " DEBUG ",
		envLogJSON:      "yes",
		envMetricsDump:  "on",
	}))

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	if cfg.SeedFile != "./catalog.yaml" {
		t.Fatalf("unexpected seed file: %s", cfg.SeedFile)
	}
	if cfg.FakeProducts != 30 {
		t.Fatalf("unexpected fake products: %d", cfg.FakeProducts)
	}
	if cfg.FakeOrders != 0 {
		t.Fatalf("unexpected fake orders: %d", cfg.FakeOrders)
	}
	if cfg.FakeSeed != -7 {
		t.Fatalf("unexpected fake seed: %d", cfg.FakeSeed)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if !cfg.LogJSON {
		t.Fatal("expected LogJSON=true")
	}
	if !cfg.MetricsDump {
		t.Fatal("expected MetricsDump=true")
	}
}

func TestReadConfigFromEnv_InvalidValuesFallbackToDefaults(t *testing.T) {
	defaultCfg := app.DefaultConfig()

	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envFakeProducts: "-1",
		envFakeOrders:   "many",
		envFakeSeed:     "1.5",
		envLogLevel:     "loud",
		envLogJSON:      "not-bool",
		envMetricsDump:  "sometimes",
	}))

	if len(warnings) != 6 {
		t.Fatalf("expected 6 warnings, got %d", len(warnings))
	}

	if cfg != defaultCfg {
		t.Fatalf("expected defaults on invalid values, got %#v", cfg)
	}
}

func TestParseBool(t *testing.T) {
	trueValue, err := parseBool(" YES ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !trueValue {
		t.Fatal("expected true result")
	}

	falseValue, err := parseBool("off")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if falseValue {
		t.Fatal("expected false result")
	}

	if _, err := parseBool("sometimes"); err == nil {
		t.Fatal("expected error for invalid bool value")
	}
}

func TestParseInt(t *testing.T) {
	value, err := parseInt(" 12 ", func(v int) bool { return v >= 0 }, "must be >= 0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 12 {
		t.Fatalf("unexpected value: %d", value)
	}

	if _, err := parseInt("-3", func(v int) bool { return v >= 0 }, "must be >= 0"); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := parseInt("twelve", func(v int) bool { return v >= 0 }, "must be >= 0"); err == nil {
		t.Fatal("expected parse error")
	}
}

func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
