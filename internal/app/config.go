package app

// Config описывает настройки запуска магазина.
type Config struct {
	// SeedFile — путь к YAML-файлу с каталогом; пустой путь включает генерацию демо-данных.
	SeedFile string
	// FakeProducts и FakeOrders задают объём сгенерированного каталога.
	FakeProducts int
	FakeOrders   int
	// FakeSeed фиксирует генератор; 0 означает случайный seed.
	FakeSeed int64

	LogLevel    string
	LogJSON     bool
	MetricsDump bool
}

// DefaultConfig возвращает базовые настройки: детерминированный демо-каталог и уровень info.
func DefaultConfig() Config {
	return Config{
		FakeProducts: 12,
		FakeOrders:   3,
		FakeSeed:     1,
		LogLevel:     "info",
	}
}
