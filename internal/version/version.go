package version

import "fmt"

// Значения подставляются при сборке:
//
//	go build -ldflags "-X github.com/vladislavdragonenkov/shop/internal/version.version=v1.0.0"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// String форматирует сведения о сборке одной строкой.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
