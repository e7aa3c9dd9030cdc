package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/app"
	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/shop"
	"github.com/vladislavdragonenkov/shop/internal/version"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

const usage = `usage: shop [flags] <command> [args]

commands:
  products                          list all products
  product <id>                      show a product
  orders                            list all orders
  order <id>                        show an order
  add-order [-id ID] <product-id>...  add an order and print all orders

flags:
`

var errNotFound = errors.New("not found")

type productView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type orderView struct {
	ID    string        `json:"id"`
	Items []productView `json:"items"`
}

func main() {
	os.Exit(run(os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr))
}

// run разбирает аргументы, собирает приложение и выполняет одну команду.
func run(args []string, lookup envLookup, stdout, stderr io.Writer) int {
	cfg, warnings := readConfigFromEnv(lookup)

	fs := flag.NewFlagSet("shop", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "shop %s\n", version.String())
		_, _ = fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "YAML catalog file (fallback: "+envSeedFile+"; empty = generated catalog)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log in JSON format")
	fs.BoolVar(&cfg.MetricsDump, "metrics", cfg.MetricsDump, "dump metrics to stderr after the command")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	logger, err := setupLogger(cfg, stderr)
	if err != nil {
		return fail(stderr, "setup logger: %v", err)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}
	v, c, d := version.Info()
	logger.WithFields(log.Fields{"version": v, "commit": c, "build_date": d}).Info("starting shop")

	a, err := app.New(cfg, logger.WithField("component", "app"))
	if err != nil {
		return fail(stderr, "init: %v", err)
	}

	code := execute(a.Shop, fs.Arg(0), fs.Args()[1:], stdout, stderr)

	if cfg.MetricsDump {
		if err := a.DumpMetrics(stderr); err != nil {
			logger.WithError(err).Warn("metrics dump failed")
		}
	}
	return code
}

// setupLogger настраивает формат и уровень логирования; логи пишутся в stderr.
func setupLogger(cfg app.Config, out io.Writer) (*log.Entry, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if cfg.LogJSON {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger.WithField("service", "shop"), nil
}

func execute(svc *shop.Service, command string, args []string, stdout, stderr io.Writer) int {
	var (
		out any
		err error
	)

	switch strings.ToLower(command) {
	case "products":
		out = toProductViews(svc.ListProducts())
	case "product":
		if len(args) != 1 {
			return fail(stderr, "usage: shop product <id>")
		}
		p, ok := svc.GetProduct(args[0])
		if !ok {
			return fail(stderr, "product %q: %v", args[0], errNotFound)
		}
		out = toProductView(p)
	case "orders":
		out = toOrderViews(svc.ListOrders())
	case "order":
		if len(args) != 1 {
			return fail(stderr, "usage: shop order <id>")
		}
		o, ok := svc.GetOrder(args[0])
		if !ok {
			return fail(stderr, "order %q: %v", args[0], errNotFound)
		}
		out = toOrderView(o)
	case "add-order":
		out, err = addOrder(svc, args, stderr)
	default:
		return fail(stderr, "unknown command: %s (use products|product|orders|order|add-order)", command)
	}
	if err != nil {
		return fail(stderr, "%s: %v", command, err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fail(stderr, "write output: %v", err)
	}
	return exitOK
}

func addOrder(svc *shop.Service, args []string, stderr io.Writer) ([]orderView, error) {
	fs := flag.NewFlagSet("add-order", flag.ContinueOnError)
	fs.SetOutput(stderr)
	id := fs.String("id", "", "order id (default: random uuid)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(*id) == "" {
		*id = uuid.NewString()
	}

	items := make([]domain.Product, 0, fs.NArg())
	for _, pid := range fs.Args() {
		p, ok := svc.GetProduct(pid)
		if !ok {
			return nil, fmt.Errorf("product %q: %w", pid, errNotFound)
		}
		items = append(items, p)
	}

	orders, err := svc.AddOrder(domain.NewOrder(*id, items...))
	if err != nil {
		return nil, err
	}
	return toOrderViews(orders), nil
}

func toProductView(p domain.Product) productView {
	return productView{ID: p.ID(), Name: p.Name(), Category: string(p.Category())}
}

func toProductViews(products []domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return views
}

func toOrderView(o domain.Order) orderView {
	return orderView{ID: o.ID(), Items: toProductViews(o.Items())}
}

func toOrderViews(orders []domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return views
}

func fail(stderr io.Writer, format string, args ...any) int {
	_, _ = fmt.Fprintf(stderr, format+"\n", args...)
	return exitFail
}
