package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/app"
	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/shop"
)

type loadMode string

const (
	modeAdd     loadMode = "add"
	modeAddRead loadMode = "add-read"
	modeContend loadMode = "contend"
)

type outcome string

const (
	outcomeOK              outcome = "ok"
	outcomeInvalidArgument outcome = "invalid_argument"
	outcomeNotFound        outcome = "not_found"
	outcomeMismatch        outcome = "mismatch"
	outcomeError           outcome = "error"
)

type config struct {
	total       int
	totalSet    bool
	duration    time.Duration
	concurrency int
	mode        loadMode
	contendIDs  int
	products    int
	seedFile    string
	fakeSeed    int64
	outputPath  string
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type methodReport struct {
	Calls     int64            `json:"calls"`
	Success   int64            `json:"success"`
	Failed    int64            `json:"failed"`
	ErrorRate float64          `json:"error_rate"`
	Outcomes  map[string]int64 `json:"outcomes"`
	LatencyMs latencySummary   `json:"latency_ms"`
}

type report struct {
	StartedAt         time.Time               `json:"started_at"`
	DurationSeconds   float64                 `json:"duration_seconds"`
	TotalScenarios    int64                   `json:"total_scenarios"`
	SuccessScenarios  int64                   `json:"success_scenarios"`
	FailedScenarios   int64                   `json:"failed_scenarios"`
	ErrorRate         float64                 `json:"error_rate"`
	RPS               float64                 `json:"rps"`
	ScenarioLatencyMs latencySummary          `json:"scenario_latency_ms"`
	Methods           map[string]methodReport `json:"methods"`
	OrdersBefore      int                     `json:"orders_before"`
	OrdersAfter       int                     `json:"orders_after"`
	Consistent        bool                    `json:"consistent"`
	Inconsistencies   []string                `json:"inconsistencies,omitempty"`
}

type methodStats struct {
	calls     int64
	success   int64
	failed    int64
	outcomes  map[string]int64
	latencies []float64
}

type collector struct {
	mu      sync.Mutex
	methods map[string]*methodStats
}

func newCollector() *collector {
	return &collector{
		methods: make(map[string]*methodStats),
	}
}

// record учитывает вызов; expected помечает исход, который для сценария считается успехом.
func (c *collector) record(method string, latency time.Duration, result outcome, expected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.methods[method]
	if !ok {
		stats = &methodStats{
			outcomes: make(map[string]int64),
		}
		c.methods[method] = stats
	}

	stats.calls++
	if expected {
		stats.success++
	} else {
		stats.failed++
	}
	stats.outcomes[string(result)]++
	stats.latencies = append(stats.latencies, float64(latency.Microseconds())/1000.0)
}

func (c *collector) count(method string, result outcome) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.methods[method]
	if !ok {
		return 0
	}
	return stats.outcomes[string(result)]
}

func (c *collector) buildReport(startedAt time.Time, duration time.Duration) report {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := report{
		StartedAt:       startedAt.UTC(),
		DurationSeconds: duration.Seconds(),
		Methods:         make(map[string]methodReport, len(c.methods)),
		Consistent:      true,
	}

	if scenarioStats := c.methods["scenario"]; scenarioStats != nil {
		result.TotalScenarios = scenarioStats.calls
		result.SuccessScenarios = scenarioStats.success
		result.FailedScenarios = scenarioStats.failed
		result.ErrorRate = ratio(scenarioStats.failed, scenarioStats.calls)
		result.ScenarioLatencyMs = buildLatencySummary(scenarioStats.latencies)
	}
	if duration > 0 {
		result.RPS = float64(result.TotalScenarios) / duration.Seconds()
	}

	for name, stats := range c.methods {
		outcomes := make(map[string]int64, len(stats.outcomes))
		for o, n := range stats.outcomes {
			outcomes[o] = n
		}
		result.Methods[name] = methodReport{
			Calls:     stats.calls,
			Success:   stats.success,
			Failed:    stats.failed,
			ErrorRate: ratio(stats.failed, stats.calls),
			Outcomes:  outcomes,
			LatencyMs: buildLatencySummary(stats.latencies),
		}
	}

	return result
}

func parseConfig(args []string, output io.Writer) (config, error) {
	var cfg config
	var modeValue string

	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&cfg.total, "total", 2000, "total scenarios to execute in count mode; in duration mode only used when explicitly set")
	fs.DurationVar(&cfg.duration, "duration", 0, "optional time-based run duration (e.g. 10s, 1m)")
	fs.IntVar(&cfg.concurrency, "concurrency", 16, "number of concurrent workers")
	fs.StringVar(&modeValue, "mode", string(modeAdd), "load mode: add | add-read | contend")
	fs.IntVar(&cfg.contendIDs, "contend-ids", 10, "size of the shared order id pool in contend mode")
	fs.IntVar(&cfg.products, "products", 12, "generated catalog size when -seed is not set")
	fs.StringVar(&cfg.seedFile, "seed", "", "optional YAML catalog file")
	fs.Int64Var(&cfg.fakeSeed, "fake-seed", 1, "generator seed for the catalog")
	fs.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "total" {
			cfg.totalSet = true
		}
	})

	mode, err := parseMode(modeValue)
	if err != nil {
		return cfg, err
	}
	cfg.mode = mode

	if cfg.duration < 0 {
		return cfg, errors.New("duration must be >= 0")
	}
	if cfg.duration == 0 && cfg.total <= 0 {
		return cfg, errors.New("total must be > 0 when duration is not set")
	}
	if cfg.duration > 0 && cfg.totalSet && cfg.total <= 0 {
		return cfg, errors.New("total must be > 0 when explicitly set with duration")
	}
	if cfg.concurrency <= 0 {
		return cfg, errors.New("concurrency must be > 0")
	}
	if cfg.mode == modeContend && cfg.contendIDs <= 0 {
		return cfg, errors.New("contend-ids must be > 0")
	}
	if cfg.seedFile == "" && cfg.products <= 0 {
		return cfg, errors.New("products must be > 0 when seed is not set")
	}

	return cfg, nil
}

func parseMode(value string) (loadMode, error) {
	switch loadMode(strings.TrimSpace(value)) {
	case modeAdd:
		return modeAdd, nil
	case modeAddRead:
		return modeAddRead, nil
	case modeContend:
		return modeContend, nil
	default:
		return "", fmt.Errorf("unsupported mode: %s", value)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}

	logger := log.New()
	logger.SetOutput(stderr)
	logger.SetLevel(log.ErrorLevel)

	a, err := app.New(app.Config{
		SeedFile:     cfg.seedFile,
		FakeProducts: cfg.products,
		FakeSeed:     cfg.fakeSeed,
		LogLevel:     log.ErrorLevel.String(),
	}, logger.WithField("service", "shop-loadtest"))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "init shop: %v\n", err)
		return 1
	}

	result, err := runLoad(a.Shop, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "load test: %v\n", err)
		return 1
	}

	printReport(stdout, result, cfg)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			_, _ = fmt.Fprintf(stderr, "failed to write report: %v\n", err)
			return 1
		}
	}

	if result.FailedScenarios > 0 || !result.Consistent {
		return 1
	}
	return 0
}

// runLoad гоняет сценарии на cfg.concurrency воркерах и сверяет итоговое хранилище с принятыми заказами.
func runLoad(svc *shop.Service, cfg config) (report, error) {
	catalog := svc.ListProducts()
	if len(catalog) == 0 {
		return report{}, errors.New("catalog is empty")
	}
	ordersBefore := len(svc.ListOrders())

	startedAt := time.Now()
	runID := fmt.Sprintf("%d", startedAt.UnixNano())
	col := newCollector()

	jobs := make(chan int, cfg.concurrency*2)
	var wg sync.WaitGroup
	for workerID := 0; workerID < cfg.concurrency; workerID++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				runScenario(svc, cfg, catalog, index, runID, col)
			}
		}()
	}

	dispatchJobs(jobs, cfg)
	wg.Wait()

	result := col.buildReport(startedAt, time.Since(startedAt))
	result.OrdersBefore = ordersBefore
	result.OrdersAfter = len(svc.ListOrders())
	result.Inconsistencies = verifyStore(svc, cfg, ordersBefore, col.count("AddOrder", outcomeOK))
	result.Consistent = len(result.Inconsistencies) == 0
	return result, nil
}

func dispatchJobs(jobs chan<- int, cfg config) {
	defer close(jobs)

	if cfg.duration <= 0 {
		for i := 0; i < cfg.total; i++ {
			jobs <- i
		}
		return
	}

	timer := time.NewTimer(cfg.duration)
	defer timer.Stop()

	for i := 0; ; i++ {
		if cfg.totalSet && i >= cfg.total {
			return
		}

		select {
		case <-timer.C:
			return
		case jobs <- i:
		}
	}
}

func runScenario(svc *shop.Service, cfg config, catalog []domain.Product, index int, runID string, col *collector) {
	scenarioStart := time.Now()
	scenarioResult := outcomeOK
	expected := true
	defer func() {
		col.record("scenario", time.Since(scenarioStart), scenarioResult, expected)
	}()

	order := domain.NewOrder(scenarioOrderID(cfg, runID, index), pickItems(catalog, index)...)

	result := callAddOrder(svc, order, col, cfg.mode == modeContend)
	scenarioResult = result
	expected = result == outcomeOK || (cfg.mode == modeContend && result == outcomeInvalidArgument)
	if !expected || result != outcomeOK || cfg.mode != modeAddRead {
		return
	}

	scenarioResult = callGetOrder(svc, order, col)
	expected = scenarioResult == outcomeOK
}

func callAddOrder(svc *shop.Service, order domain.Order, col *collector, duplicatesExpected bool) outcome {
	start := time.Now()
	_, err := svc.AddOrder(order)
	result := classify(err)
	col.record("AddOrder", time.Since(start), result, result == outcomeOK || (duplicatesExpected && result == outcomeInvalidArgument))
	return result
}

func callGetOrder(svc *shop.Service, want domain.Order, col *collector) outcome {
	start := time.Now()
	got, ok := svc.GetOrder(want.ID())
	result := outcomeOK
	switch {
	case !ok:
		result = outcomeNotFound
	case !got.Equal(want):
		result = outcomeMismatch
	}
	col.record("GetOrder", time.Since(start), result, result == outcomeOK)
	return result
}

// verifyStore проверяет, что каждый принятый заказ сохранён ровно один раз.
func verifyStore(svc *shop.Service, cfg config, ordersBefore int, accepted int64) []string {
	var problems []string

	orders := svc.ListOrders()
	if got, want := len(orders)-ordersBefore, int(accepted); got != want {
		problems = append(problems, fmt.Sprintf("stored %d new orders, accepted %d", got, want))
	}

	seen := make(map[string]int, len(orders))
	for _, o := range orders {
		seen[o.ID()]++
	}
	ids := make([]string, 0, len(seen))
	for id, n := range seen {
		if n > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		problems = append(problems, fmt.Sprintf("order %s stored %d times", id, seen[id]))
	}

	if cfg.mode == modeContend && accepted > int64(cfg.contendIDs) {
		problems = append(problems, fmt.Sprintf("accepted %d orders for %d contended ids", accepted, cfg.contendIDs))
	}
	return problems
}

func scenarioOrderID(cfg config, runID string, index int) string {
	if cfg.mode == modeContend {
		return fmt.Sprintf("lt-%s-shared-%d", runID, index%cfg.contendIDs)
	}
	return fmt.Sprintf("lt-%s-%d", runID, index)
}

// pickItems детерминированно выбирает от одного до трёх товаров каталога.
func pickItems(catalog []domain.Product, index int) []domain.Product {
	n := index%3 + 1
	items := make([]domain.Product, 0, n)
	for k := 0; k < n; k++ {
		items = append(items, catalog[(index+k)%len(catalog)])
	}
	return items
}

func classify(err error) outcome {
	switch {
	case err == nil:
		return outcomeOK
	case domain.IsInvalidArgument(err):
		return outcomeInvalidArgument
	default:
		return outcomeError
	}
}

func writeJSONReport(path string, result report) error {
	cleanPath := filepath.Clean(path)
	if cleanPath == "." || cleanPath == string(filepath.Separator) {
		return errors.New("output path must point to a file")
	}
	if !filepath.IsLocal(cleanPath) {
		return fmt.Errorf("output path must be inside current directory: %s", path)
	}

	// #nosec G304 -- path is an explicit CLI output parameter for local load-test reports.
	file, err := os.Create(cleanPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func printReport(w io.Writer, result report, cfg config) {
	_, _ = fmt.Fprintln(w, "Load test summary")
	_, _ = fmt.Fprintf(w, "mode=%s run=%s total=%d success=%d failed=%d error_rate=%.4f\n",
		cfg.mode,
		runTarget(cfg),
		result.TotalScenarios,
		result.SuccessScenarios,
		result.FailedScenarios,
		result.ErrorRate,
	)
	_, _ = fmt.Fprintf(w, "duration=%.2fs rps=%.2f\n", result.DurationSeconds, result.RPS)
	_, _ = fmt.Fprintf(w, "scenario latency ms: min=%.3f avg=%.3f p50=%.3f p95=%.3f p99=%.3f max=%.3f\n",
		result.ScenarioLatencyMs.Min,
		result.ScenarioLatencyMs.Avg,
		result.ScenarioLatencyMs.P50,
		result.ScenarioLatencyMs.P95,
		result.ScenarioLatencyMs.P99,
		result.ScenarioLatencyMs.Max,
	)
	_, _ = fmt.Fprintf(w, "orders: before=%d after=%d consistent=%t\n", result.OrdersBefore, result.OrdersAfter, result.Consistent)
	for _, problem := range result.Inconsistencies {
		_, _ = fmt.Fprintf(w, "  inconsistency: %s\n", problem)
	}

	methodNames := make([]string, 0, len(result.Methods))
	for name := range result.Methods {
		if name == "scenario" {
			continue
		}
		methodNames = append(methodNames, name)
	}
	sort.Strings(methodNames)
	for _, name := range methodNames {
		stats := result.Methods[name]
		_, _ = fmt.Fprintf(w,
			"%s: calls=%d success=%d failed=%d error_rate=%.4f p95=%.3fms\n",
			name,
			stats.Calls,
			stats.Success,
			stats.Failed,
			stats.ErrorRate,
			stats.LatencyMs.P95,
		)
	}
}

func runTarget(cfg config) string {
	if cfg.duration <= 0 {
		return fmt.Sprintf("count:%d", cfg.total)
	}
	if cfg.totalSet {
		return fmt.Sprintf("duration:%s,max-total:%d", cfg.duration, cfg.total)
	}
	return fmt.Sprintf("duration:%s", cfg.duration)
}

func buildLatencySummary(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, value := range sorted {
		sum += value
	}

	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(sorted, 50),
		P95: percentile(sorted, 95),
		P99: percentile(sorted, 99),
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	weight := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}

func ratio(failed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(failed) / float64(total)
}
