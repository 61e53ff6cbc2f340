package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/stockpeek/jysk-monitor/internal/alert"
	"github.com/stockpeek/jysk-monitor/internal/api"
	"github.com/stockpeek/jysk-monitor/internal/browser"
	"github.com/stockpeek/jysk-monitor/internal/config"
	"github.com/stockpeek/jysk-monitor/internal/cooldown"
	"github.com/stockpeek/jysk-monitor/internal/csvio"
	"github.com/stockpeek/jysk-monitor/internal/database"
	"github.com/stockpeek/jysk-monitor/internal/monitor"
	"github.com/stockpeek/jysk-monitor/internal/notify"
	"github.com/stockpeek/jysk-monitor/internal/ratelimit"
	"github.com/stockpeek/jysk-monitor/internal/scraper"
	"github.com/stockpeek/jysk-monitor/pkg/logger"
)

func main() {
	var (
		every     = flag.Duration("every", 0, "Run continuously with this interval between cycles (0 = run once)")
		headless  = flag.Bool("headless", true, "Run browser in headless mode")
		importCSV = flag.String("import-csv", "", "Import products from a CSV file and exit")
		exportCSV = flag.String("export-csv", "", "Export latest snapshots to a CSV file and exit")
	)
	flag.Parse()

	// Optional, the environment wins over the file.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.Browser.Headless = cfg.Browser.Headless && *headless

	lg := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	lg.Info("Starting JYSK stock monitor")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		lg.Info("Shutdown signal received")
		cancel()
	}()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		lg.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		lg.Error("Failed to initialize schema", "error", err)
		os.Exit(1)
	}

	if *importCSV != "" {
		runImport(ctx, lg, db, *importCSV)
		return
	}
	if *exportCSV != "" {
		runExport(ctx, lg, db, *exportCSV)
		return
	}

	if cfg.Server.Addr != "" {
		srv := api.NewServer(cfg.Server.Addr, db)
		go srv.Start(ctx)
	}

	b, err := browser.New(cfg.Browser)
	if err != nil {
		lg.Error("Failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	gate, closeGate := buildGate(cfg, db)
	defer closeGate()

	notifier, err := notify.NewTelegram(cfg.Telegram)
	if err != nil {
		lg.Error("Failed to initialize Telegram", "error", err)
		os.Exit(1)
	}

	s := scraper.New(cfg.Scraper, cfg.Stores)
	extractor := monitor.NewBrowserExtractor(b, s, cfg.Scraper.NavRetries)
	evaluator := alert.NewEvaluator(cfg.Alerts, cfg.Stores, gate)
	limiter := ratelimit.NewSimpleRateLimiter(cfg.Scraper.ProductPauseMin, cfg.Scraper.ProductPauseMax)

	m := monitor.New(db, extractor, evaluator, gate, notifier, limiter, cfg.Stores)

	if *every > 0 {
		m.Loop(ctx, *every)
		lg.Info("Monitor stopped")
		return
	}

	if err := m.RunCycle(ctx); err != nil && ctx.Err() == nil {
		lg.Error("Cycle failed", "error", err)
		os.Exit(1)
	}
}

// buildGate prefers Redis for the alert cooldown and falls back to
// counting recent alert rows in Postgres when no Redis is configured.
func buildGate(cfg *config.Config, db *database.DB) (alert.CooldownGate, func()) {
	if cfg.Redis.Addr != "" {
		gate := cooldown.NewRedisGate(cfg.Redis, cfg.Alerts.Cooldown)
		return gate, func() { _ = gate.Close() }
	}
	return cooldown.NewHistoryGate(db, cfg.Alerts.Cooldown), func() {}
}

func runImport(ctx context.Context, lg *slog.Logger, db *database.DB, path string) {
	f, err := os.Open(path)
	if err != nil {
		lg.Error("Failed to open CSV", "path", path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	n, err := csvio.ImportProducts(ctx, f, db)
	if err != nil {
		lg.Error("Import failed", "error", err)
		os.Exit(1)
	}
	lg.Info("Products imported", "count", n)
}

func runExport(ctx context.Context, lg *slog.Logger, db *database.DB, path string) {
	snapshots, err := db.LatestSnapshots(ctx)
	if err != nil {
		lg.Error("Failed to load snapshots", "error", err)
		os.Exit(1)
	}

	f, err := os.Create(path)
	if err != nil {
		lg.Error("Failed to create CSV", "path", path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := csvio.ExportSnapshots(f, snapshots); err != nil {
		lg.Error("Export failed", "error", err)
		os.Exit(1)
	}
	lg.Info("Snapshots exported", "count", len(snapshots), "path", path)
}
