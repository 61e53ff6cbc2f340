// Package monitor drives the monitoring batch: one product after
// another through extraction, persistence, evaluation and
// notification, with a jittered pause in between.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/stockpeek/jysk-monitor/internal/alert"
	"github.com/stockpeek/jysk-monitor/internal/metrics"
	"github.com/stockpeek/jysk-monitor/internal/models"
	"github.com/stockpeek/jysk-monitor/internal/notify"
	"github.com/stockpeek/jysk-monitor/internal/ratelimit"
)

const notifyChannel = "telegram"

// retryDelay spaces out cycles after a fatal failure so a broken
// substrate or store gets time to recover before the next attempt.
const retryDelay = time.Hour

// Extractor produces the facts for one product. A returned error means
// the substrate itself failed (no page at all); per-product extraction
// misses surface as empty facts plus the sentinel price instead.
type Extractor interface {
	Extract(ctx context.Context, target models.ProductTarget) ([]models.StockFact, models.PriceFact, error)
}

// Store is the slice of the persistent store the driver writes through.
type Store interface {
	ListActiveProducts(ctx context.Context) ([]models.ProductTarget, error)
	InsertSnapshots(ctx context.Context, productID int64, facts []models.StockFact, price models.PriceFact, fetchedAt time.Time) error
	InsertAlert(ctx context.Context, productID int64, scope string, decision models.AlertDecision, channel string) error
}

type Monitor struct {
	store     Store
	extractor Extractor
	evaluator *alert.Evaluator
	gate      alert.CooldownGate
	notifier  notify.Notifier
	limiter   ratelimit.RateLimiter
	stores    []models.StoreTarget
	logger    *slog.Logger
}

func New(store Store, extractor Extractor, evaluator *alert.Evaluator, gate alert.CooldownGate, notifier notify.Notifier, limiter ratelimit.RateLimiter, stores []models.StoreTarget) *Monitor {
	return &Monitor{
		store:     store,
		extractor: extractor,
		evaluator: evaluator,
		gate:      gate,
		notifier:  notifier,
		limiter:   limiter,
		stores:    stores,
		logger:    slog.Default().With("component", "monitor"),
	}
}

// RunCycle processes every active product once. Individual product
// failures are logged and skipped; only a substrate failure or an
// empty product list cuts the cycle short.
func (m *Monitor) RunCycle(ctx context.Context) error {
	runID := uuid.NewString()[:8]
	logger := m.logger.With("run", runID)

	products, err := m.store.ListActiveProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	if len(products) == 0 {
		logger.Info("no active products to monitor")
		return nil
	}
	logger.Info("cycle started", "products", len(products))

	for _, target := range products {
		if err := m.limiter.Wait(ctx); err != nil {
			logger.Warn("cycle interrupted", "error", err)
			return err
		}

		if err := m.processProduct(ctx, logger, target); err != nil {
			// Substrate-level failure: no point continuing this cycle.
			return err
		}
	}

	metrics.CyclesTotal.Inc()
	metrics.LastCycleTimestamp.SetToCurrentTime()
	logger.Info("cycle completed")
	return nil
}

func (m *Monitor) processProduct(ctx context.Context, logger *slog.Logger, target models.ProductTarget) error {
	facts, price, err := m.extractor.Extract(ctx, target)
	if err != nil {
		metrics.ProductsScraped.WithLabelValues(metrics.OutcomeFailed).Inc()
		return fmt.Errorf("extraction substrate failed for %s: %w", target.SKU, err)
	}

	switch {
	case len(facts) == 0 && !price.Known():
		metrics.ProductsScraped.WithLabelValues(metrics.OutcomeFailed).Inc()
	case len(facts) == 0:
		metrics.ProductsScraped.WithLabelValues(metrics.OutcomePartial).Inc()
	default:
		metrics.ProductsScraped.WithLabelValues(metrics.OutcomeOK).Inc()
	}
	for _, fact := range facts {
		if fact.Status == models.StatusUnknown {
			metrics.StoreRowMisses.Inc()
		}
	}

	if len(facts) > 0 {
		if err := m.store.InsertSnapshots(ctx, target.ID, facts, price, time.Now()); err != nil {
			logger.Error("failed to persist snapshots", "sku", target.SKU, "error", err)
		}
	}

	if len(facts) == 0 && !price.Known() {
		logger.Warn("nothing extracted", "sku", target.SKU)
		return nil
	}

	decisions := m.evaluator.Evaluate(ctx, target, facts, price)
	for _, decision := range decisions {
		m.dispatch(ctx, logger, target, facts, decision)
	}
	return nil
}

// dispatch sends one decision and records it exactly once: the alert
// history row and the cooldown marker are only written after the
// message went out.
func (m *Monitor) dispatch(ctx context.Context, logger *slog.Logger, target models.ProductTarget, facts []models.StockFact, decision models.AlertDecision) {
	var text, scope string
	switch decision.Kind {
	case models.AlertPriceChange:
		scope = alert.ScopePrice
		prev, _ := parsePrice(decision.PrevValue)
		curr, _ := parsePrice(decision.CurrValue)
		text = notify.FormatPriceAlert(target, prev, curr)
	case models.AlertStockLow:
		scope = alert.ScopeStock
		text = notify.FormatStockAlert(target, facts, m.stores)
	default:
		logger.Error("unknown alert kind", "kind", decision.Kind)
		return
	}

	if err := m.notifier.Send(text); err != nil {
		logger.Error("failed to send alert", "sku", target.SKU, "kind", decision.Kind, "error", err)
		return
	}
	metrics.AlertsEmitted.WithLabelValues(string(decision.Kind)).Inc()

	if err := m.store.InsertAlert(ctx, target.ID, scope, decision, notifyChannel); err != nil {
		logger.Error("failed to record alert", "sku", target.SKU, "error", err)
	}
	if err := m.gate.Record(ctx, target.ID, scope, decision.Kind); err != nil {
		logger.Error("failed to record cooldown", "sku", target.SKU, "error", err)
	}
	logger.Info("alert dispatched", "sku", target.SKU, "kind", decision.Kind)
}

func parsePrice(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// Loop runs cycles forever: a clean cycle sleeps the full interval, a
// failed one retries sooner. Cancellation stops between cycles.
func (m *Monitor) Loop(ctx context.Context, interval time.Duration) {
	for {
		sleep := interval
		if err := m.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Error("cycle failed", "error", err)
			sleep = retryDelay
			if sleep > interval {
				sleep = interval
			}
		}

		m.logger.Info("sleeping until next cycle", "duration", sleep)
		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
		}
	}
}
