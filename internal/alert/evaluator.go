// Package alert decides which notifications a fresh set of extracted
// facts warrants. The evaluator only returns decisions; sending and
// cooldown recording stay with the caller.
package alert

import (
	"context"
	"log/slog"
	"math"

	"github.com/stockpeek/jysk-monitor/internal/config"
	"github.com/stockpeek/jysk-monitor/internal/models"
	"github.com/stockpeek/jysk-monitor/internal/scraper"
)

// Cooldown scopes, kept as the history rows record them.
const (
	ScopePrice = "price_change"
	ScopeStock = "stock"
)

// priceFloor is the minimal absolute difference, in currency units,
// that counts as a price change when percent mode is off.
const priceFloor = 0.01

// CooldownGate answers "may this alert be sent now". Implementations
// back it with the alert history or a TTL store; the evaluator treats
// it as an opaque yes/no.
type CooldownGate interface {
	Allow(ctx context.Context, productID int64, scope string, kind models.AlertKind) (bool, error)
	Record(ctx context.Context, productID int64, scope string, kind models.AlertKind) error
}

type Evaluator struct {
	cfg        config.AlertsConfig
	gate       CooldownGate
	thresholds map[string]int
	logger     *slog.Logger
}

func NewEvaluator(cfg config.AlertsConfig, stores []models.StoreTarget, gate CooldownGate) *Evaluator {
	thresholds := make(map[string]int, len(stores))
	for _, s := range stores {
		thresholds[s.Name] = s.StockThreshold
	}
	return &Evaluator{
		cfg:        cfg,
		gate:       gate,
		thresholds: thresholds,
		logger:     slog.Default().With("component", "evaluator"),
	}
}

// Evaluate compares the facts of one extraction pass against the
// reference price and the per-store thresholds. It emits at most one
// price_change and at most one stock_low decision per call; the
// stock_low decision aggregates across all stores below their limit.
func (e *Evaluator) Evaluate(ctx context.Context, target models.ProductTarget, facts []models.StockFact, price models.PriceFact) []models.AlertDecision {
	var decisions []models.AlertDecision

	if d := e.evaluatePrice(ctx, target, price); d != nil {
		decisions = append(decisions, *d)
	}
	if d := e.evaluateStock(ctx, target, facts); d != nil {
		decisions = append(decisions, *d)
	}
	return decisions
}

func (e *Evaluator) evaluatePrice(ctx context.Context, target models.ProductTarget, price models.PriceFact) *models.AlertDecision {
	// Both sides must be known prices; the 0.0 sentinel never alerts.
	if !price.Known() || target.ReferencePrice <= 0 {
		return nil
	}

	diff := math.Abs(price.CurrentPrice - target.ReferencePrice)
	triggered := diff >= priceFloor
	if e.cfg.PercentMode {
		triggered = diff/target.ReferencePrice*100 >= e.cfg.PercentThreshold
	}
	if !triggered {
		return nil
	}

	if !e.allowed(ctx, target.ID, ScopePrice, models.AlertPriceChange) {
		return nil
	}

	return &models.AlertDecision{
		Kind:      models.AlertPriceChange,
		PrevValue: scraper.FormatPrice(target.ReferencePrice),
		CurrValue: scraper.FormatPrice(price.CurrentPrice),
	}
}

func (e *Evaluator) evaluateStock(ctx context.Context, target models.ProductTarget, facts []models.StockFact) *models.AlertDecision {
	belowLimit := false
	for _, fact := range facts {
		threshold, configured := e.thresholds[fact.StoreName]
		if !configured || fact.Qty == nil {
			continue
		}
		if *fact.Qty < threshold {
			belowLimit = true
			e.logger.Info("stock below limit", "sku", target.SKU,
				"store", fact.StoreName, "qty", *fact.Qty, "threshold", threshold)
		}
	}
	if !belowLimit {
		return nil
	}

	if !e.allowed(ctx, target.ID, ScopeStock, models.AlertStockLow) {
		return nil
	}

	// One aggregated decision regardless of how many stores dipped: the
	// notification text names the individual stores.
	return &models.AlertDecision{Kind: models.AlertStockLow}
}

// allowed consults the cooldown gate; a gate failure suppresses the
// alert rather than risking a duplicate.
func (e *Evaluator) allowed(ctx context.Context, productID int64, scope string, kind models.AlertKind) bool {
	ok, err := e.gate.Allow(ctx, productID, scope, kind)
	if err != nil {
		e.logger.Error("cooldown gate failed", "scope", scope, "error", err)
		return false
	}
	if !ok {
		e.logger.Debug("alert suppressed by cooldown", "scope", scope, "kind", kind)
	}
	return ok
}
