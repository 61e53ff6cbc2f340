package alert

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpeek/jysk-monitor/internal/config"
	"github.com/stockpeek/jysk-monitor/internal/models"
)

// fakeGate simulates cooldown history in memory: once an alert is
// recorded, the same (product, scope, kind) is denied until reset.
type fakeGate struct {
	sent map[string]bool
	err  error
}

func newFakeGate() *fakeGate { return &fakeGate{sent: map[string]bool{}} }

func (g *fakeGate) key(productID int64, scope string, kind models.AlertKind) string {
	return fmt.Sprintf("%d|%s|%s", productID, scope, kind)
}

func (g *fakeGate) Allow(_ context.Context, productID int64, scope string, kind models.AlertKind) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	return !g.sent[g.key(productID, scope, kind)], nil
}

func (g *fakeGate) Record(_ context.Context, productID int64, scope string, kind models.AlertKind) error {
	g.sent[g.key(productID, scope, kind)] = true
	return nil
}

var testStores = []models.StoreTarget{
	{Name: "JYSK Viva Park", StockThreshold: 6},
	{Name: "JYSK Aeria Mall", StockThreshold: 8},
}

func testTarget(ref float64) models.ProductTarget {
	return models.ProductTarget{ID: 1, SKU: "JU123", URL: "https://jysk.ma/p/123", ReferencePrice: ref}
}

func absoluteCfg() config.AlertsConfig {
	return config.AlertsConfig{Cooldown: 24 * time.Hour}
}

func percentCfg(threshold float64) config.AlertsConfig {
	return config.AlertsConfig{Cooldown: 24 * time.Hour, PercentMode: true, PercentThreshold: threshold}
}

func stockFact(store string, qty int) models.StockFact {
	return models.NewStockFact(store, &qty, "")
}

func TestEvaluateEndToEndScenario(t *testing.T) {
	// Reference 199, extracted 179 on sale, quantities 3 and 10 against
	// thresholds 6 and 8: one price_change plus one aggregated stock_low.
	gate := newFakeGate()
	ev := NewEvaluator(absoluteCfg(), testStores, gate)

	orig := 199.0
	price := models.PriceFact{CurrentPrice: 179.0, OriginalPrice: &orig, OnSale: true}
	facts := []models.StockFact{
		stockFact("JYSK Viva Park", 3),
		stockFact("JYSK Aeria Mall", 10),
	}

	decisions := ev.Evaluate(context.Background(), testTarget(199.0), facts, price)
	require.Len(t, decisions, 2)

	assert.Equal(t, models.AlertPriceChange, decisions[0].Kind)
	assert.Equal(t, "199.00", decisions[0].PrevValue)
	assert.Equal(t, "179.00", decisions[0].CurrValue)
	assert.Equal(t, models.AlertStockLow, decisions[1].Kind)
}

func TestEvaluatePriceSentinelNeverAlerts(t *testing.T) {
	ev := NewEvaluator(absoluteCfg(), testStores, newFakeGate())

	decisions := ev.Evaluate(context.Background(), testTarget(199.0), nil, models.PriceFact{})
	assert.Empty(t, decisions)

	// Unknown reference price is equally disqualifying.
	decisions = ev.Evaluate(context.Background(), testTarget(0), nil, models.PriceFact{CurrentPrice: 100})
	assert.Empty(t, decisions)
}

func TestEvaluatePercentMode(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		triggers bool
	}{
		{name: "4 percent change stays quiet", current: 104, triggers: false},
		{name: "6 percent change triggers", current: 106, triggers: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvaluator(percentCfg(5), testStores, newFakeGate())
			decisions := ev.Evaluate(context.Background(), testTarget(100),
				nil, models.PriceFact{CurrentPrice: tt.current})
			if tt.triggers {
				require.Len(t, decisions, 1)
				assert.Equal(t, models.AlertPriceChange, decisions[0].Kind)
			} else {
				assert.Empty(t, decisions)
			}
		})
	}
}

func TestEvaluateAbsoluteFloor(t *testing.T) {
	ev := NewEvaluator(absoluteCfg(), testStores, newFakeGate())

	decisions := ev.Evaluate(context.Background(), testTarget(100),
		nil, models.PriceFact{CurrentPrice: 100.005})
	assert.Empty(t, decisions)

	decisions = ev.Evaluate(context.Background(), testTarget(100),
		nil, models.PriceFact{CurrentPrice: 100.01})
	require.Len(t, decisions, 1)
}

func TestEvaluateCooldownSuppressesSecondCall(t *testing.T) {
	gate := newFakeGate()
	ev := NewEvaluator(absoluteCfg(), testStores, gate)
	price := models.PriceFact{CurrentPrice: 150}

	first := ev.Evaluate(context.Background(), testTarget(199), nil, price)
	require.Len(t, first, 1)
	for _, d := range first {
		require.NoError(t, gate.Record(context.Background(), 1, ScopePrice, d.Kind))
	}

	second := ev.Evaluate(context.Background(), testTarget(199), nil, price)
	assert.Empty(t, second)
}

func TestEvaluateStockAggregatesAcrossStores(t *testing.T) {
	ev := NewEvaluator(absoluteCfg(), testStores, newFakeGate())

	// Both stores below limit still yield a single stock_low decision.
	facts := []models.StockFact{
		stockFact("JYSK Viva Park", 1),
		stockFact("JYSK Aeria Mall", 2),
	}
	decisions := ev.Evaluate(context.Background(), testTarget(0), facts, models.PriceFact{})
	require.Len(t, decisions, 1)
	assert.Equal(t, models.AlertStockLow, decisions[0].Kind)
}

func TestEvaluateStockIgnoresUnknownAndUnconfigured(t *testing.T) {
	ev := NewEvaluator(absoluteCfg(), testStores, newFakeGate())

	facts := []models.StockFact{
		models.NewStockFact("JYSK Viva Park", nil, ""), // unknown qty
		stockFact("JYSK Rabat", 0),                     // not configured
		stockFact("JYSK Aeria Mall", 9),                // above threshold
	}
	decisions := ev.Evaluate(context.Background(), testTarget(0), facts, models.PriceFact{})
	assert.Empty(t, decisions)
}

func TestEvaluateGateErrorSuppresses(t *testing.T) {
	gate := newFakeGate()
	gate.err = assert.AnError
	ev := NewEvaluator(absoluteCfg(), testStores, gate)

	decisions := ev.Evaluate(context.Background(), testTarget(199), nil,
		models.PriceFact{CurrentPrice: 150})
	assert.Empty(t, decisions)
}

func TestEvaluatePartialFailureStillChecksPrice(t *testing.T) {
	// Drawer failure yields an empty stock list; the price rule still
	// runs on the successfully extracted price.
	ev := NewEvaluator(absoluteCfg(), testStores, newFakeGate())

	decisions := ev.Evaluate(context.Background(), testTarget(199.0),
		[]models.StockFact{}, models.PriceFact{CurrentPrice: 179.0})
	require.Len(t, decisions, 1)
	assert.Equal(t, models.AlertPriceChange, decisions[0].Kind)
}
