package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpeek/jysk-monitor/internal/alert"
	"github.com/stockpeek/jysk-monitor/internal/config"
	"github.com/stockpeek/jysk-monitor/internal/models"
)

type fakeStore struct {
	products   []models.ProductTarget
	listErr    error
	snapshots  int
	alerts     []string
	insertErr  error
	lastScope  string
	lastFactsN int
}

func (s *fakeStore) ListActiveProducts(ctx context.Context) ([]models.ProductTarget, error) {
	return s.products, s.listErr
}

func (s *fakeStore) InsertSnapshots(ctx context.Context, productID int64, facts []models.StockFact, price models.PriceFact, fetchedAt time.Time) error {
	s.snapshots++
	s.lastFactsN = len(facts)
	return s.insertErr
}

func (s *fakeStore) InsertAlert(ctx context.Context, productID int64, scope string, decision models.AlertDecision, channel string) error {
	s.alerts = append(s.alerts, string(decision.Kind))
	s.lastScope = scope
	return nil
}

type fakeExtractor struct {
	facts []models.StockFact
	price models.PriceFact
	err   error
	calls int
}

func (e *fakeExtractor) Extract(ctx context.Context, target models.ProductTarget) ([]models.StockFact, models.PriceFact, error) {
	e.calls++
	return e.facts, e.price, e.err
}

type fakeGate struct {
	recorded int
	denied   bool
}

func (g *fakeGate) Allow(ctx context.Context, productID int64, scope string, kind models.AlertKind) (bool, error) {
	return !g.denied, nil
}

func (g *fakeGate) Record(ctx context.Context, productID int64, scope string, kind models.AlertKind) error {
	g.recorded++
	return nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) Send(text string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, text)
	return nil
}

type noWait struct{ calls int }

func (w *noWait) Wait(ctx context.Context) error {
	w.calls++
	return ctx.Err()
}

func intPtr(v int) *int { return &v }

func testStores() []models.StoreTarget {
	return []models.StoreTarget{
		{Name: "JYSK Viva Park", StockThreshold: 6},
		{Name: "JYSK Aeria Mall", StockThreshold: 8},
	}
}

func buildMonitor(store *fakeStore, extractor *fakeExtractor, gate *fakeGate, notifier *fakeNotifier) (*Monitor, *noWait) {
	stores := testStores()
	evaluator := alert.NewEvaluator(config.AlertsConfig{Cooldown: 24 * time.Hour}, stores, gate)
	limiter := &noWait{}
	return New(store, extractor, evaluator, gate, notifier, limiter, stores), limiter
}

func TestRunCycleDispatchesAlerts(t *testing.T) {
	store := &fakeStore{
		products: []models.ProductTarget{
			{ID: 1, SKU: "JY-100", URL: "https://jysk.ma/p/100", ReferencePrice: 199.0},
		},
	}
	extractor := &fakeExtractor{
		facts: []models.StockFact{
			models.NewStockFact("JYSK Viva Park", intPtr(3), "3 en stock"),
			models.NewStockFact("JYSK Aeria Mall", intPtr(10), "10 en stock"),
		},
		price: models.PriceFact{CurrentPrice: 179.0},
	}
	gate := &fakeGate{}
	notifier := &fakeNotifier{}
	m, limiter := buildMonitor(store, extractor, gate, notifier)

	err := m.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, limiter.calls)
	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, 1, store.snapshots)
	assert.Equal(t, 2, store.lastFactsN)

	// Price change plus one aggregated low-stock alert.
	require.Len(t, notifier.sent, 2)
	assert.ElementsMatch(t, []string{"price_change", "stock_low"}, store.alerts)
	assert.Equal(t, 2, gate.recorded)
}

func TestRunCycleSendFailureSkipsRecording(t *testing.T) {
	store := &fakeStore{
		products: []models.ProductTarget{
			{ID: 1, SKU: "JY-100", URL: "https://jysk.ma/p/100", ReferencePrice: 199.0},
		},
	}
	extractor := &fakeExtractor{
		price: models.PriceFact{CurrentPrice: 150.0},
		facts: []models.StockFact{models.NewStockFact("JYSK Viva Park", intPtr(9), "9 en stock")},
	}
	gate := &fakeGate{}
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	m, _ := buildMonitor(store, extractor, gate, notifier)

	err := m.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Empty(t, store.alerts)
	assert.Zero(t, gate.recorded)
}

func TestRunCycleNothingExtracted(t *testing.T) {
	store := &fakeStore{
		products: []models.ProductTarget{{ID: 1, SKU: "JY-100", ReferencePrice: 199.0}},
	}
	extractor := &fakeExtractor{} // no facts, sentinel price
	gate := &fakeGate{}
	notifier := &fakeNotifier{}
	m, _ := buildMonitor(store, extractor, gate, notifier)

	err := m.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Zero(t, store.snapshots)
	assert.Empty(t, notifier.sent)
}

func TestRunCycleSubstrateFailureAborts(t *testing.T) {
	store := &fakeStore{
		products: []models.ProductTarget{
			{ID: 1, SKU: "JY-100"},
			{ID: 2, SKU: "JY-200"},
		},
	}
	extractor := &fakeExtractor{err: errors.New("browser crashed")}
	m, _ := buildMonitor(store, extractor, &fakeGate{}, &fakeNotifier{})

	err := m.RunCycle(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, extractor.calls)
}

func TestRunCycleCancelledBetweenProducts(t *testing.T) {
	store := &fakeStore{
		products: []models.ProductTarget{{ID: 1, SKU: "JY-100"}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, _ := buildMonitor(store, &fakeExtractor{}, &fakeGate{}, &fakeNotifier{})
	err := m.RunCycle(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCycleListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}
	m, _ := buildMonitor(store, &fakeExtractor{}, &fakeGate{}, &fakeNotifier{})

	err := m.RunCycle(context.Background())
	assert.Error(t, err)
}
