// Package metrics exposes monitoring-cycle counters for the /metrics
// endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jysk_monitor_cycles_total",
		Help: "Completed monitoring cycles.",
	})

	ProductsScraped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jysk_monitor_products_scraped_total",
		Help: "Products processed, by extraction outcome.",
	}, []string{"outcome"})

	AlertsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jysk_monitor_alerts_total",
		Help: "Alert decisions emitted, by kind.",
	}, []string{"kind"})

	StoreRowMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jysk_monitor_store_row_misses_total",
		Help: "Configured stores whose row never rendered during a scan.",
	})

	LastCycleTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jysk_monitor_last_cycle_timestamp_seconds",
		Help: "Unix time of the last completed cycle.",
	})
)

const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)
