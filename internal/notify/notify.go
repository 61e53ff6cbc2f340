// Package notify delivers alert messages. A disabled channel is a
// silent no-op, never an error: monitoring must keep recording history
// whether or not anyone is listening.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/stockpeek/jysk-monitor/internal/models"
)

// Notifier sends one text message to the configured channel.
type Notifier interface {
	Send(text string) error
}

// Noop drops every message, used when no channel is configured.
type Noop struct{}

func (Noop) Send(string) error { return nil }

// FormatPriceAlert builds the price-change message body.
func FormatPriceAlert(target models.ProductTarget, oldPrice, newPrice float64) string {
	direction := "📉 LOWER"
	arrow := "📉"
	if newPrice > oldPrice {
		direction = "📈 HIGHER"
		arrow = "📈"
	}

	return fmt.Sprintf(`%s [JYSK PRICE ALERT] %s
SKU: %s
Link: %s

Price Change:
Previous: %.2f DH
Current: %.2f DH
Difference: %.2f DH (%s)

Time: %s`,
		arrow, arrow, target.SKU, target.URL,
		oldPrice, newPrice, abs(newPrice-oldPrice), direction,
		time.Now().Format("2006-01-02 15:04"))
}

// FormatStockAlert builds the low-stock message body, naming every
// configured store with its current quantity and limit.
func FormatStockAlert(target models.ProductTarget, facts []models.StockFact, stores []models.StoreTarget) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 [JYSK STOCK ALERT] 🚨\nSKU: %s\nLink: %s\n\nCurrent Stock:\n", target.SKU, target.URL)

	byStore := make(map[string]models.StockFact, len(facts))
	for _, f := range facts {
		byStore[f.StoreName] = f
	}
	for _, store := range stores {
		line := "N/A"
		if fact, ok := byStore[store.Name]; ok && fact.Qty != nil {
			line = fmt.Sprintf("%d pieces", *fact.Qty)
		}
		fmt.Fprintf(&b, "📍 %s: %s (limit: %d)\n", store.Name, line, store.StockThreshold)
	}

	fmt.Fprintf(&b, "\n⚠️ STOCK BELOW LIMITS\nTime: %s", time.Now().Format("2006-01-02 15:04"))
	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
