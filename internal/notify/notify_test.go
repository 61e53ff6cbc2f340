package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stockpeek/jysk-monitor/internal/models"
)

var target = models.ProductTarget{SKU: "JU123", URL: "https://jysk.ma/p/123"}

func TestFormatPriceAlertDirection(t *testing.T) {
	msg := FormatPriceAlert(target, 199.00, 179.00)
	assert.Contains(t, msg, "SKU: JU123")
	assert.Contains(t, msg, "Previous: 199.00 DH")
	assert.Contains(t, msg, "Current: 179.00 DH")
	assert.Contains(t, msg, "Difference: 20.00 DH")
	assert.Contains(t, msg, "LOWER")

	msg = FormatPriceAlert(target, 179.00, 199.00)
	assert.Contains(t, msg, "HIGHER")
}

func TestFormatStockAlertNamesEveryStore(t *testing.T) {
	stores := []models.StoreTarget{
		{Name: "JYSK Viva Park", StockThreshold: 6},
		{Name: "JYSK Aeria Mall", StockThreshold: 8},
	}
	qty := 3
	facts := []models.StockFact{
		models.NewStockFact("JYSK Viva Park", &qty, "3 pcs"),
		models.NewStockFact("JYSK Aeria Mall", nil, ""),
	}

	msg := FormatStockAlert(target, facts, stores)
	assert.Contains(t, msg, "JYSK Viva Park: 3 pieces (limit: 6)")
	assert.Contains(t, msg, "JYSK Aeria Mall: N/A (limit: 8)")
	assert.Contains(t, msg, "STOCK BELOW LIMITS")
}

func TestFormatStockAlertZeroQuantity(t *testing.T) {
	stores := []models.StoreTarget{{Name: "JYSK Viva Park", StockThreshold: 6}}
	zero := 0
	facts := []models.StockFact{models.NewStockFact("JYSK Viva Park", &zero, "épuisé")}

	msg := FormatStockAlert(target, facts, stores)
	assert.Contains(t, msg, "JYSK Viva Park: 0 pieces (limit: 6)")
}

func TestNoopNeverFails(t *testing.T) {
	assert.NoError(t, Noop{}.Send("anything"))
}
