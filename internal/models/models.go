package models

import "time"

// StockStatus describes the availability of a product at one store.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
	StatusUnknown    StockStatus = "unknown"
)

// AlertKind is the category of an emitted alert.
type AlertKind string

const (
	AlertPriceChange AlertKind = "price_change"
	AlertStockLow    AlertKind = "stock_low"
)

// ProductTarget is one monitored product, loaded from the store.
// Immutable for the duration of a run.
type ProductTarget struct {
	ID             int64   `json:"id"`
	SKU            string  `json:"sku"`
	URL            string  `json:"url"`
	ReferencePrice float64 `json:"reference_price"`
	Active         bool    `json:"active"`

	// Optional extraction hints. When set they are tried before the
	// built-in locator strategies.
	ClickText   string `json:"click_text,omitempty"`
	RowSelector string `json:"row_selector,omitempty"`
}

// PriceFact is the price extracted from one page visit.
// A CurrentPrice of 0 is the "no usable price" sentinel; downstream
// logic must treat CurrentPrice <= 0 as unknown.
type PriceFact struct {
	CurrentPrice  float64
	OriginalPrice *float64
	OnSale        bool
}

// Known reports whether a usable price was extracted.
func (p PriceFact) Known() bool { return p.CurrentPrice > 0 }

// StockFact is the availability of a product at one store, produced
// fresh on every extraction pass. Build it through NewStockFact so the
// status always agrees with the quantity.
type StockFact struct {
	StoreName string
	Qty       *int
	Status    StockStatus
	RawText   string
}

// NewStockFact derives the status from the quantity: a positive
// quantity is in stock, zero is out of stock, absent is unknown.
func NewStockFact(storeName string, qty *int, rawText string) StockFact {
	status := StatusUnknown
	if qty != nil {
		if *qty > 0 {
			status = StatusInStock
		} else {
			status = StatusOutOfStock
		}
	}
	return StockFact{StoreName: storeName, Qty: qty, Status: status, RawText: rawText}
}

// StoreTarget is a configured store to watch, with the quantity below
// which a stock_low alert fires.
type StoreTarget struct {
	Name           string
	StockThreshold int
}

// AlertDecision is produced by the evaluator and consumed by the
// notification transport and the alert history.
type AlertDecision struct {
	Kind      AlertKind
	StoreName string
	PrevValue string
	CurrValue string
}

// Snapshot is one persisted (product, store) observation.
type Snapshot struct {
	ProductID     int64       `json:"product_id"`
	SKU           string      `json:"sku"`
	URL           string      `json:"url"`
	StoreName     string      `json:"store_name"`
	Qty           *int        `json:"qty,omitempty"`
	Status        StockStatus `json:"status"`
	Price         float64     `json:"price"`
	OriginalPrice *float64    `json:"original_price,omitempty"`
	OnSale        bool        `json:"is_on_sale"`
	RawText       string      `json:"raw,omitempty"`
	FetchedAt     time.Time   `json:"fetched_at"`
}
