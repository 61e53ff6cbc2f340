package monitor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stockpeek/jysk-monitor/internal/browser"
	"github.com/stockpeek/jysk-monitor/internal/models"
	"github.com/stockpeek/jysk-monitor/internal/scraper"
)

// BrowserExtractor runs the page scraper against a fresh browser page
// per product, so one product's page state never leaks into the next.
// A navigation failure after all retries produces an empty extraction,
// not an error; only a failure to obtain a page at all is fatal.
type BrowserExtractor struct {
	browser    *browser.Browser
	scraper    *scraper.Scraper
	navRetries int
	logger     *slog.Logger
}

func NewBrowserExtractor(b *browser.Browser, s *scraper.Scraper, navRetries int) *BrowserExtractor {
	return &BrowserExtractor{
		browser:    b,
		scraper:    s,
		navRetries: navRetries,
		logger:     slog.Default().With("component", "extractor"),
	}
}

func (e *BrowserExtractor) Extract(ctx context.Context, target models.ProductTarget) ([]models.StockFact, models.PriceFact, error) {
	page, err := e.browser.NewPage()
	if err != nil {
		return nil, models.PriceFact{}, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if err := e.browser.NavigateWithRetry(page, target.URL, e.navRetries); err != nil {
		e.logger.Error("navigation failed", "sku", target.SKU, "error", err)
		return nil, models.PriceFact{}, nil
	}

	facts, price := e.scraper.ScrapeProduct(ctx, page, target)
	return facts, price, nil
}
