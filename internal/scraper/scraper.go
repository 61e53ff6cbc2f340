// Package scraper extracts price and per-store stock facts from a
// hydration-driven product page whose markup and timing carry no
// stable contract. Every lookup runs an ordered list of fallback
// strategies and every bounded wait that expires degrades the result
// instead of failing the product.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/stockpeek/jysk-monitor/internal/config"
	"github.com/stockpeek/jysk-monitor/internal/models"
	"github.com/stockpeek/jysk-monitor/internal/textnorm"
)

type Scraper struct {
	cfg    config.ScraperConfig
	stores []models.StoreTarget
	logger *slog.Logger
}

func New(cfg config.ScraperConfig, stores []models.StoreTarget) *Scraper {
	return &Scraper{
		cfg:    cfg,
		stores: stores,
		logger: slog.Default().With("component", "scraper"),
	}
}

// ScrapeProduct runs the full extraction sequence on an already
// navigated product page: settle, extract the price, open the store
// drawer, force the city, then scan and classify one row per
// configured store. Any failure is absorbed at this boundary; the
// worst outcome is an empty stock list with the sentinel price, never
// an aborted batch.
func (s *Scraper) ScrapeProduct(ctx context.Context, page playwright.Page, target models.ProductTarget) (facts []models.StockFact, price models.PriceFact) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("extraction panicked", "sku", target.SKU, "panic", r)
			facts, price = nil, models.PriceFact{}
		}
	}()

	s.logger.Info("scraping product", "sku", target.SKU, "url", target.URL)

	// Let hydration and observers settle before touching the DOM.
	page.WaitForTimeout(float64(s.cfg.SettleDelay.Milliseconds()))

	price = s.extractPrice(page)
	s.logger.Info("price extracted", "sku", target.SKU, "price", price.CurrentPrice, "onSale", price.OnSale)

	if !s.OpenStoreDrawer(page, target.ClickText) {
		s.logger.Warn("could not open store drawer", "sku", target.SKU)
		return nil, price
	}

	page.WaitForTimeout(float64(s.cfg.SettleDelay.Milliseconds()))
	s.SetCity(page, s.cfg.City)

	for _, store := range s.stores {
		select {
		case <-ctx.Done():
			s.logger.Warn("extraction cancelled", "sku", target.SKU)
			return facts, price
		default:
		}

		row, outcome := s.FindStoreRow(page, store.Name, target.RowSelector)
		if outcome != RowFound {
			s.logger.Warn("store row not found", "sku", target.SKU, "store", store.Name)
			s.captureRowMiss(page, store.Name)
			facts = append(facts, models.NewStockFact(store.Name, nil, ""))
			continue
		}

		qty, raw := s.ClassifyRow(row)
		fact := models.NewStockFact(store.Name, qty, raw)
		facts = append(facts, fact)
		s.logger.Info("stock extracted", "sku", target.SKU, "store", store.Name,
			"qty", qtyForLog(qty), "status", fact.Status)
	}

	return facts, price
}

// extractPrice reads the rendered HTML once and parses it off-page, so
// a hydration hiccup mid-read cannot strand a half-extracted fact.
func (s *Scraper) extractPrice(page playwright.Page) models.PriceFact {
	html, err := page.Content()
	if err != nil {
		s.logger.Warn("could not read page content for price", "error", err)
		return models.PriceFact{}
	}
	fact := ExtractPrice(html)
	if !fact.Known() {
		s.logger.Warn("no usable price found")
	}
	return fact
}

// captureRowMiss saves a screenshot and HTML dump for later diagnosis
// of why a configured store never appeared in the list.
func (s *Scraper) captureRowMiss(page playwright.Page, storeName string) {
	if s.cfg.DebugCaptureDir == "" {
		return
	}
	if err := os.MkdirAll(s.cfg.DebugCaptureDir, 0o755); err != nil {
		s.logger.Debug("debug dir unavailable", "error", err)
		return
	}

	slug := textnorm.Normalize(storeName)
	if len(slug) > 20 {
		slug = slug[:20]
	}
	base := fmt.Sprintf("%d_%s_%s", time.Now().Unix(), slug, uuid.NewString()[:8])

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(filepath.Join(s.cfg.DebugCaptureDir, base+".png")),
		FullPage: playwright.Bool(true),
	}); err != nil {
		s.logger.Debug("screenshot capture failed", "error", err)
	}
	if html, err := page.Content(); err == nil {
		if err := os.WriteFile(filepath.Join(s.cfg.DebugCaptureDir, base+".html"), []byte(html), 0o644); err != nil {
			s.logger.Debug("html capture failed", "error", err)
		}
	}
}

func qtyForLog(qty *int) any {
	if qty == nil {
		return "unknown"
	}
	return *qty
}
