package scraper

import (
	"github.com/playwright-community/playwright-go"

	"github.com/stockpeek/jysk-monitor/internal/textnorm"
)

const (
	storeListSelector = ".store-list, [data-testid*='store-list'], [role='listbox'], .drawer"
	storeRowSelector  = ".store, .shop, li, [role='option'], [data-testid*='store']"
	scrollMoreScript  = "el => { el.scrollBy(0, el.clientHeight || 600) }"
	rowReadTimeoutMs  = 1000
)

// ScanOutcome is the terminal result of a store-row scan.
type ScanOutcome int

const (
	RowFound ScanOutcome = iota
	RowNotFound
	ScanError
)

// rowScan drives a bounded scan over a list that may be virtualized,
// i.e. only a window of rows exists in the DOM at once. The callbacks
// isolate the page plumbing so the budget and skip-on-stale behavior
// hold regardless of what the DOM does.
type rowScan struct {
	passes     int
	enumerate  func() (int, error)         // rendered row count this pass
	read       func(i int) (string, error) // row text; errors skip the row
	renderMore func()                      // force more rows to render
}

// find returns the index of the first row whose normalized text
// contains targetNorm, scanning at most rs.passes times.
func (rs rowScan) find(targetNorm string) (int, ScanOutcome) {
	for pass := 0; pass < rs.passes; pass++ {
		n, err := rs.enumerate()
		if err != nil {
			return 0, ScanError
		}
		for i := 0; i < n; i++ {
			txt, err := rs.read(i)
			if err != nil {
				// Virtualized rows detach while being read; skip.
				continue
			}
			if MatchesTarget(txt, targetNorm) {
				return i, RowFound
			}
		}
		rs.renderMore()
	}
	return 0, RowNotFound
}

// FindStoreRow locates the row for one store inside the availability
// list. Each pass enumerates the currently rendered rows; between
// passes the container is scrolled by one viewport height, or a
// PageDown is sent when the container refuses programmatic scrolling,
// to force more rows to render. RowNotFound after the pass budget is a
// legitimate outcome, not an error.
func (s *Scraper) FindStoreRow(page playwright.Page, targetName, rowSelectorHint string) (playwright.Locator, ScanOutcome) {
	targetNorm := textnorm.Normalize(targetName)

	container := page.Locator(storeListSelector).First()
	if count, err := container.Count(); err != nil || count == 0 {
		container = page.Locator("body")
	}

	rowSelector := storeRowSelector
	if rowSelectorHint != "" {
		rowSelector = rowSelectorHint
	}
	rows := container.Locator(rowSelector)

	scan := rowScan{
		passes: s.cfg.ScanPasses,
		enumerate: func() (int, error) {
			return rows.Count()
		},
		read: func(i int) (string, error) {
			return rows.Nth(i).InnerText(playwright.LocatorInnerTextOptions{
				Timeout: playwright.Float(rowReadTimeoutMs),
			})
		},
		renderMore: func() {
			if _, err := container.Evaluate(scrollMoreScript, nil); err != nil {
				_ = page.Keyboard().Press("PageDown")
			}
			page.WaitForTimeout(float64(s.cfg.ScanPassDelay.Milliseconds()))
		},
	}

	idx, outcome := scan.find(targetNorm)
	if outcome != RowFound {
		return nil, outcome
	}

	row := rows.Nth(idx)
	_ = row.ScrollIntoViewIfNeeded()
	s.logger.Debug("store row found", "store", targetName, "row", idx)
	return row, RowFound
}

// MatchesTarget reports whether row text contains the already
// normalized store name.
func MatchesTarget(rowText, targetNorm string) bool {
	if targetNorm == "" {
		return false
	}
	return textnorm.Contains(rowText, targetNorm)
}
