package scraper

import (
	"github.com/playwright-community/playwright-go"
)

const (
	cityInputSelector   = "input[placeholder*='ville'], input[placeholder*='city'], input[type='search'], input[aria-label*='ville'], input[aria-label*='City']"
	changeStoreSelector = "button:has-text('Changer de magasin'), button:has-text('Sélectionnez votre magasin')"
	storeRowWaitTarget  = ".store-list >> .store, .shop, li, [role='option']"

	revealClickTimeoutMs = 1500
	rowAppearTimeoutMs   = 4000
	cityTypeSettleMs     = 800
)

// SetCity forces the availability list to the configured city by
// typing into the drawer's search input. Everything here is
// best-effort: a fresh headless session sometimes has no input at all,
// and the list we already have is still worth scanning.
func (s *Scraper) SetCity(page playwright.Page, city string) {
	inputs := page.Locator(cityInputSelector)
	count, err := inputs.Count()
	if err != nil {
		s.logger.Debug("city input lookup failed", "error", err)
		return
	}

	if count == 0 {
		// A sub-panel may hide the input behind a "change store" control.
		_ = page.Locator(changeStoreSelector).First().Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(revealClickTimeoutMs),
		})
		inputs = page.Locator("input[type='search']")
		if count, err = inputs.Count(); err != nil || count == 0 {
			s.logger.Debug("no city input found", "city", city)
			return
		}
	}

	input := inputs.First()
	if err := input.Fill(""); err != nil {
		s.logger.Debug("could not clear city input", "error", err)
		return
	}
	// Per-keystroke delay triggers the widget's incremental search.
	if err := input.PressSequentially(city, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(float64(s.cfg.TypeDelay.Milliseconds())),
	}); err != nil {
		s.logger.Debug("typing city failed", "city", city, "error", err)
		return
	}

	page.WaitForTimeout(cityTypeSettleMs)
	_ = page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})

	// Rows may repopulate slowly; an expired wait here is fine.
	_, _ = page.WaitForSelector(storeRowWaitTarget, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(rowAppearTimeoutMs),
	})

	s.logger.Info("city selected", "city", city)
}
