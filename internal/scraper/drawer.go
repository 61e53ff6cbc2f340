package scraper

import (
	"regexp"

	"github.com/playwright-community/playwright-go"
)

const (
	clickCollectScope = "section:has-text('Click & Collect'), div:has(h2:has-text('Click & Collect')), div:has-text('Click & Collect')"
	overlaySelector   = "[role='dialog'], .modal, .drawer, .store-selector, [data-testid*='store-selector'], .store-list, [data-testid*='store-list']"

	clickTimeoutMs   = 2500
	overlayTimeoutMs = 4000
)

// magasinRx matches the "N magasins" phrasing of the control that
// reveals the store availability list.
var magasinRx = regexp.MustCompile(`(?i)\b\d+\s+magasins?\b`)

var storeWordRx = regexp.MustCompile(`(?i)magasin`)

// OpenStoreDrawer locates the store-availability control inside the
// Click & Collect block and activates it. It reports true only when
// the resulting overlay actually became visible; any miss along the
// way is a soft failure and the caller continues without store data.
func (s *Scraper) OpenStoreDrawer(page playwright.Page, clickTextHint string) bool {
	// Scope to the Click & Collect card so unrelated buttons elsewhere
	// on the page cannot match.
	scope := page.Locator(clickCollectScope).First()
	_ = scope.ScrollIntoViewIfNeeded()

	strategies := []locatorStrategy{
		{name: "role-button-magasins", locate: func() playwright.Locator {
			return scope.GetByRole(*playwright.AriaRoleButton, playwright.LocatorGetByRoleOptions{Name: magasinRx})
		}},
		{name: "btn-link-magasin", locate: func() playwright.Locator {
			return scope.Locator("button.btn-link").Filter(playwright.LocatorFilterOptions{HasText: storeWordRx})
		}},
		{name: "any-button-magasins", locate: func() playwright.Locator {
			return scope.Locator("button").Filter(playwright.LocatorFilterOptions{HasText: magasinRx})
		}},
	}
	if clickTextHint != "" {
		hint := locatorStrategy{name: "configured-click-text", locate: func() playwright.Locator {
			return scope.Locator("button").Filter(playwright.LocatorFilterOptions{HasText: clickTextHint})
		}}
		strategies = append([]locatorStrategy{hint}, strategies...)
	}

	btn, strategyName, ok := firstMatch(strategies, s.logger)
	if !ok {
		s.logger.Warn("store drawer control not found in Click & Collect section")
		return false
	}

	_ = btn.ScrollIntoViewIfNeeded()
	if err := btn.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(clickTimeoutMs)}); err != nil {
		// Overlays sometimes swallow pointer events; a scripted click
		// still reaches the element.
		if _, jsErr := btn.Evaluate("el => el.click()", nil); jsErr != nil {
			s.logger.Debug("scripted click failed", "error", jsErr)
		}
	}

	overlay := page.Locator(overlaySelector).First()
	err := overlay.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(overlayTimeoutMs),
	})
	if err != nil {
		return false
	}

	s.logger.Info("store drawer opened", "strategy", strategyName)
	return true
}
