package scraper

import (
	"log/slog"

	"github.com/playwright-community/playwright-go"
)

// locatorStrategy is one named way to find an element. Strategies for
// a given capability are tried in a fixed order and the first one
// whose locator matches at least one element wins, which keeps the
// fallback chain auditable and testable instead of burying it in
// nested conditionals.
type locatorStrategy struct {
	name   string
	locate func() playwright.Locator
}

// firstMatch runs the strategies in order and returns the first
// locator that matched, together with the strategy name.
func firstMatch(strategies []locatorStrategy, logger *slog.Logger) (playwright.Locator, string, bool) {
	for _, s := range strategies {
		loc := s.locate()
		if loc == nil {
			continue
		}
		count, err := loc.Count()
		if err != nil {
			logger.Debug("strategy failed", "strategy", s.name, "error", err)
			continue
		}
		if count > 0 {
			return loc.First(), s.name, true
		}
	}
	return nil, "", false
}
