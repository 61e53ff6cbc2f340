package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/stockpeek/jysk-monitor/internal/textnorm"
)

// quantitySelectors are scanned in order for a digit-bearing
// sub-element; badges and explicit quantity labels are the most
// trustworthy, bare spans the least.
var quantitySelectors = []string{
	".qty, [data-testid*='qty'], .badge",
	".stock, .availability",
	"span, div",
}

// maxQuantityCandidates bounds how many sub-elements per selector get
// read; generic span/div matches can be numerous.
const maxQuantityCandidates = 8

var digitsRx = regexp.MustCompile(`\d+`)

// ClassifyRow extracts a quantity and raw evidence text from a found
// store row. Three tiers, first success wins: an exact count in a
// sub-element, a binary availability keyword in the row text, or
// nothing machine-readable (quantity absent). Different storefront
// states expose exactly one of those shapes.
func (s *Scraper) ClassifyRow(row playwright.Locator) (*int, string) {
	var candidates []string
	for _, sel := range quantitySelectors {
		els := row.Locator(sel)
		count, err := els.Count()
		if err != nil {
			continue
		}
		if count > maxQuantityCandidates {
			count = maxQuantityCandidates
		}
		for i := 0; i < count; i++ {
			txt, err := els.Nth(i).InnerText(playwright.LocatorInnerTextOptions{
				Timeout: playwright.Float(rowReadTimeoutMs),
			})
			if err != nil {
				continue
			}
			candidates = append(candidates, txt)
		}
	}

	rowText, err := row.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(rowReadTimeoutMs),
	})
	if err != nil {
		rowText = ""
	}

	return Classify(candidates, rowText, s.cfg.KeywordsOut, s.cfg.KeywordsIn)
}

// Classify applies the tiered classification to already-read text: the
// first digit-bearing candidate wins outright, then the keyword
// dictionaries decide, then the quantity stays absent.
func Classify(candidates []string, rowText string, keywordsOut, keywordsIn []string) (*int, string) {
	for _, txt := range candidates {
		if qty, ok := FirstQuantity(txt); ok {
			q := qty
			return &q, txt
		}
	}
	return ClassifyText(rowText, keywordsOut, keywordsIn), rowText
}

// FirstQuantity parses the first run of digits in the text.
func FirstQuantity(text string) (int, bool) {
	m := digitsRx.FindString(text)
	if m == "" {
		return 0, false
	}
	qty, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return qty, true
}

// ClassifyText maps row text onto a quantity using the configured
// keyword dictionaries: an "unavailable" phrase means zero, an
// "available" phrase means a floor of one because the storefront
// exposes no exact count in that state, anything else stays unknown.
func ClassifyText(rowText string, keywordsOut, keywordsIn []string) *int {
	norm := textnorm.Normalize(rowText)
	if norm == "" {
		return nil
	}
	for _, kw := range keywordsOut {
		if kwNorm := textnorm.Normalize(kw); kwNorm != "" && strings.Contains(norm, kwNorm) {
			zero := 0
			return &zero
		}
	}
	for _, kw := range keywordsIn {
		if kwNorm := textnorm.Normalize(kw); kwNorm != "" && strings.Contains(norm, kwNorm) {
			one := 1
			return &one
		}
	}
	return nil
}
