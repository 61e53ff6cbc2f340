package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/stockpeek/jysk-monitor/internal/models"
)

const (
	promoPriceSelector    = ".ssr-product-price.offerprice .ssr-product-price__value"
	originalPriceSelector = ".ssr-product-price.normalprice .ssr-product-price__value"
	regularPriceSelector  = ".ssr-product-price.normalprice .ssr-product-price__value, .ssr-product-price__value"
)

var numberRx = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// ExtractPrice reads the sale or regular price out of the rendered
// product page HTML. It never fails: when no price element parses, the
// returned fact carries the 0.0 sentinel meaning "no usable price".
func ExtractPrice(html string) models.PriceFact {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.PriceFact{}
	}

	// Promotional price first; its presence means the product is on sale.
	if promo := doc.Find(promoPriceSelector).First(); promo.Length() > 0 {
		if current, ok := ParsePriceText(promo.Text()); ok {
			fact := models.PriceFact{CurrentPrice: current}
			if orig := doc.Find(originalPriceSelector).First(); orig.Length() > 0 {
				if original, ok := ParsePriceText(orig.Text()); ok && original >= current {
					fact.OriginalPrice = &original
					fact.OnSale = true
				}
			}
			return fact
		}
	}

	if regular := doc.Find(regularPriceSelector).First(); regular.Length() > 0 {
		if current, ok := ParsePriceText(regular.Text()); ok {
			return models.PriceFact{CurrentPrice: current}
		}
	}

	return models.PriceFact{}
}

// ParsePriceText pulls the first numeric run out of arbitrary price
// text and converts it to a float. Both "1,234.50" and "1234,50" yield
// 1234.50: when both separators appear the last one is the decimal
// point, a lone comma is a decimal comma, and repeated separators are
// thousands grouping.
func ParsePriceText(text string) (float64, bool) {
	run := numberRx.FindString(text)
	if run == "" {
		return 0, false
	}

	commas := strings.Count(run, ",")
	dots := strings.Count(run, ".")

	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(run, ".") > strings.LastIndex(run, ",") {
			run = strings.ReplaceAll(run, ",", "")
		} else {
			run = strings.ReplaceAll(run, ".", "")
			run = strings.Replace(run, ",", ".", 1)
		}
	case commas == 1:
		run = strings.Replace(run, ",", ".", 1)
	case commas > 1:
		run = strings.ReplaceAll(run, ",", "")
	case dots > 1:
		run = strings.ReplaceAll(run, ".", "")
	}

	value, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// FormatPrice renders a price in the canonical two-decimal form that
// ParsePriceText round-trips.
func FormatPrice(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
