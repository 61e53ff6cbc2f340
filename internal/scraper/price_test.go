package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{name: "dot decimal with thousands comma", input: "1,234.50 DH", expected: 1234.50, ok: true},
		{name: "comma decimal", input: "1234,50", expected: 1234.50, ok: true},
		{name: "european thousands dot", input: "2.999,95 DH", expected: 2999.95, ok: true},
		{name: "plain integer", input: "199 DH", expected: 199, ok: true},
		{name: "surrounding text", input: "Prix: 179,00 DH TTC", expected: 179, ok: true},
		{name: "no digits", input: "prix indisponible", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePriceText(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 0.001)
			}
		})
	}
}

func TestParsePriceRoundTrip(t *testing.T) {
	for _, input := range []string{"1,234.50", "1234,50", "199,00 DH", "89.99"} {
		first, ok := ParsePriceText(input)
		require.True(t, ok, input)

		again, ok := ParsePriceText(FormatPrice(first))
		require.True(t, ok, input)
		assert.Equal(t, first, again, input)
	}
}

func TestExtractPriceOnSale(t *testing.T) {
	html := `<div>
		<div class="ssr-product-price offerprice"><span class="ssr-product-price__value">179,00 DH</span></div>
		<div class="ssr-product-price normalprice"><span class="ssr-product-price__value">199,00 DH</span></div>
	</div>`

	fact := ExtractPrice(html)
	assert.InDelta(t, 179.0, fact.CurrentPrice, 0.001)
	require.True(t, fact.OnSale)
	require.NotNil(t, fact.OriginalPrice)
	assert.InDelta(t, 199.0, *fact.OriginalPrice, 0.001)
	assert.GreaterOrEqual(t, *fact.OriginalPrice, fact.CurrentPrice)
}

func TestExtractPriceRegular(t *testing.T) {
	html := `<div class="ssr-product-price normalprice">
		<span class="ssr-product-price__value">1.299,00 DH</span>
	</div>`

	fact := ExtractPrice(html)
	assert.InDelta(t, 1299.0, fact.CurrentPrice, 0.001)
	assert.False(t, fact.OnSale)
	assert.Nil(t, fact.OriginalPrice)
}

func TestExtractPricePromoWithoutOriginal(t *testing.T) {
	// A promo price with no companion original must not claim on_sale:
	// the fact invariant requires the original alongside it.
	html := `<div class="ssr-product-price offerprice">
		<span class="ssr-product-price__value">149,00 DH</span>
	</div>`

	fact := ExtractPrice(html)
	assert.InDelta(t, 149.0, fact.CurrentPrice, 0.001)
	assert.False(t, fact.OnSale)
	assert.Nil(t, fact.OriginalPrice)
}

func TestExtractPriceSentinel(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{name: "no price markup", html: `<div class="product-title">Chaise GODSKE</div>`},
		{name: "non-numeric price text", html: `<span class="ssr-product-price__value">bientôt disponible</span>`},
		{name: "empty document", html: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fact := ExtractPrice(tt.html)
			assert.Zero(t, fact.CurrentPrice)
			assert.False(t, fact.Known())
			assert.False(t, fact.OnSale)
		})
	}
}
