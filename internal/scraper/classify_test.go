package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keywordsOut = []string{"épuisé", "rupture", "pas de stock", "out of stock", "sold out"}
	keywordsIn  = []string{"en stock", "disponible", "in stock", "available"}
)

func TestFirstQuantity(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		ok       bool
	}{
		{input: "3 pcs", expected: 3, ok: true},
		{input: "Stock: 12", expected: 12, ok: true},
		{input: "0", expected: 0, ok: true},
		{input: "en stock", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := FirstQuantity(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		if tt.ok {
			assert.Equal(t, tt.expected, got, tt.input)
		}
	}
}

func TestClassifyDigitsBeatKeywords(t *testing.T) {
	// A digit-bearing sub-element wins even when the row text carries a
	// conflicting availability keyword.
	qty, raw := Classify([]string{"3 pcs"}, "JYSK Viva Park - disponible", keywordsOut, keywordsIn)
	require.NotNil(t, qty)
	assert.Equal(t, 3, *qty)
	assert.Equal(t, "3 pcs", raw)
}

func TestClassifyKeywordFallback(t *testing.T) {
	tests := []struct {
		name     string
		rowText  string
		expected *int
	}{
		{name: "french out of stock", rowText: "JYSK Anfa Place — Épuisé", expected: intPtr(0)},
		{name: "english out of stock", rowText: "Out of stock at this store", expected: intPtr(0)},
		{name: "french available floors at one", rowText: "Disponible en magasin", expected: intPtr(1)},
		{name: "english available", rowText: "In Stock", expected: intPtr(1)},
		{name: "nothing machine readable", rowText: "JYSK Viva Park, Casablanca", expected: nil},
		{name: "empty row", rowText: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, raw := Classify(nil, tt.rowText, keywordsOut, keywordsIn)
			assert.Equal(t, tt.rowText, raw)
			if tt.expected == nil {
				assert.Nil(t, qty)
				return
			}
			require.NotNil(t, qty)
			assert.Equal(t, *tt.expected, *qty)
		})
	}
}

func TestClassifyUnavailableBeatsAvailable(t *testing.T) {
	// "pas de stock" contains no digits and matches the unavailable set
	// before the available set ever gets a look.
	qty, _ := Classify(nil, "pas de stock - habituellement disponible", keywordsOut, keywordsIn)
	require.NotNil(t, qty)
	assert.Equal(t, 0, *qty)
}

func TestClassifySkipsDigitlessCandidates(t *testing.T) {
	qty, raw := Classify([]string{"badge", "qty: 7"}, "whatever", keywordsOut, keywordsIn)
	require.NotNil(t, qty)
	assert.Equal(t, 7, *qty)
	assert.Equal(t, "qty: 7", raw)
}

func intPtr(v int) *int { return &v }
