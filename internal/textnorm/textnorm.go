// Package textnorm canonicalizes extracted page text so that store
// names and status keywords can be matched regardless of accents,
// casing or stray whitespace.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize decomposes accented characters to their base letters,
// drops any remaining non-ASCII runes, lowercases and trims. It is
// total: any input, including the empty string, yields a result.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform failures leave the input usable as-is.
		out = s
	}
	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(strings.ToLower(b.String()))
}

// Contains reports whether the normalized needle occurs inside the
// normalized haystack.
func Contains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}
