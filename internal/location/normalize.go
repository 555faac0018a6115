package location

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// turkishFolding maps the Turkish-specific letters to their ASCII base.
// Must run before strings.ToLower: İ would otherwise lower to i plus U+0307.
var turkishFolding = strings.NewReplacer(
	"İ", "i", "I", "i", "ı", "i",
	"Ğ", "g", "ğ", "g",
	"Ü", "u", "ü", "u",
	"Ş", "s", "ş", "s",
	"Ö", "o", "ö", "o",
	"Ç", "c", "ç", "c",
)

// Normalize folds a user-supplied city name to its registry key form:
// Turkish letters folded, lowercased, remaining diacritics stripped and
// whitespace collapsed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	s := strings.ToLower(turkishFolding.Replace(name))

	// transform.Chain keeps state, so build one per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}

	return strings.Join(strings.Fields(s), " ")
}
