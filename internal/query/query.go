// Package query pulls a place name and a query kind out of free text. It is
// a best-effort heuristic, not a parser: ambiguous input yields at most one
// place and may yield the wrong one.
package query

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/8adimka/Go_Weather_Assistant/internal/location"
)

// Kind is what the user asked for.
type Kind string

const (
	KindCurrent  Kind = "current"
	KindForecast Kind = "forecast"
)

// Intent is a place and the kind of weather query about it.
type Intent struct {
	Place string `json:"place"`
	Kind  Kind   `json:"kind"`
}

const maxPlaceWords = 2

// Words are letters or digits, optionally followed by an apostrophe suffix
// such as the Turkish possessive in "İstanbul'un".
var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)?`)

// Keywords and filler are compared after location.Normalize, so they are
// written without Turkish letters.
var (
	weatherKeywords = set("hava", "durumu", "durum", "weather", "forecast", "sicaklik", "temperature")

	forecastMarkers = []string{"tahmin", "forecast", "7 gun", "gelecek"}

	filler = set(
		"the", "a", "what", "whats", "how", "is", "s", "in", "for", "of", "at", "like",
		"today", "tomorrow", "now", "current", "please", "give", "me", "tell", "show", "will", "be",
		"hello", "hi", "and",
		"nasil", "ne", "nedir", "bugun", "yarin", "icin", "ver", "verir", "misin", "gun", "gunluk",
		"gunler", "haftalik", "saatlik", "guncel", "su", "an", "simdi", "bana", "soyle", "lutfen",
		"de", "da", "ve", "mi", "mu", "olacak", "olur", "merhaba", "selam", "acaba", "gelecek", "hafta",
	)
)

type word struct {
	text   string
	folded string
}

func (w word) isKeyword() bool {
	return weatherKeywords[w.folded] || strings.HasPrefix(w.folded, "tahmin")
}

func (w word) isFiller() bool {
	if filler[w.folded] {
		return true
	}
	r, _ := utf8.DecodeRuneInString(w.text)
	return unicode.IsDigit(r)
}

func (w word) isPlace() bool {
	return !w.isKeyword() && !w.isFiller()
}

// pattern returns a candidate place, or "" when it does not apply.
type pattern func(words []word) string

// patterns are tried in order; the first usable candidate wins.
var patterns = []pattern{
	placeThenKeyword,
	keywordThenPlace,
	placeOnly,
}

// Extract returns the place and kind found in text, or false when no
// pattern yields a place longer than two letters.
func Extract(text string) (Intent, bool) {
	words := split(text)
	if len(words) == 0 {
		return Intent{}, false
	}

	for _, p := range patterns {
		place := p(words)
		if utf8.RuneCountInString(place) > 2 {
			return Intent{Place: place, Kind: kindOf(text)}, true
		}
	}

	return Intent{}, false
}

func kindOf(text string) Kind {
	folded := location.Normalize(text)
	for _, marker := range forecastMarkers {
		if strings.Contains(folded, marker) {
			return KindForecast
		}
	}
	return KindCurrent
}

func split(text string) []word {
	raw := wordRe.FindAllString(text, -1)
	words := make([]word, 0, len(raw))
	for _, w := range raw {
		if i := strings.IndexAny(w, "'’"); i > 0 {
			w = w[:i]
		}
		words = append(words, word{text: w, folded: location.Normalize(w)})
	}
	return words
}

// placeThenKeyword matches "İstanbul'un hava durumu" and "Paris için 7
// günlük tahmin": walking back from the first keyword over filler and
// digits, it takes up to two place words.
func placeThenKeyword(words []word) string {
	k := firstKeyword(words)
	if k < 0 {
		return ""
	}

	i := k - 1
	for i >= 0 && words[i].isFiller() {
		i--
	}
	end := i + 1
	for i >= 0 && end-i <= maxPlaceWords && words[i].isPlace() {
		i--
	}
	return join(words[i+1 : end])
}

// keywordThenPlace matches "weather in London" and "hava durumu Ankara".
func keywordThenPlace(words []word) string {
	k := firstKeyword(words)
	if k < 0 {
		return ""
	}

	i := k + 1
	for i < len(words) && !words[i].isPlace() {
		i++
	}
	start := i
	for i < len(words) && i-start < maxPlaceWords && words[i].isPlace() {
		i++
	}
	return join(words[start:i])
}

// placeOnly accepts a short input whose only content words are the place,
// such as "Ankara" or "Kayseri 7 gün".
func placeOnly(words []word) string {
	if len(words) > maxPlaceWords+2 {
		return ""
	}

	var place []word
	for _, w := range words {
		switch {
		case w.isFiller():
			continue
		case w.isKeyword():
			return ""
		}
		place = append(place, w)
	}
	if len(place) > maxPlaceWords {
		return ""
	}
	return join(place)
}

func firstKeyword(words []word) int {
	for i, w := range words {
		if w.isKeyword() {
			return i
		}
	}
	return -1
}

func join(words []word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.text
	}
	return strings.Join(parts, " ")
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
