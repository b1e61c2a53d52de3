package title

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Similarity returns a Levenshtein-based ratio in [0,1] between two titles.
// Both inputs are folded to lowercase letters/digits first, so separator and
// accent differences do not count as edits. Either side folding to empty
// yields 0. Intended as a confirmation gate after a cheap prefix filter, not
// as a primary search criterion.
func Similarity(a, b string) float64 {
	fa := foldKey(a)
	fb := foldKey(b)
	if fa == "" || fb == "" {
		return 0
	}
	if fa == fb {
		return 1
	}

	dist := edlib.LevenshteinDistance(fa, fb)
	maxLen := len([]rune(fa))
	if n := len([]rune(fb)); n > maxLen {
		maxLen = n
	}
	return 1 - float64(dist)/float64(maxLen)
}

// foldKey lowercases, removes accents, and keeps only letters and digits.
func foldKey(s string) string {
	s = strings.ToLower(s)
	s = removeAccents(s)

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
