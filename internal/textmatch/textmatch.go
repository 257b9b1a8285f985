// Package textmatch provides text normalization and approximate string
// matching for product names arriving over a free-text chat channel.
package textmatch

import (
	"strings"
	"unicode"
)

// Similarity decides whether two product strings refer to the same product.
// It is an interface so the matcher's control logic stays untouched when the
// metric is swapped for something else (tokenized index, trigrams, ...).
type Similarity interface {
	Similar(a, b string) bool
}

// EditDistance is the default Similarity: substring containment in either
// direction on normalized strings, otherwise Levenshtein distance within 40%
// of the longer string. The loose threshold tolerates transliteration noise
// and misspellings typical of a chat channel.
type EditDistance struct{}

// Similar reports whether a and b plausibly name the same product.
func (EditDistance) Similar(a, b string) bool {
	na := Normalize(a)
	nb := Normalize(b)

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	ra := []rune(na)
	rb := []rune(nb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	return float64(levenshtein(ra, rb)) <= float64(maxLen)*0.4
}

// Normalize canonicalizes a product string: lowercase, ё folded to е,
// punctuation stripped, whitespace collapsed.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r == 'ё':
			b.WriteRune('е')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// levenshtein computes the classic single-character insert/delete/substitute
// edit distance, two-row dynamic programming.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j-1]+cost, curr[j-1]+1, prev[j]+1)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
