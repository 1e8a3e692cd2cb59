package search

import (
	"strings"
	"unicode"
)

// partialCeiling keeps every inexact match strictly below an exact one.
const partialCeiling = 0.99

const minAbbrevLen = 3

// Similarity scores how well query matches text, in [0,1]. Both sides are
// normalized first; equal normalized strings score 1.
func Similarity(query, text string) float64 {
	q, t := normalize(query), normalize(text)
	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return 1
	}

	best := ratio(q, t)
	if ts := tokenScore(strings.Fields(q), strings.Fields(t)); ts > best {
		best = ts
	}
	if best > partialCeiling {
		best = partialCeiling
	}
	return best
}

// normalize lowercases s, turns punctuation into spaces and collapses runs of
// whitespace.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenScore averages, over the query tokens, the best match each finds among
// the text tokens.
func tokenScore(qs, ts []string) float64 {
	if len(qs) == 0 || len(ts) == 0 {
		return 0
	}
	var sum float64
	for _, q := range qs {
		var best float64
		for _, t := range ts {
			if s := tokenSimilarity(q, t); s > best {
				best = s
			}
		}
		sum += best
	}
	return sum / float64(len(qs))
}

func tokenSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	s := ratio(a, b)
	if ab := abbreviation(a, b); ab > s {
		s = ab
	}
	return s
}

// abbreviation scores a as a shortening of b: same first letter and every
// letter of a appearing in b in order ("plywd" for "plywood").
func abbreviation(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < minAbbrevLen || len(ra) >= len(rb) || ra[0] != rb[0] {
		return 0
	}
	if !isSubsequence(ra, rb) {
		return 0
	}
	return 0.6 + 0.35*float64(len(ra))/float64(len(rb))
}

func isSubsequence(a, b []rune) bool {
	i := 0
	for _, r := range b {
		if i < len(a) && a[i] == r {
			i++
		}
	}
	return i == len(a)
}

// ratio is the Levenshtein distance normalized by the longer string.
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
