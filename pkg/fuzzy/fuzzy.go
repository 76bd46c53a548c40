// Package fuzzy ranks candidate surface forms against an observed string.
// Scores add the edit similarity of the raw strings to that of their
// diacritic-free skeletons, so forms differing only in accents or breathings
// rank above forms differing in letters.
package fuzzy

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/xrash/smetrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxScore is the score of an exact match.
const MaxScore = 2.0

// Match is one ranked candidate.
type Match struct {
	Candidate string  `json:"candidate" yaml:"candidate"`
	Score     float64 `json:"score" yaml:"score"`
}

// StripDiacritics removes combining marks (accents, breathings, iota
// subscripts, length marks) and recomposes the rest.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Similarity is 1 minus the edit distance normalized by the longer string's
// rune count. Two empty strings are identical.
func Similarity(a, b string) float64 {
	a, b = norm.NFC.String(a), norm.NFC.String(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	ca, cb := compact(a, b)
	dist := smetrics.WagnerFischer(ca, cb, 1, 1, 1)
	return 1 - float64(dist)/float64(longest)
}

// compact maps every distinct rune of a and b to one byte, so the byte-wise
// distance counts rune edits. Alphabets too large for a byte fall back to
// the raw strings.
func compact(a, b string) (string, string) {
	codes := make(map[rune]byte)
	encode := func(s string) ([]byte, bool) {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			c, ok := codes[r]
			if !ok {
				if len(codes) == 256 {
					return nil, false
				}
				c = byte(len(codes))
				codes[r] = c
			}
			out = append(out, c)
		}
		return out, true
	}

	ea, ok := encode(a)
	if !ok {
		return a, b
	}
	eb, ok := encode(b)
	if !ok {
		return a, b
	}
	return string(ea), string(eb)
}

// Score is the combined raw and diacritic-free similarity, in [0, 2].
func Score(observed, candidate string) float64 {
	return Similarity(observed, candidate) +
		Similarity(StripDiacritics(observed), StripDiacritics(candidate))
}

// Rank scores every candidate and sorts them best first. Ties keep input
// order.
func Rank(observed string, candidates []string) []Match {
	out := make([]Match, len(candidates))
	for i, c := range candidates {
		out[i] = Match{Candidate: c, Score: Score(observed, c)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Closest returns the best candidate, or false when there are none.
func Closest(observed string, candidates []string) (Match, bool) {
	ranked := Rank(observed, candidates)
	if len(ranked) == 0 {
		return Match{}, false
	}
	return ranked[0], true
}

// Plausible returns the ranked candidates scoring above zero. An empty
// result means nothing resembles the observed string.
func Plausible(observed string, candidates []string) []Match {
	var out []Match
	for _, m := range Rank(observed, candidates) {
		if m.Score > 0 {
			out = append(out, m)
		}
	}
	return out
}
