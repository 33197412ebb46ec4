package image

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

// EducationalTerms mark a title as useful for teaching even when it shares no
// words with the search phrase.
var EducationalTerms = []string{
	"diagram", "chart", "graph", "illustration", "schema", "map", "photo", "drawing", "artwork",
}

// minContentWordLen is the length a phrase word must exceed to count as a
// content word.
const minContentWordLen = 2

// Candidate is a raw search hit before relevance filtering.
type Candidate struct {
	// Title is the cleaned display title used for matching.
	Title string

	// URL is the displayable image address.
	URL string

	// Attribution is the plain-text author credit, if any.
	Attribution string
}

// ContentWords returns the words of phrase longer than two characters.
func ContentWords(phrase string) []string {
	var out []string
	for _, w := range strings.Fields(phrase) {
		if utf8.RuneCountInString(w) > minContentWordLen {
			out = append(out, w)
		}
	}
	return out
}

// IsRelevant reports whether a title relates to phrase. A title qualifies when
// it contains the phrase (or vice versa), contains at least half of the
// phrase's content words, or names an educational medium such as a diagram.
func IsRelevant(title, phrase string) bool {
	lt, lp := strings.ToLower(title), strings.ToLower(phrase)
	if strings.Contains(lt, lp) || strings.Contains(lp, lt) {
		return true
	}
	words := ContentWords(phrase)
	if matchCount(lt, words) >= int(math.Ceil(float64(len(words))*0.5)) {
		return true
	}
	for _, term := range EducationalTerms {
		if strings.Contains(lt, term) {
			return true
		}
	}
	return false
}

// FilterAndRank keeps the relevant candidates and orders them: an exact
// (case-insensitive) title match first, then by how many content words the
// title contains. Ties keep their input order. cands is not modified.
func FilterAndRank(cands []Candidate, phrase string) []Candidate {
	lp := strings.ToLower(phrase)
	words := ContentWords(phrase)

	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if IsRelevant(c.Title, phrase) {
			kept = append(kept, c)
		}
	}

	slices.SortStableFunc(kept, func(a, b Candidate) int {
		at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if ae, be := at == lp, bt == lp; ae != be {
			if ae {
				return -1
			}
			return 1
		}
		return matchCount(bt, words) - matchCount(at, words)
	})
	return kept
}

func matchCount(lowerTitle string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lowerTitle, strings.ToLower(w)) {
			n++
		}
	}
	return n
}
