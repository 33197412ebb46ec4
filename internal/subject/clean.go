package subject

import "strings"

// minKeptRatio is the share of words that must survive filler removal for
// the cleaned phrase to be used.
const minKeptRatio = 0.3

// Clean drops filler words and single letters from terms. When nothing is
// left, or fewer than 30% of the words survive, terms is returned unchanged.
func Clean(terms string) string {
	if terms == "" {
		return terms
	}
	words := strings.Fields(terms)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		lower := nonLetter.ReplaceAllString(strings.ToLower(w), "")
		if _, filler := fillerWords[lower]; filler || len(lower) <= 1 {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 || float64(len(kept)) < float64(len(words))*minKeptRatio {
		return terms
	}
	return strings.Join(kept, " ")
}
