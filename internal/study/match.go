package study

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultPhoneticThreshold = 0.80
	defaultFuzzyThreshold    = 0.90
)

// letterAnswer recognises answers that name an option by letter: "b",
// "B)", "(c)", "option D", "answer is a".
var letterAnswer = regexp.MustCompile(`(?i)^(?:(?:the\s+)?(?:option|answer|choice)(?:\s+is)?\s+)?\(?([a-h])\)?[.):]?$`)

// letterPrefix recognises "B) some text" and "b. some text".
var letterPrefix = regexp.MustCompile(`(?i)^\(?([a-h])[.)]\s+\S`)

// optionMatcher maps a free-form answer to an option id.
//
// Answers that name a letter map directly. Otherwise the answer is compared
// to each option text: an exact case-insensitive match wins; failing that,
// options whose Double Metaphone codes overlap with the answer are ranked by
// Jaro-Winkler similarity and accepted above the phonetic threshold, and
// when none overlap, pure Jaro-Winkler similarity must clear the higher
// fuzzy threshold. Spoken answers that were transcribed slightly wrong still
// land on the intended option.
type optionMatcher struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
}

func newOptionMatcher() *optionMatcher {
	return &optionMatcher{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
}

// match returns the id of the option answer refers to. ok is false when no
// option is close enough or two options tie for best.
func (m *optionMatcher) match(answer string, options []Choice) (id string, ok bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" || len(options) == 0 {
		return "", false
	}

	if sub := letterAnswer.FindStringSubmatch(answer); sub != nil {
		return hasOption(options, strings.ToUpper(sub[1]))
	}
	if sub := letterPrefix.FindStringSubmatch(answer); sub != nil {
		if id, ok := hasOption(options, strings.ToUpper(sub[1])); ok {
			return id, true
		}
	}

	answerLower := strings.ToLower(answer)
	for _, o := range options {
		if strings.ToLower(strings.TrimSpace(o.Text)) == answerLower {
			return o.ID, true
		}
	}

	answerTokens := strings.Fields(answerLower)
	answerCodes := codesForTokens(answerTokens)

	type candidate struct {
		id       string
		score    float64
		phonetic bool
		tied     bool
	}
	var best candidate

	for _, o := range options {
		textLower := strings.ToLower(strings.TrimSpace(o.Text))
		if textLower == "" {
			continue
		}
		textTokens := strings.Fields(textLower)
		phonetic := codesOverlap(answerCodes, codesForTokens(textTokens))
		score := jwScore(answerTokens, textTokens, answerLower, textLower)

		threshold := m.fuzzyThreshold
		if phonetic {
			threshold = m.phoneticThreshold
		}
		if score < threshold {
			continue
		}
		switch {
		case best.id == "",
			phonetic && !best.phonetic,
			phonetic == best.phonetic && score > best.score:
			best = candidate{id: o.ID, score: score, phonetic: phonetic}
		case phonetic == best.phonetic && score == best.score:
			best.tied = true
		}
	}
	if best.id == "" || best.tied {
		return "", false
	}
	return best.id, true
}

func hasOption(options []Choice, id string) (string, bool) {
	for _, o := range options {
		if o.ID == id {
			return id, true
		}
	}
	return "", false
}

// codesForTokens returns the union of all Double Metaphone codes for the
// given tokens.
func codesForTokens(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		p, s := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

// codesOverlap returns true if the two code sets share at least one code.
func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}

// jwScore is the better of the full-string and the space-stripped
// Jaro-Winkler similarity. Per-token pairs are not considered: options of
// one question routinely share words.
func jwScore(answerTokens, optionTokens []string, answerFull, optionFull string) float64 {
	score := matchr.JaroWinkler(answerFull, optionFull, false)
	if len(answerTokens) > 1 || len(optionTokens) > 1 {
		if s := matchr.JaroWinkler(strings.Join(answerTokens, ""), strings.Join(optionTokens, ""), false); s > score {
			score = s
		}
	}
	return score
}
