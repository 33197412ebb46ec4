// Package subject reduces a free-form learner question to a short phrase that
// names what the question is about, suitable as an image search query.
//
// The heuristics are deliberately shallow: a fixed prefix catalogue, a handful
// of whole-string patterns, a key-noun scan and a proper-noun fallback. All
// functions are pure and safe for concurrent use.
package subject

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

var (
	trailingPunct  = regexp.MustCompile(`[?!.]+$`)
	leadingArticle = regexp.MustCompile(`(?i)^(a|an|the)\s+`)

	ofPattern       = regexp.MustCompile(`(?i)^(?:the )?(?:process|concept|theory|principle|law|function|structure|mechanism|procedure|approach|model|framework|design|architecture|component|element|feature|aspect|property|characteristic|attribute|quality|trait|behavior|pattern|relationship|connection|interaction|effect|impact|result|outcome|benefit|advantage|disadvantage|limitation|challenge|problem|solution|application|implementation|example|case) of (.+)$`)
	inPattern       = regexp.MustCompile(`(?i)^(.+) (?:in|within|inside|during|throughout|across) (.+)$`)
	benefitsPattern = regexp.MustCompile(`(?i)^(?:what are )?(?:the )?(?:benefits|advantages|uses|applications) (?:of|for) (.+)$`)
	vsPattern       = regexp.MustCompile(`(?i)^(.+) (?:vs|versus) (.+)$`)

	properNoun = regexp.MustCompile(`^[A-Z][a-z]`)
	nonLetter  = regexp.MustCompile(`[^a-z]`)
)

// sortedPrefixes is questionPrefixes ordered longest first so "what is the"
// wins over "what is".
var sortedPrefixes = func() []string {
	p := slices.Clone(questionPrefixes)
	slices.SortStableFunc(p, func(a, b string) int { return cmp.Compare(len(b), len(a)) })
	return p
}()

const howTo = "how to "

// Extract returns the core subject of question. It never fails; when no rule
// applies the cleaned question (or its tail) is returned.
func Extract(question string) string {
	q := strings.TrimSpace(question)
	q = stripPrefix(q)
	q = strings.TrimSpace(trailingPunct.ReplaceAllString(q, ""))

	if hasFoldPrefix(q, howTo) {
		return howToSubject(strings.TrimSpace(q[len(howTo):]))
	}

	if m := ofPattern.FindStringSubmatch(q); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := inPattern.FindStringSubmatch(q); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := benefitsPattern.FindStringSubmatch(q); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := vsPattern.FindStringSubmatch(q); m != nil {
		return strings.TrimSpace(m[1]) + " vs " + strings.TrimSpace(m[2])
	}

	words := strings.Fields(q)
	if len(words) <= 4 {
		return q
	}

	for i := len(words) - 1; i >= 0; i-- {
		w := nonLetter.ReplaceAllString(strings.ToLower(words[i]), "")
		if _, ok := keyNouns[w]; ok {
			return strings.Join(words[max(0, i-2):i+1], " ")
		}
	}

	var proper []string
	for _, w := range words {
		if properNoun.MatchString(w) {
			proper = append(proper, w)
		}
	}
	if len(proper) > 0 {
		return strings.Join(proper, " ")
	}

	return strings.Join(words[max(0, len(words)-3):], " ")
}

// stripPrefix removes the longest question starter that q begins with.
// At most one prefix is removed.
func stripPrefix(q string) string {
	for _, p := range sortedPrefixes {
		if hasFoldPrefix(q, p) {
			return strings.TrimSpace(q[len(p):])
		}
	}
	return q
}

// howToSubject turns the action of a "how to" question into a subject.
// Single verbs become gerunds; longer actions only lose a leading article.
func howToSubject(action string) string {
	if len(strings.Fields(action)) != 1 {
		return leadingArticle.ReplaceAllString(action, "")
	}
	return Gerund(action)
}

// Gerund returns the -ing form of a single verb, lowercased.
func Gerund(verb string) string {
	v := strings.ToLower(verb)
	if g, ok := gerunds[v]; ok {
		return g
	}
	switch {
	case strings.HasSuffix(v, "ing"):
		return v
	case strings.HasSuffix(v, "e"):
		return v[:len(v)-1] + "ing"
	default:
		return v + "ing"
	}
}

// hasFoldPrefix reports whether s starts with the ASCII prefix p, ignoring case.
func hasFoldPrefix(s, p string) bool {
	return len(s) >= len(p) && strings.EqualFold(s[:len(p)], p)
}
