package imagery

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/llm"
)

// contextRunes caps how much of the answer text is quoted in the refinement
// prompt.
const contextRunes = 200

// maxPhraseWords caps the refined phrase length.
const maxPhraseWords = 5

// minPhraseLen is the shortest refined phrase accepted before falling back to
// rule-based extraction.
const minPhraseLen = 3

const refinePrompt = `You are an expert at extracting the most relevant search terms for finding images.

Given a user's question and optionally their response, extract 1-3 specific, concrete search terms that would find the MOST RELEVANT images for this topic.

IMPORTANT RULES:
1. Extract the MAIN SUBJECT or KEY CONCEPT that would be visually represented
2. Use specific, concrete terms (e.g., "photosynthesis" not "biology", "Eiffel Tower" not "architecture")
3. Avoid generic words like "concept", "theory", "process" unless they're essential
4. For "how to" questions, extract the ACTION and OBJECT (e.g., "baking bread", "swimming technique")
5. For "what is" questions, extract the SPECIFIC THING (e.g., "black hole", "Python programming")
6. For comparisons, extract BOTH items (e.g., "solar vs wind energy")
7. Return ONLY the search terms, separated by commas if multiple
8. Maximum 3 search terms, each 1-3 words
9. NO explanations, NO markdown, just the search terms

Examples:
Question: "What is photosynthesis?"
Search terms: photosynthesis, plant photosynthesis, chloroplast

Question: "How to bake bread?"
Search terms: baking bread, bread making, bread recipe

Question: "Tell me about the Eiffel Tower"
Search terms: Eiffel Tower, Paris Eiffel Tower, Eiffel Tower structure

Question: "What is artificial intelligence?"
Search terms: artificial intelligence, AI technology, machine learning

`

var (
	edgeQuotes     = regexp.MustCompile(`^["']|["']$`)
	edgeBold       = regexp.MustCompile(`^\*\*|\*\*$`)
	edgeBackticks  = regexp.MustCompile("^`|`$")
	searchTermsTag = regexp.MustCompile(`(?i)^Search terms?:?\s*`)
)

// buildRefinePrompt renders the search-term request for question, quoting the
// start of answer as context when present.
func buildRefinePrompt(question, answer string) string {
	var b strings.Builder
	b.WriteString(refinePrompt)
	b.WriteString(`Question: "` + question + `"` + "\n")
	if answer != "" {
		r := []rune(answer)
		b.WriteString(`Response context: "` + string(r[:min(len(r), contextRunes)]) + `..."`)
	}
	b.WriteString("\n\nExtract the most relevant image search terms:")
	return b.String()
}

// cleanRefined normalizes a raw completion into a single search phrase.
func cleanRefined(raw string) string {
	s := strings.TrimSpace(raw)
	s = edgeQuotes.ReplaceAllString(s, "")
	s = edgeBold.ReplaceAllString(s, "")
	s = edgeBackticks.ReplaceAllString(s, "")
	s = searchTermsTag.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if first, _, found := strings.Cut(s, ","); found {
		s = strings.TrimSpace(first)
	}
	if words := strings.Fields(s); len(words) > maxPhraseWords {
		s = strings.Join(words[:maxPhraseWords], " ")
	}
	return s
}

// refine asks the completion service for a search phrase. It returns "" when
// no refiner is configured, the call fails, or the reply is unusable.
func (p *Pipeline) refine(ctx context.Context, question, answer string) string {
	if p.refiner == nil {
		return ""
	}
	if p.refineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.refineTimeout)
		defer cancel()
	}

	raw, err := llm.Prompt(ctx, p.refiner, buildRefinePrompt(question, answer))
	if err != nil {
		p.log.Warn("imagery: search-term refinement failed", "err", err)
		return ""
	}
	phrase := cleanRefined(raw)
	if utf8.RuneCountInString(phrase) < minPhraseLen {
		p.log.Debug("imagery: refined phrase unusable", "raw", raw)
		return ""
	}
	return phrase
}
