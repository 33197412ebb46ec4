package imagery

import (
	"fmt"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
)

// vocabulary is the positional labelling applied to one tier's results.
type vocabulary struct {
	// labels are indexed by position; positions past the end reuse the last
	// entry unless cycle is set.
	labels []string
	cycle  bool

	photographer string
	source       string

	// alt formats the accessible text from the phrase and the source's own
	// alt text.
	alt func(phrase, alt string, i int) string
}

func (v vocabulary) label(phrase string, i int) string {
	idx := min(i, len(v.labels)-1)
	if v.cycle {
		idx = i % len(v.labels)
	}
	return fmt.Sprintf("%s: \"%s\"", v.labels[idx], phrase)
}

func sourcedAlt(fallback string) func(string, string, int) string {
	return func(phrase, alt string, _ int) string {
		if alt == "" {
			alt = fallback
		}
		return phrase + " - " + alt
	}
}

var placeholderAlts = []string{
	"Conceptual representation specifically for ",
	"Visual support specifically for ",
	"Illustrative content specifically for ",
}

var vocabularies = map[image.Tier]vocabulary{
	image.TierPrimary: {
		labels: []string{
			"🎯 Exact match for",
			"📚 Directly related to",
			"📖 Contextually relevant to",
		},
		photographer: "Wikimedia Commons",
		source:       image.SourceWikimedia,
		alt:          sourcedAlt("educational illustration"),
	},
	image.TierSecondary: {
		labels: []string{
			"🎯 Primary visualization of",
			"📚 Supporting image for",
			"📖 Illustrative example of",
		},
		photographer: "Pexels Photographer",
		source:       image.SourcePexels,
		alt:          sourcedAlt("relevant stock photo"),
	},
	image.TierPlaceholder: {
		labels: []string{
			"📘 Educational visualization",
			"📙 Learning aid",
			"📓 Instructional diagram",
		},
		cycle:        true,
		photographer: "AI-Generated Placeholder",
		source:       image.SourcePlaceholder,
		alt: func(phrase, _ string, i int) string {
			return placeholderAlts[i%len(placeholderAlts)] + phrase
		},
	},
}

// relabel rewrites descs in place with the positional vocabulary of tier,
// starting at position offset.
func relabel(descs []image.Descriptor, phrase string, tier image.Tier, offset int) []image.Descriptor {
	v, ok := vocabularies[tier]
	if !ok {
		v = vocabularies[image.TierPlaceholder]
	}
	for i := range descs {
		pos := offset + i
		d := &descs[i]
		d.Label = v.label(phrase, pos)
		if d.Photographer == "" || tier == image.TierPlaceholder {
			d.Photographer = v.photographer
		}
		if d.Source == "" {
			d.Source = v.source
		}
		d.Alt = v.alt(phrase, d.Alt, pos)
	}
	return descs
}
