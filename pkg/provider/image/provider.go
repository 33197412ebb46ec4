// Package image defines the Provider interface for illustrative image sources
// and the relevance filter shared by sources that return unranked candidates.
//
// A provider turns a short search phrase into an ordered list of image
// descriptors. Providers never return errors: transport or decoding failures
// are logged by the implementation and surface as an empty result, which the
// caller treats as "try the next source".
//
// Implementations must be safe for concurrent use.
package image

import "context"

// Tier identifies where in the fallback chain a descriptor was produced.
type Tier string

const (
	// TierPrimary is the structured-metadata search (Wikimedia Commons).
	TierPrimary Tier = "primary"

	// TierSecondary is the stock-photo search (Pexels).
	TierSecondary Tier = "secondary"

	// TierPlaceholder is the synthesized placeholder set; it needs no network.
	TierPlaceholder Tier = "placeholder"
)

// Source names reported in [Descriptor.Source].
const (
	SourceWikimedia   = "wikimedia"
	SourcePexels      = "pexels"
	SourcePlaceholder = "placeholder"
)

// Descriptor is one displayable image returned to the client.
type Descriptor struct {
	// URL is the displayable (thumbnail where available) image address.
	URL string `json:"url"`

	// Label is a human-readable caption. Sources fill it with the phrase; the
	// imagery pipeline replaces it with a positional relevance label.
	Label string `json:"label"`

	// Photographer is the attribution text with any markup removed.
	Photographer string `json:"photographer"`

	// Source is the provider name (see the Source* constants).
	Source string `json:"source"`

	// Alt is the accessible description of the image.
	Alt string `json:"alt,omitempty"`

	// Tier records which fallback tier produced the descriptor.
	Tier Tier `json:"tier"`
}

// Provider is the abstraction over any image source.
type Provider interface {
	// Name returns a short identifier used in logs and metrics.
	Name() string

	// Tier reports the fallback tier this provider serves.
	Tier() Tier

	// Fetch returns at most count descriptors for phrase, best match first.
	// An empty slice means "no usable result"; Fetch never fails otherwise.
	Fetch(ctx context.Context, phrase string, count int) []Descriptor
}
