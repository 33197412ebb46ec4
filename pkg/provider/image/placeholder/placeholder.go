// Package placeholder provides an image.Provider that synthesizes generic
// placeholder images without any network access. It always returns exactly
// the requested number of descriptors and is the last tier of the image
// fallback chain.
package placeholder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
)

var _ image.Provider = (*Provider)(nil)

const (
	// DefaultBaseURL is the Lorem Picsum image service.
	DefaultBaseURL = "https://picsum.photos"

	// Photographer is the attribution reported for every placeholder.
	Photographer = "AI-Generated Placeholder"

	width  = 400
	height = 300
)

// Option is a functional option for configuring a placeholder Provider.
type Option func(*Provider)

// WithBaseURL overrides the placeholder image service.
func WithBaseURL(u string) Option {
	return func(p *Provider) {
		p.baseURL = strings.TrimRight(u, "/")
	}
}

// WithClock replaces the seed clock. Used by tests for deterministic URLs.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// Provider synthesizes time-seeded placeholder image URLs.
type Provider struct {
	baseURL string
	now     func() time.Time
}

// New creates a placeholder Provider.
func New(opts ...Option) *Provider {
	p := &Provider{baseURL: DefaultBaseURL, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Name implements image.Provider.
func (p *Provider) Name() string { return image.SourcePlaceholder }

// Tier implements image.Provider.
func (p *Provider) Tier() image.Tier { return image.TierPlaceholder }

// Fetch implements image.Provider. It returns max(count, 0) descriptors whose
// URLs differ by their random seed.
func (p *Provider) Fetch(_ context.Context, phrase string, count int) []image.Descriptor {
	seed := p.now().UnixMilli()
	out := make([]image.Descriptor, 0, max(count, 0))
	for i := range max(count, 0) {
		out = append(out, image.Descriptor{
			URL:          p.URL(seed + int64(i)),
			Label:        phrase,
			Photographer: Photographer,
			Source:       image.SourcePlaceholder,
			Alt:          phrase,
			Tier:         image.TierPlaceholder,
		})
	}
	return out
}

// URL returns the placeholder image address for seed.
func (p *Provider) URL(seed int64) string {
	return fmt.Sprintf("%s/%d/%d?random=%d", p.baseURL, width, height, seed)
}
