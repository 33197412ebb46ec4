// Package pexels provides an image.Provider backed by the Pexels stock-photo
// search API (https://www.pexels.com/api/).
//
// Pexels results are trusted as ranked by the service and mapped one-to-one
// without relevance filtering. When no API key is configured the provider
// answers with placeholder images instead of failing.
package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image/placeholder"
)

var _ image.Provider = (*Provider)(nil)

const (
	// DefaultBaseURL is the Pexels REST API root.
	DefaultBaseURL = "https://api.pexels.com"

	// UnsetKey is the sample value shipped in example env files; it is
	// treated the same as an empty key.
	UnsetKey = "YOUR_PEXELS_API_KEY_HERE"

	defaultTimeout = 10 * time.Second
	searchEndpoint = "/v1/search"
)

// Option is a functional option for configuring a Pexels Provider.
type Option func(*Provider)

// WithBaseURL overrides the API root (used in tests).
func WithBaseURL(u string) Option {
	return func(p *Provider) {
		p.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// WithPlaceholder sets the provider used when no API key is configured.
func WithPlaceholder(ph image.Provider) Option {
	return func(p *Provider) {
		p.placeholder = ph
	}
}

// WithLogger sets the logger for failed searches.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.log = l
	}
}

// Provider searches Pexels for landscape photos.
type Provider struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	placeholder image.Provider
	log         *slog.Logger
}

// New creates a Pexels Provider. An empty apiKey is allowed and puts the
// provider into placeholder mode.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	if p.placeholder == nil {
		p.placeholder = placeholder.New()
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p
}

// Name implements image.Provider.
func (p *Provider) Name() string { return image.SourcePexels }

// Tier implements image.Provider.
func (p *Provider) Tier() image.Tier { return image.TierSecondary }

// Configured reports whether a usable API key is set.
func (p *Provider) Configured() bool {
	return p.apiKey != "" && p.apiKey != UnsetKey
}

// Fetch implements image.Provider.
func (p *Provider) Fetch(ctx context.Context, phrase string, count int) []image.Descriptor {
	if !p.Configured() {
		p.log.Debug("pexels: api key not configured, using placeholders")
		out := p.placeholder.Fetch(ctx, phrase, count)
		for i := range out {
			out[i].Alt = ""
		}
		return out
	}
	photos, err := p.search(ctx, phrase, count)
	if err != nil {
		p.log.Warn("pexels: search failed", "phrase", phrase, "err", err)
		return nil
	}
	out := make([]image.Descriptor, 0, len(photos))
	for _, ph := range photos {
		alt := ph.Alt
		if alt == "" {
			alt = phrase
		}
		out = append(out, image.Descriptor{
			URL:          ph.Src.Medium,
			Label:        phrase,
			Photographer: ph.Photographer,
			Source:       image.SourcePexels,
			Alt:          alt,
			Tier:         image.TierSecondary,
		})
	}
	return out
}

// ---- wire types ----

type searchResponse struct {
	Photos []photo `json:"photos"`
}

type photo struct {
	ID           int64  `json:"id"`
	Photographer string `json:"photographer"`
	Alt          string `json:"alt"`
	Src          struct {
		Medium string `json:"medium"`
	} `json:"src"`
}

func (p *Provider) search(ctx context.Context, phrase string, count int) ([]photo, error) {
	q := url.Values{}
	q.Set("query", phrase)
	q.Set("per_page", strconv.Itoa(count))
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+searchEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("pexels: build request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels: unexpected status %d", resp.StatusCode)
	}
	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("pexels: decode response: %w", err)
	}
	return body.Photos, nil
}
