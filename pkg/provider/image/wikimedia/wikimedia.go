// Package wikimedia provides an image.Provider backed by the Wikimedia
// Commons MediaWiki API. It searches the File namespace, reads image metadata
// (thumbnail URL, object name, artist) and keeps only candidates whose titles
// pass the shared relevance filter.
//
// Commons is queried for twice the requested count so the relevance filter
// has room to discard weak matches.
package wikimedia

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
)

var _ image.Provider = (*Provider)(nil)

const (
	// DefaultBaseURL is the Commons API endpoint.
	DefaultBaseURL = "https://commons.wikimedia.org/w/api.php"

	// DefaultUserAgent identifies the client as Wikimedia's API etiquette asks.
	DefaultUserAgent = "DigitalHumanApp/1.0 (Educational AI Avatar - Highly Relevant Image Search)"

	// DefaultAttribution is used when a file carries no Artist metadata.
	DefaultAttribution = "Wikimedia Commons"

	defaultTimeout = 10 * time.Second
	thumbWidth     = 400
	fileNamespace  = 6
)

// Option is a functional option for configuring a Wikimedia Provider.
type Option func(*Provider)

// WithBaseURL overrides the API endpoint (used in tests).
func WithBaseURL(u string) Option {
	return func(p *Provider) {
		p.baseURL = u
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *Provider) {
		p.userAgent = ua
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// WithLogger sets the logger for failed searches.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.log = l
	}
}

// Provider searches Wikimedia Commons.
type Provider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Wikimedia Provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p
}

// Name implements image.Provider.
func (p *Provider) Name() string { return image.SourceWikimedia }

// Tier implements image.Provider.
func (p *Provider) Tier() image.Tier { return image.TierPrimary }

// Fetch implements image.Provider. It returns an empty slice when the request
// fails or no candidate survives the relevance filter.
func (p *Provider) Fetch(ctx context.Context, phrase string, count int) []image.Descriptor {
	if count <= 0 {
		return nil
	}
	cands, err := p.Search(ctx, phrase, count*2)
	if err != nil {
		p.log.Warn("wikimedia: search failed", "phrase", phrase, "err", err)
		return nil
	}

	ranked := image.FilterAndRank(cands, phrase)
	if len(ranked) > count {
		ranked = ranked[:count]
	}
	p.log.Debug("wikimedia: relevant images", "phrase", phrase, "candidates", len(cands), "kept", len(ranked))

	out := make([]image.Descriptor, 0, len(ranked))
	for _, c := range ranked {
		alt := c.Title
		if alt == "" {
			alt = phrase
		}
		credit := c.Attribution
		if credit == "" {
			credit = DefaultAttribution
		}
		out = append(out, image.Descriptor{
			URL:          c.URL,
			Label:        phrase,
			Photographer: credit,
			Source:       image.SourceWikimedia,
			Alt:          alt,
			Tier:         image.TierPrimary,
		})
	}
	return out
}

// Search returns up to limit unfiltered candidates for phrase in Commons
// search-rank order.
func (p *Provider) Search(ctx context.Context, phrase string, limit int) ([]image.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.searchURL(phrase, limit), nil)
	if err != nil {
		return nil, fmt.Errorf("wikimedia: build request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikimedia: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikimedia: unexpected status %d", resp.StatusCode)
	}

	var body queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("wikimedia: decode response: %w", err)
	}
	return body.candidates(), nil
}

func (p *Provider) searchURL(phrase string, limit int) string {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("generator", "search")
	q.Set("gsrnamespace", strconv.Itoa(fileNamespace))
	q.Set("gsrsearch", phrase)
	q.Set("gsrlimit", strconv.Itoa(limit))
	q.Set("gsrinfo", "totalhits")
	q.Set("prop", "imageinfo")
	q.Set("iiprop", "url|extmetadata|canonicaltitle")
	q.Set("iiurlwidth", strconv.Itoa(thumbWidth))
	return p.baseURL + "?" + q.Encode()
}

// ---- wire types ----

type queryResponse struct {
	Query struct {
		Pages map[string]page `json:"pages"`
	} `json:"query"`
}

type page struct {
	PageID    int64       `json:"pageid"`
	Title     string      `json:"title"`
	Index     int         `json:"index"`
	ImageInfo []imageInfo `json:"imageinfo"`
}

type imageInfo struct {
	URL         string                  `json:"url"`
	ThumbURL    string                  `json:"thumburl"`
	ExtMetadata map[string]metadataItem `json:"extmetadata"`
}

type metadataItem struct {
	Value json.RawMessage `json:"value"`
}

// String returns the metadata value as text. Non-string JSON values are
// returned verbatim.
func (m metadataItem) String() string {
	var s string
	if err := json.Unmarshal(m.Value, &s); err == nil {
		return s
	}
	return string(m.Value)
}

// candidates converts the page map into candidates ordered by search index.
func (r queryResponse) candidates() []image.Candidate {
	pages := make([]page, 0, len(r.Query.Pages))
	for _, pg := range r.Query.Pages {
		if len(pg.ImageInfo) > 0 {
			pages = append(pages, pg)
		}
	}
	slices.SortFunc(pages, func(a, b page) int {
		if c := cmp.Compare(a.Index, b.Index); c != 0 {
			return c
		}
		return cmp.Compare(a.PageID, b.PageID)
	})

	out := make([]image.Candidate, 0, len(pages))
	for _, pg := range pages {
		info := pg.ImageInfo[0]
		title := strings.TrimPrefix(pg.Title, "File:")
		if name, ok := info.ExtMetadata["ObjectName"]; ok {
			if v := strings.TrimSpace(name.String()); v != "" {
				title = v
			}
		}
		u := info.ThumbURL
		if u == "" {
			u = info.URL
		}
		var credit string
		if artist, ok := info.ExtMetadata["Artist"]; ok {
			credit = StripHTML(artist.String())
		}
		out = append(out, image.Candidate{Title: title, URL: u, Attribution: credit})
	}
	return out
}

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed. Commons stores attribution as markup (links, spans).
func StripHTML(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
