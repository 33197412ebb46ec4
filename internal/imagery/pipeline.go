// Package imagery turns a question and its answer into a fixed-size set of
// illustrative images.
//
// The pipeline first derives a short search phrase, preferring a phrase
// suggested by the text-completion service and falling back to rule-based
// subject extraction. It then walks an ordered list of image sources and
// stops at the first one that yields anything. Placeholder images fill the
// set when every source comes back empty, so callers always receive exactly
// the configured number of descriptors.
package imagery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AbhiramValmeekam/adam-project/internal/observe"
	"github.com/AbhiramValmeekam/adam-project/internal/subject"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image/placeholder"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/llm"
)

// DefaultCount is the number of images returned per request.
const DefaultCount = 3

// DefaultRefineTimeout bounds the search-term refinement call.
const DefaultRefineTimeout = 10 * time.Second

// Result is the outcome of one pipeline run.
type Result struct {
	// Phrase is the cleaned search phrase used against the sources.
	Phrase string `json:"subject"`

	// Tier is the tier of the source that produced the leading image.
	Tier image.Tier `json:"tier"`

	// Images always holds exactly the configured count of descriptors.
	Images []image.Descriptor `json:"images"`
}

// Option is a functional option for configuring a Pipeline.
type Option func(*Pipeline)

// WithRefiner sets the completion service used to suggest search phrases.
// Without one, phrases come from rule-based extraction only.
func WithRefiner(p llm.Provider) Option {
	return func(pl *Pipeline) {
		pl.refiner = p
	}
}

// WithRefineTimeout overrides [DefaultRefineTimeout]. Zero disables the
// timeout.
func WithRefineTimeout(d time.Duration) Option {
	return func(pl *Pipeline) {
		pl.refineTimeout = d
	}
}

// WithCount sets how many images each run returns. Values below 1 are
// ignored.
func WithCount(n int) Option {
	return func(pl *Pipeline) {
		if n > 0 {
			pl.count = n
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(pl *Pipeline) {
		pl.log = l
	}
}

// WithMetrics sets the metrics sink. Defaults to observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(pl *Pipeline) {
		pl.metrics = m
	}
}

// Pipeline assembles image sets. It holds no per-request state and is safe
// for concurrent use.
type Pipeline struct {
	sources     []image.Provider
	placeholder image.Provider

	refiner       llm.Provider
	refineTimeout time.Duration
	count         int

	log     *slog.Logger
	metrics *observe.Metrics
}

// backstop tops up a placeholder provider that returned too few descriptors.
var backstop = placeholder.New()

// New creates a Pipeline that tries sources in order and fills with
// fallback when they all come back empty.
func New(sources []image.Provider, fallback image.Provider, opts ...Option) (*Pipeline, error) {
	if fallback == nil {
		return nil, errors.New("imagery: placeholder provider must not be nil")
	}
	for i, s := range sources {
		if s == nil {
			return nil, fmt.Errorf("imagery: source %d is nil", i)
		}
	}
	p := &Pipeline{
		sources:       sources,
		placeholder:   fallback,
		refineTimeout: DefaultRefineTimeout,
		count:         DefaultCount,
	}
	for _, o := range opts {
		o(p)
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	return p, nil
}

// Count returns the number of descriptors every run yields.
func (p *Pipeline) Count() int { return p.count }

// Generate returns exactly Count() image descriptors illustrating question.
// answer is optional context for phrase refinement. It never fails.
func (p *Pipeline) Generate(ctx context.Context, question, answer string) []image.Descriptor {
	return p.Run(ctx, question, answer).Images
}

// Run is like [Pipeline.Generate] but also reports the phrase and the tier
// that produced the images.
func (p *Pipeline) Run(ctx context.Context, question, answer string) Result {
	ctx, span := observe.StartSpan(ctx, observe.SpanImageryRun)
	defer span.End()

	phrase := p.Phrase(ctx, question, answer)
	span.SetAttributes(observe.AttrPhrase.String(phrase))

	res := Result{Phrase: phrase}
	for _, src := range p.sources {
		start := time.Now()
		got := src.Fetch(ctx, phrase, p.count)
		p.metrics.RecordImageSource(ctx, src.Name(), time.Since(start))
		if len(got) == 0 {
			p.log.Info("imagery: source returned nothing, trying next", "source", src.Name(), "phrase", phrase)
			continue
		}

		got = relabel(got[:min(len(got), p.count)], phrase, src.Tier(), 0)
		if missing := p.count - len(got); missing > 0 {
			got = append(got, p.placeholders(ctx, phrase, len(got), missing)...)
		}
		res.Tier = src.Tier()
		res.Images = got
		break
	}

	if res.Images == nil {
		res.Tier = image.TierPlaceholder
		res.Images = p.placeholders(ctx, phrase, 0, p.count)
	}

	p.metrics.RecordImageSet(ctx, string(res.Tier))
	span.SetAttributes(
		observe.AttrTier.String(string(res.Tier)),
		observe.AttrImageCount.Int(len(res.Images)),
	)
	p.log.Debug("imagery: image set assembled", "phrase", phrase, "tier", res.Tier, "count", len(res.Images))
	return res
}

// Phrase derives the cleaned search phrase for question.
func (p *Pipeline) Phrase(ctx context.Context, question, answer string) string {
	phrase := p.refine(ctx, question, answer)
	if phrase == "" {
		phrase = subject.Extract(question)
	}
	return subject.Clean(phrase)
}

// placeholders synthesizes n placeholder descriptors labelled from position
// offset onward.
func (p *Pipeline) placeholders(ctx context.Context, phrase string, offset, n int) []image.Descriptor {
	got := p.placeholder.Fetch(ctx, phrase, n)
	if len(got) > n {
		got = got[:n]
	}
	if short := n - len(got); short > 0 {
		p.log.Warn("imagery: placeholder source came up short", "source", p.placeholder.Name(), "missing", short)
		got = append(got, backstop.Fetch(ctx, phrase, short)...)
	}
	return relabel(got, phrase, image.TierPlaceholder, offset)
}
