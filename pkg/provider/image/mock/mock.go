// Package mock provides a test double for the image.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
)

// FetchCall records a single invocation of Fetch.
type FetchCall struct {
	Phrase string
	Count  int
}

// Provider is a mock implementation of image.Provider.
type Provider struct {
	mu sync.Mutex

	// NameValue is returned by Name. Defaults to "mock".
	NameValue string

	// TierValue is returned by Tier. Defaults to image.TierPrimary.
	TierValue image.Tier

	// Result is returned by Fetch, truncated to count.
	Result []image.Descriptor

	calls []FetchCall
}

// Name implements image.Provider.
func (p *Provider) Name() string {
	if p.NameValue == "" {
		return "mock"
	}
	return p.NameValue
}

// Tier implements image.Provider.
func (p *Provider) Tier() image.Tier {
	if p.TierValue == "" {
		return image.TierPrimary
	}
	return p.TierValue
}

// Fetch records the call and returns up to count entries of Result.
func (p *Provider) Fetch(_ context.Context, phrase string, count int) []image.Descriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, FetchCall{Phrase: phrase, Count: count})
	n := min(max(count, 0), len(p.Result))
	out := make([]image.Descriptor, n)
	copy(out, p.Result[:n])
	return out
}

// Calls returns a copy of all recorded Fetch calls.
func (p *Provider) Calls() []FetchCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]FetchCall, len(p.calls))
	copy(out, p.calls)
	return out
}

var _ image.Provider = (*Provider)(nil)
