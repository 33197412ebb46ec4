// Package mock provides a test double for the lipsync.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/lipsync"
)

// Provider is a mock implementation of lipsync.Provider.
type Provider struct {
	mu sync.Mutex

	// Cues is returned by MouthCues. When nil, lipsync.PlaceholderCues is used.
	Cues []lipsync.Cue

	// Err, if non-nil, is returned as the error from MouthCues.
	Err error

	// AudioCalls records the audio passed to each MouthCues call.
	AudioCalls [][]byte
}

// MouthCues records the call and returns Cues, Err.
func (p *Provider) MouthCues(_ context.Context, audio []byte) ([]lipsync.Cue, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.AudioCalls = append(p.AudioCalls, append([]byte(nil), audio...))
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Cues == nil {
		return lipsync.PlaceholderCues(), nil
	}
	return append([]lipsync.Cue(nil), p.Cues...), nil
}

// CallCount returns the number of MouthCues calls. Thread-safe.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.AudioCalls)
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.AudioCalls = nil
}

var _ lipsync.Provider = (*Provider)(nil)
