// Package lipsync defines the Provider interface for mouth-cue alignment.
//
// A lip-sync provider takes a synthesized speech clip and returns the timed
// mouth shapes the browser avatar plays back alongside the audio. Shapes use
// the Rhubarb Lip Sync alphabet (A–H, X).
//
// Implementations must be safe for concurrent use.
package lipsync

import (
	"context"

	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// Cue is a single timed mouth shape.
type Cue = types.MouthCue

// Provider is the abstraction over any lip-sync backend.
type Provider interface {
	// MouthCues aligns mouth shapes to audio, a complete WAV clip.
	MouthCues(ctx context.Context, audio []byte) ([]Cue, error)
}

// PlaceholderCues returns the fixed three-cue sequence used when audio could
// not be synthesized or aligned. Each call returns a fresh slice.
func PlaceholderCues() []Cue {
	return []Cue{
		{Start: 0.0, End: 0.5, Value: "A"},
		{Start: 0.5, End: 1.0, Value: "B"},
		{Start: 1.0, End: 1.5, Value: "C"},
	}
}
