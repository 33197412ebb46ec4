// Package tts defines the Provider interface for Text-to-Speech backends.
//
// A TTS provider wraps a speech synthesis service (e.g., ElevenLabs or a local
// Coqui server) and turns one avatar message into a complete audio clip. The
// clip is later base64-encoded for the browser and fed to the lip-sync
// analyser, so providers return whole files rather than streams.
//
// Implementations must be safe for concurrent use.
package tts

import (
	"context"

	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// Audio formats reported in [Audio.Format].
const (
	FormatWAV = "wav"
	FormatMP3 = "mp3"
)

// Audio is one synthesized clip.
type Audio struct {
	// Data holds the encoded clip.
	Data []byte

	// Format is the container of Data (see the Format* constants).
	Format string

	// SampleRate is the sample rate in Hz, when known.
	SampleRate int
}

// Provider is the abstraction over any TTS backend.
//
// Implementations must be safe for concurrent use. The speech assembler
// synthesizes every message of a reply in parallel.
type Provider interface {
	// Synthesize renders text with the given voice and returns the finished
	// clip. An empty voice.ID selects the provider's default voice.
	//
	// Returns an error if the service is unreachable, rejects the request, or
	// ctx is cancelled before the clip is complete.
	Synthesize(ctx context.Context, text string, voice types.VoiceProfile) (*Audio, error)

	// ListVoices returns all voice profiles available from this provider. The list
	// reflects the provider's current catalogue and may change between calls if the
	// underlying service adds or removes voices.
	//
	// Returns an error if the provider cannot be reached or if ctx is cancelled
	// before the list is retrieved.
	ListVoices(ctx context.Context) ([]types.VoiceProfile, error)
}
