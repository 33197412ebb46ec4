package resilience

import (
	"context"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/stt"
)

// STTFallback implements [stt.Provider] with automatic failover across multiple
// STT backends. Each backend has its own circuit breaker.
type STTFallback struct {
	group *FallbackGroup[stt.Provider]
}

// Compile-time interface assertion.
var _ stt.Provider = (*STTFallback)(nil)

// NewSTTFallback creates an [STTFallback] with primary as the preferred backend.
func NewSTTFallback(primary stt.Provider, primaryName string, cfg FallbackConfig) *STTFallback {
	return &STTFallback{
		group: NewFallbackGroup(primary, primaryName, cfg),
	}
}

// AddFallback registers an additional STT provider as a fallback.
func (f *STTFallback) AddFallback(name string, provider stt.Provider) {
	f.group.AddFallback(name, provider)
}

// Transcribe converts the clip with the first healthy provider. Empty audio
// is rejected up front; no backend can do better with it.
func (f *STTFallback) Transcribe(ctx context.Context, audio []byte, cfg stt.Config) (string, error) {
	if len(audio) == 0 {
		return "", stt.ErrEmptyAudio
	}
	return ExecuteWithResult(f.group, func(p stt.Provider) (string, error) {
		return p.Transcribe(ctx, audio, cfg)
	})
}
