package resilience

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/AbhiramValmeekam/adam-project/internal/observe"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/lipsync"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/llm"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/stt"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/tts"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// Provider kinds reported in the "kind" metric attribute.
const (
	KindLLM     = "llm"
	KindSTT     = "stt"
	KindTTS     = "tts"
	KindLipSync = "lipsync"
)

// record observes one provider call: its latency in h and its outcome in the
// request and error counters.
func record(ctx context.Context, m *observe.Metrics, h metric.Float64Histogram, provider, kind string, start time.Time, err error) {
	h.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(observe.Attr("provider", provider)))
	status := "ok"
	if err != nil {
		status = "error"
		m.RecordProviderError(ctx, provider, kind)
	}
	m.RecordProviderRequest(ctx, provider, kind, status)
}

// ---- LLM ----

type instrumentedLLM struct {
	next llm.Provider
	name string
	m    *observe.Metrics
}

// InstrumentLLM wraps p so every completion is timed and counted under name.
func InstrumentLLM(p llm.Provider, name string, m *observe.Metrics) llm.Provider {
	return &instrumentedLLM{next: p, name: name, m: m}
}

func (i *instrumentedLLM) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	start := time.Now()
	resp, err := i.next.Complete(ctx, req)
	record(ctx, i.m, i.m.LLMDuration, i.name, KindLLM, start, err)
	return resp, err
}

// ---- STT ----

type instrumentedSTT struct {
	next stt.Provider
	name string
	m    *observe.Metrics
}

// InstrumentSTT wraps p so every transcription is timed and counted under name.
func InstrumentSTT(p stt.Provider, name string, m *observe.Metrics) stt.Provider {
	return &instrumentedSTT{next: p, name: name, m: m}
}

func (i *instrumentedSTT) Transcribe(ctx context.Context, audio []byte, cfg stt.Config) (string, error) {
	start := time.Now()
	text, err := i.next.Transcribe(ctx, audio, cfg)
	record(ctx, i.m, i.m.STTDuration, i.name, KindSTT, start, err)
	return text, err
}

// ---- TTS ----

type instrumentedTTS struct {
	next tts.Provider
	name string
	m    *observe.Metrics
}

// InstrumentTTS wraps p so every synthesis is timed and counted under name.
// ListVoices is passed through untimed.
func InstrumentTTS(p tts.Provider, name string, m *observe.Metrics) tts.Provider {
	return &instrumentedTTS{next: p, name: name, m: m}
}

func (i *instrumentedTTS) Synthesize(ctx context.Context, text string, voice types.VoiceProfile) (*tts.Audio, error) {
	start := time.Now()
	audio, err := i.next.Synthesize(ctx, text, voice)
	record(ctx, i.m, i.m.TTSDuration, i.name, KindTTS, start, err)
	return audio, err
}

func (i *instrumentedTTS) ListVoices(ctx context.Context) ([]types.VoiceProfile, error) {
	return i.next.ListVoices(ctx)
}

// ---- Lip sync ----

type instrumentedLipSync struct {
	next lipsync.Provider
	name string
	m    *observe.Metrics
}

// InstrumentLipSync wraps p so every alignment is timed and counted under name.
func InstrumentLipSync(p lipsync.Provider, name string, m *observe.Metrics) lipsync.Provider {
	return &instrumentedLipSync{next: p, name: name, m: m}
}

func (i *instrumentedLipSync) MouthCues(ctx context.Context, audio []byte) ([]lipsync.Cue, error) {
	start := time.Now()
	cues, err := i.next.MouthCues(ctx, audio)
	record(ctx, i.m, i.m.LipSyncDuration, i.name, KindLipSync, start, err)
	return cues, err
}

// Ready forwards to the wrapped provider's readiness probe, if it has one.
func (i *instrumentedLipSync) Ready(ctx context.Context) error {
	if r, ok := i.next.(interface{ Ready(context.Context) error }); ok {
		return r.Ready(ctx)
	}
	return nil
}
