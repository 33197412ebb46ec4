// Package speech gives every message of an avatar reply its audio and its
// mouth cues.
//
// Messages are voiced concurrently. A message whose synthesis fails is sent
// with empty audio, and a message whose alignment fails keeps its audio; in
// both cases it carries the placeholder cue sequence so the avatar still
// moves its mouth.
package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AbhiramValmeekam/adam-project/internal/avatar"
	"github.com/AbhiramValmeekam/adam-project/internal/observe"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/lipsync"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/tts"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// Option is a functional option for configuring an Assembler.
type Option func(*Assembler)

// WithVoice sets the voice used when a request does not name one.
func WithVoice(v types.VoiceProfile) Option {
	return func(a *Assembler) {
		a.voice = v
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		a.log = l
	}
}

// Assembler voices avatar messages. It is safe for concurrent use.
type Assembler struct {
	tts   tts.Provider
	lips  lipsync.Provider
	voice types.VoiceProfile
	log   *slog.Logger
}

// New creates an Assembler. lips may be nil, in which case every message
// carries the placeholder cues.
func New(t tts.Provider, lips lipsync.Provider, opts ...Option) (*Assembler, error) {
	if t == nil {
		return nil, errors.New("speech: tts provider must not be nil")
	}
	a := &Assembler{tts: t, lips: lips}
	for _, o := range opts {
		o(a)
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	return a, nil
}

// Voice fills in Audio and LipSync on every message of msgs in place. voice
// overrides the default voice when its ID is set.
//
// Per-message failures are absorbed; the returned error is non-nil only when
// ctx ends first.
func (a *Assembler) Voice(ctx context.Context, msgs []avatar.Message, voice types.VoiceProfile, language string) error {
	ctx, span := observe.StartSpan(ctx, observe.SpanSpeechVoice,
		trace.WithAttributes(observe.AttrMessages.Int(len(msgs))))
	defer span.End()

	if voice.ID == "" {
		voice = a.voice
	}
	if voice.Language == "" {
		voice.Language = language
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range msgs {
		g.Go(func() error {
			a.voiceOne(gctx, i, &msgs[i], voice)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (a *Assembler) voiceOne(ctx context.Context, idx int, m *avatar.Message, voice types.VoiceProfile) {
	log := a.log.With("message", idx)
	m.Audio = ""
	m.LipSync = &types.LipSync{MouthCues: lipsync.PlaceholderCues()}

	if strings.TrimSpace(m.Text) == "" {
		return
	}
	audio, err := a.tts.Synthesize(ctx, m.Text, voice)
	if err != nil || audio == nil || len(audio.Data) == 0 {
		log.Warn("speech synthesis failed, sending placeholder", "err", err)
		return
	}
	m.Audio = base64.StdEncoding.EncodeToString(audio.Data)

	if a.lips == nil {
		return
	}
	cues, err := a.lips.MouthCues(ctx, audio.Data)
	if err != nil || len(cues) == 0 {
		log.Warn("lip sync failed, sending placeholder cues", "err", err)
		return
	}
	m.LipSync = &types.LipSync{MouthCues: cues}
}
