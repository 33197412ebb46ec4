// Package avatar turns a user question into the spoken reply of the digital
// human: up to three short messages, each tagged with a facial expression and
// a body animation, plus a set of illustrative images.
//
// The model is asked for a JSON object. Replies that do not parse are spoken
// verbatim rather than dropped, and replies for Hindi or Telugu that contain
// no characters of the requested script have their first message replaced
// with a fixed apology in that language.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/AbhiramValmeekam/adam-project/internal/observe"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/llm"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// ImageSource produces the illustrative images attached to a reply.
// *imagery.Pipeline satisfies it.
type ImageSource interface {
	Generate(ctx context.Context, question, answer string) []image.Descriptor
}

// Option is a functional option for configuring a Responder.
type Option func(*Responder)

// WithImages attaches images from src to every model-generated reply.
func WithImages(src ImageSource) Option {
	return func(r *Responder) {
		r.images = src
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Responder) {
		r.log = l
	}
}

// WithMetrics sets the metrics sink. Defaults to observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Responder) {
		r.metrics = m
	}
}

// WithTemperature sets the sampling temperature. Zero leaves the provider
// default.
func WithTemperature(t float64) Option {
	return func(r *Responder) {
		r.temperature = t
	}
}

// Responder produces avatar replies. It is safe for concurrent use.
type Responder struct {
	llm         llm.Provider
	images      ImageSource
	temperature float64
	log         *slog.Logger
	metrics     *observe.Metrics
}

// New creates a Responder backed by p.
func New(p llm.Provider, opts ...Option) (*Responder, error) {
	if p == nil {
		return nil, errors.New("avatar: llm provider must not be nil")
	}
	r := &Responder{llm: p}
	for _, o := range opts {
		o(r)
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.metrics == nil {
		r.metrics = observe.DefaultMetrics()
	}
	return r, nil
}

// Respond answers question in lang.
//
// Model failures never surface as errors: an exhausted quota yields
// [QuotaMessages] and any other failure yields [ErrorMessages], both without
// images. The only error returned is the context's, when the caller has gone
// away.
func (r *Responder) Respond(ctx context.Context, question string, lang Language) (*Response, error) {
	ctx, span := observe.StartSpan(ctx, observe.SpanAvatarRespond,
		trace.WithAttributes(observe.AttrLanguage.String(string(lang))))
	defer span.End()

	requestID := uuid.NewString()
	log := r.log.With("request_id", requestID, "language", string(lang))

	resp, err := r.respond(ctx, log, question, lang)
	if err != nil {
		observe.SpanError(ctx, err)
		return nil, err
	}
	span.SetAttributes(observe.AttrOutcome.String(string(resp.Outcome)))
	r.metrics.RecordAvatarResponse(ctx, string(lang), string(resp.Outcome))
	log.Info("avatar reply ready",
		"outcome", resp.Outcome,
		"messages", len(resp.Messages),
		"images", len(resp.Images))
	return resp, nil
}

func (r *Responder) respond(ctx context.Context, log *slog.Logger, question string, lang Language) (*Response, error) {
	if strings.TrimSpace(question) == "" {
		return &Response{Messages: IntroMessages(), Outcome: OutcomeIntro}, nil
	}

	raw, err := r.complete(ctx, question, lang)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("avatar: respond: %w", ctxErr)
		}
		observe.SpanError(ctx, err)
		if llm.IsQuotaError(err) {
			log.Warn("model quota exhausted", "err", err)
			return &Response{Messages: QuotaMessages(), Outcome: OutcomeQuota}, nil
		}
		log.Error("model completion failed", "err", err)
		return &Response{Messages: ErrorMessages(), Outcome: OutcomeError}, nil
	}

	resp := &Response{Outcome: OutcomeOK}
	msgs, err := parseReply(raw)
	if err != nil {
		log.Warn("model reply is not valid JSON, speaking it verbatim", "err", err, "reply_len", len(raw))
		text := raw
		if strings.TrimSpace(text) == "" {
			text = DefaultGreeting
		}
		msgs = []Message{{Text: text, FacialExpression: ExpressionDefault, Animation: AnimationTalkingOne}}
		resp.Outcome = OutcomeUnparsed
	} else if !lang.UsesScript(joinTexts(msgs)) {
		log.Warn("reply does not use the requested script, replacing first message")
		msgs[0].Text = lang.fallbackText(question)
		resp.Outcome = OutcomeLanguageFallback
	}
	resp.Messages = msgs

	if r.images != nil {
		answer := resp.Text()
		if resp.Outcome == OutcomeUnparsed {
			answer = raw
		}
		resp.Images = r.images.Generate(ctx, question, answer)
	}
	return resp, nil
}

func (r *Responder) complete(ctx context.Context, question string, lang Language) (string, error) {
	resp, err := r.llm.Complete(ctx, llm.CompletionRequest{
		Messages:    []types.Message{{Role: "user", Content: buildPrompt(question, lang)}},
		Temperature: r.temperature,
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("avatar: nil completion response")
	}
	return strings.TrimSpace(resp.Content), nil
}

func joinTexts(msgs []Message) string {
	texts := make([]string, len(msgs))
	for i, m := range msgs {
		texts[i] = m.Text
	}
	return strings.Join(texts, " ")
}
