package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for the backend tracer.
const tracerName = "github.com/AbhiramValmeekam/adam-project"

// Span names of the traced backend operations.
const (
	SpanAvatarRespond     = "avatar.Respond"
	SpanImageryRun        = "imagery.Run"
	SpanSpeechVoice       = "speech.Voice"
	SpanStudySummarize    = "study.Summarize"
	SpanStudyGenerateTest = "study.GenerateTest"
	SpanStudyFeedback     = "study.Feedback"
)

// Span attribute keys.
const (
	// AttrLanguage is the reply language requested by the caller.
	AttrLanguage = attribute.Key("avatar.language")
	// AttrOutcome is how a reply was produced (ok, quota, error, ...).
	AttrOutcome = attribute.Key("avatar.outcome")
	// AttrPhrase is the cleaned image search phrase.
	AttrPhrase = attribute.Key("imagery.phrase")
	// AttrTier is the tier of the source that produced the leading image.
	AttrTier = attribute.Key("imagery.tier")
	// AttrImageCount is the number of images in the assembled set.
	AttrImageCount = attribute.Key("imagery.count")
	// AttrMessages is the number of messages voiced in one reply.
	AttrMessages = attribute.Key("speech.messages")
)

// Tracer returns the package-level [trace.Tracer] for the backend. It uses the
// globally registered [trace.TracerProvider].
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartSpan starts a new span and returns the updated context and span. The
// caller must call span.End() when done.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// SpanError records err on the span active in ctx and marks it failed. It is
// a no-op for a nil err or when ctx carries no recording span.
//
// Failures that are absorbed into a canned reply still go through here so
// they remain visible in traces.
func SpanError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// CorrelationID extracts the trace ID from the span context in ctx, or ""
// when there is none. It doubles as the request correlation identifier.
func CorrelationID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// Logger returns the default [slog.Logger] with trace_id and span_id added
// from ctx when a span is active.
func Logger(ctx context.Context) *slog.Logger {
	l := slog.Default()
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		l = l.With(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}
