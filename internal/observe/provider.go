package observe

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// DefaultServiceName is reported when ProviderConfig.ServiceName is empty.
const DefaultServiceName = "adam"

// Resource attribute keys describing how this backend instance is wired.
const (
	ResLLMProvider     = attribute.Key("adam.provider.llm")
	ResTTSProvider     = attribute.Key("adam.provider.tts")
	ResLipSyncProvider = attribute.Key("adam.provider.lipsync")
	ResLanguage        = attribute.Key("adam.avatar.language")
	ResEnvironment     = attribute.Key("deployment.environment")
)

// ProviderConfig configures the OpenTelemetry SDK providers.
type ProviderConfig struct {
	ServiceName    string
	ServiceVersion string

	// Environment is reported as deployment.environment, e.g. "dev".
	Environment string

	// LLMProvider, TTSProvider and LipSyncProvider name the configured
	// backends. Empty names are omitted from the resource.
	LLMProvider     string
	TTSProvider     string
	LipSyncProvider string

	// Language is the avatar's default reply language.
	Language string

	// SampleRatio is the fraction of new traces recorded, in (0, 1]. Zero
	// samples everything. Child spans follow their parent's decision.
	SampleRatio float64

	// TraceExporter is an optional span exporter. When nil, spans are
	// recorded but not exported.
	TraceExporter sdktrace.SpanExporter
}

// newResource builds the resource describing this backend instance.
func newResource(cfg ProviderConfig) (*resource.Resource, error) {
	name := cfg.ServiceName
	if name == "" {
		name = DefaultServiceName
	}
	attrs := []attribute.KeyValue{
		semconv.ServiceName(name),
		semconv.ServiceVersion(cfg.ServiceVersion),
	}
	for _, kv := range []struct {
		key attribute.Key
		val string
	}{
		{ResEnvironment, cfg.Environment},
		{ResLLMProvider, cfg.LLMProvider},
		{ResTTSProvider, cfg.TTSProvider},
		{ResLipSyncProvider, cfg.LipSyncProvider},
		{ResLanguage, cfg.Language},
	} {
		if kv.val != "" {
			attrs = append(attrs, kv.key.String(kv.val))
		}
	}
	// Schemaless so the merge adopts the SDK default's schema URL instead of
	// conflicting with it.
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

// sampler returns the trace sampler for ratio.
func sampler(ratio float64) (sdktrace.Sampler, error) {
	switch {
	case ratio < 0 || ratio > 1:
		return nil, fmt.Errorf("observe: sample ratio %v out of range [0, 1]", ratio)
	case ratio == 0 || ratio == 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample()), nil
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)), nil
	}
}

// InitProvider installs global meter and tracer providers. Metrics are
// exported through Prometheus so /metrics keeps working; traces go to
// cfg.TraceExporter when one is set.
//
// The returned function flushes and closes both providers.
func InitProvider(ctx context.Context, cfg ProviderConfig) (shutdown func(context.Context) error, err error) {
	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("observe: build resource: %w", err)
	}
	smp, err := sampler(cfg.SampleRatio)
	if err != nil {
		return nil, err
	}

	promExp, err := promexporter.New()
	if err != nil {
		return nil, fmt.Errorf("observe: prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExp),
	)

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(smp),
	}
	if cfg.TraceExporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(cfg.TraceExporter))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)

	otel.SetMeterProvider(mp)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
