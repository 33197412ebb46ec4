package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/AbhiramValmeekam/adam-project/internal/config"
	"github.com/AbhiramValmeekam/adam-project/internal/observe"
	"github.com/AbhiramValmeekam/adam-project/internal/resilience"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/lipsync"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/lipsync/rhubarb"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/llm"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/llm/anyllm"
	oaillm "github.com/AbhiramValmeekam/adam-project/pkg/provider/llm/openai"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/stt"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/stt/deepgram"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/stt/whisper"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/tts"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/tts/coqui"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/tts/elevenlabs"
)

// Providers holds one interface value per provider slot. Nil means the
// provider is not configured. LLM is required; everything else degrades the
// API surface when absent.
type Providers struct {
	LLM     llm.Provider
	Refine  llm.Provider
	Quiz    llm.Provider
	STT     stt.Provider
	TTS     tts.Provider
	LipSync lipsync.Provider
}

// RegisterBuiltinProviders wires all built-in provider factories into reg.
func RegisterBuiltinProviders(reg *config.Registry) {
	// ── LLM ───────────────────────────────────────────────────────────────────
	for _, providerName := range []string{
		"gemini", "openai", "anthropic", "deepseek", "mistral", "groq", "llamacpp",
	} {
		reg.RegisterLLM(providerName, func(entry config.ProviderEntry) (llm.Provider, error) {
			var opts []anyllmlib.Option
			if entry.APIKey != "" {
				opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
			}
			if entry.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
			}
			model := entry.Model
			if model == "" && providerName == "gemini" {
				model = anyllm.DefaultGeminiModel
			}
			return anyllm.New(providerName, model, opts...)
		})
	}

	// ollama is a local server; it uses BaseURL for the address, not an API key.
	reg.RegisterLLM("ollama", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []anyllmlib.Option
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.NewOllama(entry.Model, opts...)
	})

	// openai-compatible talks to any server speaking the OpenAI chat API
	// (vLLM, LM Studio, a proxy) through the official SDK.
	reg.RegisterLLM("openai-compatible", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []oaillm.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaillm.WithBaseURL(entry.BaseURL))
		}
		if org := entry.OptionString("organization"); org != "" {
			opts = append(opts, oaillm.WithOrganization(org))
		}
		if d, err := optDuration(entry, "timeout"); err != nil {
			return nil, err
		} else if d > 0 {
			opts = append(opts, oaillm.WithTimeout(d))
		}
		return oaillm.New(entry.APIKey, entry.Model, opts...)
	})

	// ── STT ───────────────────────────────────────────────────────────────────

	reg.RegisterSTT("deepgram", func(entry config.ProviderEntry) (stt.Provider, error) {
		var opts []deepgram.Option
		if entry.Model != "" {
			opts = append(opts, deepgram.WithModel(entry.Model))
		}
		if lang := entry.OptionString("language"); lang != "" {
			opts = append(opts, deepgram.WithLanguage(lang))
		}
		if entry.BaseURL != "" {
			opts = append(opts, deepgram.WithBaseURL(entry.BaseURL))
		}
		return deepgram.New(entry.APIKey, opts...)
	})

	reg.RegisterSTT("whisper", func(entry config.ProviderEntry) (stt.Provider, error) {
		var opts []whisper.Option
		if entry.Model != "" {
			opts = append(opts, whisper.WithModel(entry.Model))
		}
		if lang := entry.OptionString("language"); lang != "" {
			opts = append(opts, whisper.WithLanguage(lang))
		}
		if d, err := optDuration(entry, "timeout"); err != nil {
			return nil, err
		} else if d > 0 {
			opts = append(opts, whisper.WithTimeout(d))
		}
		return whisper.New(entry.BaseURL, opts...)
	})

	// ── TTS ───────────────────────────────────────────────────────────────────

	reg.RegisterTTS("elevenlabs", func(entry config.ProviderEntry) (tts.Provider, error) {
		var opts []elevenlabs.Option
		if entry.Model != "" {
			opts = append(opts, elevenlabs.WithModel(entry.Model))
		}
		if outputFmt := entry.OptionString("output_format"); outputFmt != "" {
			opts = append(opts, elevenlabs.WithOutputFormat(outputFmt))
		}
		if voice := entry.OptionString("voice_id"); voice != "" {
			opts = append(opts, elevenlabs.WithDefaultVoice(voice))
		}
		return elevenlabs.New(entry.APIKey, opts...)
	})

	reg.RegisterTTS("coqui", func(entry config.ProviderEntry) (tts.Provider, error) {
		var opts []coqui.Option
		if lang := entry.OptionString("language"); lang != "" {
			opts = append(opts, coqui.WithLanguage(lang))
		}
		if mode := entry.OptionString("api_mode"); mode != "" {
			opts = append(opts, coqui.WithAPIMode(coqui.APIMode(mode)))
		}
		if voice := entry.OptionString("voice_id"); voice != "" {
			opts = append(opts, coqui.WithDefaultVoice(voice))
		}
		return coqui.New(entry.BaseURL, opts...)
	})

	// ── Lip sync ──────────────────────────────────────────────────────────────

	reg.RegisterLipSync("rhubarb", func(entry config.ProviderEntry) (lipsync.Provider, error) {
		var opts []rhubarb.Option
		if bin := entry.OptionString("binary"); bin != "" {
			opts = append(opts, rhubarb.WithBinary(bin))
		}
		if rec := entry.OptionString("recognizer"); rec != "" {
			opts = append(opts, rhubarb.WithRecognizer(rec))
		}
		if ff := entry.OptionString("ffmpeg"); ff != "" {
			opts = append(opts, rhubarb.WithFFmpeg(ff))
		}
		if dir := entry.OptionString("work_dir"); dir != "" {
			opts = append(opts, rhubarb.WithWorkDir(dir))
		}
		if d, err := optDuration(entry, "timeout"); err != nil {
			return nil, err
		} else if d > 0 {
			opts = append(opts, rhubarb.WithTimeout(d))
		}
		return rhubarb.New(opts...), nil
	})
}

// BuildProviders instantiates every provider named in cfg using reg. Each
// provider is wrapped in metrics instrumentation, and configured fallback
// lists are placed behind per-backend circuit breakers.
func BuildProviders(cfg *config.Config, reg *config.Registry, m *observe.Metrics, log *slog.Logger) (*Providers, error) {
	if log == nil {
		log = slog.Default()
	}
	fbCfg := resilience.FallbackConfig{Logger: log}
	llmCfg := resilience.FallbackConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{Trip: llm.IsQuotaError},
		Logger:         log,
	}
	ps := &Providers{}

	// ── LLM ───────────────────────────────────────────────────────────────────
	primary, err := reg.CreateLLM(cfg.Providers.LLM)
	if err != nil {
		return nil, fmt.Errorf("app: create llm provider %q: %w", cfg.Providers.LLM.Name, err)
	}
	ps.LLM = resilience.InstrumentLLM(primary, cfg.Providers.LLM.Name, m)
	if len(cfg.Providers.LLMFallbacks) > 0 {
		group := resilience.NewLLMFallback(ps.LLM, cfg.Providers.LLM.Name, llmCfg)
		for _, entry := range cfg.Providers.LLMFallbacks {
			p, err := reg.CreateLLM(entry)
			if err != nil {
				return nil, fmt.Errorf("app: create llm fallback %q: %w", entry.Name, err)
			}
			group.AddFallback(entry.Name, resilience.InstrumentLLM(p, entry.Name, m))
		}
		ps.LLM = group
	}
	log.Info("provider created", "kind", "llm", "name", cfg.Providers.LLM.Name, "fallbacks", len(cfg.Providers.LLMFallbacks))

	ps.Refine, err = optionalLLM(reg, cfg.Providers.RefineLLM, m, log)
	if err != nil {
		return nil, err
	}
	ps.Quiz, err = optionalLLM(reg, cfg.Providers.QuizLLM, m, log)
	if err != nil {
		return nil, err
	}

	// ── STT ───────────────────────────────────────────────────────────────────
	if name := cfg.Providers.STT.Name; name != "" {
		p, err := reg.CreateSTT(cfg.Providers.STT)
		if err != nil {
			return nil, fmt.Errorf("app: create stt provider %q: %w", name, err)
		}
		ps.STT = resilience.InstrumentSTT(p, name, m)
		if len(cfg.Providers.STTFallbacks) > 0 {
			group := resilience.NewSTTFallback(ps.STT, name, fbCfg)
			for _, entry := range cfg.Providers.STTFallbacks {
				fb, err := reg.CreateSTT(entry)
				if err != nil {
					return nil, fmt.Errorf("app: create stt fallback %q: %w", entry.Name, err)
				}
				group.AddFallback(entry.Name, resilience.InstrumentSTT(fb, entry.Name, m))
			}
			ps.STT = group
		}
		log.Info("provider created", "kind", "stt", "name", name)
	}

	// ── TTS ───────────────────────────────────────────────────────────────────
	if name := cfg.Providers.TTS.Name; name != "" {
		p, err := reg.CreateTTS(cfg.Providers.TTS)
		if err != nil {
			return nil, fmt.Errorf("app: create tts provider %q: %w", name, err)
		}
		ps.TTS = resilience.InstrumentTTS(p, name, m)
		if len(cfg.Providers.TTSFallbacks) > 0 {
			group := resilience.NewTTSFallback(ps.TTS, name, fbCfg)
			for _, entry := range cfg.Providers.TTSFallbacks {
				fb, err := reg.CreateTTS(entry)
				if err != nil {
					return nil, fmt.Errorf("app: create tts fallback %q: %w", entry.Name, err)
				}
				group.AddFallback(entry.Name, resilience.InstrumentTTS(fb, entry.Name, m))
			}
			ps.TTS = group
		}
		log.Info("provider created", "kind", "tts", "name", name)
	}

	// ── Lip sync ──────────────────────────────────────────────────────────────
	if name := cfg.Providers.LipSync.Name; name != "" {
		p, err := reg.CreateLipSync(cfg.Providers.LipSync)
		if err != nil {
			return nil, fmt.Errorf("app: create lipsync provider %q: %w", name, err)
		}
		ps.LipSync = resilience.InstrumentLipSync(p, name, m)
		log.Info("provider created", "kind", "lipsync", "name", name)
	}

	return ps, nil
}

func optionalLLM(reg *config.Registry, entry config.ProviderEntry, m *observe.Metrics, log *slog.Logger) (llm.Provider, error) {
	if entry.Name == "" {
		return nil, nil
	}
	p, err := reg.CreateLLM(entry)
	if errors.Is(err, config.ErrProviderNotRegistered) {
		log.Warn("provider not registered, using main llm", "kind", "llm", "name", entry.Name)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("app: create llm provider %q: %w", entry.Name, err)
	}
	return resilience.InstrumentLLM(p, entry.Name, m), nil
}

// optDuration parses Options[key] as a Go duration string ("30s").
func optDuration(entry config.ProviderEntry, key string) (time.Duration, error) {
	s := entry.OptionString(key)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: option %q: %w", entry.Name, key, err)
	}
	return d, nil
}
