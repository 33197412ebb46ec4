package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"llm":     {"gemini", "openai", "anthropic", "ollama", "deepseek", "mistral", "groq", "llamacpp", "openai-compatible"},
	"stt":     {"whisper", "deepgram"},
	"tts":     {"coqui", "elevenlabs"},
	"lipsync": {"rhubarb"},
}

var validLanguages = []string{"english", "en", "hindi", "hi", "telugu", "te"}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and
// validates the result. ${VAR} and $VAR references are replaced with the
// environment's values before decoding; unset variables expand to "".
func LoadFromReader(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	expanded := os.Expand(string(raw), os.Getenv)

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing every failure found. Unknown provider names only
// warn, so third-party factories can be registered.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if r := cfg.Server.TraceSampleRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("server.trace_sample_ratio %v must be between 0 and 1", r))
	}

	if cfg.Providers.LLM.Name == "" {
		errs = append(errs, errors.New("providers.llm.name is required"))
	}
	validateProviderName("llm", cfg.Providers.LLM.Name)
	validateProviderName("llm", cfg.Providers.RefineLLM.Name)
	validateProviderName("llm", cfg.Providers.QuizLLM.Name)
	validateProviderName("stt", cfg.Providers.STT.Name)
	validateProviderName("tts", cfg.Providers.TTS.Name)
	validateProviderName("lipsync", cfg.Providers.LipSync.Name)
	errs = append(errs, validateFallbacks("llm", cfg.Providers.LLMFallbacks)...)
	errs = append(errs, validateFallbacks("stt", cfg.Providers.STTFallbacks)...)
	errs = append(errs, validateFallbacks("tts", cfg.Providers.TTSFallbacks)...)

	if len(cfg.Providers.STTFallbacks) > 0 && cfg.Providers.STT.Name == "" {
		errs = append(errs, errors.New("providers.stt_fallbacks requires providers.stt"))
	}
	if len(cfg.Providers.TTSFallbacks) > 0 && cfg.Providers.TTS.Name == "" {
		errs = append(errs, errors.New("providers.tts_fallbacks requires providers.tts"))
	}
	if cfg.Providers.TTS.Name == "" {
		slog.Warn("providers.tts is not configured; replies will carry text and placeholder mouth cues only")
	}
	if cfg.Providers.LipSync.Name != "" && cfg.Providers.TTS.Name == "" {
		slog.Warn("providers.lipsync is configured without providers.tts; it will never run")
	}

	if cfg.Images.Count < 1 || cfg.Images.Count > 10 {
		errs = append(errs, fmt.Errorf("images.count %d is out of range [1, 10]", cfg.Images.Count))
	}
	if !cfg.Images.Wikimedia.Disabled && cfg.Images.Wikimedia.UserAgent == "" {
		slog.Warn("images.wikimedia.user_agent is empty; using the built-in agent string")
	}

	if !cfg.Cache.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("cache.backend %q is invalid; valid values: memory, redis, none", cfg.Cache.Backend))
	}
	if cfg.Cache.Backend == CacheRedis && cfg.Cache.RedisAddr == "" {
		errs = append(errs, errors.New("cache.redis_addr is required when cache.backend is redis"))
	}
	if cfg.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl %s must not be negative", cfg.Cache.TTL))
	}

	if lang := strings.ToLower(cfg.Avatar.DefaultLanguage); lang != "" && !slices.Contains(validLanguages, lang) {
		errs = append(errs, fmt.Errorf("avatar.default_language %q is invalid; valid values: english, hindi, telugu", cfg.Avatar.DefaultLanguage))
	}

	return errors.Join(errs...)
}

func validateFallbacks(kind string, entries []ProviderEntry) []error {
	var errs []error
	for i, e := range entries {
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("providers.%s_fallbacks[%d].name is required", kind, i))
			continue
		}
		validateProviderName(kind, e.Name)
	}
	return errs
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok || slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name, may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
