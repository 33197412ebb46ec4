package app_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/AbhiramValmeekam/adam-project/internal/app"
	"github.com/AbhiramValmeekam/adam-project/internal/config"
	"github.com/AbhiramValmeekam/adam-project/internal/resilience"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/lipsync"
	lipsyncmock "github.com/AbhiramValmeekam/adam-project/pkg/provider/lipsync/mock"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/llm"
	llmmock "github.com/AbhiramValmeekam/adam-project/pkg/provider/llm/mock"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/stt"
	sttmock "github.com/AbhiramValmeekam/adam-project/pkg/provider/stt/mock"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/tts"
	ttsmock "github.com/AbhiramValmeekam/adam-project/pkg/provider/tts/mock"
)

func mockRegistry() *config.Registry {
	reg := config.NewRegistry()
	reg.RegisterLLM("mock", func(config.ProviderEntry) (llm.Provider, error) { return &llmmock.Provider{}, nil })
	reg.RegisterLLM("broken", func(config.ProviderEntry) (llm.Provider, error) { return nil, errors.New("bad key") })
	reg.RegisterSTT("mock", func(config.ProviderEntry) (stt.Provider, error) { return &sttmock.Provider{}, nil })
	reg.RegisterTTS("mock", func(config.ProviderEntry) (tts.Provider, error) { return &ttsmock.Provider{}, nil })
	reg.RegisterLipSync("mock", func(config.ProviderEntry) (lipsync.Provider, error) { return &lipsyncmock.Provider{}, nil })
	return reg
}

func TestBuildProviders_AllSlots(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Providers.STT = config.ProviderEntry{Name: "mock"}
	cfg.Providers.LipSync = config.ProviderEntry{Name: "mock"}
	cfg.Providers.QuizLLM = config.ProviderEntry{Name: "mock"}

	ps, err := app.BuildProviders(cfg, mockRegistry(), testMetrics(t), nil)
	if err != nil {
		t.Fatalf("BuildProviders: %v", err)
	}
	if ps.LLM == nil || ps.STT == nil || ps.TTS == nil || ps.LipSync == nil || ps.Quiz == nil {
		t.Errorf("missing provider: %+v", ps)
	}
	if ps.Refine != nil {
		t.Error("refine llm should be nil when not configured")
	}
}

func TestBuildProviders_Fallbacks(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Providers.LLMFallbacks = []config.ProviderEntry{{Name: "mock"}}
	cfg.Providers.TTSFallbacks = []config.ProviderEntry{{Name: "mock"}}

	ps, err := app.BuildProviders(cfg, mockRegistry(), testMetrics(t), nil)
	if err != nil {
		t.Fatalf("BuildProviders: %v", err)
	}
	group, ok := ps.LLM.(*resilience.LLMFallback)
	if !ok {
		t.Fatalf("LLM is %T, want *resilience.LLMFallback", ps.LLM)
	}
	if got := group.Names(); !slices.Equal(got, []string{"mock", "mock"}) {
		t.Errorf("Names() = %v", got)
	}
	if _, ok := ps.TTS.(*resilience.TTSFallback); !ok {
		t.Errorf("TTS is %T, want *resilience.TTSFallback", ps.TTS)
	}
}

func TestBuildProviders_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{
			name:    "unregistered llm",
			mutate:  func(c *config.Config) { c.Providers.LLM.Name = "nope" },
			wantErr: config.ErrProviderNotRegistered,
		},
		{
			name:   "failing llm factory",
			mutate: func(c *config.Config) { c.Providers.LLM.Name = "broken" },
		},
		{
			name:   "failing fallback",
			mutate: func(c *config.Config) { c.Providers.LLMFallbacks = []config.ProviderEntry{{Name: "broken"}} },
		},
		{
			name:    "unregistered stt",
			mutate:  func(c *config.Config) { c.Providers.STT.Name = "nope" },
			wantErr: config.ErrProviderNotRegistered,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			_, err := app.BuildProviders(cfg, mockRegistry(), testMetrics(t), nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildProviders_UnregisteredRefineFallsBackToMain(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Providers.RefineLLM = config.ProviderEntry{Name: "nope"}
	ps, err := app.BuildProviders(cfg, mockRegistry(), testMetrics(t), nil)
	if err != nil {
		t.Fatalf("BuildProviders: %v", err)
	}
	if ps.Refine != nil {
		t.Errorf("Refine = %v, want nil", ps.Refine)
	}
}

func TestRegisterBuiltinProviders(t *testing.T) {
	t.Parallel()

	reg := config.NewRegistry()
	app.RegisterBuiltinProviders(reg)

	if _, err := reg.CreateLLM(config.ProviderEntry{Name: "ollama", Model: "llama3"}); err != nil {
		t.Errorf("ollama: %v", err)
	}
	if _, err := reg.CreateLLM(config.ProviderEntry{Name: "openai-compatible", Model: "m"}); err == nil {
		t.Error("openai-compatible without api key should fail")
	}
	if _, err := reg.CreateLipSync(config.ProviderEntry{Name: "rhubarb"}); err != nil {
		t.Errorf("rhubarb: %v", err)
	}
	_, err := reg.CreateSTT(config.ProviderEntry{
		Name:    "whisper",
		BaseURL: "http://localhost:8080",
		Options: map[string]any{"timeout": "soon"},
	})
	if err == nil {
		t.Error("expected error for unparsable timeout")
	}
}
