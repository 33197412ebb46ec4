package coqui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/tts"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// ---- test helpers ----

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

// ---- New ----

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		opts    []Option
		wantErr bool
	}{
		{"valid", "http://localhost:5002/", nil, false},
		{"empty url", "", nil, true},
		{"xtts mode", "http://localhost:8002", []Option{WithAPIMode(APIModeXTTS)}, false},
		{"unknown mode", "http://localhost:8002", []Option{WithAPIMode("grpc")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.url, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.serverURL != "http://localhost:5002" && tt.name == "valid" {
				t.Errorf("trailing slash not trimmed: %q", p.serverURL)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	p, err := New("http://localhost:5002", WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.apiMode != APIModeStandard {
		t.Errorf("apiMode = %q, want standard", p.apiMode)
	}
	if p.language != defaultLanguage {
		t.Errorf("language = %q", p.language)
	}
	if p.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", p.httpClient.Timeout)
	}
}

// ---- Synthesize ----

func TestSynthesize_StandardAPI(t *testing.T) {
	wav := tts.EncodeWAV([]byte{1, 2, 3, 4}, 22050, 1)
	var gotQuery map[string]string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != apiTTSEndpoint {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{"text": q.Get("text"), "speaker_id": q.Get("speaker_id"), "language_id": q.Get("language_id")}
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wav)
	})

	p, _ := New(srv.URL)
	audio, err := p.Synthesize(context.Background(), "Hello world.", types.VoiceProfile{ID: "p225", Language: "hi"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio.Data) != string(wav) {
		t.Error("WAV body should be returned unchanged")
	}
	if audio.SampleRate != 22050 || audio.Format != tts.FormatWAV {
		t.Errorf("rate/format = %d/%q", audio.SampleRate, audio.Format)
	}
	if gotQuery["text"] != "Hello world." || gotQuery["speaker_id"] != "p225" || gotQuery["language_id"] != "hi" {
		t.Errorf("query = %v", gotQuery)
	}
}

func TestSynthesize_StandardAPI_NoSpeaker(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("speaker_id") {
			t.Error("speaker_id should be omitted without a voice")
		}
		_, _ = w.Write(tts.EncodeWAV(nil, 16000, 1))
	})
	p, _ := New(srv.URL)
	if _, err := p.Synthesize(context.Background(), "Hi", types.VoiceProfile{}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
}

func TestSynthesize_XTTS(t *testing.T) {
	var body ttsRequest
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != ttsEndpoint {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		_, _ = w.Write(tts.EncodeWAV([]byte{9, 9}, 24000, 1))
	})

	p, _ := New(srv.URL, WithAPIMode(APIModeXTTS), WithDefaultVoice("Ana Florence"))
	audio, err := p.Synthesize(context.Background(), "Namaste", types.VoiceProfile{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if audio.SampleRate != 24000 {
		t.Errorf("rate = %d", audio.SampleRate)
	}
	if body.Text != "Namaste" || body.SpeakerWav != "Ana Florence" || body.Language != "en" {
		t.Errorf("body = %+v", body)
	}
}

func TestSynthesize_XTTSRequiresVoice(t *testing.T) {
	p, _ := New("http://localhost:8002", WithAPIMode(APIModeXTTS))
	if _, err := p.Synthesize(context.Background(), "Hi", types.VoiceProfile{}); err == nil {
		t.Fatal("expected error without voice in XTTS mode")
	}
}

func TestSynthesize_Errors(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"not a wav", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("<html>oops</html>")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.h)
			p, _ := New(srv.URL)
			if _, err := p.Synthesize(context.Background(), "Hi", types.VoiceProfile{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSynthesize_EmptyText(t *testing.T) {
	p, _ := New("http://localhost:5002")
	if _, err := p.Synthesize(context.Background(), " ", types.VoiceProfile{}); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestSynthesize_ContextCancelled(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	p, _ := New(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Synthesize(ctx, "Hi", types.VoiceProfile{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

// ---- ListVoices ----

func TestListVoices_XTTS(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != studioSpeakersEndpoint {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"Zed": {}, "Ana Florence": {"speaker_embedding": []}}`))
	})
	p, _ := New(srv.URL, WithAPIMode(APIModeXTTS))
	voices, err := p.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices: %v", err)
	}
	if len(voices) != 2 || voices[0].ID != "Ana Florence" || voices[1].ID != "Zed" {
		t.Errorf("voices = %+v", voices)
	}
}

func TestListVoices_StandardMultiSpeaker(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"model_name": "vctk/vits", "language": "en", "speakers": ["p243", "p225"]}`))
	})
	p, _ := New(srv.URL)
	voices, err := p.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices: %v", err)
	}
	if len(voices) != 2 || voices[0].ID != "p225" || voices[0].Provider != "coqui" || voices[0].Language != "en" {
		t.Errorf("voices = %+v", voices)
	}
}

func TestListVoices_StandardSingleSpeaker(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"model_name": "ljspeech/tacotron2-DDC"}`))
	})
	p, _ := New(srv.URL)
	voices, err := p.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices: %v", err)
	}
	if len(voices) != 1 || voices[0].Name != "ljspeech/tacotron2-DDC" || voices[0].ID != "" {
		t.Errorf("voices = %+v", voices)
	}
}

func TestListVoices_ServerError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	p, _ := New(srv.URL)
	if _, err := p.ListVoices(context.Background()); err == nil {
		t.Fatal("expected error for 502")
	}
}
