package pexels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image/mock"
)

func TestFetch_Unconfigured_UsesPlaceholder(t *testing.T) {
	for _, key := range []string{"", UnsetKey} {
		ph := &mock.Provider{Result: []image.Descriptor{{URL: "a"}, {URL: "b"}}}
		p := New(key, WithPlaceholder(ph), WithBaseURL("http://127.0.0.1:1"))
		got := p.Fetch(context.Background(), "volcano", 2)
		if len(got) != 2 {
			t.Fatalf("key %q: expected 2 placeholders, got %d", key, len(got))
		}
		if len(ph.Calls()) != 1 {
			t.Errorf("key %q: expected placeholder to be called once", key)
		}
	}
}

func TestFetch_Unconfigured_LeavesAltEmpty(t *testing.T) {
	got := New("").Fetch(context.Background(), "photosynthesis", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 placeholders, got %d", len(got))
	}
	for i, d := range got {
		if d.Alt != "" {
			t.Errorf("[%d] alt = %q, want empty", i, d.Alt)
		}
		if d.URL == "" {
			t.Errorf("[%d] empty URL", i)
		}
	}
}

func TestFetch_MapsPhotos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "secret" {
			t.Errorf("Authorization = %q", got)
		}
		q := r.URL.Query()
		if q.Get("query") != "red panda" || q.Get("per_page") != "3" || q.Get("orientation") != "landscape" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"photos":[
			{"id":1,"photographer":"Ana","alt":"Red panda on a branch","src":{"medium":"https://img/1.jpg"}},
			{"id":2,"photographer":"Ben","alt":"","src":{"medium":"https://img/2.jpg"}}
		]}`))
	}))
	defer srv.Close()

	p := New("secret", WithBaseURL(srv.URL))
	got := p.Fetch(context.Background(), "red panda", 3)
	if len(got) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(got))
	}
	if got[0].URL != "https://img/1.jpg" || got[0].Photographer != "Ana" || got[0].Alt != "Red panda on a branch" {
		t.Errorf("first descriptor = %+v", got[0])
	}
	if got[1].Alt != "red panda" {
		t.Errorf("empty alt should default to phrase, got %q", got[1].Alt)
	}
	for _, d := range got {
		if d.Source != image.SourcePexels || d.Tier != image.TierSecondary {
			t.Errorf("source/tier = %q/%q", d.Source, d.Tier)
		}
	}
}

func TestFetch_ErrorStatusReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := New("bad", WithBaseURL(srv.URL))
	if got := p.Fetch(context.Background(), "x", 3); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestFetch_MalformedBodyReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"photos": "nope"`))
	}))
	defer srv.Close()

	p := New("k", WithBaseURL(srv.URL))
	if got := p.Fetch(context.Background(), "x", 3); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestConfigured(t *testing.T) {
	if New("  ").Configured() {
		t.Error("blank key should not be configured")
	}
	if !New("abc").Configured() {
		t.Error("abc should be configured")
	}
}
