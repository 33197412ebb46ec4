package rhubarb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/tts"
)

// fakeRunner stands in for the rhubarb and ffmpeg binaries.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	sheet string
	err   error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()
	if f.err != nil {
		return []byte("rhubarb: something broke\n"), f.err
	}
	// ffmpeg: produce the output file named by the last argument.
	if strings.HasSuffix(name, "ffmpeg") {
		return nil, os.WriteFile(args[len(args)-1], tts.Silent().Data, 0o600)
	}
	i := slices.Index(args, "-o")
	if i < 0 {
		return nil, errors.New("missing -o")
	}
	return nil, os.WriteFile(args[i+1], []byte(f.sheet), 0o600)
}

func newTestProvider(t *testing.T, f *fakeRunner, opts ...Option) *Provider {
	t.Helper()
	p := New(append([]Option{WithWorkDir(t.TempDir())}, opts...)...)
	p.run = f.run
	return p
}

func TestMouthCues_RunsRhubarb(t *testing.T) {
	f := &fakeRunner{sheet: `{"metadata": {"duration": 0.9}, "mouthCues": [
		{"start": 0.00, "end": 0.12, "value": "X"},
		{"start": 0.12, "end": 0.40, "value": "B"},
		{"start": 0.40, "end": 0.90, "value": "F"}
	]}`}
	p := newTestProvider(t, f, WithBinary("./bin/rhubarb"))

	cues, err := p.MouthCues(context.Background(), tts.Silent().Data)
	if err != nil {
		t.Fatalf("MouthCues: %v", err)
	}
	if len(cues) != 3 || cues[1].Value != "B" || cues[2].End != 0.90 {
		t.Errorf("cues = %+v", cues)
	}

	if len(f.calls) != 1 {
		t.Fatalf("got %d commands, want 1", len(f.calls))
	}
	call := f.calls[0]
	if call[0] != "./bin/rhubarb" || call[1] != "-f" || call[2] != "json" || call[3] != "-o" {
		t.Errorf("command = %v", call)
	}
	if call[len(call)-2] != "-r" || call[len(call)-1] != "phonetic" {
		t.Errorf("recognizer args = %v", call[len(call)-2:])
	}
}

func TestMouthCues_CleansUpWorkDir(t *testing.T) {
	f := &fakeRunner{sheet: `{"mouthCues": [{"start": 0, "end": 1, "value": "A"}]}`}
	work := t.TempDir()
	p := New(WithWorkDir(work))
	p.run = f.run

	if _, err := p.MouthCues(context.Background(), tts.Silent().Data); err != nil {
		t.Fatalf("MouthCues: %v", err)
	}
	entries, _ := os.ReadDir(work)
	if len(entries) != 0 {
		t.Errorf("work dir not cleaned: %v", entries)
	}
}

func TestMouthCues_NonWAV(t *testing.T) {
	f := &fakeRunner{sheet: `{"mouthCues": [{"start": 0, "end": 1, "value": "A"}]}`}

	p := newTestProvider(t, f)
	if _, err := p.MouthCues(context.Background(), []byte("ID3mp3data")); !errors.Is(err, ErrNotWAV) {
		t.Fatalf("err = %v, want ErrNotWAV", err)
	}

	p = newTestProvider(t, f, WithFFmpeg("/usr/bin/ffmpeg"))
	if _, err := p.MouthCues(context.Background(), []byte("ID3mp3data")); err != nil {
		t.Fatalf("MouthCues with ffmpeg: %v", err)
	}
	if len(f.calls) != 2 || f.calls[0][0] != "/usr/bin/ffmpeg" {
		t.Fatalf("calls = %v", f.calls)
	}
	if filepath.Ext(f.calls[0][len(f.calls[0])-1]) != ".wav" {
		t.Errorf("ffmpeg output = %q, want .wav", f.calls[0][len(f.calls[0])-1])
	}
}

func TestMouthCues_Errors(t *testing.T) {
	tests := []struct {
		name  string
		f     *fakeRunner
		audio []byte
	}{
		{"empty audio", &fakeRunner{}, nil},
		{"command fails", &fakeRunner{err: errors.New("exit status 1")}, tts.Silent().Data},
		{"bad json", &fakeRunner{sheet: `{`}, tts.Silent().Data},
		{"no cues", &fakeRunner{sheet: `{"mouthCues": []}`}, tts.Silent().Data},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, tt.f)
			if _, err := p.MouthCues(context.Background(), tt.audio); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReady_MissingBinary(t *testing.T) {
	p := New(WithBinary("definitely-not-a-rhubarb-binary"))
	if err := p.Ready(context.Background()); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
