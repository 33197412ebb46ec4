// Package rhubarb aligns mouth cues by running the Rhubarb Lip Sync command
// line tool on a temporary copy of each clip.
//
// Rhubarb only reads WAV and Ogg Vorbis. Clips in any other container are
// converted with ffmpeg first when an ffmpeg binary is configured.
//
//	p := rhubarb.New(rhubarb.WithBinary("./bin/rhubarb"))
//	cues, err := p.MouthCues(ctx, wav)
package rhubarb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/lipsync"
)

const (
	defaultBinary     = "rhubarb"
	defaultRecognizer = "phonetic"
	defaultTimeout    = 60 * time.Second
)

// ErrNotWAV is returned when the clip is not a RIFF/WAVE file and no ffmpeg
// binary is configured to convert it.
var ErrNotWAV = errors.New("rhubarb: audio is not WAV and ffmpeg is not configured")

var _ lipsync.Provider = (*Provider)(nil)

// runFunc executes name with args and returns its combined output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithBinary sets the rhubarb executable. Defaults to "rhubarb" on PATH.
func WithBinary(path string) Option {
	return func(p *Provider) {
		p.binary = path
	}
}

// WithRecognizer selects the rhubarb recognizer: "phonetic" (fast, language
// independent) or "pocketSphinx" (English only). Defaults to "phonetic".
func WithRecognizer(name string) Option {
	return func(p *Provider) {
		p.recognizer = name
	}
}

// WithFFmpeg enables conversion of non-WAV clips using the given binary.
func WithFFmpeg(path string) Option {
	return func(p *Provider) {
		p.ffmpeg = path
	}
}

// WithTimeout bounds each conversion and alignment run. Defaults to 60 s.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithWorkDir sets the parent directory for per-call scratch directories.
// Defaults to os.TempDir().
func WithWorkDir(dir string) Option {
	return func(p *Provider) {
		p.workDir = dir
	}
}

// Provider implements lipsync.Provider by shelling out to rhubarb.
type Provider struct {
	binary     string
	recognizer string
	ffmpeg     string
	timeout    time.Duration
	workDir    string
	run        runFunc
}

// New creates a Provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		binary:     defaultBinary,
		recognizer: defaultRecognizer,
		timeout:    defaultTimeout,
		run:        runCommand,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Ready reports whether the configured binaries can be found.
func (p *Provider) Ready(_ context.Context) error {
	if _, err := exec.LookPath(p.binary); err != nil {
		return fmt.Errorf("rhubarb: binary %q not found: %w", p.binary, err)
	}
	if p.ffmpeg != "" {
		if _, err := exec.LookPath(p.ffmpeg); err != nil {
			return fmt.Errorf("rhubarb: ffmpeg %q not found: %w", p.ffmpeg, err)
		}
	}
	return nil
}

// MouthCues writes audio to a scratch directory, runs rhubarb on it and
// decodes the JSON cue sheet.
func (p *Provider) MouthCues(ctx context.Context, audio []byte) ([]lipsync.Cue, error) {
	if len(audio) == 0 {
		return nil, errors.New("rhubarb: empty audio")
	}
	wav := isWAV(audio)
	if !wav && p.ffmpeg == "" {
		return nil, ErrNotWAV
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dir, err := os.MkdirTemp(p.workDir, "rhubarb-*")
	if err != nil {
		return nil, fmt.Errorf("rhubarb: create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "message.wav")
	if wav {
		if err := os.WriteFile(input, audio, 0o600); err != nil {
			return nil, fmt.Errorf("rhubarb: write audio: %w", err)
		}
	} else {
		src := filepath.Join(dir, "message.src")
		if err := os.WriteFile(src, audio, 0o600); err != nil {
			return nil, fmt.Errorf("rhubarb: write audio: %w", err)
		}
		if out, err := p.run(ctx, p.ffmpeg, "-y", "-i", src, input); err != nil {
			return nil, fmt.Errorf("rhubarb: ffmpeg convert: %w; out=%s", err, trimOutput(out))
		}
	}

	output := filepath.Join(dir, "message.json")
	out, err := p.run(ctx, p.binary, "-f", "json", "-o", output, input, "-r", p.recognizer)
	if err != nil {
		return nil, fmt.Errorf("rhubarb: run: %w; out=%s", err, trimOutput(out))
	}

	data, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("rhubarb: read cue sheet: %w", err)
	}
	return parseCueSheet(data)
}

// cueSheet is the subset of rhubarb's JSON export used here.
type cueSheet struct {
	MouthCues []lipsync.Cue `json:"mouthCues"`
}

func parseCueSheet(data []byte) ([]lipsync.Cue, error) {
	var sheet cueSheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("rhubarb: decode cue sheet: %w", err)
	}
	if len(sheet.MouthCues) == 0 {
		return nil, errors.New("rhubarb: cue sheet has no mouth cues")
	}
	return sheet.MouthCues, nil
}

func isWAV(b []byte) bool {
	return len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE"))
}

func trimOutput(out []byte) string {
	const limit = 512
	out = bytes.TrimSpace(out)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return string(out)
}
