// Package stt defines the Provider interface for Speech-to-Text backends.
//
// An STT provider wraps a transcription service (e.g., Deepgram or a local
// whisper.cpp server) and turns one recorded utterance into text. The browser
// records the whole question before uploading it, so providers work on
// complete clips rather than live streams.
//
// Implementations must be safe for concurrent use.
package stt

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyAudio is returned when Transcribe is called without audio.
var ErrEmptyAudio = errors.New("stt: audio must not be empty")

// Config describes the uploaded clip and recognition hints.
type Config struct {
	// MimeType is the container of the clip (e.g., "audio/webm", "audio/wav").
	// An empty value lets the provider sniff the format.
	MimeType string

	// Language is the language tag for recognition (e.g., "en", "hi", "te").
	// An empty string uses the provider default.
	Language string
}

// Provider is the abstraction over any STT backend.
type Provider interface {
	// Transcribe returns the text spoken in audio. A clip with no recognisable
	// speech yields an empty string and a nil error.
	//
	// Returns an error if the service is unreachable, rejects the clip, or ctx
	// is cancelled.
	Transcribe(ctx context.Context, audio []byte, cfg Config) (string, error)
}

// FileName returns an upload file name whose extension matches mimeType.
func FileName(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(strings.ToLower(base)) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "audio.wav"
	case "audio/mpeg", "audio/mp3":
		return "audio.mp3"
	case "audio/ogg":
		return "audio.ogg"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "audio.m4a"
	default:
		return "audio.webm"
	}
}
