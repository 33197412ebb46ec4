// Package types defines the shared types used across the avatar backend.
//
// These types are the common vocabulary between providers, the response
// assembler and the HTTP layer. Each package keeps its own domain types;
// only data that crosses package boundaries lives here.
package types

import "strings"

// Message is a single turn in an LLM conversation.
type Message struct {
	// Role is one of "system", "user" or "assistant".
	Role string

	// Content is the text content of the message.
	Content string
}

// Sender identifies who authored a chat-history entry sent by the client.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderAI     Sender = "ai"
	SenderSystem Sender = "system"
)

// ChatEntry is one line of the conversation history the browser keeps and
// posts back for summaries and retention tests.
type ChatEntry struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Speaker returns the label used when the entry is rendered into a prompt.
func (e ChatEntry) Speaker() string {
	switch e.Sender {
	case SenderUser:
		return "User"
	case SenderAI:
		return "AI Assistant"
	default:
		return "System"
	}
}

// FormatHistory renders entries as "Speaker: text" lines separated by a
// newline.
func FormatHistory(entries []ChatEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Speaker()+": "+e.Text)
	}
	return strings.Join(lines, "\n")
}

// VoiceProfile describes a synthesis voice offered to the client.
type VoiceProfile struct {
	// ID is the provider-specific voice identifier.
	ID string `json:"id"`

	// Name is a human-readable label.
	Name string `json:"name"`

	// Provider is the TTS backend that owns the voice (e.g., "elevenlabs", "coqui").
	Provider string `json:"provider,omitempty"`

	// Language is an optional BCP-47 tag or language name.
	Language string `json:"language,omitempty"`
}

// MouthCue is a single timed mouth shape used to drive avatar lip movement.
// Values follow the Rhubarb Lip Sync shape set (A–H, X).
type MouthCue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Value string  `json:"value"`
}

// LipSync wraps the mouth cues for one synthesized message.
type LipSync struct {
	MouthCues []MouthCue `json:"mouthCues"`
}
