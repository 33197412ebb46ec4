package avatar

import (
	"strings"
	"unicode"
)

// Language is a reply language the avatar can speak.
type Language string

const (
	English Language = "english"
	Hindi   Language = "hindi"
	Telugu  Language = "telugu"
)

// ParseLanguage maps a client-supplied name or ISO 639-1 code to a Language.
// Anything unrecognised is English.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hindi", "hi":
		return Hindi
	case "telugu", "te":
		return Telugu
	default:
		return English
	}
}

// Code returns the ISO 639-1 code, used for speech providers.
func (l Language) Code() string {
	switch l {
	case Hindi:
		return "hi"
	case Telugu:
		return "te"
	default:
		return "en"
	}
}

var (
	devanagari = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0900, Hi: 0x097F, Stride: 1}}}
	telugu     = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0C00, Hi: 0x0C7F, Stride: 1}}}
)

// script returns the Unicode block replies in l must use, or nil when any
// script is acceptable.
func (l Language) script() *unicode.RangeTable {
	switch l {
	case Hindi:
		return devanagari
	case Telugu:
		return telugu
	default:
		return nil
	}
}

// UsesScript reports whether text contains at least one character of the
// script required for l. It is always true for English.
func (l Language) UsesScript(text string) bool {
	table := l.script()
	if table == nil {
		return true
	}
	return strings.IndexFunc(text, func(r rune) bool { return unicode.Is(table, r) }) >= 0
}

// fallbackText is the in-language apology that replaces a reply written in
// the wrong script.
func (l Language) fallbackText(question string) string {
	asked := strings.TrimSpace(question) != ""
	switch l {
	case Telugu:
		if asked {
			return "నమస్కారం! మీ ప్రశ్నకు సంబంధించి, నేను తెలుగులో సమాధానం ఇవ్వగలను. దయచేసి మీ ప్రశ్నను తెలుగులో అడగండి."
		}
		return "నమస్కారం! నేను తెలుగులో మాత్రమే ప్రతిస్పందించగలను. దయచేసి మీ ప్రశ్నను తెలుగులో అడగండి."
	case Hindi:
		if asked {
			return "नमस्ते! आपके प्रश्न के संबंध में, मैं हिंदी में उत्तर दे सकता हूं। कृपया अपना प्रश्न हिंदी में पूछें।"
		}
		return "नमस्ते! मैं केवल हिंदी में उत्तर दे सकता हूं। कृपया अपना प्रश्न हिंदी में पूछें।"
	default:
		return ""
	}
}
