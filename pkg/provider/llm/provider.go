// Package llm defines the Provider interface for Large Language Model backends.
//
// An LLM provider wraps a hosted or local model API (Gemini, OpenAI, a local
// Ollama instance, ...) and exposes a single blocking completion call. The
// avatar responder, the image phrase refiner and the study tools all talk to
// the model through this interface so none of them depend on a vendor SDK.
//
// Implementations must be safe for concurrent use.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// ErrQuotaExceeded is wrapped by providers when the backend rejects a request
// because the account's rate limit or quota is exhausted (HTTP 429).
var ErrQuotaExceeded = errors.New("llm: quota exceeded")

// Usage holds token accounting information returned by the LLM backend.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionRequest carries everything the LLM needs to produce a response.
// At minimum Messages must be non-empty.
type CompletionRequest struct {
	// Messages is the ordered conversation. The last message drives the reply.
	Messages []types.Message

	// SystemPrompt is an optional instruction sent ahead of Messages.
	SystemPrompt string

	// Temperature controls output randomness in the range [0.0, 2.0].
	// Zero means use the provider default.
	Temperature float64

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int
}

// CompletionResponse is returned by Complete.
type CompletionResponse struct {
	// Content is the full text of the model's reply.
	Content string

	// Usage contains token accounting for this request/response pair.
	Usage Usage
}

// Provider is the abstraction over any LLM backend.
type Provider interface {
	// Complete sends req to the model and waits for the full response.
	// Returns an error wrapping [ErrQuotaExceeded] when the backend reports
	// exhausted quota.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Prompt sends a single user message to p and returns the trimmed reply text.
func Prompt(ctx context.Context, p Provider, prompt string) (string, error) {
	resp, err := p.Complete(ctx, CompletionRequest{
		Messages: []types.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("llm: nil response")
	}
	return strings.TrimSpace(resp.Content), nil
}

// IsQuotaError reports whether err signals an exhausted rate limit or quota.
// Besides [ErrQuotaExceeded] it recognises the status text that vendor SDKs
// embed in their error messages.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "quota", "resource_exhausted", "rate limit"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// StripCodeFence removes a surrounding Markdown code fence (``` or
// ```json) from a model reply.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string on the opening line.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
