package avatar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/llm"
)

var errNoMessages = errors.New("avatar: reply has no messages")

// replyShape is the JSON object the model is asked to produce.
type replyShape struct {
	Messages []struct {
		Text             *string `json:"text"`
		FacialExpression string  `json:"facialExpression"`
		Animation        string  `json:"animation"`
	} `json:"messages"`
}

// parseReply decodes a model reply into at most MaxMessages normalized
// messages. Every message must carry a text field.
func parseReply(raw string) ([]Message, error) {
	body := llm.StripCodeFence(raw)
	var shape replyShape
	if err := json.Unmarshal([]byte(body), &shape); err != nil {
		// Some models wrap the object in prose; retry on the outermost braces.
		start, end := strings.IndexByte(body, '{'), strings.LastIndexByte(body, '}')
		if start < 0 || end <= start {
			return nil, fmt.Errorf("avatar: decode reply: %w", err)
		}
		if err2 := json.Unmarshal([]byte(body[start:end+1]), &shape); err2 != nil {
			return nil, fmt.Errorf("avatar: decode reply: %w", err)
		}
	}
	if len(shape.Messages) == 0 {
		return nil, errNoMessages
	}
	if len(shape.Messages) > MaxMessages {
		shape.Messages = shape.Messages[:MaxMessages]
	}
	out := make([]Message, 0, len(shape.Messages))
	for i, m := range shape.Messages {
		if m.Text == nil {
			return nil, fmt.Errorf("avatar: message %d has no text", i)
		}
		msg := Message{
			Text:             *m.Text,
			FacialExpression: m.FacialExpression,
			Animation:        m.Animation,
		}
		msg.Normalize()
		out = append(out, msg)
	}
	return out, nil
}
