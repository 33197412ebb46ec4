package study

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultTestTitle names the empty test returned when the model's quiz cannot
// be decoded.
const DefaultTestTitle = "General Knowledge Test"

// QuestionID is a question number. It decodes from a JSON number or a
// numeric string, since models emit both.
type QuestionID int

// UnmarshalJSON implements json.Unmarshaler.
func (id *QuestionID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("study: question id %q: %w", b, err)
	}
	*id = QuestionID(n)
	return nil
}

// Choice is one lettered answer of a question.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a multiple-choice question.
type Question struct {
	ID            QuestionID `json:"id"`
	Question      string     `json:"question"`
	Options       []Choice   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Topic         string     `json:"topic"`
}

// RetentionTest is a quiz generated from a conversation.
type RetentionTest struct {
	TestTitle string     `json:"testTitle"`
	Questions []Question `json:"questions"`
}

// DefaultTest returns the empty fallback test.
func DefaultTest() *RetentionTest {
	return &RetentionTest{TestTitle: DefaultTestTitle, Questions: []Question{}}
}

// parseTest decodes a model reply into a RetentionTest and tidies it:
// option and answer letters are upper-cased, and questions without a
// usable id are numbered by position.
func parseTest(body string) (*RetentionTest, error) {
	var t RetentionTest
	if err := json.Unmarshal([]byte(body), &t); err != nil {
		return nil, fmt.Errorf("study: decode test: %w", err)
	}
	if t.Questions == nil {
		t.Questions = []Question{}
	}
	if strings.TrimSpace(t.TestTitle) == "" {
		t.TestTitle = DefaultTestTitle
	}
	seen := make(map[QuestionID]bool, len(t.Questions))
	for i := range t.Questions {
		q := &t.Questions[i]
		if q.ID <= 0 || seen[q.ID] {
			q.ID = QuestionID(i + 1)
		}
		seen[q.ID] = true
		q.CorrectAnswer = normalizeLetter(q.CorrectAnswer)
		for j := range q.Options {
			q.Options[j].ID = normalizeLetter(q.Options[j].ID)
		}
	}
	return &t, nil
}

func normalizeLetter(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
