package study

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/llm"
	llmmock "github.com/AbhiramValmeekam/adam-project/pkg/provider/llm/mock"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

var history = []types.ChatEntry{
	{Sender: types.SenderUser, Text: "What is a volcano?"},
	{Sender: types.SenderAI, Text: "A rupture in the crust."},
}

func newTutor(t *testing.T, p llm.Provider, opts ...Option) *Tutor {
	t.Helper()
	tu, err := New(p, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tu
}

func promptOf(t *testing.T, p *llmmock.Provider) string {
	t.Helper()
	calls := p.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 LLM call, got %d", len(calls))
	}
	return calls[0].Req.Messages[0].Content
}

// ---- New ----

func TestNew_NilProvider(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
}

// ---- Summarize ----

func TestSummarize(t *testing.T) {
	p := &llmmock.Provider{Responses: []string{"  A chat about volcanoes.  \n"}}
	got, err := newTutor(t, p).Summarize(context.Background(), history)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "A chat about volcanoes." {
		t.Errorf("summary = %q", got)
	}
	prompt := promptOf(t, p)
	if !strings.Contains(prompt, "User: What is a volcano?\nAI Assistant: A rupture in the crust.") {
		t.Errorf("prompt missing history:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "in a natural, readable format.") {
		t.Errorf("prompt has unexpected ending:\n%s", prompt)
	}
}

func TestSummarize_EmptyHistory(t *testing.T) {
	p := &llmmock.Provider{}
	got, err := newTutor(t, p).Summarize(context.Background(), nil)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != EmptySummary {
		t.Errorf("summary = %q, want %q", got, EmptySummary)
	}
	if len(p.Calls()) != 0 {
		t.Error("model must not be called for an empty history")
	}
}

func TestSummarize_ModelError(t *testing.T) {
	p := &llmmock.Provider{CompleteErr: errors.New("boom")}
	if _, err := newTutor(t, p).Summarize(context.Background(), history); err == nil {
		t.Fatal("expected error")
	}
}

// ---- GenerateTest ----

func TestGenerateTest(t *testing.T) {
	reply := "```json\n" + `{"testTitle": "Volcanoes", "questions": [
  {"id": 1, "question": "What is a volcano?", "options": [
    {"id": "A", "text": "A rupture in the crust"}, {"id": "B", "text": "A river"},
    {"id": "C", "text": "A cloud"}, {"id": "D", "text": "A tree"}],
   "correctAnswer": "a", "explanation": "By definition.", "topic": "geology"}]}` + "\n```"
	p := &llmmock.Provider{Responses: []string{reply}}

	test, err := newTutor(t, p).GenerateTest(context.Background(), history)
	if err != nil {
		t.Fatalf("GenerateTest: %v", err)
	}
	if test.TestTitle != "Volcanoes" || len(test.Questions) != 1 {
		t.Fatalf("test = %+v", test)
	}
	if test.Questions[0].CorrectAnswer != "A" {
		t.Errorf("correct answer = %q, want A", test.Questions[0].CorrectAnswer)
	}
	if !strings.Contains(promptOf(t, p), "Create exactly 5 multiple-choice questions") {
		t.Error("prompt missing question count")
	}
}

func TestGenerateTest_UnparseableReply(t *testing.T) {
	p := &llmmock.Provider{Responses: []string{"Sure! Here is your quiz..."}}
	test, err := newTutor(t, p).GenerateTest(context.Background(), history)
	if err != nil {
		t.Fatalf("GenerateTest: %v", err)
	}
	if test.TestTitle != DefaultTestTitle || len(test.Questions) != 0 {
		t.Errorf("test = %+v, want default", test)
	}
}

func TestGenerateTest_EmptyHistory(t *testing.T) {
	_, err := newTutor(t, &llmmock.Provider{}).GenerateTest(context.Background(), []types.ChatEntry{})
	if !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("err = %v, want ErrEmptyHistory", err)
	}
}

func TestGenerateTest_ModelError(t *testing.T) {
	p := &llmmock.Provider{CompleteErr: llm.ErrQuotaExceeded}
	_, err := newTutor(t, p).GenerateTest(context.Background(), history)
	if !errors.Is(err, llm.ErrQuotaExceeded) {
		t.Errorf("err = %v, want wrapped ErrQuotaExceeded", err)
	}
}

func TestGenerateTest_QuizModel(t *testing.T) {
	primary := &llmmock.Provider{}
	quiz := &llmmock.Provider{Responses: []string{`{"testTitle": "T", "questions": []}`}}
	if _, err := newTutor(t, primary, WithQuizModel(quiz)).GenerateTest(context.Background(), history); err != nil {
		t.Fatalf("GenerateTest: %v", err)
	}
	if len(primary.Calls()) != 0 || len(quiz.Calls()) != 1 {
		t.Errorf("calls primary=%d quiz=%d, want 0 and 1", len(primary.Calls()), len(quiz.Calls()))
	}
}

// ---- Feedback ----

func TestFeedback(t *testing.T) {
	p := &llmmock.Provider{Responses: []string{"Great work!"}}
	results := Grade(sampleTest(), []Answer{{QuestionID: 1, Answer: "C"}})

	got, err := newTutor(t, p).Feedback(context.Background(), results, history)
	if err != nil {
		t.Fatalf("Feedback: %v", err)
	}
	if got != "Great work!" {
		t.Errorf("feedback = %q", got)
	}
	prompt := promptOf(t, p)
	if !strings.Contains(prompt, "Test Results:\n{\n  \"testTitle\": \"Planets\",") {
		t.Errorf("prompt missing indented results:\n%s", prompt)
	}
	if !strings.Contains(prompt, "suitable for speech by an AI avatar") {
		t.Error("prompt missing speech instruction")
	}
}

func TestFeedback_UnencodableResults(t *testing.T) {
	p := &llmmock.Provider{}
	if _, err := newTutor(t, p).Feedback(context.Background(), make(chan int), history); err == nil {
		t.Fatal("expected encode error")
	}
	if len(p.Calls()) != 0 {
		t.Error("model must not be called")
	}
}
