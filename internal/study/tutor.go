// Package study implements the learning aids built on top of a conversation:
// a prose summary, a five-question multiple-choice retention test, grading
// of the user's answers, and personalized feedback on the graded result.
package study

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AbhiramValmeekam/adam-project/internal/observe"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/llm"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// ErrEmptyHistory is returned when a quiz is requested for an empty
// conversation.
var ErrEmptyHistory = errors.New("study: chat history is empty")

// EmptySummary is the summary of an empty conversation.
const EmptySummary = "The conversation is empty."

// Option is a functional option for configuring a Tutor.
type Option func(*Tutor)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tutor) {
		t.log = l
	}
}

// WithQuizModel uses p for test generation and feedback instead of the
// summary model. A cheaper model with a higher quota is usually enough.
func WithQuizModel(p llm.Provider) Option {
	return func(t *Tutor) {
		if p != nil {
			t.quizLLM = p
		}
	}
}

// Tutor produces summaries, tests and feedback. It is safe for concurrent
// use.
type Tutor struct {
	llm     llm.Provider
	quizLLM llm.Provider
	log     *slog.Logger
}

// New creates a Tutor backed by p.
func New(p llm.Provider, opts ...Option) (*Tutor, error) {
	if p == nil {
		return nil, errors.New("study: llm provider must not be nil")
	}
	t := &Tutor{llm: p, quizLLM: p}
	for _, o := range opts {
		o(t)
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	return t, nil
}

// Summarize returns a prose summary of history. An empty history yields
// [EmptySummary] without calling the model.
func (t *Tutor) Summarize(ctx context.Context, history []types.ChatEntry) (string, error) {
	if len(history) == 0 {
		return EmptySummary, nil
	}
	ctx, span := observe.StartSpan(ctx, observe.SpanStudySummarize)
	defer span.End()

	summary, err := llm.Prompt(ctx, t.llm, summaryPrompt(types.FormatHistory(history)))
	if err != nil {
		observe.SpanError(ctx, err)
		return "", fmt.Errorf("study: summarize: %w", err)
	}
	return summary, nil
}

// GenerateTest asks the model for a retention test about history. A reply
// that cannot be decoded yields [DefaultTest]; only model failures are
// returned as errors.
func (t *Tutor) GenerateTest(ctx context.Context, history []types.ChatEntry) (*RetentionTest, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}
	ctx, span := observe.StartSpan(ctx, observe.SpanStudyGenerateTest)
	defer span.End()

	raw, err := llm.Prompt(ctx, t.quizLLM, testPrompt(types.FormatHistory(history)))
	if err != nil {
		observe.SpanError(ctx, err)
		return nil, fmt.Errorf("study: generate test: %w", err)
	}
	test, err := parseTest(llm.StripCodeFence(raw))
	if err != nil {
		t.log.WarnContext(ctx, "retention test reply is not valid JSON, using default test",
			"err", err, "reply_len", len(raw))
		return DefaultTest(), nil
	}
	t.log.Debug("retention test generated", "title", test.TestTitle, "questions", len(test.Questions))
	return test, nil
}

// Feedback asks the model for spoken-style feedback on results, which is
// embedded in the prompt as indented JSON.
func (t *Tutor) Feedback(ctx context.Context, results any, history []types.ChatEntry) (string, error) {
	ctx, span := observe.StartSpan(ctx, observe.SpanStudyFeedback)
	defer span.End()

	encoded, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("study: encode results: %w", err)
	}
	feedback, err := llm.Prompt(ctx, t.quizLLM, feedbackPrompt(types.FormatHistory(history), string(encoded)))
	if err != nil {
		observe.SpanError(ctx, err)
		return "", fmt.Errorf("study: feedback: %w", err)
	}
	return feedback, nil
}

// ---- prompts ----

func summaryPrompt(history string) string {
	return `You are an intelligent AI assistant. Your task is to create a concise, informative summary of the conversation between a user and an AI assistant.

Please follow these guidelines:
1. Provide a clear overview of the main topics discussed
2. Highlight any important decisions, agreements, or conclusions reached
3. Mention any questions asked and answers provided
4. Keep the summary concise but comprehensive (2-4 paragraphs)
5. Use natural language and avoid technical jargon when possible
6. Focus on the key insights and takeaways from the conversation

Conversation History:
` + history + `

Please provide a summary of this conversation in a natural, readable format.`
}

func testPrompt(history string) string {
	var b strings.Builder
	b.WriteString(`You are an intelligent and knowledgeable educator who creates comprehensive retention tests.
Based on the conversation history provided below, create a test that assesses the user's understanding of the material discussed.

Conversation History:
`)
	b.WriteString(history)
	b.WriteString(`

Please follow these guidelines:
1. Create exactly 5 multiple-choice questions
2. Each question should have 4 options (A, B, C, D)
3. Clearly indicate the correct answer for each question
4. Make the questions challenging but fair, covering different aspects of the topics discussed
5. Include a mix of question types:
   - Factual recall questions
   - Conceptual understanding questions
   - Application-based questions
6. Provide detailed explanations for each answer
7. Format the response as valid JSON with the following structure:

{
  "testTitle": "A descriptive title for the test based on the conversation topics",
  "questions": [
    {
      "id": 1,
      "question": "Question text here",
      "options": [
        {"id": "A", "text": "Option A text"},
        {"id": "B", "text": "Option B text"},
        {"id": "C", "text": "Option C text"},
        {"id": "D", "text": "Option D text"}
      ],
      "correctAnswer": "A",
      "explanation": "Detailed explanation of why the answer is correct and why other options are incorrect",
      "topic": "The main topic this question addresses"
    }
  ]
}

Generate a comprehensive retention test based on the conversation history following this format exactly.`)
	return b.String()
}

func feedbackPrompt(history, results string) string {
	return `You are an intelligent and supportive educator who provides personalized feedback on test performance.
Based on the test results and conversation history provided below, give constructive feedback and specific improvement suggestions.

Conversation History:
` + history + `

Test Results:
` + results + `

Please provide:
1. Overall performance assessment with a score percentage
2. Specific areas of strength demonstrated by correct answers
3. Detailed analysis of mistakes and misconceptions revealed by incorrect answers
4. Personalized suggestions on how to improve in weak areas
5. Study techniques and strategies tailored to the user's learning patterns
6. Additional resources or topics to explore for deeper understanding
7. Encouraging closing remarks that motivate continued learning

Format your response in a natural, conversational way that would be suitable for speech by an AI avatar.
Be specific and actionable in your suggestions, referencing the actual topics discussed in the conversation.`
}
